package models

import "gorm.io/gorm"

// SettingColdThresholdHours is the staleness cutoff, stored as an integer
// string between 1 and 720.
const SettingColdThresholdHours = "cold_case_threshold_hours"

const DefaultColdThresholdHours = 48

type Setting struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value string `gorm:"size:255;not null" json:"value"`
}
