package database

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"loanflow/internal/lifecycle"
	"loanflow/internal/models"
)

// settings are read constantly by the staleness views, so the cold
// threshold is cached in-process and refreshed on every write.
var (
	settingsMu         sync.RWMutex
	coldThresholdHours int
)

func seedSettings(defaultColdThresholdHours int) {
	var s models.Setting
	err := DB.Where("key = ?", models.SettingColdThresholdHours).First(&s).Error
	if err != nil {
		s = models.Setting{
			Key:   models.SettingColdThresholdHours,
			Value: strconv.Itoa(defaultColdThresholdHours),
		}
		if err := DB.Create(&s).Error; err != nil {
			slog.Warn("failed to seed settings", "error", err)
		}
	}

	n, err := strconv.Atoi(s.Value)
	if err != nil || n < 1 || n > 720 {
		slog.Warn("stored cold threshold is invalid, using default",
			"value", s.Value, "default", defaultColdThresholdHours)
		n = defaultColdThresholdHours
	}

	settingsMu.Lock()
	coldThresholdHours = n
	settingsMu.Unlock()
}

func ColdThresholdHours() int {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return coldThresholdHours
}

func AllSettings() ([]models.Setting, error) {
	var settings []models.Setting
	err := DB.Order("key asc").Find(&settings).Error
	return settings, err
}

// UpdateSetting writes one key and hot-reloads the cache. The cold
// threshold is guarded to 1–720 hours at write time.
func UpdateSetting(key, value string) error {
	if key != models.SettingColdThresholdHours {
		return fmt.Errorf("%w: unknown setting %q", lifecycle.ErrConfiguration, key)
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 720 {
		return fmt.Errorf("%w: %s must be an integer between 1 and 720", lifecycle.ErrConfiguration, key)
	}

	res := DB.Model(&models.Setting{}).Where("key = ?", key).Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := DB.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
			return err
		}
	}

	settingsMu.Lock()
	coldThresholdHours = n
	settingsMu.Unlock()
	return nil
}
