package models

import "gorm.io/gorm"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUW         Role = "uw"
	RoleOperations Role = "operations"
	RoleTelecaller Role = "telecaller"
	RoleKAM        Role = "kam"
	RoleBanker     Role = "banker"
	RoleIndividual Role = "individual"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUW, RoleOperations, RoleTelecaller, RoleKAM, RoleBanker, RoleIndividual:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`
	FullName     string `gorm:"size:255" json:"fullName"`
}
