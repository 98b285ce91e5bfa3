package database

import (
	"log/slog"
	"os"
	"time"

	"loanflow/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string, defaultColdThresholdHours int) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		slog.Info("connecting to database", "attempt", i, "max", maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			slog.Info("connected to database")
			break
		}

		slog.Warn("database connection failed", "error", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		slog.Error("giving up connecting to database", "attempts", maxAttempts, "error", err)
		os.Exit(1)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.ProductRequirement{},
		&models.Assignment{},
		&models.BankAssignment{},
		&models.CaseComment{},
		&models.CaseDocument{},
		&models.Setting{},
		&models.AuditLog{},
	)
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	seedSettings(defaultColdThresholdHours)
	createDefaultAdmin()
	seedDefaultUsers()
}

// admin comes only from env/config, never from the register endpoint
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@loanflow.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		slog.Warn("failed to check admin user", "error", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Warn("failed to hash default admin password", "error", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FullName:     "Administrator",
	}

	if err := DB.Create(&admin).Error; err != nil {
		slog.Warn("failed to create default admin", "error", err)
		return
	}

	slog.Info("created default admin user", "username", username)
}

// a demo account per operational role
func seedDefaultUsers() {
	type seedUser struct {
		Username string
		Password string
		Role     models.Role
		FullName string
	}

	users := []seedUser{
		{Username: "telecaller@loanflow.local", Password: "Tele123!", Role: models.RoleTelecaller, FullName: "Demo Telecaller"},
		{Username: "kam@loanflow.local", Password: "Kam123!", Role: models.RoleKAM, FullName: "Demo KAM"},
		{Username: "ops@loanflow.local", Password: "Ops123!", Role: models.RoleOperations, FullName: "Demo Operations"},
		{Username: "uw@loanflow.local", Password: "Uw123!", Role: models.RoleUW, FullName: "Demo Underwriter"},
		{Username: "banker@loanflow.local", Password: "Bank123!", Role: models.RoleBanker, FullName: "Demo Banker"},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			slog.Warn("failed to check seed user", "username", u.Username, "error", err)
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Warn("failed to hash seed password", "username", u.Username, "error", err)
			continue
		}

		user := models.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			FullName:     u.FullName,
		}

		if err := DB.Create(&user).Error; err != nil {
			slog.Warn("failed to create seed user", "username", u.Username, "error", err)
			continue
		}

		slog.Info("created seed user", "username", u.Username, "role", u.Role)
	}
}
