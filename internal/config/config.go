package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"loanflow/internal/models"
)

type Config struct {
	DBDSN              string
	ServerPort         string
	SessionSecret      string
	ColdThresholdHours int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:              os.Getenv("DB_DSN"),
		ServerPort:         os.Getenv("SERVER_PORT"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		ColdThresholdHours: models.DefaultColdThresholdHours,
	}

	if v := os.Getenv("COLD_CASE_THRESHOLD_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 720 {
			log.Fatalf("COLD_CASE_THRESHOLD_HOURS must be an integer between 1 and 720, got %q", v)
		}
		cfg.ColdThresholdHours = n
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	return cfg
}
