package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ProfilesDir string
	// RunsDB is a SQLite path or a postgres:// DSN. Empty disables run history.
	RunsDB    string
	LogLevel  string
	BindAddr  string
	Delimiter string
	Seed      string
}

// Load reads CSVANON_* variables. A .env file in the working directory fills
// in variables that are not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ProfilesDir: getEnv("CSVANON_PROFILES_DIR", "./profiles"),
		RunsDB:      getEnv("CSVANON_RUNS_DB", ""),
		LogLevel:    getEnv("CSVANON_LOG_LEVEL", "info"),
		BindAddr:    getEnv("CSVANON_BIND_ADDR", ":8080"),
		Delimiter:   getEnv("CSVANON_DELIMITER", ","),
		Seed:        getEnv("CSVANON_SEED", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
