package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBPath             string
	SecretKey          string
	Timezone           string
	SyncSchedule       string
	GoogleClientID     string
	GoogleClientSecret string
	ProviderTimeout    time.Duration
}

// Load reads an optional .env file, then the environment. Missing values
// fall back to development defaults; the provider client credentials have no
// default and stay empty until configured.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: skipping .env: %v", err)
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "data/stride.db"),
		SecretKey:          getEnv("SECRET_KEY", "change_me_in_production"),
		Timezone:           getEnv("TZ", "UTC"),
		SyncSchedule:       getEnv("SYNC_SCHEDULE", "0 0 * * *"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		ProviderTimeout:    getEnvSeconds("PROVIDER_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvSeconds(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("config: invalid %s=%q, using %ds", key, raw, fallback)
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(parsed) * time.Second
}
