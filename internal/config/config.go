package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver             string
	DBPath               string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPassword           string
	DBName               string
	StorageBackend       string
	MongoURI             string
	MongoDatabase        string
	SessionStore         string
	RedisHost            string
	RedisPort            string
	SessionSecret        string
	GinMode              string
	Port                 string
	AuthMode             string
	AdminEmail           string
	AdminPassword        string
	OverdueCheckInterval time.Duration
	LogLevel             string
	LogFile              string
	OpenAIAPIKey         string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:             getEnv("DB_DRIVER", "sqlite"),
		DBPath:               getEnv("DB_PATH", "officedesk.db"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBUser:               getEnv("DB_USER", "officedesk"),
		DBPassword:           getEnv("DB_PASSWORD", "officedesk"),
		DBName:               getEnv("DB_NAME", "officedesk"),
		StorageBackend:       getEnv("STORAGE_BACKEND", "sql"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnv("MONGO_DATABASE", "officedesk"),
		SessionStore:         getEnv("SESSION_STORE", "cookie"),
		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		SessionSecret:        getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		Port:                 getEnv("PORT", "8080"),
		AuthMode:             getEnv("AUTH_MODE", "password"),
		AdminEmail:           getEnv("ADMIN_EMAIL", "admin@officedesk.local"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "admin12345"),
		OverdueCheckInterval: getDuration("OVERDUE_CHECK_INTERVAL", time.Hour),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              getEnv("LOG_FILE", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
