package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	TelegramToken string

	// Storage configuration
	StoreBackend string // "postgres", "redis", or "memory"
	DatabaseURL  string
	RedisAddr    string

	// Admin configuration
	AdminIDs []int64 // user IDs allowed to run admin commands

	// Admin HTTP API
	AdminListenAddr string
	AdminUsername   string
	AdminPassword   string

	// Environment
	Environment string // "development", "production", or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading a .env file first
// if one exists.
func load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		StoreBackend:    os.Getenv("STORE_BACKEND"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		AdminListenAddr: os.Getenv("ADMIN_LISTEN_ADDR"),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		Environment:     os.Getenv("ENVIRONMENT"),
	}

	// Parse admin user IDs
	if adminIDs := os.Getenv("ADMIN_IDS"); adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", idStr, err)
			}
			config.AdminIDs = append(config.AdminIDs, id)
		}
	}

	if config.StoreBackend == "" {
		config.StoreBackend = "memory"
	}
	if config.RedisAddr == "" {
		config.RedisAddr = "localhost:6379"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
		}
		if config.StoreBackend == "postgres" && config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	}

	switch config.StoreBackend {
	case "postgres", "redis", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", config.StoreBackend)
	}

	return config, nil
}
