package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port string

	// Storage
	DBDriver string // mongo, mysql, postgres or sqlite
	DBURI    string
	DBName   string // database name for mongo

	// Auth
	TokenSecret     string
	GuardPolicyFile string

	// Events; publishing is disabled when KafkaBroker is empty.
	KafkaBroker string
	KafkaTopic  string

	// Product images; BaseURL defaults to http://localhost:<PORT>.
	UploadDir string
	BaseURL   string

	CORSOrigin string
	LogLevel   slog.Level
}

var supportedDrivers = map[string]bool{"mongo": true, "mysql": true, "postgres": true, "sqlite": true}

// Load reads the given .env files (".env" when none are given) into the
// process environment and builds a Config from it. A missing .env file is not
// an error; the process environment is used as is.
func Load(envFiles ...string) (*Config, error) {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Warn("could not load .env file, relying on process environment", "err", err)
	}

	// 1. --- Read Values ---
	cfg := &Config{
		Port:            getenv("PORT", "9000"),
		DBDriver:        strings.ToLower(getenv("DB_DRIVER", "mongo")),
		DBURI:           os.Getenv("DB_URI"),
		DBName:          getenv("DB_NAME", "reboot"),
		TokenSecret:     os.Getenv("ACCESS_TOKEN_SECRET"),
		GuardPolicyFile: os.Getenv("GUARD_POLICY_FILE"),
		KafkaBroker:     os.Getenv("KAFKA_BROKER"),
		KafkaTopic:      getenv("KAFKA_TOPIC", "orders.created"),
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		BaseURL:         os.Getenv("BASE_URL"),
		CORSOrigin:      getenv("CORS_ORIGIN", "*"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	// 2. --- Driver Defaults ---
	if cfg.DBURI == "" {
		switch cfg.DBDriver {
		case "mongo":
			cfg.DBURI = "mongodb://localhost:27017"
		case "sqlite":
			cfg.DBURI = "reboot.db"
		}
	}

	// 3. --- Validate ---
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or unsupported setting.
func (c *Config) Validate() error {
	if !supportedDrivers[c.DBDriver] {
		return fmt.Errorf("DB_DRIVER %q is not one of mongo, mysql, postgres, sqlite", c.DBDriver)
	}
	if c.DBURI == "" {
		return fmt.Errorf("DB_URI is required for driver %s", c.DBDriver)
	}
	if c.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
