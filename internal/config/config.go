package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory = "memory"
	DriverExcel  = "excel"
	DriverMongo  = "mongo"
)

var ErrBadDriver = errors.New("unknown store driver")

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	StoreDriver  string
	WorkbookPath string
	MongoURI     string
	MongoDB      string

	HTTPTimeout      time.Duration
	MonthWindow      int
	SnapshotSchedule string // cron spec; empty disables the job

	SinkURL    string
	SinkSecret string
}

// Load reads the given .env files (or ./.env) into the environment, then
// builds the config from it. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

func FromEnv() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreDriver:      getEnv("STORE_DRIVER", DriverMemory),
		WorkbookPath:     getEnv("WORKBOOK_PATH", "leadpane.xlsx"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "leadpane"),
		HTTPTimeout:      getSecondsEnv("HTTP_TIMEOUT_SECONDS", 15*time.Second),
		MonthWindow:      getIntEnv("MONTH_WINDOW", 6),
		SnapshotSchedule: os.Getenv("SNAPSHOT_SCHEDULE"),
		SinkURL:          os.Getenv("SINK_URL"),
		SinkSecret:       os.Getenv("SINK_SECRET"),
	}
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverExcel, DriverMongo:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrBadDriver, c.StoreDriver)
}

func (c Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getSecondsEnv accepts a bare number of seconds or a Go duration.
func getSecondsEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value + "s"); err == nil {
		return d
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}
