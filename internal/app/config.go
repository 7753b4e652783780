package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds everything the service needs to talk to the workbook API and
// to authenticate inbound requests. It replaces process-wide mutable state:
// load it once in main and pass it down explicitly.
type Config struct {
	ClientID     string
	TenantID     string
	ClientSecret string
	AuthSecret   string
	GroupID      string
	DriveID      string
	WorkbookID   string
	WorkbookName string
	FirstRow     int
	Port         string
	Production   bool
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig reads the service configuration from the environment.
// Authentication data and at least one of the group/drive identifiers are
// required; everything else has a default.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ClientID:     os.Getenv("MS_CLIENT_ID"),
		TenantID:     os.Getenv("MS_TENANT_ID"),
		ClientSecret: os.Getenv("MS_CLIENT_SECRET"),
		AuthSecret:   os.Getenv("MS_AUTH_SECRET"),
		GroupID:      os.Getenv("MS_GROUP_ID"),
		DriveID:      os.Getenv("MS_DRIVE_ID"),
		WorkbookID:   os.Getenv("MS_WORKBOOK_ID"),
		WorkbookName: os.Getenv("MS_WORKBOOK_NAME"),
		Port:         GetEnvWithDefault("PORT", "5001"),
		Production:   os.Getenv("ENV") == "production",
	}

	if cfg.ClientID == "" || cfg.TenantID == "" || cfg.ClientSecret == "" || cfg.AuthSecret == "" {
		return nil, fmt.Errorf("no authentication data found in environment")
	}
	if cfg.GroupID == "" && cfg.DriveID == "" {
		return nil, fmt.Errorf("no drive data found in environment")
	}

	firstRow := GetEnvWithDefault("MS_FIRST_CASE_ROW", "9")
	row, err := strconv.Atoi(firstRow)
	if err != nil || row < 1 {
		return nil, fmt.Errorf("invalid MS_FIRST_CASE_ROW %q", firstRow)
	}
	cfg.FirstRow = row

	return cfg, nil
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
