package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"spgovern/database"
	"spgovern/domain/directory"
	"spgovern/domain/governance"
	"spgovern/logging"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Database    database.Config
	Logging     *logging.Config
	Conventions directory.Conventions
	Traversal   governance.TraversalRules
	// UITheme is an operator display preference, read once at startup and
	// handed to the front-end verbatim.
	UITheme string
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
		Conventions: LoadConventionsFromEnv(),
		Traversal: governance.TraversalRules{
			RootContainer:   getEnvWithDefault("REPORT_ROOT_CONTAINER", "General"),
			NestedContainer: getEnvWithDefault("REPORT_NESTED_CONTAINER", "Compartilha"),
		},
		UITheme: getEnvWithDefault("UI_THEME", "dark"),
	}
}

// LoadDatabaseConfigFromEnv loads journal database configuration.
func LoadDatabaseConfigFromEnv() database.Config {
	return database.Config{
		Path:            getEnvWithDefault("DB_PATH", "./spgovern.db"),
		MaxOpenConns:    getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		BusyTimeoutMs:   getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableWAL:       getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

// LoadConventionsFromEnv loads the governance naming conventions.
func LoadConventionsFromEnv() directory.Conventions {
	defaults := directory.DefaultConventions()
	conventions := directory.Conventions{
		GovernancePrefix: getEnvWithDefault("GOVERNANCE_PREFIX", defaults.GovernancePrefix),
		WriteMarker:      getEnvWithDefault("GOVERNANCE_WRITE_MARKER", defaults.WriteMarker),
		AmbientMarkers:   defaults.AmbientMarkers,
	}
	if raw := os.Getenv("GOVERNANCE_AMBIENT_MARKERS"); raw != "" {
		var markers []string
		for _, marker := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(marker); trimmed != "" {
				markers = append(markers, trimmed)
			}
		}
		if len(markers) > 0 {
			conventions.AmbientMarkers = markers
		}
	}
	return conventions
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
