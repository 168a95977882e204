// Package console wires configuration and shared dependencies for the alto
// CLI.
package console

import (
	"os"
	"path/filepath"
)

type Config struct {
	APIURL    string // Base URL of the Alto platform API
	StateDB   string // Path to the SQLite credential database
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (text, json) (default: text)
}

func LoadConfig() Config {
	return Config{
		APIURL:    getEnvOrDefault("ALTO_API_URL", "https://api.alto-ai.tech"),
		StateDB:   getEnvOrDefault("ALTO_STATE_DB", defaultStateDB()),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// defaultStateDB places the credential database under the user config dir,
// falling back to the working directory when none is resolvable.
func defaultStateDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "alto.db"
	}
	return filepath.Join(dir, "alto", "alto.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
