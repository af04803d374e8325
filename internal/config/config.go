package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	APIBaseURL     string        `envconfig:"API_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	JournalPath string `envconfig:"JOURNAL_PATH"`

	Usuario string `envconfig:"USUARIO"`
	Senha   string `envconfig:"SENHA"`

	MockListenAddress string        `envconfig:"MOCK_LISTEN_ADDRESS" default:":8080"`
	MockTokenTTL      time.Duration `envconfig:"MOCK_TOKEN_TTL" default:"1h"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	config := new(Config)
	if err := envconfig.Process("bp", config); err != nil {
		return nil, err
	}

	if config.LogFile == "" || config.JournalPath == "" {
		dir, err := DataDir()
		if err != nil {
			return nil, err
		}
		if config.LogFile == "" {
			config.LogFile = filepath.Join(dir, "blogpessoal.log")
		}
		if config.JournalPath == "" {
			config.JournalPath = filepath.Join(dir, "journal.duckdb")
		}
	}
	return config, nil
}

// DataDir returns the per-user directory holding the log file and the journal
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".blogpessoal"), nil
}
