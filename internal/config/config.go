package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	Files   FilesConfig
	Log     LogConfig
	Journal JournalConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// FilesConfig locates the passwd and group files. Each path is the directory
// that gets watched; each name is the file inside it.
type FilesConfig struct {
	PasswdPath string `env:"PASSWD_FILE_PATH" envDefault:"/etc"`
	PasswdName string `env:"PASSWD_FILE_NAME" envDefault:"passwd"`
	GroupPath  string `env:"GROUP_FILE_PATH" envDefault:"/etc"`
	GroupName  string `env:"GROUP_FILE_NAME" envDefault:"group"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// JournalConfig selects where parse events are recorded. An empty driver
// keeps them in memory.
type JournalConfig struct {
	Driver     string `env:"JOURNAL_DRIVER"`
	DSN        string `env:"JOURNAL_DSN"`
	MemorySize int    `env:"JOURNAL_MEMORY_SIZE" envDefault:"256"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Files); err != nil {
		return nil, fmt.Errorf("parsing files config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}
	if err := env.Parse(&cfg.Journal); err != nil {
		return nil, fmt.Errorf("parsing journal config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Files.PasswdPath == "" {
		return fmt.Errorf("PASSWD_FILE_PATH is required")
	}
	if c.Files.GroupPath == "" {
		return fmt.Errorf("GROUP_FILE_PATH is required")
	}
	if err := validateFileName("PASSWD_FILE_NAME", c.Files.PasswdName); err != nil {
		return err
	}
	if err := validateFileName("GROUP_FILE_NAME", c.Files.GroupName); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}

	switch c.Journal.Driver {
	case "":
		if c.Journal.MemorySize < 1 {
			return fmt.Errorf("JOURNAL_MEMORY_SIZE must be positive")
		}
	case "sqlite3", "postgres":
		if c.Journal.DSN == "" {
			return fmt.Errorf("JOURNAL_DSN is required when JOURNAL_DRIVER is %s", c.Journal.Driver)
		}
	default:
		return fmt.Errorf("JOURNAL_DRIVER must be empty, sqlite3 or postgres")
	}

	return nil
}

// UseMemoryJournal returns true if parse events stay in process memory.
func (c *Config) UseMemoryJournal() bool {
	return c.Journal.Driver == ""
}

func validateFileName(key, name string) error {
	if name == "" {
		return fmt.Errorf("%s is required", key)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%s must be a file name, not a path", key)
	}
	return nil
}
