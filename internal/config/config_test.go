package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/etc", cfg.Files.PasswdPath)
	assert.Equal(t, "passwd", cfg.Files.PasswdName)
	assert.Equal(t, "/etc", cfg.Files.GroupPath)
	assert.Equal(t, "group", cfg.Files.GroupName)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.UseMemoryJournal())
	assert.Equal(t, 256, cfg.Journal.MemorySize)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PASSWD_FILE_PATH", "/srv/etc")
	t.Setenv("GROUP_FILE_NAME", "group.test")
	t.Setenv("JOURNAL_DRIVER", "sqlite3")
	t.Setenv("JOURNAL_DSN", "file:events.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "/srv/etc", cfg.Files.PasswdPath)
	assert.Equal(t, "group.test", cfg.Files.GroupName)
	assert.False(t, cfg.UseMemoryJournal())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"empty passwd path", func(c *Config) { c.Files.PasswdPath = "" }},
		{"empty group path", func(c *Config) { c.Files.GroupPath = "" }},
		{"empty passwd name", func(c *Config) { c.Files.PasswdName = "" }},
		{"passwd name with separator", func(c *Config) { c.Files.PasswdName = "etc/passwd" }},
		{"group name with separator", func(c *Config) { c.Files.GroupName = "../group" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"unknown journal driver", func(c *Config) { c.Journal.Driver = "mysql" }},
		{"sql journal without dsn", func(c *Config) { c.Journal.Driver = "postgres" }},
		{"memory journal without capacity", func(c *Config) { c.Journal.MemorySize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
