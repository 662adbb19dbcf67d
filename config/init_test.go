package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
}

func TestLoadDefaults(t *testing.T) {
	writeConfig(t, "server:\n  http_port: \"9090\"\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, "/rc_car", cfg.Server.BasePath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadEnvOverride(t *testing.T) {
	writeConfig(t, "database:\n  driver: sqlite\n  dsn: rc.db\n")
	t.Setenv("LOGS_LEVEL", "debug")
	t.Setenv("DATABASE_DSN", "other.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "other.db", cfg.Database.DSN)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"bad driver":   "database:\n  driver: oracle\n  dsn: x\n",
		"missing dsn":  "database:\n  driver: mysql\n",
		"bad basepath": "server:\n  base_path: rc_car\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			writeConfig(t, body)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadConnectionFileOnly(t *testing.T) {
	writeConfig(t, "database:\n  driver: mysql\n  connection_file: /etc/rc/connection.json\n")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/rc/connection.json", cfg.Database.ConnectionFile)
}
