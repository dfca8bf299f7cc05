package config

import (
	"os"
	"path/filepath"
	"testing"

	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
http_port: 8181
placeholder: "n/a"
delete_policy: restrict
database:
  driver: postgres
  host: db.local
  name: zoo
  user: keeper
kafka:
  brokers: ["k1:9092"]
export:
  driver: s3
  s3:
    bucket: zoo-reports
    path_style: true
`)
	t.Setenv("ZOO_HTTP_PORT", "9999")
	t.Setenv("ZOO_DB_PASSWORD", "secret")
	t.Setenv("ZOO_KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort, "missing keys keep defaults")
	assert.Equal(t, "n/a", cfg.Placeholder)
	assert.Equal(t, models.DeleteRestrict, cfg.DeletePolicy)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "zoo.changes", cfg.Kafka.Topic)
	assert.Equal(t, "zoo-reports", cfg.Export.S3.Bucket)
	assert.True(t, cfg.Export.S3.PathStyle)

	dbCfg := cfg.DB(zaptest.NewLogger(t))
	assert.Equal(t, "zoo", dbCfg.DBName)
	assert.Equal(t, models.DeleteRestrict, dbCfg.DeletePolicy)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "http_port: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"delete policy", func(c *Config) { c.DeletePolicy = "cascade" }},
		{"database driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"sqlite driver", func(c *Config) { c.Database.SQLiteDriver = "sqlcipher" }},
		{"postgres host", func(c *Config) { c.Database.Driver = "postgres" }},
		{"export driver", func(c *Config) { c.Export.Driver = "ftp" }},
		{"s3 bucket", func(c *Config) { c.Export.Driver = ExportS3 }},
		{"kafka topic", func(c *Config) { c.Kafka.Brokers = []string{"k:9092"}; c.Kafka.Topic = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), e.ErrInvalidInput)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestPath(t *testing.T) {
	assert.Equal(t, "custom.yaml", Path("custom.yaml"))
	t.Setenv("ZOO_CONFIG", "/etc/zoo.yaml")
	assert.Equal(t, "/etc/zoo.yaml", Path(""))
	t.Setenv("ZOO_CONFIG", "")
	assert.Equal(t, ConfigPath, Path(""))
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "debug"
	logger, err = cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
}
