// Package config loads the zoo registry settings from a YAML file overlaid
// with environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/gartstein/zoo/internal/zoo/db"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	"github.com/gartstein/zoo/internal/zoo/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ConfigPath is used when neither -config nor ZOO_CONFIG is given.
const ConfigPath = "config.yaml"

const (
	ExportFS = "fs"
	ExportS3 = "s3"
)

type Config struct {
	LogLevel     string              `yaml:"log_level"`
	HTTPPort     int                 `yaml:"http_port"`
	GRPCPort     int                 `yaml:"grpc_port"`
	JWTSecret    string              `yaml:"jwt_secret"`
	Placeholder  string              `yaml:"placeholder"`
	DeletePolicy models.DeletePolicy `yaml:"delete_policy"`
	Database     Database            `yaml:"database"`
	Kafka        Kafka               `yaml:"kafka"`
	Export       Export              `yaml:"export"`
}

type Database struct {
	Driver         string `yaml:"driver"`
	SQLitePath     string `yaml:"sqlite_path"`
	SQLiteDriver   string `yaml:"sqlite_driver"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	SSLMode        string `yaml:"sslmode"`
	MaxOpenConns   int    `yaml:"max_open_conns"`
	ConnectRetries uint64 `yaml:"connect_retries"`
}

// Kafka is optional; with no brokers change events are discarded.
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Export struct {
	Driver string `yaml:"driver"`
	FSRoot string `yaml:"fs_root"`
	S3     S3     `yaml:"s3"`
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the settings used for keys missing from the file.
func Default() Config {
	return Config{
		LogLevel:     "info",
		HTTPPort:     8080,
		GRPCPort:     9090,
		DeletePolicy: models.DeleteKeep,
		Database: Database{
			Driver:         db.DriverSQLite,
			SQLitePath:     "zoo.db",
			SQLiteDriver:   db.SQLiteDriverCgo,
			Port:           5432,
			SSLMode:        "disable",
			MaxOpenConns:   10,
			ConnectRetries: 5,
		},
		Kafka: Kafka{Topic: "zoo.changes"},
		Export: Export{
			Driver: ExportFS,
			FSRoot: "exports",
			S3:     S3{Region: "us-east-1"},
		},
	}
}

// Path resolves the config file location from the flag value and ZOO_CONFIG.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("ZOO_CONFIG"); v != "" {
		return v
	}
	return ConfigPath
}

// Load reads config from path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("ZOO_LOG_LEVEL", &cfg.LogLevel)
	num("ZOO_HTTP_PORT", &cfg.HTTPPort)
	num("ZOO_GRPC_PORT", &cfg.GRPCPort)
	str("ZOO_JWT_SECRET", &cfg.JWTSecret)
	str("ZOO_PLACEHOLDER", &cfg.Placeholder)
	if v := os.Getenv("ZOO_DELETE_POLICY"); v != "" {
		cfg.DeletePolicy = models.DeletePolicy(v)
	}

	str("ZOO_DB_DRIVER", &cfg.Database.Driver)
	str("ZOO_DB_SQLITE_PATH", &cfg.Database.SQLitePath)
	str("ZOO_DB_SQLITE_DRIVER", &cfg.Database.SQLiteDriver)
	str("ZOO_DB_HOST", &cfg.Database.Host)
	num("ZOO_DB_PORT", &cfg.Database.Port)
	str("ZOO_DB_USER", &cfg.Database.User)
	str("ZOO_DB_PASSWORD", &cfg.Database.Password)
	str("ZOO_DB_NAME", &cfg.Database.Name)
	str("ZOO_DB_SSLMODE", &cfg.Database.SSLMode)
	num("ZOO_DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	if v := os.Getenv("ZOO_DB_CONNECT_RETRIES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Database.ConnectRetries = n
		}
	}

	if v := os.Getenv("ZOO_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	str("ZOO_KAFKA_TOPIC", &cfg.Kafka.Topic)

	str("ZOO_EXPORT_DRIVER", &cfg.Export.Driver)
	str("ZOO_EXPORT_FS_ROOT", &cfg.Export.FSRoot)
	str("ZOO_EXPORT_S3_BUCKET", &cfg.Export.S3.Bucket)
	str("ZOO_EXPORT_S3_REGION", &cfg.Export.S3.Region)
	str("ZOO_EXPORT_S3_ENDPOINT", &cfg.Export.S3.Endpoint)
	if v := os.Getenv("ZOO_EXPORT_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Export.S3.PathStyle = b
		}
	}
	str("ZOO_EXPORT_S3_ACCESS_KEY_ID", &cfg.Export.S3.AccessKeyID)
	str("ZOO_EXPORT_S3_SECRET_ACCESS_KEY", &cfg.Export.S3.SecretAccessKey)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects unknown drivers, levels and policies.
func (c *Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", e.ErrInvalidInput, c.LogLevel)
	}
	if !c.DeletePolicy.Valid() {
		return fmt.Errorf("%w: delete_policy %q", e.ErrInvalidInput, c.DeletePolicy)
	}
	switch c.Database.Driver {
	case db.DriverSQLite:
		if c.Database.SQLiteDriver != db.SQLiteDriverCgo && c.Database.SQLiteDriver != db.SQLiteDriverPure {
			return fmt.Errorf("%w: database.sqlite_driver %q", e.ErrInvalidInput, c.Database.SQLiteDriver)
		}
	case db.DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("%w: postgres needs database.host and database.name", e.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: database.driver %q", e.ErrInvalidInput, c.Database.Driver)
	}
	switch c.Export.Driver {
	case ExportFS:
	case ExportS3:
		if c.Export.S3.Bucket == "" {
			return fmt.Errorf("%w: export.s3.bucket is required", e.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: export.driver %q", e.ErrInvalidInput, c.Export.Driver)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("%w: kafka.topic is required with brokers", e.ErrInvalidInput)
	}
	return nil
}

// DB converts the database section into repository settings.
func (c *Config) DB(logger *zap.Logger) *db.Config {
	return &db.Config{
		Driver:         c.Database.Driver,
		SQLitePath:     c.Database.SQLitePath,
		SQLiteDriver:   c.Database.SQLiteDriver,
		Host:           c.Database.Host,
		Port:           c.Database.Port,
		User:           c.Database.User,
		Password:       c.Database.Password,
		DBName:         c.Database.Name,
		SSLMode:        c.Database.SSLMode,
		MaxOpenConns:   c.Database.MaxOpenConns,
		ConnectRetries: c.Database.ConnectRetries,
		DeletePolicy:   c.DeletePolicy,
		Logger:         logger,
	}
}

// NewLogger builds the process logger: development output for debug,
// production JSON otherwise, at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if level.Level() == zap.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
