package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DatabaseURLEnv is the environment variable for the database connection string.
	DatabaseURLEnv = "DATABASE_URL"

	// PGSSLEnv is the environment variable toggling TLS for the database connection.
	PGSSLEnv = "PGSSL"

	// DBMaxOpenConnsEnv is the environment variable for the connection pool size.
	DBMaxOpenConnsEnv = "DB_MAX_OPEN_CONNS"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// LowStockThresholdEnv is the environment variable for the quantity at or below
	// which the notification service warns about a product.
	LowStockThresholdEnv = "LOW_STOCK_THRESHOLD"

	defaultHTTPServerPort    = "80"
	defaultMetricsServerPort = "9090"
	defaultDBMaxOpenConns    = "10"
	defaultLowStockThreshold = "0"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	AWS           AWSConfig
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region            string
	Endpoint          string
	SQSQueueURL       string
	LowStockThreshold int64
}

// NotificationsEnabled reports whether product changes are published to SQS.
func (a AWSConfig) NotificationsEnabled() bool {
	return a.SQSQueueURL != ""
}

// DB represents database configuration settings.
type DB struct {
	URL          string
	SSL          bool
	MaxOpenConns string
}

// DSN returns the connection string with the sslmode derived from SSL,
// unless the URL already names one.
func (d DB) DSN() string {
	mode := "require"
	if !d.SSL {
		mode = "disable"
	}

	u, err := url.Parse(d.URL)
	if err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", mode)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	// keyword/value form
	if strings.Contains(d.URL, "sslmode=") {
		return d.URL
	}
	return strings.TrimSpace(d.URL + " sslmode=" + mode)
}

// MaxOpenConnections returns the pool size as a number.
func (d DB) MaxOpenConnections() int {
	n, err := strconv.Atoi(d.MaxOpenConns)
	if err != nil {
		return 0
	}
	return n
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := allNonEmpty(map[string]string{
		DatabaseURLEnv: c.Database.URL,
	}); err != nil {
		return fmt.Errorf("database configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
		DBMaxOpenConnsEnv:    c.Database.MaxOpenConns,
	}); err != nil {
		return fmt.Errorf("invalid number: %w", err)
	}

	if c.AWS.NotificationsEnabled() {
		if err := allNonEmpty(map[string]string{
			AWSRegionEnv: c.AWS.Region,
		}); err != nil {
			return fmt.Errorf("AWS configuration incomplete: %w", err)
		}
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyDefaultEnvFile() {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}
}

func loadAWSConfig() AWSConfig {
	return AWSConfig{
		Region:      os.Getenv(AWSRegionEnv),
		Endpoint:    os.Getenv(AWSEndpointEnv),
		SQSQueueURL: os.Getenv(SQSQueueURLEnv),
	}
}

// LoadAWSFromEnv loads only the queue settings, for processes that never touch the database.
// Both the region and the queue URL are required. LOW_STOCK_THRESHOLD defaults to 0.
func LoadAWSFromEnv() (*AWSConfig, error) {
	applyDefaultEnvFile()

	conf := loadAWSConfig()
	if err := allNonEmpty(map[string]string{
		AWSRegionEnv:   conf.Region,
		SQSQueueURLEnv: conf.SQSQueueURL,
	}); err != nil {
		return nil, fmt.Errorf("AWS configuration incomplete: %w", err)
	}

	threshold := getEnv(LowStockThresholdEnv, defaultLowStockThreshold)
	if err := allNumbers(map[string]string{LowStockThresholdEnv: threshold}); err != nil {
		return nil, err
	}
	conf.LowStockThreshold, _ = strconv.ParseInt(threshold, 10, 64)
	return &conf, nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Database: DB{
			URL:          os.Getenv(DatabaseURLEnv),
			SSL:          getEnvAsBool(PGSSLEnv, true),
			MaxOpenConns: getEnv(DBMaxOpenConnsEnv, defaultDBMaxOpenConns),
		},
		HTTPServer: Server{
			Port: getEnv(HTTPServerPortEnv, defaultHTTPServerPort),
		},
		MetricsServer: Server{
			Port: getEnv(MetricsServerPortEnv, defaultMetricsServerPort),
		},
		AWS: loadAWSConfig(),
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
