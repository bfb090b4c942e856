package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	QueueBackendRedis    = "redis"
	QueueBackendPostgres = "postgres"
	QueueBackendSQLite   = "sqlite"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Queue      QueueConfig
	DeadLetter DeadLetterConfig
	Alerting   AlertingConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Analyzer   AnalyzerConfig
	Sandbox    SandboxConfig
	Security   SecurityConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	LogLevel         string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

type RedisConfig struct {
	Host             string
	Port             string
	Password         string
	DB               int
	MaxRetries       int
	DialTimeout      time.Duration
	ErrorLogInterval time.Duration
	KeyPrefix        string
}

type QueueConfig struct {
	Backend           string
	SQLitePath        string
	PollInterval      time.Duration
	DefaultAttempts   int
	DefaultBackoff    time.Duration
	WorkerConcurrency int
	Sandboxed         bool
	WaitPollInterval  time.Duration
}

type DeadLetterConfig struct {
	FailureThreshold  int
	FailureWindow     time.Duration
	MaxFailureRecords int
	CleanupInterval   time.Duration
	KeepCompleted     int
	KeepFailed        int
	EventConcurrency  int
}

type AlertingConfig struct {
	MetricAllowList    []string
	MetricLogThreshold float64
	WebhookURL         string
	WebhookTimeout     time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type JWTConfig struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
	Issuer     string
}

type AnalyzerConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type SandboxConfig struct {
	Binary     string
	FlushDelay time.Duration
	JobTimeout time.Duration
}

type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load builds the configuration from the environment. It returns an error
// instead of exiting so the caller decides how to report it.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Host:             getEnv("REDIS_HOST", "localhost"),
			Port:             getEnv("REDIS_PORT", "6379"),
			Password:         os.Getenv("REDIS_PASSWORD"),
			DB:               getIntEnv("REDIS_DB", 0),
			MaxRetries:       getIntEnv("REDIS_MAX_RETRIES", 3),
			DialTimeout:      getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ErrorLogInterval: getDurationEnv("REDIS_ERROR_LOG_INTERVAL", 30*time.Second),
			KeyPrefix:        getEnv("REDIS_KEY_PREFIX", "aq:"),
		},
		Queue: QueueConfig{
			Backend:           getEnv("QUEUE_BACKEND", QueueBackendRedis),
			SQLitePath:        getEnv("QUEUE_SQLITE_PATH", "queues.db"),
			PollInterval:      getDurationEnv("QUEUE_POLL_INTERVAL", time.Second),
			DefaultAttempts:   getIntEnv("QUEUE_DEFAULT_ATTEMPTS", 3),
			DefaultBackoff:    getDurationEnv("QUEUE_DEFAULT_BACKOFF", 5*time.Second),
			WorkerConcurrency: getIntEnv("WORKER_CONCURRENCY", 2),
			Sandboxed:         getBoolEnv("WORKER_SANDBOXED", true),
			WaitPollInterval:  getDurationEnv("QUEUE_WAIT_POLL_INTERVAL", 2*time.Second),
		},
		DeadLetter: DeadLetterConfig{
			FailureThreshold:  getIntEnv("DLQ_FAILURE_THRESHOLD", 10),
			FailureWindow:     getDurationEnv("DLQ_FAILURE_WINDOW", 5*time.Minute),
			MaxFailureRecords: getIntEnv("DLQ_MAX_FAILURE_RECORDS", 1000),
			CleanupInterval:   getDurationEnv("DLQ_CLEANUP_INTERVAL", 10*time.Minute),
			KeepCompleted:     getIntEnv("DLQ_KEEP_COMPLETED", 1000),
			KeepFailed:        getIntEnv("DLQ_KEEP_FAILED", 5000),
			EventConcurrency:  getIntEnv("DLQ_EVENT_CONCURRENCY", 8),
		},
		Alerting: AlertingConfig{
			MetricAllowList:    getListEnv("ALERT_METRIC_ALLOWLIST", []string{"failure", "error", "timeout", "dead_letter", "alert"}),
			MetricLogThreshold: getFloatEnv("ALERT_METRIC_LOG_THRESHOLD", 1000),
			WebhookURL:         os.Getenv("ALERT_WEBHOOK_URL"),
			WebhookTimeout:     getDurationEnv("ALERT_WEBHOOK_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "analyzer"),
			Password:        getEnv("DB_PASSWORD", "analyzer"),
			Name:            getEnv("DB_NAME", "analyzer_queues"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Issuer: getEnv("JWT_ISSUER", "analyzer-dashboard"),
		},
		Analyzer: AnalyzerConfig{
			BaseURL: getEnv("ANALYZER_API_URL", "http://localhost:3001/api/v1"),
			APIKey:  os.Getenv("ANALYZER_API_KEY"),
			Timeout: getDurationEnv("ANALYZER_API_TIMEOUT", 2*time.Minute),
		},
		Sandbox: SandboxConfig{
			Binary:     os.Getenv("SANDBOX_BINARY"),
			FlushDelay: getDurationEnv("SANDBOX_FLUSH_DELAY", 100*time.Millisecond),
			JobTimeout: getDurationEnv("SANDBOX_JOB_TIMEOUT", 30*time.Minute),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 40),
		},
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	switch config.Queue.Backend {
	case QueueBackendRedis, QueueBackendPostgres, QueueBackendSQLite:
	default:
		return nil, fmt.Errorf("unsupported QUEUE_BACKEND %q", config.Queue.Backend)
	}

	var err error
	config.JWT.PrivateKey, config.JWT.PublicKey, err = config.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load RSA keys: %w", err)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL returns the postgres:// form used by the migration driver.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := strings.Split(value, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadJWTKeys loads the RSA keys used to verify operator tokens.
// Priority order:
// 1. JWT_PUBLIC_KEY (and optionally JWT_PRIVATE_KEY) from the environment
// 2. Production without JWT_PUBLIC_KEY is an error
// 3. Development/testing without keys generates a throwaway keypair
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyB64 := os.Getenv("JWT_PRIVATE_KEY")
	publicKeyB64 := os.Getenv("JWT_PUBLIC_KEY")

	if publicKeyB64 != "" {
		slog.Info("loading operator token keys from environment variables")
		return c.loadKeysFromEnvVars(privateKeyB64, publicKeyB64)
	}

	if c.IsProduction() {
		return nil, nil, fmt.Errorf("JWT_PUBLIC_KEY environment variable must be set in production environments")
	}

	slog.Warn("no JWT_PUBLIC_KEY configured, generating a development keypair")
	return GenerateRSAKeyPair()
}

// loadKeysFromEnvVars decodes base64 PEM keys. The private key is optional.
func (c *Config) loadKeysFromEnvVars(privateKeyB64, publicKeyB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	publicKey, err := loadRSAPublicKey(publicKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	if privateKeyB64 == "" {
		return nil, publicKey, nil
	}

	privateKeyBytes, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}

	privateKey, err := loadRSAPrivateKey(privateKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return privateKey, publicKey, nil
}

func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production, defaulting to '*'")
		}
		return []string{"*"}
	}

	return getListEnv("CORS_ALLOW_ORIGINS", []string{"*"})
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

func loadRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return privateKey, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}

	return rsaKey, nil
}

func loadRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
