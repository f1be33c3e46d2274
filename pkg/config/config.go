package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Crypto   CryptoConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Publish  PublishConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka connection settings for the publish queue
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	PublishTopic  string
	ConsumerGroup string
	ClientID      string
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

// CryptoConfig holds encryption settings for stored credentials
type CryptoConfig struct {
	CredentialsKey string
}

// StorageConfig holds file storage settings
type StorageConfig struct {
	Driver      string // local, s3
	UploadsPath string // local driver base path
	URLSecret   string // local driver signed URL key
	SignedTTL   time.Duration

	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string
}

// UploadConfig holds content upload constraints
type UploadConfig struct {
	MaxFileSize int64 // bytes
}

// PublishConfig holds publish worker settings
type PublishConfig struct {
	Workers     int
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	LeaseTTL    time.Duration
	StepTimeout time.Duration
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	return LoadWithPath(".env")
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	// The .env file is optional, env vars may carry everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			_ = err
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "socialize")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "socialize")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_CONNS", 25)
	v.SetDefault("DATABASE_MIN_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 50)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 5)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_PUBLISH_TOPIC", "content.publish")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "socialize-publish")
	v.SetDefault("KAFKA_CLIENT_ID", "socialize")

	// JWT defaults
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("JWT_ISSUER", "socialize")

	// Crypto defaults
	v.SetDefault("CRYPTO_CREDENTIALS_KEY", "change-me-credentials-key")

	// Storage defaults
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_UPLOADS_PATH", "./storage/uploads")
	v.SetDefault("STORAGE_URL_SECRET", "change-me-url-secret")
	v.SetDefault("STORAGE_SIGNED_TTL", "15m")
	v.SetDefault("STORAGE_AWS_REGION", "us-east-1")

	// Upload defaults (100 MB)
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 100*1024*1024)

	// Publish defaults
	v.SetDefault("PUBLISH_WORKERS", 4)
	v.SetDefault("PUBLISH_MAX_ATTEMPTS", 3)
	v.SetDefault("PUBLISH_BASE_DELAY", "500ms")
	v.SetDefault("PUBLISH_MAX_DELAY", "30s")
	v.SetDefault("PUBLISH_LEASE_TTL", "2m")
	v.SetDefault("PUBLISH_STEP_TIMEOUT", "60s")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// Database
	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxConns = v.GetInt32("DATABASE_MAX_CONNS")
	cfg.Database.MinConns = v.GetInt32("DATABASE_MIN_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")
	cfg.Database.ConnMaxIdleTime = v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	// Kafka
	cfg.Kafka.Enabled = v.GetBool("KAFKA_ENABLED")
	cfg.Kafka.Brokers = strings.Split(v.GetString("KAFKA_BROKERS"), ",")
	cfg.Kafka.PublishTopic = v.GetString("KAFKA_PUBLISH_TOPIC")
	cfg.Kafka.ConsumerGroup = v.GetString("KAFKA_CONSUMER_GROUP")
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")

	// JWT
	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.AccessTokenTTL = v.GetDuration("JWT_ACCESS_TOKEN_TTL")
	cfg.JWT.Issuer = v.GetString("JWT_ISSUER")

	// Crypto
	cfg.Crypto.CredentialsKey = v.GetString("CRYPTO_CREDENTIALS_KEY")

	// Storage
	cfg.Storage.Driver = v.GetString("STORAGE_DRIVER")
	cfg.Storage.UploadsPath = v.GetString("STORAGE_UPLOADS_PATH")
	cfg.Storage.URLSecret = v.GetString("STORAGE_URL_SECRET")
	cfg.Storage.SignedTTL = v.GetDuration("STORAGE_SIGNED_TTL")
	cfg.Storage.AWSAccessKeyID = v.GetString("STORAGE_AWS_ACCESS_KEY_ID")
	cfg.Storage.AWSSecretAccessKey = v.GetString("STORAGE_AWS_SECRET_ACCESS_KEY")
	cfg.Storage.AWSRegion = v.GetString("STORAGE_AWS_REGION")
	cfg.Storage.AWSBucket = v.GetString("STORAGE_AWS_BUCKET")

	// Upload
	cfg.Upload.MaxFileSize = v.GetInt64("UPLOAD_MAX_FILE_SIZE")

	// Publish
	cfg.Publish.Workers = v.GetInt("PUBLISH_WORKERS")
	cfg.Publish.MaxAttempts = v.GetInt("PUBLISH_MAX_ATTEMPTS")
	cfg.Publish.BaseDelay = v.GetDuration("PUBLISH_BASE_DELAY")
	cfg.Publish.MaxDelay = v.GetDuration("PUBLISH_MAX_DELAY")
	cfg.Publish.LeaseTTL = v.GetDuration("PUBLISH_LEASE_TTL")
	cfg.Publish.StepTimeout = v.GetDuration("PUBLISH_STEP_TIMEOUT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.App.Environment == "production" && c.JWT.Secret == "change-me-in-production" {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.App.Environment == "production" && c.Crypto.CredentialsKey == "change-me-credentials-key" {
		return fmt.Errorf("credentials encryption key must be changed in production")
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("invalid max file size: %d", c.Upload.MaxFileSize)
	}

	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
