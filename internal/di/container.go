package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/crypto"
	"github.com/ashestree87/socialize/internal/handler"
	"github.com/ashestree87/socialize/internal/lease"
	"github.com/ashestree87/socialize/internal/publisher"
	"github.com/ashestree87/socialize/internal/queue"
	"github.com/ashestree87/socialize/internal/repository"
	"github.com/ashestree87/socialize/internal/service"
	"github.com/ashestree87/socialize/internal/storage"
	"github.com/ashestree87/socialize/pkg/config"
	"github.com/ashestree87/socialize/pkg/database"
	"github.com/ashestree87/socialize/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *database.PostgresDB
	Redis   *redis.Client
	Storage storage.Driver
	Queue   queue.PublishQueue
	Lease   lease.Lease

	// Repositories
	TenantRepo   repository.TenantRepository
	UserRepo     repository.UserRepository
	RoleRepo     repository.RoleRepository
	PlatformRepo repository.PlatformRepository
	UploadRepo   repository.UploadRepository

	// Services
	AuthService     service.AuthService
	TenantService   service.TenantService
	RoleService     service.RoleService
	PlatformService service.PlatformService
	UploadService   service.UploadService

	// Handlers
	AuthHandler     *handler.AuthHandler
	TenantHandler   *handler.TenantHandler
	RoleHandler     *handler.RoleHandler
	PlatformHandler *handler.PlatformHandler
	UploadHandler   *handler.UploadHandler
	HealthHandler   *handler.HealthHandler
	FileHandler     *handler.FileHandler
}

// NewContainer builds the full dependency graph from configuration.
// Connections to Postgres and Redis are established eagerly so startup
// fails fast when infrastructure is unreachable.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	db, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	c.DB = db

	c.Redis = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Lease = lease.NewRedisLease(c.Redis)

	c.Storage, err = storage.NewDriver(ctx, &storage.Config{
		Driver:             cfg.Storage.Driver,
		BasePath:           cfg.Storage.UploadsPath,
		URLSecret:          cfg.Storage.URLSecret,
		AWSAccessKeyID:     cfg.Storage.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.Storage.AWSSecretAccessKey,
		AWSRegion:          cfg.Storage.AWSRegion,
		AWSBucket:          cfg.Storage.AWSBucket,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to init storage driver: %w", err)
	}

	if cfg.Kafka.Enabled {
		c.Queue, err = queue.NewKafkaQueue(queue.KafkaConfig{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.PublishTopic,
			ConsumerGroup: cfg.Kafka.ConsumerGroup,
			ClientID:      cfg.Kafka.ClientID,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to init kafka queue: %w", err)
		}
	} else {
		logger.Warn("kafka disabled, using in-process publish queue")
		c.Queue = queue.NewMemoryQueue(0)
	}

	encryptor, err := crypto.NewEncryptor(cfg.Crypto.CredentialsKey)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to init credential encryptor: %w", err)
	}

	// Repositories
	c.TenantRepo = repository.NewPostgresTenantRepository(db.Pool)
	c.UserRepo = repository.NewPostgresUserRepository(db.Pool)
	c.RoleRepo = repository.NewPostgresRoleRepository(db.Pool)
	c.PlatformRepo = repository.NewPostgresPlatformRepository(db.Pool)
	c.UploadRepo = repository.NewPostgresUploadRepository(db.Pool)

	// Publishers
	registry := publisher.NewRegistry()
	publisher.RegisterSimulated(registry)
	retryConfig := publisher.RetryConfig{
		MaxAttempts: cfg.Publish.MaxAttempts,
		BaseDelay:   cfg.Publish.BaseDelay,
		MaxDelay:    cfg.Publish.MaxDelay,
	}

	// Services
	c.AuthService = service.NewAuthService(c.UserRepo, c.RoleRepo, service.AuthConfig{
		JWTSecret:      cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
		Issuer:         cfg.JWT.Issuer,
	})
	c.TenantService = service.NewTenantService(c.TenantRepo)
	c.RoleService = service.NewRoleService(c.RoleRepo, c.UserRepo)
	c.PlatformService = service.NewPlatformService(c.PlatformRepo, c.UploadRepo, encryptor, c.Storage)
	c.UploadService = service.NewUploadService(
		c.UploadRepo, c.PlatformRepo, c.Storage, encryptor, c.Queue, c.Lease,
		registry, retryConfig,
		service.UploadConfig{
			MaxFileSize:  cfg.Upload.MaxFileSize,
			SignedURLTTL: cfg.Storage.SignedTTL,
			LeaseTTL:     cfg.Publish.LeaseTTL,
		},
	)

	// Handlers
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.TenantHandler = handler.NewTenantHandler(c.TenantService)
	c.RoleHandler = handler.NewRoleHandler(c.RoleService)
	c.PlatformHandler = handler.NewPlatformHandler(c.PlatformService)
	c.UploadHandler = handler.NewUploadHandler(c.UploadService, cfg.Upload.MaxFileSize)
	c.HealthHandler = handler.NewHealthHandler(map[string]func() error{
		"postgres": func() error { return db.Ping(context.Background()) },
		"redis":    func() error { return c.Redis.Ping(context.Background()).Err() },
	})
	if local, ok := c.Storage.(*storage.LocalDriver); ok {
		c.FileHandler = handler.NewFileHandler(local)
	}

	return c, nil
}

// RouterConfig returns the handler wiring for the HTTP router.
func (c *Container) RouterConfig() *handler.RouterConfig {
	return &handler.RouterConfig{
		JWTSecret: c.Config.JWT.Secret,
		Auth:      c.AuthHandler,
		Tenant:    c.TenantHandler,
		Role:      c.RoleHandler,
		Platform:  c.PlatformHandler,
		Upload:    c.UploadHandler,
		Health:    c.HealthHandler,
		File:      c.FileHandler,
	}
}

// Close releases infrastructure connections in reverse dependency order.
func (c *Container) Close() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("failed to close publish queue", zap.Error(err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis client", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
