package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuing and password hashing parameters.
type AuthConfig struct {
	Issuer          string
	Audience        string
	ValidForMinutes int
	SigningMethod   string
	JWTSecret       string
	PrivateKeyPath  string
	LeewaySeconds   int
	JTIStrategy     string
	JTIRedisKey     string
	BcryptCost      int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "file-management-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Issuer:          getEnv("AUTH_JWT_ISSUER", "FileManagement"),
			Audience:        getEnv("AUTH_JWT_AUDIENCE", "http://localhost:5000/"),
			ValidForMinutes: getEnvAsInt("AUTH_JWT_VALID_FOR_MINUTES", 120),
			SigningMethod:   getEnv("AUTH_JWT_SIGNING_METHOD", "HS256"),
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret-change-me-please-0123456789"),
			PrivateKeyPath:  os.Getenv("AUTH_JWT_PRIVATE_KEY_PATH"),
			LeewaySeconds:   getEnvAsInt("AUTH_JWT_LEEWAY_SECONDS", 0),
			JTIStrategy:     getEnv("AUTH_JTI_STRATEGY", "uuid"),
			JTIRedisKey:     getEnv("AUTH_JTI_REDIS_KEY", "auth:jti"),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid value in the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	if c.Auth.ValidForMinutes <= 0 {
		errs = append(errs, fmt.Errorf("AUTH_JWT_VALID_FOR_MINUTES must be positive, got %d", c.Auth.ValidForMinutes))
	}
	if c.Auth.SigningMethod == "" {
		errs = append(errs, errors.New("AUTH_JWT_SIGNING_METHOD is required"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.PrivateKeyPath == "" {
		errs = append(errs, errors.New("one of AUTH_JWT_SECRET or AUTH_JWT_PRIVATE_KEY_PATH is required"))
	}
	if c.Auth.LeewaySeconds < 0 {
		errs = append(errs, errors.New("AUTH_JWT_LEEWAY_SECONDS must not be negative"))
	}
	switch strings.ToLower(c.Auth.JTIStrategy) {
	case "uuid", "ulid", "redis":
	default:
		errs = append(errs, fmt.Errorf("AUTH_JTI_STRATEGY must be one of uuid, ulid, redis, got %q", c.Auth.JTIStrategy))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ValidFor returns the lifetime of issued access tokens.
func (a AuthConfig) ValidFor() time.Duration {
	return time.Duration(a.ValidForMinutes) * time.Minute
}

// Leeway returns the clock skew tolerated when verifying tokens.
func (a AuthConfig) Leeway() time.Duration {
	return time.Duration(a.LeewaySeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
