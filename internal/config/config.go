package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Content ContentConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Auth    AuthConfig
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

// ContentConfig holds connection values for the hosted content store.
type ContentConfig struct {
	ProjectID      string
	Dataset        string
	APIVersion     string
	ReadToken      string
	WriteToken     string
	Endpoint       string
	TimeoutSeconds int
	UseCDN         bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CacheTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication and signup parameters. Admin
// credentials and the signup secret are injected here once at startup
// rather than read from the environment at call time.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	AdminEmail            string
	AdminPassword         string
	SignupToken           string
	MaxUsers              int
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
			Name:                  getEnv("APP_NAME", "media-library-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Content: ContentConfig{
			ProjectID:      os.Getenv("CONTENT_PROJECT_ID"),
			Dataset:        getEnv("CONTENT_DATASET", "production"),
			APIVersion:     getEnv("CONTENT_API_VERSION", "2024-01-01"),
			ReadToken:      os.Getenv("CONTENT_API_READ_TOKEN"),
			WriteToken:     os.Getenv("CONTENT_API_WRITE_TOKEN"),
			Endpoint:       os.Getenv("CONTENT_ENDPOINT"),
			TimeoutSeconds: getEnvAsInt("CONTENT_TIMEOUT_SECONDS", 5),
			UseCDN:         getEnvAsBool("CONTENT_USE_CDN", false),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			CacheTTLSeconds: getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
			AdminEmail:            os.Getenv("ADMIN_EMAIL"),
			AdminPassword:         os.Getenv("ADMIN_PASSWORD_PLAINTEXT"),
			SignupToken:           os.Getenv("SIGNUP_SECRET_TOKEN"),
			MaxUsers:              getEnvAsInt("SIGNUP_MAX_USERS", 2),
		},
	}

	return cfg, nil
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

// Timeout bounds a single content store call.
func (c ContentConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the catalog cache entry lifetime.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
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
