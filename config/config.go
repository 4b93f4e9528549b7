package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"

	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	AppPort string `validate:"required,numeric"`
	AppMode string `validate:"oneof=debug release test"`
	AppEnv  string `validate:"oneof=development production test"`

	StoreDriver string `validate:"oneof=postgres mongo"`

	DBHost     string `validate:"required_if=StoreDriver postgres"`
	DBPort     string `validate:"required_if=StoreDriver postgres"`
	DBUser     string
	DBPassword string
	DBName     string `validate:"required"`
	DBSSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxConns int    `validate:"min=1"`

	MongoURI string `validate:"required_if=StoreDriver mongo"`
	MongoDB  string

	RedisEnabled  bool
	RedisHost     string `validate:"required_if=RedisEnabled true"`
	RedisPort     string `validate:"required_if=RedisEnabled true"`
	RedisPassword string
	RedisDB       int `validate:"min=0"`

	FrontendURL    string
	AllowedOrigins []string
	TrustedProxies []string

	RateLimitMax    int           `validate:"min=1"`
	RateLimitWindow time.Duration `validate:"min=1000000000"`

	SlowRequestThreshold time.Duration
	ShutdownTimeout      time.Duration `validate:"min=0"`
	MaxBodyBytes         int64         `validate:"min=1"`
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbName := getEnv("DB_NAME", "necx_messaging_app")

	return &Config{
		AppPort: getEnv("APP_PORT", getEnv("PORT", "4000")),
		AppMode: getEnv("APP_MODE", "debug"),
		AppEnv:  getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment)),

		StoreDriver: getEnv("STORE_DRIVER", StorePostgres),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     dbName,
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBMaxConns: getEnvAsInt("DB_MAX_CONNS", 10),

		MongoURI: getEnv("MONGODB_URI", ""),
		MongoDB:  getEnv("MONGODB_DB", dbName),

		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		SlowRequestThreshold: getEnvAsDuration("SLOW_REQUEST_THRESHOLD", time.Second),
		ShutdownTimeout:      getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		MaxBodyBytes:         int64(getEnvAsInt("MAX_BODY_BYTES", 10<<20)),
	}
}

// Validate checks the struct tags and returns the first failure in a readable form.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s failed on %q", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// CORSOrigins lists explicit origins in production, the local frontends otherwise.
func (c *Config) CORSOrigins() []string {
	if c.IsProduction() {
		return c.AllowedOrigins
	}
	return []string{c.FrontendURL, "http://localhost:3000"}
}

// PostgresDSN builds a connection URL with the credentials escaped.
func (c *Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return dsn.String()
}

func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
