package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the placeholder secret; production refuses to start with it
const DefaultJWTSecret = "change-this-in-production"

// Supported DB_DRIVER values
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Password   PasswordConfig
	RateLimit  RateLimitConfig
	BruteForce BruteForceConfig
	Payment    PaymentConfig
	Outbox     OutboxConfig
	Seed       EmployeeSeedConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	RequestTimeout time.Duration
	AllowedOrigin  string
}

// DatabaseConfig holds relational database configuration
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// URL returns the postgres connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret         string
	CustomerExpiry time.Duration
	EmployeeExpiry time.Duration
}

// PasswordConfig holds password hashing and policy settings
type PasswordConfig struct {
	MinLength      int
	RequireSpecial bool
	BcryptCost     int
}

// RateLimitConfig holds the request limiter windows
type RateLimitConfig struct {
	GlobalMax    int
	GlobalWindow time.Duration
	UserMax      int
	UserWindow   time.Duration
}

// BruteForceConfig holds login throttling settings
type BruteForceConfig struct {
	MaxFailures int
	Window      time.Duration
}

// PaymentConfig holds payment workflow settings
type PaymentConfig struct {
	AllowRetransition bool
	RetryAttempts     int
	RetryBackoff      time.Duration
}

// OutboxConfig holds the notification outbox worker settings
type OutboxConfig struct {
	Interval  time.Duration
	BatchSize int
}

// EmployeeSeedConfig provides defaults for portalctl seed-employee
type EmployeeSeedConfig struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 10*time.Second),
			AllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvAsInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "payportal"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "payportal.db"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "payportal"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", DefaultJWTSecret),
			CustomerExpiry: getEnvAsDuration("JWT_CUSTOMER_EXPIRY", 20*time.Minute),
			EmployeeExpiry: getEnvAsDuration("JWT_EMPLOYEE_EXPIRY", 30*time.Minute),
		},
		Password: PasswordConfig{
			MinLength:      getEnvAsInt("PASSWORD_MIN_LENGTH", 8),
			RequireSpecial: getEnvAsBool("PASSWORD_REQUIRE_SPECIAL", false),
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			GlobalMax:    getEnvAsInt("RATE_LIMIT_GLOBAL_MAX", 100),
			GlobalWindow: getEnvAsDuration("RATE_LIMIT_GLOBAL_WINDOW", 15*time.Minute),
			UserMax:      getEnvAsInt("RATE_LIMIT_USER_MAX", 50),
			UserWindow:   getEnvAsDuration("RATE_LIMIT_USER_WINDOW", 15*time.Minute),
		},
		BruteForce: BruteForceConfig{
			MaxFailures: getEnvAsInt("BRUTE_FORCE_MAX_FAILURES", 10),
			Window:      getEnvAsDuration("BRUTE_FORCE_WINDOW", 3*time.Minute),
		},
		Payment: PaymentConfig{
			AllowRetransition: getEnvAsBool("PAYMENT_ALLOW_RETRANSITION", false),
			RetryAttempts:     getEnvAsInt("STORE_RETRY_ATTEMPTS", 3),
			RetryBackoff:      getEnvAsDuration("STORE_RETRY_BACKOFF", 50*time.Millisecond),
		},
		Outbox: OutboxConfig{
			Interval:  getEnvAsDuration("OUTBOX_INTERVAL", 30*time.Second),
			BatchSize: getEnvAsInt("OUTBOX_BATCH_SIZE", 100),
		},
		Seed: EmployeeSeedConfig{
			Username:  getEnv("EMPLOYEE_SEED_USERNAME", ""),
			Password:  getEnv("EMPLOYEE_SEED_PASSWORD", ""),
			FirstName: getEnv("EMPLOYEE_SEED_FIRST_NAME", ""),
			LastName:  getEnv("EMPLOYEE_SEED_LAST_NAME", ""),
			Role:      getEnv("EMPLOYEE_SEED_ROLE", ""),
		},
	}
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && c.JWT.Secret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWT.CustomerExpiry <= 0 || c.JWT.EmployeeExpiry <= 0 {
		errs = append(errs, errors.New("token expiry must be positive"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_REQUEST_TIMEOUT must be positive"))
	}
	if c.Payment.RetryAttempts < 0 {
		errs = append(errs, errors.New("STORE_RETRY_ATTEMPTS must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
