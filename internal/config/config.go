package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Placeholder images the storefront used before uploads existed.
const (
	defaultProductImage     = "https://cdn.poehali.dev/projects/1520ee67-781a-4c81-9461-1408dd1371d4/files/f3823cc6-8828-47c5-a632-815bebf2c15b.jpg"
	defaultProductNewsImage = "https://cdn.poehali.dev/projects/1520ee67-781a-4c81-9461-1408dd1371d4/files/de87fc6d-36e1-4cf1-b311-cb80aa891102.jpg"
	defaultNewsImage        = "/placeholder.svg"
)

// Config holds all application configuration.
type Config struct {
	ServiceName string
	Port        string
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	RateLimit   RateLimitConfig
	Content     ContentConfig
	Admin       AdminConfig
}

type DatabaseConfig struct {
	Driver         string // mysql or sqlite3
	DSN            string // overrides everything below when set
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	Path           string // sqlite3 file
	ConnectRetries int
	AutoMigrate    bool
}

// RedisConfig enables idempotency keys on order creation when Addr is set.
type RedisConfig struct {
	Addr           string
	Password       string
	IdempotencyTTL time.Duration
}

// KafkaConfig enables order events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// RateLimitConfig is disabled when Rate is zero.
type RateLimitConfig struct {
	Rate      float64
	Burst     int
	ExpiresIn time.Duration
}

type ContentConfig struct {
	NewsLimit        int
	ProductImage     string
	ProductNewsImage string
	NewsImage        string
}

// AdminConfig bootstraps the first admin account on startup.
type AdminConfig struct {
	Username string
	Password string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	retries, err := getEnvInt("DB_CONNECT_RETRIES", 10)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}
	newsLimit, err := getEnvInt("NEWS_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	rate, err := getEnvFloat("RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_BURST", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "storefront-service"),
		Port:        getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Driver:         getEnv("DB_DRIVER", DriverMySQL),
			DSN:            getEnv("DB_DSN", ""),
			Host:           getEnv("DB_HOST", "127.0.0.1"),
			Port:           getEnv("DB_PORT", "3306"),
			User:           getEnv("DB_USER", "root"),
			Password:       getEnv("DB_PASS", ""),
			Name:           getEnv("DB_NAME", "storefront"),
			Path:           getEnv("DB_PATH", "storefront.db"),
			ConnectRetries: retries,
			AutoMigrate:    autoMigrate,
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			IdempotencyTTL: ttl,
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order-topic"),
		},
		RateLimit: RateLimitConfig{
			Rate:      rate,
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		},
		Content: ContentConfig{
			NewsLimit:        newsLimit,
			ProductImage:     getEnv("PRODUCT_IMAGE_PLACEHOLDER", defaultProductImage),
			ProductNewsImage: getEnv("PRODUCT_NEWS_IMAGE_PLACEHOLDER", defaultProductNewsImage),
			NewsImage:        getEnv("NEWS_IMAGE_PLACEHOLDER", defaultNewsImage),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Content.NewsLimit < 0 {
		return nil, fmt.Errorf("NEWS_LIMIT must not be negative")
	}
	if (cfg.Admin.Username == "") != (cfg.Admin.Password == "") {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// DataSourceName builds the driver-specific DSN.
func (c DatabaseConfig) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverSQLite {
		return c.Path
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	db := c.Database.Path
	if c.Database.Driver == DriverMySQL {
		db = fmt.Sprintf("%s@%s:%s/%s", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)
	}
	return fmt.Sprintf("Config{Service: %s, Port: %s, DB: %s %s, Redis: %t, Kafka: %t, Auth: *** (masked) ***}",
		c.ServiceName, c.Port, c.Database.Driver, db, c.Redis.Addr != "", len(c.Kafka.Brokers) > 0)
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
