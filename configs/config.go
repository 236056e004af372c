package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Cart      CartConfig
	Cache     CacheConfig
	Square    SquareConfig
	CMS       CMSConfig
	Events    EventsConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

// Storage backends accepted by CART_STORAGE and CACHE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type CartConfig struct {
	Storage       string // memory, redis or postgres
	StorageKey    string // prefix of the per-session storage key
	TTL           time.Duration
	SessionCookie string
	SessionHeader string
	MaxSessions   int
	SessionIdle   time.Duration
}

type CacheConfig struct {
	Backend      string // memory or redis
	Prefix       string
	DefaultTTL   time.Duration
	CatalogTTL   time.Duration
	InventoryTTL time.Duration
	ContentTTL   time.Duration
}

type SquareConfig struct {
	BaseURL     string
	AccessToken string
	LocationID  string
	Version     string
	Currency    string
	Timeout     time.Duration
	// Circuit breaker
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
}

type CMSConfig struct {
	GraphQLURL string
	APIKey     string
	Timeout    time.Duration
}

type EventsConfig struct {
	AMQPURL   string // empty disables publishing
	CartQueue string
	// QueueSize is how many events may wait for the broker before new ones are dropped.
	QueueSize int
}

type RateLimitConfig struct {
	DefaultRequestsPerMinute int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:4321"}),
			Environment:    getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "skateshop"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Cart: CartConfig{
			Storage:       getEnv("CART_STORAGE", BackendMemory),
			StorageKey:    getEnv("CART_STORAGE_KEY", "skate-cart"),
			TTL:           getDurationEnv("CART_TTL", 30*24*time.Hour),
			SessionCookie: getEnv("CART_SESSION_COOKIE", "cart_session"),
			SessionHeader: getEnv("CART_SESSION_HEADER", "X-Cart-Session"),
			MaxSessions:   getIntEnv("CART_MAX_SESSIONS", 10000),
			SessionIdle:   getDurationEnv("CART_SESSION_IDLE", 30*time.Minute),
		},
		Cache: CacheConfig{
			Backend:      getEnv("CACHE_BACKEND", BackendMemory),
			Prefix:       getEnv("CACHE_PREFIX", "storefront"),
			DefaultTTL:   getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
			CatalogTTL:   getDurationEnv("CATALOG_CACHE_TTL", 10*time.Minute),
			InventoryTTL: getDurationEnv("INVENTORY_CACHE_TTL", time.Minute),
			ContentTTL:   getDurationEnv("CONTENT_CACHE_TTL", 15*time.Minute),
		},
		Square: SquareConfig{
			BaseURL:            getEnv("SQUARE_BASE_URL", "https://connect.squareupsandbox.com"),
			AccessToken:        getEnvRequired("SQUARE_ACCESS_TOKEN"),
			LocationID:         getEnvRequired("SQUARE_LOCATION_ID"),
			Version:            getEnv("SQUARE_VERSION", "2024-10-17"),
			Currency:           getEnv("SQUARE_CURRENCY", "USD"),
			Timeout:            getDurationEnv("SQUARE_TIMEOUT", 10*time.Second),
			BreakerMaxRequests: uint32(getIntEnv("SQUARE_BREAKER_MAX_REQUESTS", 5)),
			BreakerInterval:    getDurationEnv("SQUARE_BREAKER_INTERVAL", 10*time.Second),
			BreakerTimeout:     getDurationEnv("SQUARE_BREAKER_TIMEOUT", 30*time.Second),
		},
		CMS: CMSConfig{
			GraphQLURL: getEnv("CMS_GRAPHQL_URL", "http://localhost:3000/api/graphql"),
			APIKey:     getEnv("CMS_API_KEY", ""),
			Timeout:    getDurationEnv("CMS_TIMEOUT", 5*time.Second),
		},
		Events: EventsConfig{
			AMQPURL:   getEnv("AMQP_URL", ""),
			CartQueue: getEnv("CART_EVENTS_QUEUE", "cart.changed"),
			QueueSize: getIntEnv("CART_EVENTS_BUFFER", 256),
		},
		RateLimit: RateLimitConfig{
			DefaultRequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 120),
			BurstMultiplier:          getFloatEnv("RATE_LIMIT_BURST", 2.0),
			Window:                   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:                getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:session"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cart.Storage {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unsupported CART_STORAGE %q", c.Cart.Storage)
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Cart.Storage == BackendRedis || c.Cache.Backend == BackendRedis
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
