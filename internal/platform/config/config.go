package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pkgstrings "shareholder/pkg/platform/strings"
)

// Source backends accepted by RECORD_SOURCE.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceMongo    = "mongo"
	SourceFile     = "file"
)

// Cache backends accepted by CACHE_BACKEND.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the full service configuration.
type Config struct {
	Server   Server
	Log      Log
	Source   Source
	Cache    Cache
	Breaker  Breaker
	Redis    RedisConfig
	Postgres Postgres
	Mongo    Mongo
	Kafka    Kafka
	Audit    Audit
	Locale   Locale
	Meeting  Meeting
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	AdminToken      string
	SearchPerMinute int
	SearchBurst     int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type Log struct {
	Level  string
	Format string
}

// Source selects and configures the record source.
type Source struct {
	Kind           string
	UpstreamURL    string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     uint64
	FilePath       string
	SQLitePath     string
	// SeedFile fills an empty postgres or sqlite table at startup.
	SeedFile       string
	FetchTimeout   time.Duration
	HealthInterval time.Duration
}

// Cache configures the snapshot cache.
type Cache struct {
	Backend string
	TTL     time.Duration
	Key     string
}

type Breaker struct {
	FailureThreshold int
	SuccessThreshold int
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Postgres struct {
	URL      string
	MaxConns int32
}

type Mongo struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Kafka configures the optional activity topic.
type Kafka struct {
	Brokers     []string
	Topic       string
	ClientID    string
	Partitions  int32
	Replication int16
	DialTimeout time.Duration
}

type Audit struct {
	HashKey    string
	BufferSize int
}

type Locale struct {
	Default string
}

type Meeting struct {
	ConfigPath string
}

// SnapshotTTL bounds how long holder data stays in the cache.
var SnapshotTTL = 30 * time.Second

// FromEnv builds the config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	cfg := Config{
		Server: Server{
			Addr:            envOr("SERVER_ADDR", ":8080"),
			AdminToken:      os.Getenv("ADMIN_TOKEN"),
			SearchPerMinute: envInt("SEARCH_RATE_PER_MINUTE", 30, &errs),
			SearchBurst:     envInt("SEARCH_RATE_BURST", 10, &errs),
			ReadTimeout:     envDuration("SERVER_READ_TIMEOUT", 15*time.Second, &errs),
			WriteTimeout:    envDuration("SERVER_WRITE_TIMEOUT", 30*time.Second, &errs),
			IdleTimeout:     envDuration("SERVER_IDLE_TIMEOUT", 60*time.Second, &errs),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		},
		Log: Log{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
		Source: Source{
			Kind:           strings.ToLower(envOr("RECORD_SOURCE", SourceHTTP)),
			UpstreamURL:    strings.TrimRight(envOr("UPSTREAM_URL", "http://localhost:8082"), "/"),
			APIKey:         os.Getenv("UPSTREAM_API_KEY"),
			Timeout:        envDuration("UPSTREAM_TIMEOUT", 10*time.Second, &errs),
			MaxRetries:     uint64(envInt("UPSTREAM_MAX_RETRIES", 2, &errs)),
			FilePath:       os.Getenv("SOURCE_FILE"),
			SQLitePath:     envOr("SQLITE_PATH", "holders.db"),
			SeedFile:       os.Getenv("SEED_FILE"),
			FetchTimeout:   envDuration("SOURCE_FETCH_TIMEOUT", 30*time.Second, &errs),
			HealthInterval: envDuration("STATUS_POLL_INTERVAL", 30*time.Second, &errs),
		},
		Cache: Cache{
			Backend: strings.ToLower(envOr("CACHE_BACKEND", CacheMemory)),
			TTL:     envDuration("CACHE_TTL", SnapshotTTL, &errs),
			Key:     envOr("CACHE_KEY", "holdings:snapshot"),
		},
		Breaker: Breaker{
			FailureThreshold: envInt("BREAKER_FAILURE_THRESHOLD", 3, &errs),
			SuccessThreshold: envInt("BREAKER_SUCCESS_THRESHOLD", 1, &errs),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Postgres: Postgres{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(envInt("DATABASE_MAX_CONNS", 4, &errs)),
		},
		Mongo: Mongo{
			URI:        os.Getenv("MONGO_URI"),
			Database:   envOr("MONGO_DATABASE", "shareholder"),
			Collection: envOr("MONGO_COLLECTION", "holder_records"),
			Timeout:    envDuration("MONGO_TIMEOUT", 10*time.Second, &errs),
		},
		Kafka: Kafka{
			Brokers:     pkgstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:       envOr("KAFKA_AUDIT_TOPIC", "holder-activity"),
			ClientID:    envOr("KAFKA_CLIENT_ID", "shareholder"),
			Partitions:  int32(envInt("KAFKA_PARTITIONS", 1, &errs)),
			Replication: int16(envInt("KAFKA_REPLICATION", 1, &errs)),
			DialTimeout: envDuration("KAFKA_DIAL_TIMEOUT", 5*time.Second, &errs),
		},
		Audit: Audit{
			HashKey:    os.Getenv("AUDIT_HASH_KEY"),
			BufferSize: envInt("AUDIT_BUFFER", 256, &errs),
		},
		Locale: Locale{
			Default: envOr("DEFAULT_LOCALE", "th"),
		},
		Meeting: Meeting{
			ConfigPath: os.Getenv("MEETING_CONFIG"),
		},
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

// Validate checks cross-field constraints that env parsing cannot.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceHTTP:
		if c.Source.UpstreamURL == "" {
			return errors.New("UPSTREAM_URL is required for the http source")
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres source")
		}
	case SourceSQLite:
		if c.Source.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite source")
		}
	case SourceMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI is required for the mongo source")
		}
	case SourceFile:
		if c.Source.FilePath == "" {
			return errors.New("SOURCE_FILE is required for the file source")
		}
	default:
		return fmt.Errorf("unknown RECORD_SOURCE %q", c.Source.Kind)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	if len(c.Audit.HashKey) > 64 {
		return errors.New("AUDIT_HASH_KEY must be at most 64 bytes")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a non-negative integer, got %q", key, raw))
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a positive duration, got %q", key, raw))
		return fallback
	}
	return v
}
