package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECORD_SOURCE", "")
	t.Setenv("CACHE_BACKEND", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, SourceHTTP, cfg.Source.Kind)
	assert.Equal(t, "http://localhost:8082", cfg.Source.UpstreamURL)
	assert.Equal(t, 30*time.Second, cfg.Source.HealthInterval)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, "th", cfg.Locale.Default)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECORD_SOURCE", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("UPSTREAM_URL", "http://registry:9000/")
	t.Setenv("KAFKA_BROKERS", " b1:9092, b2:9092 ,b1:9092,")
	t.Setenv("CACHE_TTL", "2m")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, "http://registry:9000", cfg.Source.UpstreamURL)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEARCH_RATE_PER_MINUTE", "lots")
	t.Setenv("CACHE_TTL", "-5s")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_RATE_PER_MINUTE")
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown source", func(c *Config) { c.Source.Kind = "ftp" }, "RECORD_SOURCE"},
		{"file without path", func(c *Config) { c.Source.Kind = SourceFile }, "SOURCE_FILE"},
		{"mongo without uri", func(c *Config) { c.Source.Kind = SourceMongo }, "MONGO_URI"},
		{"redis cache without url", func(c *Config) { c.Cache.Backend = CacheRedis }, "REDIS_URL"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "disk" }, "CACHE_BACKEND"},
		{"oversized hash key", func(c *Config) { c.Audit.HashKey = string(make([]byte, 65)) }, "AUDIT_HASH_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Source: Source{Kind: SourceHTTP, UpstreamURL: "http://x"},
				Cache:  Cache{Backend: CacheMemory},
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
