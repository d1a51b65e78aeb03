package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/service"
	"shareholder/internal/holdings/source"
	"shareholder/internal/holdings/source/file"
	"shareholder/internal/holdings/source/mongo"
	"shareholder/internal/holdings/source/postgres"
	"shareholder/internal/holdings/source/sqlite"
	"shareholder/internal/holdings/source/upstream"
	"shareholder/internal/holdings/store"
	"shareholder/internal/platform/config"
	"shareholder/internal/platform/redis"
)

// buildSource opens the record source selected by RECORD_SOURCE. The
// returned func releases its connections.
func buildSource(ctx context.Context, cfg config.Config, log *slog.Logger) (service.Source, func(), error) {
	noop := func() {}
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return upstream.New(cfg.Source.UpstreamURL,
			upstream.WithTimeout(cfg.Source.Timeout),
			upstream.WithMaxRetries(cfg.Source.MaxRetries),
			upstream.WithAPIKey(cfg.Source.APIKey),
			upstream.WithLogger(log),
		), noop, nil
	case config.SourcePostgres:
		src, err := postgres.Open(ctx, cfg.Postgres.URL, int(cfg.Postgres.MaxConns))
		if err != nil {
			return nil, nil, err
		}
		if err := seedSource(ctx, src, cfg.Source.SeedFile, log); err != nil {
			_ = src.Close()
			return nil, nil, err
		}
		return src, logCloser(log, "postgres", src.Close), nil
	case config.SourceSQLite:
		src, err := sqlite.Open(ctx, cfg.Source.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := seedSource(ctx, src, cfg.Source.SeedFile, log); err != nil {
			_ = src.Close()
			return nil, nil, err
		}
		return src, logCloser(log, "sqlite", src.Close), nil
	case config.SourceMongo:
		src, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection, cfg.Mongo.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return src, logCloser(log, "mongo", func() error {
			return src.Close(context.Background())
		}), nil
	case config.SourceFile:
		return file.New(cfg.Source.FilePath), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown record source %q", cfg.Source.Kind)
	}
}

type seeder interface {
	Name() string
	Seed(ctx context.Context, records []models.RawRecord) (int, error)
}

// seedSource loads path, in the upstream payload shape, into an empty
// table. An empty path does nothing.
func seedSource(ctx context.Context, dst seeder, path string, log *slog.Logger) error {
	if path == "" {
		return nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	records, err := source.DecodePayload(body)
	if err != nil {
		return fmt.Errorf("decode seed file %s: %w", path, err)
	}
	written, err := dst.Seed(ctx, records)
	if err != nil {
		return fmt.Errorf("seed %s: %w", dst.Name(), err)
	}
	if written == 0 {
		log.Info("record table already populated; seed skipped", "source", dst.Name(), "seed_file", path)
		return nil
	}
	log.Info("seeded record table", "source", dst.Name(), "seed_file", path, "records", written)
	return nil
}

// buildCache returns the snapshot cache selected by CACHE_BACKEND.
func buildCache(ctx context.Context, cfg config.Config, log *slog.Logger) (service.SnapshotCache, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisCache(client.Client, cfg.Cache.Key, cfg.Cache.TTL), logCloser(log, "redis", client.Close), nil
	case config.CacheNone:
		return store.NopCache{}, func() {}, nil
	default:
		return store.NewMemoryCache(cfg.Cache.TTL), func() {}, nil
	}
}
