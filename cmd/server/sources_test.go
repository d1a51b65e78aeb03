package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder/internal/holdings/source"
	"shareholder/internal/holdings/source/sqlite"
	"shareholder/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuildSource_SeedsSQLite(t *testing.T) {
	ctx := context.Background()
	var cfg config.Config
	cfg.Source.Kind = config.SourceSQLite
	cfg.Source.SQLitePath = filepath.Join(t.TempDir(), "holders.db")
	cfg.Source.SeedFile = writeSeed(t, `{"success":true,"data":[{"i_ref":"1101001535259","q_share":1500},{"accountId":"B-1"}]}`)

	src, closeSource, err := buildSource(ctx, cfg, discardLogger())
	require.NoError(t, err)
	snap, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	closeSource()

	// Restarting with the same seed keeps the existing rows.
	src, closeSource, err = buildSource(ctx, cfg, discardLogger())
	require.NoError(t, err)
	defer closeSource()
	snap, err = src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
}

func TestSeedSource(t *testing.T) {
	ctx := context.Background()

	t.Run("no seed file is a no-op", func(t *testing.T) {
		assert.NoError(t, seedSource(ctx, nil, "", discardLogger()))
	})

	t.Run("invalid seed payload fails startup", func(t *testing.T) {
		dst, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "holders.db"))
		require.NoError(t, err)
		defer dst.Close()

		err = seedSource(ctx, dst, writeSeed(t, `{"success":true}`), discardLogger())
		assert.ErrorIs(t, err, source.ErrInvalidCollection)
	})

	t.Run("missing seed file", func(t *testing.T) {
		dst, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "holders.db"))
		require.NoError(t, err)
		defer dst.Close()

		err = seedSource(ctx, dst, filepath.Join(t.TempDir(), "nope.json"), discardLogger())
		assert.ErrorContains(t, err, "read seed file")
	})
}
