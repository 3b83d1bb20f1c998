package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "pairwise", cfg.AppName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "data/human_ratings.json", cfg.CorpusFile)
	assert.Equal(t, "data/sync_log.json", cfg.SyncLogFile)
	assert.Zero(t, cfg.SyncInterval)
	assert.Equal(t, time.Minute, cfg.SyncTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("CORPUS_FILE", "/var/lib/pairwise/corpus.json")
	t.Setenv("SYNC_INTERVAL", "5m")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "10")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "/var/lib/pairwise/corpus.json", cfg.CorpusFile)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 10, cfg.DBMaxOpenConn)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("DATABASE_MAX_OPEN_CONN", "lots")
	t.Setenv("SYNC_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 25, cfg.DBMaxOpenConn)
	assert.Zero(t, cfg.SyncInterval)
}
