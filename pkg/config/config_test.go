package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musaed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 1500*time.Millisecond, cfg.Code.Delay)
	assert.Zero(t, cfg.Cache.MaxEntries, "cache is unbounded by default")
	assert.Zero(t, cfg.Cache.TTL)
	assert.False(t, cfg.History.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_HISTORY_DB", "/tmp/history.db")

	path := writeConfig(t, `
listen: ":9090"
log:
  level: debug
  format: console
cache:
  max_entries: 500
  ttl: 30m
knowledge:
  entries:
    - phrase: "ما اسمك"
      answer: "اسمي مساعد"
code:
  delay: 10ms
history:
  enabled: true
  db_path: ${TEST_HISTORY_DB}
server:
  rate_limit: 2
  burst: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 500, cfg.Cache.MaxEntries)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	require.Len(t, cfg.Knowledge.Entries, 1)
	assert.Equal(t, "ما اسمك", cfg.Knowledge.Entries[0].Phrase)
	assert.Equal(t, 10*time.Millisecond, cfg.Code.Delay)
	assert.Equal(t, "/tmp/history.db", cfg.History.DBPath, "env var not expanded")
	assert.Equal(t, 30, cfg.History.RetentionDays, "unset fields keep defaults")
	assert.Equal(t, 2.0, cfg.Server.RateLimit)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/musaed.yaml")
	assert.Error(t, err)
}

func TestLoadOrDefaultMissing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "negative max entries",
			content: "cache:\n  max_entries: -1\n",
			errMsg:  "cache.max_entries",
		},
		{
			name:    "empty knowledge phrase",
			content: "knowledge:\n  entries:\n    - phrase: \"\"\n      answer: x\n",
			errMsg:  "knowledge.entries[0]",
		},
		{
			name:    "rate limit without burst",
			content: "server:\n  rate_limit: 1\n  burst: 0\n",
			errMsg:  "server.burst",
		},
		{
			name:    "bad yaml",
			content: "listen: [\n",
			errMsg:  "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
