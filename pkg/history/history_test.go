package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaed-ai/musaed/pkg/config"
	"github.com/musaed-ai/musaed/pkg/models"
)

func tempCfg(t *testing.T) config.HistoryConfig {
	t.Helper()
	return config.HistoryConfig{
		Enabled:       true,
		DBPath:        filepath.Join(t.TempDir(), "history_test.db"),
		RetentionDays: 30,
		MaxBodySize:   64,
	}
}

func mustNew(t *testing.T, cfg config.HistoryConfig) *Logger {
	t.Helper()
	l, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func sampleEntry(id string) models.HistoryEntry {
	return models.HistoryEntry{
		RequestID:      id,
		Channel:        "http",
		Question:       "السلام عليكم",
		Answer:         "وعليكم السلام ورحمة الله! كيف يمكنني مساعدتك؟",
		Source:         models.SourceKnowledge,
		ResponseTimeUs: 42,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestLogAndQuery(t *testing.T) {
	l := mustNew(t, tempCfg(t))
	ctx := context.Background()

	require.NoError(t, l.Log(ctx, sampleEntry("req-001")))

	entries, err := l.Query(ctx, models.HistoryQueryOpts{RequestID: "req-001"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http", entries[0].Channel)
	assert.Equal(t, models.SourceKnowledge, entries[0].Source)
	assert.EqualValues(t, 42, entries[0].ResponseTimeUs)
}

func TestQueryFilters(t *testing.T) {
	l := mustNew(t, tempCfg(t))
	ctx := context.Background()

	e1 := sampleEntry("a")
	e2 := sampleEntry("b")
	e2.Channel = "mcp"
	e2.Source = models.SourceGeneric
	require.NoError(t, l.Log(ctx, e1))
	require.NoError(t, l.Log(ctx, e2))

	byChannel, err := l.Query(ctx, models.HistoryQueryOpts{Channel: "mcp"})
	require.NoError(t, err)
	require.Len(t, byChannel, 1)
	assert.Equal(t, "b", byChannel[0].RequestID)

	bySource, err := l.Query(ctx, models.HistoryQueryOpts{Source: models.SourceKnowledge})
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "a", bySource[0].RequestID)

	limited, err := l.Query(ctx, models.HistoryQueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordAssignsIDAndTruncates(t *testing.T) {
	l := mustNew(t, tempCfg(t))
	ctx := context.Background()

	l.Record(ctx, "cli", models.Answer{
		Question:     strings.Repeat("س", 100),
		Text:         "ok",
		Source:       models.SourceGeneric,
		Category:     models.CategoryGeneric,
		ResponseTime: time.Millisecond,
	})

	entries, err := l.Query(ctx, models.HistoryQueryOpts{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.NotEmpty(t, e.RequestID)
	assert.Equal(t, models.CategoryGeneric, e.Category)
	assert.EqualValues(t, 1000, e.ResponseTimeUs)
	assert.LessOrEqual(t, len(e.Question), 64)
	assert.True(t, strings.HasPrefix(strings.Repeat("س", 100), e.Question), "truncation must keep whole runes")
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	assert.NoError(t, l.Log(context.Background(), sampleEntry("x")))
	l.Record(context.Background(), "cli", models.Answer{})
}

func TestStats(t *testing.T) {
	l := mustNew(t, tempCfg(t))
	ctx := context.Background()

	require.NoError(t, l.Log(ctx, sampleEntry("a")))
	require.NoError(t, l.Log(ctx, sampleEntry("b")))
	g := sampleEntry("c")
	g.Source = models.SourceGreeting
	require.NoError(t, l.Log(ctx, g))

	stats, err := l.Stats(ctx)
	require.NoError(t, err)

	counts := map[models.Source]int{}
	for _, s := range stats {
		counts[s.Source] += s.Count
		assert.NotEmpty(t, s.Day)
	}
	assert.Equal(t, 2, counts[models.SourceKnowledge])
	assert.Equal(t, 1, counts[models.SourceGreeting])
}

func TestCleanup(t *testing.T) {
	l := mustNew(t, tempCfg(t))
	ctx := context.Background()

	old := sampleEntry("old")
	old.CreatedAt = time.Now().UTC().AddDate(0, 0, -100)
	require.NoError(t, l.Log(ctx, old))
	require.NoError(t, l.Log(ctx, sampleEntry("new")))

	n, err := l.Cleanup(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	entries, err := l.Query(ctx, models.HistoryQueryOpts{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].RequestID)
}
