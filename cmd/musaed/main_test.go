package main

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaed-ai/musaed/pkg/assistant"
	"github.com/musaed-ai/musaed/pkg/cache"
	"github.com/musaed-ai/musaed/pkg/classifier"
	"github.com/musaed-ai/musaed/pkg/codeassist"
	"github.com/musaed-ai/musaed/pkg/config"
	"github.com/musaed-ai/musaed/pkg/knowledge"
	"github.com/musaed-ai/musaed/pkg/models"
	"github.com/musaed-ai/musaed/pkg/server"
)

func writeConfig(t *testing.T, historyEnabled bool) string {
	t.Helper()
	dir := t.TempDir()
	content := "log:\n  level: error\ncode:\n  delay: 0s\nknowledge:\n  entries:\n    - phrase: \"ما اسمك\"\n      answer: \"اسمي مساعد\"\n"
	if historyEnabled {
		content += "history:\n  enabled: true\n  db_path: " + filepath.Join(dir, "history.db") + "\n"
	}
	path := filepath.Join(dir, "musaed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAskCommand(t *testing.T) {
	cfg := writeConfig(t, false)

	out, err := run(t, "", "ask", "-c", cfg, "ما", "اسمك؟")
	require.NoError(t, err)
	assert.Contains(t, out, "اسمي مساعد")
	assert.Contains(t, out, "تمت الإجابة في")
}

func TestAskCommandJSON(t *testing.T) {
	cfg := writeConfig(t, false)

	out, err := run(t, "", "ask", "-c", cfg, "--json", "كيف أتعلم css")
	require.NoError(t, err)

	var ans models.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &ans))
	assert.Equal(t, models.SourceTechnical, ans.Source)
	assert.Equal(t, models.CategoryTechnical, ans.Category)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Contains(t, raw, "response_time_ms")
}

func TestAskCommandBlank(t *testing.T) {
	cfg := writeConfig(t, false)

	out, err := run(t, "", "ask", "-c", cfg, "  ")
	require.NoError(t, err)
	assert.Equal(t, "✏️ اكتب سؤالك أولاً\n", out)
}

func TestAskCommandMissingConfig(t *testing.T) {
	_, err := run(t, "", "ask", "-c", filepath.Join(t.TempDir(), "nope.yaml"), "hello")
	assert.Error(t, err)
}

func TestChatCommandRecordsHistory(t *testing.T) {
	cfg := writeConfig(t, true)

	out, err := run(t, "السلام عليكم\n\nشكراً\n", "chat", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "وعليكم السلام")
	assert.Contains(t, out, "✏️ اكتب سؤالك أولاً")
	assert.Contains(t, out, "العفو")

	out, err = run(t, "", "history", "search", "-c", cfg, "--channel", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "السلام عليكم")
	assert.Contains(t, out, "شكراً")

	out, err = run(t, "", "history", "stats", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "knowledge")
}

func TestCodeCommand(t *testing.T) {
	cfg := writeConfig(t, false)

	out, err := run(t, "", "code", "explain", "-c", cfg, "--lang", "python", "--code", "print('hi')")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, "console.log(1)", "code", "debug", "-c", cfg, "--lang", "javascript", "-f", "-")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, "", "code", "complete", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, codeassist.PromptEnterCode+"\n", out)

	_, err = run(t, "", "code", "explain", "-c", cfg, "--lang", "cobol", "--code", "x")
	assert.ErrorIs(t, err, codeassist.ErrUnsupportedLanguage)
}

func TestCacheCommand(t *testing.T) {
	c := cache.New(0, 0)
	a := assistant.New(c, knowledge.Default(), classifier.New(zerolog.Nop()),
		assistant.WithRand(rand.New(rand.NewPCG(5, 5))))
	cfg := config.Default()
	cfg.Server.RateLimit = 0
	ts := httptest.NewServer(server.New(cfg, a, codeassist.New(0, zerolog.Nop()), c, nil, nil, zerolog.Nop()))
	defer ts.Close()

	a.Ask("من أنت")
	a.Ask("من أنت")

	out, err := run(t, "", "cache", "stats", "--addr", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:  1")
	assert.Contains(t, out, "Hits:     1")
	assert.Contains(t, out, "Hit rate: 50.0%")

	out, err = run(t, "", "cache", "clear", "--addr", ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "All cache entries cleared.\n", out)
	assert.Zero(t, c.Len())
}

func TestReadSnippet(t *testing.T) {
	got, err := readSnippet(strings.NewReader("ignored"), "", "inline")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	path := filepath.Join(t.TempDir(), "snippet.js")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1"), 0644))
	got, err = readSnippet(nil, path, "")
	require.NoError(t, err)
	assert.Equal(t, "let x = 1", got)

	_, err = readSnippet(nil, filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestKnowledgeCommand(t *testing.T) {
	cfg := writeConfig(t, false)

	out, err := run(t, "", "knowledge", "-c", cfg)
	require.NoError(t, err)

	first := strings.Index(out, "السلام عليكم")
	extra := strings.Index(out, "ما اسمك")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, extra)
	assert.Less(t, first, extra, "config entries follow the built-in seeds")
	assert.Contains(t, out, "  6  ")
}
