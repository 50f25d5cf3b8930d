package codeassist

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaed-ai/musaed/pkg/models"
)

func TestRunEmptyCodePromptsWithoutDelay(t *testing.T) {
	a := New(time.Hour, zerolog.Nop())

	start := time.Now()
	res, err := a.Run(context.Background(), models.CodeRequest{
		Action:   models.ActionExplain,
		Language: models.LangPython,
		Code:     "   \n\t",
	})
	require.NoError(t, err)
	assert.True(t, res.Prompt)
	assert.Equal(t, PromptEnterCode, res.Text)
	assert.Less(t, time.Since(start), time.Second, "prompt must not wait for the simulated delay")
}

func TestRunActions(t *testing.T) {
	a := New(0, zerolog.Nop())
	code := "def add(a, b):\n    result = a + b\n"

	tests := []struct {
		action   models.CodeAction
		contains []string
	}{
		{models.ActionExplain, []string{descriptions[models.LangPython], "2 سطر"}},
		{models.ActionDebug, []string{debugResults[models.LangPython]}},
		{models.ActionComplete, []string{"result = a + b", "return result"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			res, err := a.Run(context.Background(), models.CodeRequest{
				Action:   tt.action,
				Language: models.LangPython,
				Code:     code,
			})
			require.NoError(t, err)
			assert.False(t, res.Prompt)
			for _, want := range tt.contains {
				assert.Contains(t, res.Text, want)
			}
		})
	}
}

func TestRunEveryLanguageHasTables(t *testing.T) {
	for _, lang := range models.Languages {
		assert.Contains(t, descriptions, lang)
		assert.Contains(t, debugResults, lang)
		assert.Contains(t, completions, lang)
	}
}

func TestRunWaitsForDelay(t *testing.T) {
	a := New(20*time.Millisecond, zerolog.Nop())
	res, err := a.Run(context.Background(), models.CodeRequest{
		Action:   models.ActionDebug,
		Language: models.LangJava,
		Code:     "class A {}",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Elapsed, 20*time.Millisecond)
}

func TestRunErrors(t *testing.T) {
	a := New(0, zerolog.Nop())

	_, err := a.Run(context.Background(), models.CodeRequest{Action: "refactor", Language: models.LangPython, Code: "x"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = a.Run(context.Background(), models.CodeRequest{Action: models.ActionExplain, Language: "cobol", Code: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestRunCancelled(t *testing.T) {
	a := New(time.Hour, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.Run(ctx, models.CodeRequest{Action: models.ActionExplain, Language: models.LangHTML, Code: "<p>"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
