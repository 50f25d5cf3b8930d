// Package codeassist simulates explain, debug and complete actions on a
// pasted snippet. Responses come from fixed per-language tables after an
// artificial delay standing in for model latency.
package codeassist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/musaed-ai/musaed/pkg/metrics"
	"github.com/musaed-ai/musaed/pkg/models"
)

var (
	// ErrUnknownAction is returned for an action other than explain, debug or complete.
	ErrUnknownAction = errors.New("unknown code action")
	// ErrUnsupportedLanguage is returned for a language missing from the selector.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// User-visible texts.
const (
	PromptEnterCode = "⚠️ الرجاء إدخال الكود أولاً"
	ErrorMessage    = "❌ حدث خطأ أثناء المعالجة، حاول مرة أخرى"
)

// Assistant runs simulated code actions. Overlapping calls are independent;
// nothing orders their completion.
type Assistant struct {
	delay time.Duration
	log   zerolog.Logger
}

// New creates an Assistant that waits delay before each non-empty answer.
func New(delay time.Duration, log zerolog.Logger) *Assistant {
	return &Assistant{
		delay: delay,
		log:   log.With().Str("component", "codeassist").Logger(),
	}
}

// Run performs req. Blank code yields a prompt result immediately.
func (a *Assistant) Run(ctx context.Context, req models.CodeRequest) (models.CodeResult, error) {
	start := time.Now()
	res := models.CodeResult{Action: req.Action, Language: req.Language}

	switch req.Action {
	case models.ActionExplain, models.ActionDebug, models.ActionComplete:
	default:
		metrics.CodeActionsTotal.WithLabelValues(string(req.Action), "error").Inc()
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	if strings.TrimSpace(req.Code) == "" {
		metrics.CodeActionsTotal.WithLabelValues(string(req.Action), "prompt").Inc()
		res.Text = PromptEnterCode
		res.Prompt = true
		return res, nil
	}

	if _, ok := descriptions[req.Language]; !ok {
		metrics.CodeActionsTotal.WithLabelValues(string(req.Action), "error").Inc()
		return res, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Language)
	}

	if err := a.think(ctx); err != nil {
		metrics.CodeActionsTotal.WithLabelValues(string(req.Action), "error").Inc()
		return res, fmt.Errorf("%s %s: %w", req.Action, req.Language, err)
	}

	switch req.Action {
	case models.ActionExplain:
		res.Text = explain(req.Language, req.Code)
	case models.ActionDebug:
		res.Text = "🐞 نتيجة الفحص:\n" + debugResults[req.Language]
	case models.ActionComplete:
		res.Text = "✨ الكود المكتمل:\n" + strings.TrimRight(req.Code, "\n") + completions[req.Language]
	}
	res.Elapsed = time.Since(start)

	metrics.CodeActionsTotal.WithLabelValues(string(req.Action), "ok").Inc()
	a.log.Debug().
		Str("action", string(req.Action)).
		Str("language", string(req.Language)).
		Dur("elapsed", res.Elapsed).
		Msg("code action done")
	return res, nil
}

func explain(lang models.Language, code string) string {
	lines := strings.Count(strings.TrimRight(code, "\n"), "\n") + 1
	return fmt.Sprintf("🔍 شرح الكود:\n%s\nيتكون هذا الكود من %d سطر.", descriptions[lang], lines)
}

func (a *Assistant) think(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
