// Package assistant turns a free-text question into an answer.
//
// The lookup order is: response cache, knowledge base, then the classifier
// branch. Knowledge and generic answers are written back to the cache;
// greeting and technical answers are not, so greetings vary between calls.
package assistant

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/musaed-ai/musaed/pkg/classifier"
	"github.com/musaed-ai/musaed/pkg/knowledge"
	"github.com/musaed-ai/musaed/pkg/metrics"
	"github.com/musaed-ai/musaed/pkg/models"
)

// Cache is the response cache the Assistant owns.
type Cache interface {
	Get(question string) (models.CacheEntry, bool)
	PutIfAbsent(question, answer string) string
}

// Assistant answers questions. It is safe for concurrent use when its Cache is.
type Assistant struct {
	cache      Cache
	knowledge  *knowledge.Base
	classifier *classifier.Classifier
	log        zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithRand makes template selection use r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(a *Assistant) { a.rng = r }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Assistant) { a.log = log }
}

// New creates an Assistant that owns cache.
func New(cache Cache, kb *knowledge.Base, cl *classifier.Classifier, opts ...Option) *Assistant {
	a := &Assistant{
		cache:      cache,
		knowledge:  kb,
		classifier: cl,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With().Str("component", "assistant").Logger()
	return a
}

// Analyze returns the answer text for question. It accepts any input,
// including the empty string, and always returns a non-empty answer.
func (a *Assistant) Analyze(question string) string {
	return a.Ask(question).Text
}

// Ask answers question and reports where the answer came from and how long
// it took.
func (a *Assistant) Ask(question string) models.Answer {
	start := time.Now()

	trimmed := strings.TrimSpace(question)
	normalized := strings.ToLower(trimmed)

	ans := models.Answer{
		Question:      trimmed,
		Interrogative: a.classifier.IsQuestion(normalized),
	}

	switch {
	case a.fromCache(normalized, &ans):
	case a.fromKnowledge(normalized, &ans):
	default:
		a.generate(trimmed, normalized, &ans)
	}

	ans.ResponseTime = time.Since(start)
	metrics.AnswersTotal.WithLabelValues(string(ans.Source)).Inc()
	metrics.AnalyzeDuration.Observe(ans.ResponseTime.Seconds())
	a.log.Debug().
		Str("source", string(ans.Source)).
		Str("category", string(ans.Category)).
		Dur("elapsed", ans.ResponseTime).
		Msg("answered")
	return ans
}

func (a *Assistant) fromCache(normalized string, ans *models.Answer) bool {
	entry, ok := a.cache.Get(normalized)
	if !ok {
		return false
	}
	ans.Text = entry.Answer
	ans.Source = models.SourceCache
	return true
}

func (a *Assistant) fromKnowledge(normalized string, ans *models.Answer) bool {
	text, ok := a.knowledge.Lookup(normalized)
	if !ok {
		return false
	}
	ans.Text = a.cache.PutIfAbsent(normalized, text)
	ans.Source = models.SourceKnowledge
	return true
}

func (a *Assistant) generate(trimmed, normalized string, ans *models.Answer) {
	ans.Category = a.classifier.Classify(normalized)
	switch ans.Category {
	case models.CategoryGreeting:
		ans.Text = greetings[a.intn(len(greetings))]
		ans.Source = models.SourceGreeting
	case models.CategoryTechnical:
		ans.Text = technicalResponse(normalized)
		ans.Source = models.SourceTechnical
	default:
		text := genericResponse(genericTemplates[a.intn(len(genericTemplates))], trimmed)
		ans.Text = a.cache.PutIfAbsent(normalized, text)
		ans.Source = models.SourceGeneric
	}
}

func technicalResponse(normalized string) string {
	for _, t := range techAnswers {
		if strings.Contains(normalized, t.keyword) {
			return t.answer
		}
	}
	return defaultTechAnswer
}

func (a *Assistant) intn(n int) int {
	if a.rng == nil {
		return rand.IntN(n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.IntN(n)
}
