// Package classifier tags a question with the response branch to use.
//
// Patterns are tried in a fixed order and the first match wins:
// greeting, then technical, then generic as the fallback. The interrogative
// pattern is reported separately and never selects a branch.
package classifier

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"

	"github.com/musaed-ai/musaed/pkg/models"
)

// Pattern sources. They are compiled in ECMAScript mode, case-insensitive.
const (
	GreetingPattern      = `(مرحبا|سلام|اهلا|hello|hi)`
	InterrogativePattern = `(كيف|لماذا|متى|أين|ماذا|من)`
	TechnicalPattern     = `(كود|برمجة|تطوير|javascript|js|html|css)`
)

// matchTimeout guards against pathological input; a timeout is a non-match.
const matchTimeout = 100 * time.Millisecond

type rule struct {
	category models.Category
	re       *regexp2.Regexp
}

// Classifier applies the ordered category rules.
type Classifier struct {
	rules         []rule
	interrogative *regexp2.Regexp
	log           zerolog.Logger
}

// New compiles the built-in patterns.
func New(log zerolog.Logger) *Classifier {
	return &Classifier{
		rules: []rule{
			{category: models.CategoryGreeting, re: compile(GreetingPattern)},
			{category: models.CategoryTechnical, re: compile(TechnicalPattern)},
		},
		interrogative: compile(InterrogativePattern),
		log:           log.With().Str("component", "classifier").Logger(),
	}
}

func compile(pattern string) *regexp2.Regexp {
	re := regexp2.MustCompile(pattern, regexp2.ECMAScript|regexp2.IgnoreCase)
	re.MatchTimeout = matchTimeout
	return re
}

// Classify returns the first matching category, or CategoryGeneric.
func (c *Classifier) Classify(question string) models.Category {
	for _, r := range c.rules {
		if c.match(r.re, question) {
			return r.category
		}
	}
	return models.CategoryGeneric
}

// IsQuestion reports whether question contains an interrogative word.
func (c *Classifier) IsQuestion(question string) bool {
	return c.match(c.interrogative, question)
}

func (c *Classifier) match(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	if err != nil {
		c.log.Warn().Err(err).Str("pattern", re.String()).Msg("pattern match failed")
		return false
	}
	return ok
}
