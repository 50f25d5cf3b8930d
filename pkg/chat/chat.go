// Package chat holds the front-end side of a conversation: input validation,
// rendering and an interactive terminal loop.
package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/musaed-ai/musaed/pkg/models"
)

// ErrEmptyQuestion is returned for blank input. It is a validation result,
// not a failure: front-ends show PromptEnterQuestion instead of answering.
var ErrEmptyQuestion = errors.New("empty question")

// PromptEnterQuestion is shown when the user submits blank input.
const PromptEnterQuestion = "✏️ اكتب سؤالك أولاً"

// Asker produces answers. *assistant.Assistant satisfies it.
type Asker interface {
	Ask(question string) models.Answer
}

// Ask validates question and forwards it to a.
func Ask(a Asker, question string) (models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return models.Answer{}, ErrEmptyQuestion
	}
	return a.Ask(question), nil
}

// Render formats an answer as a text block with its response time.
func Render(ans models.Answer) string {
	return fmt.Sprintf("%s\n⚡ تمت الإجابة في %.2fms 🧠 الذكاء الاصطناعي\n", ans.Text, ans.ResponseTimeMs())
}
