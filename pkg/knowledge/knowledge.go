// Package knowledge holds the fixed phrase-to-answer table consulted before
// any pattern classification.
package knowledge

import (
	"strings"

	"github.com/musaed-ai/musaed/pkg/models"
)

// Seeds are the built-in entries in lookup order.
var Seeds = []models.KnowledgeEntry{
	{Phrase: "السلام عليكم", Answer: "وعليكم السلام ورحمة الله! كيف يمكنني مساعدتك؟"},
	{Phrase: "كيف حالك", Answer: "الحمد لله، أنا هنا لخدمتك!"},
	{Phrase: "شكراً", Answer: "العفو! دائماً سعيد بالمساعدة 🎯"},
	{Phrase: "ماذا تعرف", Answer: "أستطيع الإجابة على أسئلتك بسرعة فائقة وتقديم حلول ذكية"},
	{Phrase: "من أنت", Answer: "أنا مساعد ذكي مُحسن للسرعة والأداء!"},
}

// Base is an immutable ordered list of knowledge entries. Lookup returns the
// first entry whose phrase occurs in the question, so order is significant.
type Base struct {
	entries []models.KnowledgeEntry
	folded  []string
}

// New builds a Base from entries, keeping their order.
func New(entries []models.KnowledgeEntry) *Base {
	b := &Base{
		entries: make([]models.KnowledgeEntry, len(entries)),
		folded:  make([]string, len(entries)),
	}
	copy(b.entries, entries)
	for i, e := range b.entries {
		b.folded[i] = strings.ToLower(e.Phrase)
	}
	return b
}

// Default returns the seeds followed by extra, in that order.
func Default(extra ...models.KnowledgeEntry) *Base {
	all := make([]models.KnowledgeEntry, 0, len(Seeds)+len(extra))
	all = append(all, Seeds...)
	all = append(all, extra...)
	return New(all)
}

// Lookup returns the answer of the first entry whose phrase is a
// case-insensitive substring of question.
func (b *Base) Lookup(question string) (string, bool) {
	q := strings.ToLower(question)
	for i, phrase := range b.folded {
		if strings.Contains(q, phrase) {
			return b.entries[i].Answer, true
		}
	}
	return "", false
}

// Entries returns a copy of the entries in lookup order.
func (b *Base) Entries() []models.KnowledgeEntry {
	out := make([]models.KnowledgeEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *Base) Len() int { return len(b.entries) }
