package mcp

import (
	"fmt"
	"strings"

	"github.com/musaed-ai/musaed/pkg/models"
)

// formatCacheStats formats cache statistics as text.
func formatCacheStats(s models.CacheStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entries:  %d\n", s.Entries)
	fmt.Fprintf(&b, "Hits:     %d\n", s.Hits)
	fmt.Fprintf(&b, "Misses:   %d\n", s.Misses)
	fmt.Fprintf(&b, "Hit rate: %.1f%%\n", s.HitRate()*100)
	return b.String()
}

// formatHistory formats transcript entries as a text table.
func formatHistory(entries []models.HistoryEntry) string {
	if len(entries) == 0 {
		return "No history entries found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-8s %-10s %s\n", "Time", "Channel", "Source", "Question")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-20s %-8s %-10s %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Channel, e.Source, shorten(e.Question, 60))
	}
	return b.String()
}

func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
