package models

import "time"

// HistoryEntry is a single answered question in the transcript log.
type HistoryEntry struct {
	RequestID      string    `json:"request_id"`
	Channel        string    `json:"channel"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer,omitempty"`
	Source         Source    `json:"source"`
	Category       Category  `json:"category,omitempty"`
	ResponseTimeUs int64     `json:"response_time_us"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryQueryOpts specifies filters for querying the transcript.
type HistoryQueryOpts struct {
	RequestID string
	Channel   string
	Source    Source
	Since     time.Time
	Limit     int
}

// HistoryStat holds aggregate counts for a source/day combination.
type HistoryStat struct {
	Source Source
	Day    string
	Count  int
}
