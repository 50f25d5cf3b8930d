package models

import (
	"encoding/json"
	"time"
)

// Category is the response branch picked by the classifier.
type Category string

const (
	CategoryGreeting  Category = "greeting"
	CategoryTechnical Category = "technical"
	CategoryGeneric   Category = "generic"
)

// Source records where an answer came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceKnowledge Source = "knowledge"
	SourceGreeting  Source = "greeting"
	SourceTechnical Source = "technical"
	SourceGeneric   Source = "generic"
)

// Answer is a rendered assistant reply.
type Answer struct {
	Question      string        `json:"question"`
	Text          string        `json:"answer"`
	Source        Source        `json:"source"`
	Category      Category      `json:"category,omitempty"`
	Interrogative bool          `json:"interrogative"`
	ResponseTime  time.Duration `json:"-"`
}

// ResponseTimeMs returns the response time in fractional milliseconds.
func (a Answer) ResponseTimeMs() float64 {
	return float64(a.ResponseTime) / float64(time.Millisecond)
}

// MarshalJSON adds response_time_ms to the encoded answer.
func (a Answer) MarshalJSON() ([]byte, error) {
	type plain Answer
	return json.Marshal(struct {
		plain
		ResponseTimeMs float64 `json:"response_time_ms"`
	}{plain(a), a.ResponseTimeMs()})
}
