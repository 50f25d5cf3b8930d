package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerJSONIncludesResponseTime(t *testing.T) {
	data, err := json.Marshal(Answer{
		Question:     "q",
		Text:         "a",
		Source:       SourceGeneric,
		ResponseTime: 2500 * time.Microsecond,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2.5, got["response_time_ms"])
	assert.Equal(t, "a", got["answer"])
	assert.Equal(t, "generic", got["source"])
	assert.NotContains(t, got, "ResponseTime")
}
