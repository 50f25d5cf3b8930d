package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/musaed-ai/musaed/pkg/chat"
	"github.com/musaed-ai/musaed/pkg/codeassist"
	"github.com/musaed-ai/musaed/pkg/models"
)

const maxBodyBytes = 1 << 20

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer         string          `json:"answer"`
	Source         models.Source   `json:"source"`
	Category       models.Category `json:"category,omitempty"`
	Interrogative  bool            `json:"interrogative"`
	ResponseTimeMs float64         `json:"response_time_ms"`
	Smart          bool            `json:"smart"`
}

type codeResponse struct {
	Text      string  `json:"text"`
	Prompt    bool    `json:"prompt"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

type cacheResponse struct {
	models.CacheStats
	HitRate float64 `json:"hit_rate"`
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req askRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ans, err := chat.Ask(s.asker, req.Question)
	if errors.Is(err, chat.ErrEmptyQuestion) {
		writeJSONError(w, http.StatusBadRequest, chat.PromptEnterQuestion)
		return
	}
	s.history.Record(r.Context(), "http", ans)

	if ans.Source == models.SourceCache {
		w.Header().Set("X-Musaed-Cache", "hit")
	} else {
		w.Header().Set("X-Musaed-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, askResponse{
		Answer:         ans.Text,
		Source:         ans.Source,
		Category:       ans.Category,
		Interrogative:  ans.Interrogative,
		ResponseTimeMs: ans.ResponseTimeMs(),
		Smart:          true,
	})
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.CodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.code.Run(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, codeassist.ErrUnknownAction) || errors.Is(err, codeassist.ErrUnsupportedLanguage) {
			code = http.StatusBadRequest
		}
		s.log.Warn().Err(err).Str("action", string(req.Action)).Msg("code action failed")
		writeJSONError(w, code, codeassist.ErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, codeResponse{
		Text:      res.Text,
		Prompt:    res.Prompt,
		ElapsedMs: float64(res.Elapsed.Microseconds()) / 1000,
	})
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		stats := s.cache.Stats()
		writeJSON(w, http.StatusOK, cacheResponse{CacheStats: stats, HitRate: stats.HitRate()})
	case http.MethodDelete:
		s.cache.Clear()
		s.log.Info().Msg("response cache cleared")
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.history == nil {
		writeJSONError(w, http.StatusNotFound, "history is disabled")
		return
	}

	q := r.URL.Query()
	opts := models.HistoryQueryOpts{
		Channel: q.Get("channel"),
		Source:  models.Source(q.Get("source")),
		Limit:   50,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = n
	}

	entries, err := s.history.Query(r.Context(), opts)
	if err != nil {
		s.log.Error().Err(err).Msg("query history")
		writeJSONError(w, http.StatusInternalServerError, "history query failed")
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
