package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/musaed-ai/musaed/pkg/chat"
	"github.com/musaed-ai/musaed/pkg/codeassist"
	"github.com/musaed-ai/musaed/pkg/models"
)

type askArgs struct {
	Question string `json:"question"`
}

type codeArgs struct {
	Action   string `json:"action"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

type historyArgs struct {
	Source string `json:"source"`
	Limit  int    `json:"limit"`
}

type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

var toolHandlers = map[string]toolHandler{
	"musaed_ask":         handleAsk,
	"musaed_code":        handleCode,
	"musaed_cache_stats": handleCacheStats,
	"musaed_history":     handleHistory,
}

var allTools = []ToolDefinition{
	{
		Name:        "musaed_ask",
		Description: "Ask the assistant a free-text question and get its answer.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"question"},
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The question to answer",
				},
			},
		},
	},
	{
		Name:        "musaed_code",
		Description: "Explain, debug or complete a code snippet.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"action", "language", "code"},
			"properties": map[string]any{
				"action": map[string]any{
					"type": "string",
					"enum": []string{string(models.ActionExplain), string(models.ActionDebug), string(models.ActionComplete)},
				},
				"language": map[string]any{
					"type": "string",
					"enum": languageNames(),
				},
				"code": map[string]any{
					"type":        "string",
					"description": "The snippet to work on",
				},
			},
		},
	},
	{
		Name:        "musaed_cache_stats",
		Description: "Show response cache statistics (entries, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "musaed_history",
		Description: "List recently answered questions from the transcript log.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"source": map[string]any{
					"type":        "string",
					"description": "Filter by answer source: cache, knowledge, greeting, technical, generic (optional)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Max entries to return (optional, default 20)",
				},
			},
		},
	},
}

func languageNames() []string {
	names := make([]string, len(models.Languages))
	for i, l := range models.Languages {
		names[i] = string(l)
	}
	return names
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleAsk(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args askArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	ans, err := chat.Ask(s.asker, args.Question)
	if errors.Is(err, chat.ErrEmptyQuestion) {
		return errorResult(chat.PromptEnterQuestion)
	}
	s.history.Record(ctx, "mcp", ans)
	return textResult(chat.Render(ans))
}

func handleCode(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args codeArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	res, err := s.code.Run(ctx, models.CodeRequest{
		Action:   models.CodeAction(args.Action),
		Language: models.Language(args.Language),
		Code:     args.Code,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("code action failed")
		return errorResult(codeassist.ErrorMessage + ": " + err.Error())
	}
	return textResult(res.Text)
}

func handleCacheStats(_ context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.cache == nil {
		return textResult("Cache is not configured.")
	}
	return textResult(formatCacheStats(s.cache.Stats()))
}

func handleHistory(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.history == nil {
		return textResult("History is not enabled.")
	}
	var args historyArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.history.Query(ctx, models.HistoryQueryOpts{
		Source: models.Source(args.Source),
		Limit:  limit,
	})
	if err != nil {
		return errorResult("Error querying history: " + err.Error())
	}
	return textResult(formatHistory(entries))
}
