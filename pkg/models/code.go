package models

import "time"

// CodeAction is one of the simulated code-assistant actions.
type CodeAction string

const (
	ActionExplain  CodeAction = "explain"
	ActionDebug    CodeAction = "debug"
	ActionComplete CodeAction = "complete"
)

// Language is a language offered by the code panel selector.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangJava       Language = "java"
	LangHTML       Language = "html"
)

// Languages lists the selector options in display order.
var Languages = []Language{LangPython, LangJavaScript, LangJava, LangHTML}

// CodeRequest is a pasted snippet plus the action to simulate.
type CodeRequest struct {
	Action   CodeAction `json:"action"`
	Language Language   `json:"language"`
	Code     string     `json:"code"`
}

// CodeResult is the simulated assistant output.
// Prompt is set when the user must supply code first.
type CodeResult struct {
	Action   CodeAction    `json:"action"`
	Language Language      `json:"language"`
	Text     string        `json:"text"`
	Prompt   bool          `json:"prompt"`
	Elapsed  time.Duration `json:"-"`
}
