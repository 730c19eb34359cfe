// Package llm implements the inference side of the review pipeline: prompt
// rendering, the client for the remote completion endpoint, and lenient
// parsing of whatever text the model sends back.
package llm

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// SystemPrompt is sent with every completion request to keep the model's
// reply machine-parseable.
const SystemPrompt = "You are a JSON-only expert code reviewer."

// promptData carries the values substituted into the review prompt. Code and
// language are embedded verbatim; no escaping is applied.
type promptData struct {
	Code     string
	Language string
}

// PromptBuilder renders the code-review prompt from its embedded template.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the embedded prompt template.
func NewPromptBuilder() (*PromptBuilder, error) {
	tmpl, err := template.ParseFS(promptFiles, "prompts/code_review.prompt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded review prompt: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// Render produces the full user prompt for the given code and language.
func (b *PromptBuilder) Render(code, language string) (string, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, promptData{Code: code, Language: language}); err != nil {
		return "", fmt.Errorf("failed to render review prompt: %w", err)
	}
	return buf.String(), nil
}
