package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilderRender(t *testing.T) {
	builder, err := NewPromptBuilder()
	require.NoError(t, err)

	code := "def add(a, b):\n    return a + b"
	prompt, err := builder.Render(code, "Python")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Analyze the following Python code.")
	assert.Contains(t, prompt, code)
	assert.Contains(t, prompt, `"totalIssues": number`)
	assert.Contains(t, prompt, `"overallScore": number (0 to 100)`)
}

func TestPromptBuilderRenderPassesCodeVerbatim(t *testing.T) {
	builder, err := NewPromptBuilder()
	require.NoError(t, err)

	// Braces and fences in submitted code are embedded as-is, no escaping.
	code := "```go\nfunc main() { panic(\"{{oops}}\") }\n```"
	prompt, err := builder.Render(code, "Go")
	require.NoError(t, err)

	assert.Contains(t, prompt, code)
}
