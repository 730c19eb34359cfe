package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecritic/codecritic/internal/core"
)

const wellFormedReply = `{
  "review": "Looks mostly fine.",
  "issues": [
    {
      "id": "issue-1",
      "type": "warning",
      "severity": "medium",
      "title": "Unchecked error",
      "description": "The error returned by Close is ignored.",
      "line": 42,
      "column": 2,
      "code": "defer f.Close()",
      "suggestion": "Check the error or log it.",
      "category": "bug"
    }
  ],
  "summary": {
    "totalIssues": 1,
    "criticalIssues": 0,
    "suggestions": 1,
    "overallScore": 85
  }
}`

func TestNormalizeModelOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON untouched",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "\n\n  {\"a\": 1}  \n",
			want:  `{"a": 1}`,
		},
		{
			name:  "json fence stripped",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "uppercase fence tag stripped",
			input: "```JSON\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "untagged fence stripped",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "opening fence without closing fence",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
		{
			name:  "trailing comma before brace repaired",
			input: "{\"a\": 1,\n}",
			want:  "{\"a\": 1\n}",
		},
		{
			name:  "trailing comma before bracket repaired",
			input: "{\"a\": [1, 2,\n]}",
			want:  "{\"a\": [1, 2\n]}",
		},
		{
			name:  "fence and trailing comma together",
			input: "```json\n{\"a\": 1,\n}\n```",
			want:  "{\"a\": 1\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModelOutput(tt.input))
		})
	}
}

func TestParseReviewResult_RoundTrip(t *testing.T) {
	got, err := ParseReviewResult(wellFormedReply, "main.go")
	require.NoError(t, err)

	assert.Equal(t, "main.go", got.Filename)
	assert.Equal(t, "Looks mostly fine.", got.Review)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "issue-1", got.Issues[0].ID)
	assert.Equal(t, "warning", got.Issues[0].Type)
	assert.Equal(t, 42, got.Issues[0].Line)
	assert.Equal(t, core.Summary{TotalIssues: 1, CriticalIssues: 0, Suggestions: 1, OverallScore: 85}, got.Summary)
}

func TestParseReviewResult_FencedEqualsUnfenced(t *testing.T) {
	fenced := "```json\n" + wellFormedReply + "\n```"

	plain, err := ParseReviewResult(wellFormedReply, "a.go")
	require.NoError(t, err)
	wrapped, err := ParseReviewResult(fenced, "a.go")
	require.NoError(t, err)

	assert.Equal(t, plain, wrapped)
}

func TestParseReviewResult_MissingKeysDefaulted(t *testing.T) {
	got, err := ParseReviewResult(`{"review": "short"}`, "b.go")
	require.NoError(t, err)

	assert.Equal(t, "short", got.Review)
	assert.NotNil(t, got.Issues)
	assert.Empty(t, got.Issues)
	assert.Equal(t, core.Summary{}, got.Summary)
}

func TestParseReviewResult_UnknownEnumValuesPassThrough(t *testing.T) {
	reply := `{"issues": [{"id": "x", "type": "catastrophe", "severity": "apocalyptic", "category": "vibes"}]}`

	got, err := ParseReviewResult(reply, "c.go")
	require.NoError(t, err)

	require.Len(t, got.Issues, 1)
	assert.Equal(t, "catastrophe", got.Issues[0].Type)
	assert.Equal(t, "apocalyptic", got.Issues[0].Severity)
	assert.Equal(t, "vibes", got.Issues[0].Category)
}

func TestParseReviewResult_InvalidJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"prose", "I could not produce JSON today, sorry."},
		{"truncated object", `{"review": "cut off`},
		{"fenced garbage", "```json\nnot json at all\n```"},
		{"comma mid-line not repaired", `{"a": 1,}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewResult(tt.input, "d.go")
			require.Error(t, err)
			assert.Nil(t, got)

			var parseErr *core.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.NotEmpty(t, parseErr.Raw)
		})
	}
}
