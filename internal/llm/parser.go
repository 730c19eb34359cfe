package llm

import (
	"encoding/json"
	"strings"

	"github.com/codecritic/codecritic/internal/core"
)

// NormalizeModelOutput cleans the model's reply so it can be parsed as strict
// JSON. It handles the two quirks generative models produce most often:
// wrapping the JSON in a Markdown code fence, and leaving a trailing comma
// before a closing brace or bracket.
//
// The order matters: whitespace first, then fences, then comma repair.
func NormalizeModelOutput(raw string) string {
	s := strings.TrimSpace(raw)

	// Opening fence, optionally tagged with a language (```json).
	if strings.HasPrefix(s, "```") {
		rest := s[3:]
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			rest = rest[4:]
		}
		s = strings.TrimSpace(rest)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	// Dangling comma before a closing delimiter.
	s = strings.ReplaceAll(s, ",\n}", "\n}")
	s = strings.ReplaceAll(s, ",\n]", "\n]")

	return s
}

// modelReply is the lenient intermediate shape for the model's JSON. Pointer
// fields distinguish "absent" from "zero" so missing keys get defaults.
type modelReply struct {
	Review  *string       `json:"review"`
	Issues  []core.Issue  `json:"issues"`
	Summary *core.Summary `json:"summary"`
}

// ParseReviewResult normalizes raw model output and coerces it into a
// ReviewResult for the given filename. Missing keys default to an empty
// review, an empty issue list, and an all-zero summary. Issue enum fields are
// passed through as-is, whatever the model wrote in them.
//
// If the text is still not valid JSON after normalization, a *core.ParseError
// carrying the cleaned text is returned.
func ParseReviewResult(raw, filename string) (*core.ReviewResult, error) {
	cleaned := NormalizeModelOutput(raw)

	var reply modelReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, &core.ParseError{Raw: cleaned, Err: err}
	}

	result := &core.ReviewResult{
		Filename: filename,
		Issues:   []core.Issue{},
	}
	if reply.Review != nil {
		result.Review = *reply.Review
	}
	if reply.Issues != nil {
		result.Issues = reply.Issues
	}
	if reply.Summary != nil {
		result.Summary = *reply.Summary
	}
	return result, nil
}
