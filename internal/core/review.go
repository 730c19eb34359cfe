// Package core defines the domain types and errors shared across the
// application. The types mirror the JSON schema the model is instructed to
// produce, so a well-formed reply deserializes directly into them.
package core

import "encoding/json"

// ReviewRequest is the caller's input to the review pipeline.
type ReviewRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Filename string `json:"filename"`
}

// Issue is a single finding reported by the model. The type, severity, and
// category fields are free-form strings: the model is asked for a fixed value
// set but its answers are passed through uninspected.
type Issue struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Code        string `json:"code"`
	Suggestion  string `json:"suggestion"`
	Category    string `json:"category"`
}

// Summary aggregates counts for a review. The counts come straight from the
// model and are not reconciled against the issue list.
type Summary struct {
	TotalIssues    int `json:"totalIssues"`
	CriticalIssues int `json:"criticalIssues"`
	Suggestions    int `json:"suggestions"`
	OverallScore   int `json:"overallScore"`
}

// ReviewResult is the outcome of one review request, returned to the caller
// and persisted in the review store.
type ReviewResult struct {
	Filename string  `json:"filename"`
	Review   string  `json:"review"`
	Issues   []Issue `json:"issues"`
	Summary  Summary `json:"summary"`
}

// DegradedResult is what the pipeline returns when the model's reply cannot
// be obtained or parsed. The caller still receives a well-formed body.
func DegradedResult(filename string) *ReviewResult {
	return &ReviewResult{
		Filename: filename,
		Review:   "Failed to parse LLM output.",
		Issues:   []Issue{},
		Summary:  Summary{},
	}
}

// StoredReview is one persisted row of the append-only review history.
// Issues holds the serialized issue list exactly as it was inserted.
type StoredReview struct {
	ID            int64           `json:"id"`
	Filename      string          `json:"filename"`
	ReviewSummary string          `json:"review_summary"`
	Issues        json.RawMessage `json:"issues"`
	ReviewDate    string          `json:"review_date"`
	Status        string          `json:"status"`
}

// StatusCompleted is the default status assigned to stored reviews.
const StatusCompleted = "completed"
