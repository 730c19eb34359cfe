package review

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecritic/codecritic/internal/core"
	"github.com/codecritic/codecritic/internal/db"
	"github.com/codecritic/codecritic/internal/llm"
	"github.com/codecritic/codecritic/internal/storage"
)

// completerFunc adapts a function to the llm.Completer interface.
type completerFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

func newTestService(t *testing.T, completer llm.Completer) (*Service, storage.Store) {
	t.Helper()

	conn, cleanup, err := db.NewDatabase(filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	prompts, err := llm.NewPromptBuilder()
	require.NoError(t, err)

	store := storage.NewStore(conn.DB)
	return NewService(prompts, completer, store, slog.Default()), store
}

func TestReviewSuccess(t *testing.T) {
	var gotUserPrompt string
	completer := completerFunc(func(_ context.Context, systemPrompt, userPrompt string) (string, error) {
		assert.Equal(t, llm.SystemPrompt, systemPrompt)
		gotUserPrompt = userPrompt
		return "```json\n" + `{
			"review": "One problem found.",
			"issues": [{"id": "i1", "type": "error", "severity": "high", "title": "Nil deref", "category": "bug"}],
			"summary": {"totalIssues": 1, "criticalIssues": 1, "suggestions": 0, "overallScore": 60}
		}` + "\n```", nil
	})

	svc, store := newTestService(t, completer)

	req := &core.ReviewRequest{Code: "func main() {}", Language: "Go", Filename: "main.go"}
	result, err := svc.Review(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, gotUserPrompt, "func main() {}")
	assert.Contains(t, gotUserPrompt, "Analyze the following Go code.")

	assert.Equal(t, "main.go", result.Filename)
	assert.Equal(t, "One problem found.", result.Review)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "Nil deref", result.Issues[0].Title)
	assert.Equal(t, 60, result.Summary.OverallScore)

	// The outcome is persisted.
	stored, err := store.ListReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "main.go", stored[0].Filename)
	assert.Equal(t, "One problem found.", stored[0].ReviewSummary)
	assert.JSONEq(t, `[{"id":"i1","type":"error","severity":"high","title":"Nil deref","description":"","line":0,"column":0,"code":"","suggestion":"","category":"bug"}]`, string(stored[0].Issues))
}

func TestReviewDegradesOnUpstreamError(t *testing.T) {
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		return "", &core.UpstreamError{Status: 503, Err: errors.New("service unavailable")}
	})

	svc, store := newTestService(t, completer)

	result, err := svc.Review(context.Background(), &core.ReviewRequest{Code: "x", Language: "Go", Filename: "a.go"})
	require.NoError(t, err)

	assert.Equal(t, core.DegradedResult("a.go"), result)

	// Degraded outcomes are stored too.
	stored, err := store.ListReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Failed to parse LLM output.", stored[0].ReviewSummary)
	assert.JSONEq(t, `[]`, string(stored[0].Issues))
}

func TestReviewDegradesOnUnparseableOutput(t *testing.T) {
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		return "Sure! Here is my review: the code looks great.", nil
	})

	svc, _ := newTestService(t, completer)

	result, err := svc.Review(context.Background(), &core.ReviewRequest{Code: "x", Language: "Go", Filename: "b.go"})
	require.NoError(t, err)

	assert.Equal(t, "Failed to parse LLM output.", result.Review)
	assert.Empty(t, result.Issues)
	assert.Equal(t, core.Summary{}, result.Summary)
}

func TestReviewSurfacesPersistenceError(t *testing.T) {
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		return `{"review": "fine", "issues": [], "summary": {"totalIssues":0,"criticalIssues":0,"suggestions":0,"overallScore":100}}`, nil
	})

	conn, cleanup, err := db.NewDatabase(filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)

	prompts, err := llm.NewPromptBuilder()
	require.NoError(t, err)
	svc := NewService(prompts, completer, storage.NewStore(conn.DB), slog.Default())

	// Closing the pool makes the insert fail while the pipeline succeeds.
	cleanup()

	result, err := svc.Review(context.Background(), &core.ReviewRequest{Code: "x", Language: "Go", Filename: "c.go"})
	require.Error(t, err)

	var persistErr *core.PersistenceError
	assert.True(t, errors.As(err, &persistErr))

	// The result is still usable so the caller can respond with it.
	require.NotNil(t, result)
	assert.Equal(t, "fine", result.Review)
}
