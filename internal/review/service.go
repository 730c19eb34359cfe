// Package review orchestrates the review pipeline: render the prompt, call
// the inference provider, parse the reply, and persist the outcome.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/codecritic/codecritic/internal/core"
	"github.com/codecritic/codecritic/internal/llm"
	"github.com/codecritic/codecritic/internal/storage"
)

// Service runs code reviews end to end.
type Service struct {
	prompts   *llm.PromptBuilder
	completer llm.Completer
	store     storage.Store
	logger    *slog.Logger
}

// NewService wires the pipeline's collaborators together.
func NewService(prompts *llm.PromptBuilder, completer llm.Completer, store storage.Store, logger *slog.Logger) *Service {
	return &Service{
		prompts:   prompts,
		completer: completer,
		store:     store,
		logger:    logger,
	}
}

// Review executes the full pipeline for one request. Upstream and parse
// failures never propagate: the caller always receives a well-formed result,
// degraded to a placeholder when the model's reply was unusable. Both
// successful and degraded outcomes are appended to the review store.
//
// The returned error is non-nil only when persisting the outcome failed; the
// result is valid either way, so callers can still respond with it.
func (s *Service) Review(ctx context.Context, req *core.ReviewRequest) (*core.ReviewResult, error) {
	result := s.generate(ctx, req)

	issuesJSON, err := json.Marshal(result.Issues)
	if err != nil {
		// Issues came from json.Unmarshal, so this cannot realistically fail.
		return result, &core.PersistenceError{Op: "encode", Err: err}
	}

	if _, err := s.store.InsertReview(ctx, result.Filename, result.Review, string(issuesJSON), core.StatusCompleted); err != nil {
		s.logger.Error("failed to persist review", "filename", result.Filename, "error", err)
		return result, err
	}

	return result, nil
}

// generate produces a ReviewResult from the model, falling back to the
// degraded placeholder when the provider call or the parse fails.
func (s *Service) generate(ctx context.Context, req *core.ReviewRequest) *core.ReviewResult {
	prompt, err := s.prompts.Render(req.Code, req.Language)
	if err != nil {
		s.logger.Error("failed to render review prompt", "filename", req.Filename, "error", err)
		return core.DegradedResult(req.Filename)
	}

	reply, err := s.completer.Complete(ctx, llm.SystemPrompt, prompt)
	if err != nil {
		s.logger.Error("inference call failed, returning degraded result",
			"filename", req.Filename, "error", err)
		return core.DegradedResult(req.Filename)
	}

	result, err := llm.ParseReviewResult(reply, req.Filename)
	if err != nil {
		var parseErr *core.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Error("model output failed to parse, returning degraded result",
				"filename", req.Filename, "error", err, "raw", parseErr.Raw)
		} else {
			s.logger.Error("model output failed to parse, returning degraded result",
				"filename", req.Filename, "error", err)
		}
		return core.DegradedResult(req.Filename)
	}

	return result
}
