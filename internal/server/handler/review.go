// Package handler provides the HTTP handlers for the review API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/codecritic/codecritic/internal/core"
	"github.com/codecritic/codecritic/internal/review"
	"github.com/codecritic/codecritic/internal/storage"
)

// ReviewHandler serves the review pipeline and the stored history.
type ReviewHandler struct {
	svc    *review.Service
	store  storage.Store
	logger *slog.Logger
}

// NewReviewHandler creates a handler backed by the given pipeline and store.
func NewReviewHandler(svc *review.Service, store storage.Store, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		svc:    svc,
		store:  store,
		logger: logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	History []core.StoredReview `json:"history"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Review runs the full pipeline for a submitted code snippet. Upstream and
// parse failures are degraded inside the pipeline, so the response is always
// a success-shaped ReviewResult.
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req core.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Code == "" || req.Language == "" {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "code and language are required"})
		return
	}

	result, err := h.svc.Review(r.Context(), &req)
	if err != nil {
		// Persistence failed but the review itself is usable. Respond with
		// it anyway; the loss is already logged by the pipeline.
		h.logger.Warn("review stored with errors", "filename", req.Filename, "error", err)
	}

	h.respondJSON(w, http.StatusOK, result)
}

// History returns every stored review, newest first.
func (h *ReviewHandler) History(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.ListReviews(r.Context())
	if err != nil {
		h.logger.Error("failed to list reviews", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load review history"})
		return
	}
	if reviews == nil {
		reviews = []core.StoredReview{}
	}

	h.respondJSON(w, http.StatusOK, historyResponse{History: reviews})
}

// HistoryByID returns a single stored review or a not-found error.
func (h *ReviewHandler) HistoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review id"})
		return
	}

	stored, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrReviewNotFound) {
			h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "Review not found"})
			return
		}
		h.logger.Error("failed to get review", "id", id, "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load review"})
		return
	}

	h.respondJSON(w, http.StatusOK, stored)
}

type insertRequest struct {
	Filename      string          `json:"filename"`
	ReviewSummary string          `json:"review_summary"`
	Issues        json.RawMessage `json:"issues"`
	Status        string          `json:"status"`
}

// Insert appends a row directly to the store. The issues value is stored as
// the JSON text it arrived as, without shape validation.
func (h *ReviewHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Filename == "" {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "filename is required"})
		return
	}
	if len(req.Issues) == 0 {
		req.Issues = json.RawMessage(`[]`)
	}

	if _, err := h.store.InsertReview(r.Context(), req.Filename, req.ReviewSummary, string(req.Issues), req.Status); err != nil {
		h.logger.Error("failed to insert review", "filename", req.Filename, "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to insert review"})
		return
	}

	h.respondJSON(w, http.StatusOK, messageResponse{Message: "Inserted successfully"})
}

// SaveReview persists a complete ReviewResult, re-serializing its issue list
// to JSON text for storage.
func (h *ReviewHandler) SaveReview(w http.ResponseWriter, r *http.Request) {
	var result core.ReviewResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if result.Filename == "" {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "filename is required"})
		return
	}
	if result.Issues == nil {
		result.Issues = []core.Issue{}
	}

	issuesJSON, err := json.Marshal(result.Issues)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid issues"})
		return
	}

	if _, err := h.store.InsertReview(r.Context(), result.Filename, result.Review, string(issuesJSON), core.StatusCompleted); err != nil {
		h.logger.Error("failed to save review", "filename", result.Filename, "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save review"})
		return
	}

	h.respondJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (h *ReviewHandler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
