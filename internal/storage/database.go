// Package storage persists completed reviews in an append-only table.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/codecritic/codecritic/internal/core"
)

// Store defines the review persistence operations. The table is append-only:
// rows are never updated or deleted.
type Store interface {
	// InsertReview appends one row and returns the store-assigned id. The
	// review date is assigned by the store's clock. An empty status defaults
	// to "completed". Callers are responsible for issuesJSON being valid
	// JSON text.
	InsertReview(ctx context.Context, filename, reviewSummary, issuesJSON, status string) (int64, error)

	// ListReviews returns all stored reviews, newest first.
	ListReviews(ctx context.Context) ([]core.StoredReview, error)

	// GetReview returns one review by id, or core.ErrReviewNotFound.
	GetReview(ctx context.Context, id int64) (*core.StoredReview, error)
}

type sqliteStore struct {
	db *sqlx.DB
}

// reviewRow is the scan target for the reviews table. The issues column is
// read as plain text; database/sql will not scan a TEXT value into
// json.RawMessage directly.
type reviewRow struct {
	ID            int64  `db:"id"`
	Filename      string `db:"filename"`
	ReviewSummary string `db:"review_summary"`
	Issues        string `db:"issues"`
	ReviewDate    string `db:"review_date"`
	Status        string `db:"status"`
}

func (r reviewRow) toStoredReview() core.StoredReview {
	return core.StoredReview{
		ID:            r.ID,
		Filename:      r.Filename,
		ReviewSummary: r.ReviewSummary,
		Issues:        json.RawMessage(r.Issues),
		ReviewDate:    r.ReviewDate,
		Status:        r.Status,
	}
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sqlx.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) InsertReview(ctx context.Context, filename, reviewSummary, issuesJSON, status string) (int64, error) {
	if status == "" {
		status = core.StatusCompleted
	}

	query := `INSERT INTO reviews (filename, review_summary, issues, status) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query, filename, reviewSummary, issuesJSON, status)
	if err != nil {
		return 0, &core.PersistenceError{Op: "insert", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &core.PersistenceError{Op: "insert", Err: err}
	}
	return id, nil
}

func (s *sqliteStore) ListReviews(ctx context.Context) ([]core.StoredReview, error) {
	// review_date has second granularity, so id breaks ties for rows
	// inserted within the same second.
	query := `
		SELECT id, filename, review_summary, issues, review_date, status
		FROM reviews
		ORDER BY review_date DESC, id DESC`

	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, &core.PersistenceError{Op: "list", Err: err}
	}

	reviews := make([]core.StoredReview, len(rows))
	for i, row := range rows {
		reviews[i] = row.toStoredReview()
	}
	return reviews, nil
}

func (s *sqliteStore) GetReview(ctx context.Context, id int64) (*core.StoredReview, error) {
	query := `
		SELECT id, filename, review_summary, issues, review_date, status
		FROM reviews
		WHERE id = ?`

	var row reviewRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrReviewNotFound
		}
		return nil, &core.PersistenceError{Op: "get", Err: err}
	}

	r := row.toStoredReview()
	return &r, nil
}
