package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const feedbackSchema = `
CREATE TABLE IF NOT EXISTS listing_feedback (
	id BIGSERIAL PRIMARY KEY,
	chat_id BIGINT NOT NULL,
	listing_token TEXT NOT NULL,
	action TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// FeedbackRepository persists like/dislike reactions to Postgres.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository connects to Postgres and ensures the feedback
// table exists.
func NewFeedbackRepository(dsn string, maxConnections, maxIdleConnections int) (*FeedbackRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(maxConnections)
	db.SetMaxIdleConns(maxIdleConnections)

	if _, err := db.Exec(feedbackSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure feedback schema: %w", err)
	}

	return &FeedbackRepository{db: db}, nil
}

// Record stores one reaction.
func (r *FeedbackRepository) Record(ctx context.Context, chatID int64, listingToken string, action string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO listing_feedback (chat_id, listing_token, action) VALUES ($1, $2, $3)`,
		chatID, listingToken, action)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// Close releases the database connections.
func (r *FeedbackRepository) Close() error {
	return r.db.Close()
}
