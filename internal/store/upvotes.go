package store

import (
	"context"
	"fmt"
	"time"

	"github.com/princepal9120/vibestack/internal/apperr"
)

// AddUpvote records one user's upvote and increments the project counter
// atomically. A duplicate upvote surfaces as ErrAlreadyExists; the
// primary key on (user_id, project_id) closes the concurrent-double-vote
// race at the database level.
func (db *DB) AddUpvote(ctx context.Context, userID, projectID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET upvote_count = upvote_count + 1 WHERE id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("store: bump upvote count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO upvotes (user_id, project_id, created_at) VALUES (?, ?, ?)`,
		userID, projectID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: insert upvote: %w", err)
	}

	return tx.Commit()
}

// RemoveUpvote deletes a user's upvote and decrements the project counter
// atomically. A missing upvote surfaces as ErrNotFound.
func (db *DB) RemoveUpvote(ctx context.Context, userID, projectID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`DELETE FROM upvotes WHERE user_id = ? AND project_id = ?`, userID, projectID)
	if err != nil {
		return fmt.Errorf("store: delete upvote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET upvote_count = MAX(upvote_count - 1, 0) WHERE id = ?`, projectID); err != nil {
		return fmt.Errorf("store: drop upvote count: %w", err)
	}

	return tx.Commit()
}

// HasUpvoted reports whether the user has an active upvote on the project.
func (db *DB) HasUpvoted(ctx context.Context, userID, projectID string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM upvotes WHERE user_id = ? AND project_id = ?`,
		userID, projectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: has upvoted: %w", err)
	}
	return n > 0, nil
}
