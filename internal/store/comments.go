package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/models"
)

const commentColumns = `id, project_id, author_id, body, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns all comments on a project, oldest first.
func (db *DB) ListComments(ctx context.Context, projectID string) ([]models.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE project_id = ? ORDER BY created_at ASC, id ASC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetComment returns a comment by id.
func (db *DB) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	c, err := scanComment(db.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get comment: %w", err)
	}
	return c, nil
}

// CreateComment inserts a comment and increments the owning project's
// comment counter as a single transaction.
func (db *DB) CreateComment(ctx context.Context, c *models.Comment) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET comment_count = comment_count + 1 WHERE id = ?`, c.ProjectID)
	if err != nil {
		return fmt.Errorf("store: bump comment count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comments (id, project_id, author_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.ProjectID, c.AuthorID, c.Body, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert comment: %w", err)
	}

	return tx.Commit()
}

// UpdateComment replaces a comment's body. Ownership is checked by the
// caller before any mutation.
func (db *DB) UpdateComment(ctx context.Context, id, body string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, body, id)
	if err != nil {
		return fmt.Errorf("store: update comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment and decrements the owning project's
// comment counter as a single transaction.
func (db *DB) DeleteComment(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var projectID string
	if err := tx.QueryRowContext(ctx,
		`SELECT project_id FROM comments WHERE id = ?`, id).Scan(&projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("store: find comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete comment: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE projects SET comment_count = MAX(comment_count - 1, 0) WHERE id = ?
	`, projectID); err != nil {
		return fmt.Errorf("store: drop comment count: %w", err)
	}

	return tx.Commit()
}
