package store

import (
	"context"
	"fmt"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/models"
)

// CreateResource inserts a pending-review resource. A duplicate URL
// surfaces as ErrAlreadyExists via the UNIQUE index, so concurrent
// submissions of the same URL cannot both land.
func (db *DB) CreateResource(ctx context.Context, r *models.Resource) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO resources (id, title, url, description, status, submitter_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Title, r.URL, r.Description, r.Status, r.SubmitterID, r.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: create resource: %w", err)
	}
	return nil
}

// ResourceURLExists reports whether a resource with the given URL is
// already stored, whatever its review status.
func (db *DB) ResourceURLExists(ctx context.Context, url string) (bool, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources WHERE url = ?`, url).Scan(&n); err != nil {
		return false, fmt.Errorf("store: resource url exists: %w", err)
	}
	return n > 0, nil
}

// ListResources returns resources filtered by status; an empty status
// returns everything, newest first.
func (db *DB) ListResources(ctx context.Context, status string) ([]models.Resource, error) {
	q := `SELECT id, title, url, description, status, submitter_id, created_at FROM resources`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list resources: %w", err)
	}
	defer rows.Close()

	out := []models.Resource{}
	for rows.Next() {
		var r models.Resource
		if err := rows.Scan(&r.ID, &r.Title, &r.URL, &r.Description, &r.Status,
			&r.SubmitterID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
