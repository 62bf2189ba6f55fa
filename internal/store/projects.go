package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/models"
)

const projectColumns = `id, owner_id, title, tagline, description, url,
	platform, category, upvote_count, comment_count, view_count,
	created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Tagline, &p.Description,
		&p.URL, &p.Platform, &p.Category, &p.UpvoteCount, &p.CommentCount,
		&p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a new project row.
func (db *DB) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, title, tagline, description, url,
			platform, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.OwnerID, p.Title, p.Tagline, p.Description, p.URL,
		p.Platform, p.Category, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: create project: %w", err)
	}
	return nil
}

// GetProject returns a project by id.
func (db *DB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := scanProject(db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get project: %w", err)
	}
	return p, nil
}

// ListProjects returns one page of projects matching the filters plus the
// total match count for pagination metadata.
func (db *DB) ListProjects(ctx context.Context, f Filters) ([]models.Project, int, error) {
	q := translate(f)

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects`+q.whereClause(), q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count projects: %w", err)
	}

	args := append(append([]any{}, q.args...), q.limit, q.offset)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects`+q.whereClause()+
			` ORDER BY `+q.orderBy+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

// IncrementViews bumps a project's view counter. A missing project is
// reported as not found.
func (db *DB) IncrementViews(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE projects SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: increment views: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
