// internal/repository/postgres/content_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"cms-admin/internal/domain/content"
	xerrors "cms-admin/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type ContentRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
}

func NewContentRepository(db *pgxpool.Pool, dbWrapper *DB) *ContentRepository {
	return &ContentRepository{db: db, dbWrapper: dbWrapper}
}

const contentColumns = `
	id, title, slug, body, excerpt, featured_image, status,
	author_id, author_username, category_ids, tags,
	created_at, updated_at, published_at`

// scanContentRow is a helper function to scan a single content row
func (r *ContentRepository) scanContentRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*content.Content, error) {
	var c content.Content
	var categoryIDs, tags []string

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Body, &c.Excerpt, &c.FeaturedImage, &c.Status,
		&c.Author.ID, &c.Author.Username, pq.Array(&categoryIDs), pq.Array(&tags),
		&c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CategoryIDs = pq.StringArray(categoryIDs)
	c.Tags = pq.StringArray(tags)
	return &c, nil
}

// List filters by status and a case-insensitive search over title and body.
func (r *ContentRepository) List(ctx context.Context, filter content.ListFilter) ([]*content.Content, error) {
	status := filter.Status
	if status == content.StatusAll {
		status = ""
	}

	pattern := ""
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern = "%" + escapeLike(term) + "%"
	}

	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR title ILIKE $2 OR body ILIKE $2)
		ORDER BY created_at DESC, id DESC
	`
	return r.query(ctx, query, status, pattern)
}

func (r *ContentRepository) Recent(ctx context.Context, limit int) ([]*content.Content, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM contents
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	return r.query(ctx, query, limit)
}

func (r *ContentRepository) FindByID(ctx context.Context, id string) (*content.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`
	c, err := r.scanContentRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "find content")
	}
	return c, nil
}

func (r *ContentRepository) Create(ctx context.Context, c *content.Content) error {
	query := `
		INSERT INTO contents (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.Title, c.Slug, c.Body, c.Excerpt, c.FeaturedImage, c.Status,
		c.Author.ID, c.Author.Username, pq.Array(nonNil(c.CategoryIDs)), pq.Array(nonNil(c.Tags)),
		c.CreatedAt, c.UpdatedAt, c.PublishedAt,
	)
	return mapError(err, "create content")
}

// Update rewrites the item inside a transaction so the existence check and
// the write see the same row.
func (r *ContentRepository) Update(ctx context.Context, c *content.Content) error {
	tx, err := r.dbWrapper.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM contents WHERE id = $1 FOR UPDATE`, c.ID).Scan(&locked); err != nil {
		return mapError(err, "lock content")
	}

	query := `
		UPDATE contents
		SET title = $2, slug = $3, body = $4, excerpt = $5, featured_image = $6, status = $7,
		    category_ids = $8, tags = $9, updated_at = $10, published_at = $11
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, query,
		c.ID, c.Title, c.Slug, c.Body, c.Excerpt, c.FeaturedImage, c.Status,
		pq.Array(nonNil(c.CategoryIDs)), pq.Array(nonNil(c.Tags)), c.UpdatedAt, c.PublishedAt,
	)
	if err != nil {
		return mapError(err, "update content")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete content")
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *ContentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contents`).Scan(&n)
	return n, mapError(err, "count contents")
}

func (r *ContentRepository) query(ctx context.Context, query string, args ...interface{}) ([]*content.Content, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}
	defer rows.Close()

	out := []*content.Content{}
	for rows.Next() {
		c, err := r.scanContentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNil(s pq.StringArray) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return s
}
