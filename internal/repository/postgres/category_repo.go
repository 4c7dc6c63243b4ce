// internal/repository/postgres/category_repo.go
package postgres

import (
	"context"
	"fmt"

	"cms-admin/internal/domain/category"
	xerrors "cms-admin/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, created_at, updated_at`

func (r *CategoryRepository) scanRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*category.Category, error) {
	var c category.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`
	return r.query(ctx, query)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	c, err := r.scanRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "find category")
	}
	return c, nil
}

// FindByIDs returns the categories that exist, in the order of ids.
func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []string) ([]*category.Category, error) {
	if len(ids) == 0 {
		return []*category.Category{}, nil
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = ANY($1)
		ORDER BY array_position($1, id)
	`
	return r.query(ctx, query, pq.Array(ids))
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.CreatedAt, c.UpdatedAt)
	return mapError(err, "create category")
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, parent_id = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.UpdatedAt)
	if err != nil {
		return mapError(err, "update category")
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete category")
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, mapError(err, "count categories")
}

func (r *CategoryRepository) query(ctx context.Context, query string, args ...interface{}) ([]*category.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	out := []*category.Category{}
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
