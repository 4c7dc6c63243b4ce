// internal/domain/category/entity.go
package category

import (
	"context"
	"time"
)

type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	ParentID    *string   `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Repository interface {
	List(ctx context.Context) ([]*Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
