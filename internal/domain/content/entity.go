// internal/domain/content/entity.go
package content

import (
	"context"
	"strings"
	"time"

	"cms-admin/internal/domain/category"

	"github.com/lib/pq"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known content statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Author is the denormalized reference to the account that created a content item.
type Author struct {
	ID       string `json:"id" db:"author_id"`
	Username string `json:"username" db:"author_username"`
}

type Content struct {
	ID            string         `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	Slug          string         `json:"slug" db:"slug"`
	Body          string         `json:"body" db:"body"`
	Excerpt       string         `json:"excerpt,omitempty" db:"excerpt"`
	FeaturedImage string         `json:"featured_image,omitempty" db:"featured_image"`
	Status        Status         `json:"status" db:"status"`
	Author        Author         `json:"author"`
	CategoryIDs   pq.StringArray `json:"category_ids" db:"category_ids"`
	Tags          pq.StringArray `json:"tags" db:"tags"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	PublishedAt   *time.Time     `json:"published_at,omitempty" db:"published_at"`

	// Categories is resolved from CategoryIDs by the service; it is not stored.
	Categories []*category.Category `json:"categories" db:"-"`
}

// Clone returns a copy that shares no slices with c.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := *c
	out.CategoryIDs = append(pq.StringArray(nil), c.CategoryIDs...)
	out.Tags = append(pq.StringArray(nil), c.Tags...)
	out.Categories = append([]*category.Category(nil), c.Categories...)
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		out.PublishedAt = &t
	}
	return &out
}

// ListFilter narrows a content listing. Search matches title or body without
// regard to case; an empty Status or "all" matches every status.
type ListFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

const StatusAll = "all"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Content, error)
	Recent(ctx context.Context, limit int) ([]*Content, error)
	FindByID(ctx context.Context, id string) (*Content, error)
	Create(ctx context.Context, c *Content) error
	Update(ctx context.Context, c *Content) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Matches applies the filter to a single item.
func (f ListFilter) Matches(c *Content) bool {
	if f.Status != "" && f.Status != StatusAll && string(c.Status) != f.Status {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.Body), term)
}
