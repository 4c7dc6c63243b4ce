// internal/repository/memory/seed.go
package memory

import (
	"time"

	"cms-admin/internal/domain/category"
	"cms-admin/internal/domain/content"
)

// SeedCategories is the starting category set of a fresh console.
func SeedCategories(now time.Time) []*category.Category {
	return []*category.Category{
		{ID: "1", Name: "Technology", Slug: "technology", CreatedAt: now, UpdatedAt: now},
		{ID: "2", Name: "Design", Slug: "design", CreatedAt: now, UpdatedAt: now},
	}
}

// SeedContents is the starting content set of a fresh console.
func SeedContents(now time.Time) []*content.Content {
	return []*content.Content{
		{
			ID:          "1",
			Title:       "First Article",
			Slug:        "first-article",
			Body:        "Body of the first article...",
			Excerpt:     "Summary of the first article",
			Status:      content.StatusPublished,
			Author:      content.Author{ID: "1", Username: "admin"},
			CategoryIDs: []string{"1"},
			Tags:        []string{"react", "frontend"},
			CreatedAt:   now,
			UpdatedAt:   now,
			PublishedAt: &now,
		},
	}
}
