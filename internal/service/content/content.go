// internal/service/content/content.go
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cms-admin/internal/domain/auth"
	"cms-admin/internal/domain/category"
	"cms-admin/internal/domain/content"
	xerrors "cms-admin/internal/pkg/errors"
	"cms-admin/internal/pkg/slug"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ContentService struct {
	contentRepo  content.Repository
	categoryRepo category.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewContentService(contentRepo content.Repository, categoryRepo category.Repository, logger *zap.Logger) *ContentService {
	return &ContentService{
		contentRepo:  contentRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns the items matching filter with their categories resolved.
func (s *ContentService) List(ctx context.Context, filter content.ListFilter) ([]*content.Content, error) {
	if filter.Status != "" && filter.Status != content.StatusAll && !content.Status(filter.Status).Valid() {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown status %q", filter.Status))
	}

	items, err := s.contentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	if err := s.resolveCategories(ctx, items...); err != nil {
		return nil, err
	}
	return items, nil
}

// Recent returns the newest limit items.
func (s *ContentService) Recent(ctx context.Context, limit int) ([]*content.Content, error) {
	items, err := s.contentRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent contents: %w", err)
	}
	if err := s.resolveCategories(ctx, items...); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ContentService) Count(ctx context.Context) (int, error) {
	return s.contentRepo.Count(ctx)
}

func (s *ContentService) Get(ctx context.Context, id string) (*content.Content, error) {
	c, err := s.contentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCategories(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Create stores a new item authored by author. An empty slug is derived from
// the title and an empty status means draft.
func (s *ContentService) Create(ctx context.Context, author *auth.User, req *content.CreateContentRequest) (*content.Content, error) {
	status := req.Status
	if status == "" {
		status = content.StatusDraft
	}
	if !status.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown status %q", status))
	}

	categoryIDs, err := s.checkCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &content.Content{
		ID:            ulid.Make().String(),
		Title:         strings.TrimSpace(req.Title),
		Slug:          pickSlug(req.Slug, req.Title),
		Body:          req.Body,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		CategoryIDs:   categoryIDs,
		Tags:          normalizeTags(req.Tags),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if author != nil {
		c.Author = content.Author{ID: author.ID, Username: author.Username}
	}
	if status == content.StatusPublished {
		c.PublishedAt = &now
	}
	if c.Slug == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "title does not produce a slug")
	}

	if err := s.contentRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create content", zap.Error(err))
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	s.logger.Info("content created",
		zap.String("content_id", c.ID),
		zap.String("slug", c.Slug),
		zap.String("status", string(c.Status)),
	)

	return c, s.resolveCategories(ctx, c)
}

// Update applies the non-nil fields of req. PublishedAt is stamped when the item
// becomes published and cleared when it leaves that status.
func (s *ContentService) Update(ctx context.Context, id string, req *content.UpdateContentRequest) (*content.Content, error) {
	c, err := s.contentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		c.Slug = pickSlug(*req.Slug, c.Title)
	}
	if req.Body != nil {
		c.Body = *req.Body
	}
	if req.Excerpt != nil {
		c.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		c.FeaturedImage = *req.FeaturedImage
	}
	if req.Tags != nil {
		c.Tags = normalizeTags(*req.Tags)
	}
	if req.CategoryIDs != nil {
		ids, err := s.checkCategories(ctx, *req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		c.CategoryIDs = ids
	}

	now := s.now()
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("unknown status %q", *req.Status))
		}
		switch {
		case *req.Status != content.StatusPublished:
			c.PublishedAt = nil
		case c.Status != content.StatusPublished || c.PublishedAt == nil:
			c.PublishedAt = &now
		}
		c.Status = *req.Status
	}
	if c.Slug == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "slug cannot be empty")
	}
	c.UpdatedAt = now

	if err := s.contentRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	s.logger.Info("content updated", zap.String("content_id", c.ID))
	return c, s.resolveCategories(ctx, c)
}

func (s *ContentService) Delete(ctx context.Context, id string) error {
	if err := s.contentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	s.logger.Info("content deleted", zap.String("content_id", id))
	return nil
}

// checkCategories de-duplicates ids and rejects unknown ones.
func (s *ContentService) checkCategories(ctx context.Context, ids []string) (pq.StringArray, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return pq.StringArray{}, nil
	}

	found, err := s.categoryRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(found) != len(unique) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown category")
	}
	return pq.StringArray(unique), nil
}

func (s *ContentService) resolveCategories(ctx context.Context, items ...*content.Content) error {
	for _, c := range items {
		if len(c.CategoryIDs) == 0 {
			c.Categories = []*category.Category{}
			continue
		}
		cats, err := s.categoryRepo.FindByIDs(ctx, c.CategoryIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve categories: %w", err)
		}
		c.Categories = cats
	}
	return nil
}

func pickSlug(explicit, title string) string {
	if s := slug.Clean(explicit); s != "" {
		return s
	}
	return slug.Make(title)
}

// normalizeTags trims every tag and drops blanks and repeats, keeping order.
func normalizeTags(tags []string) pq.StringArray {
	out := pq.StringArray{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
