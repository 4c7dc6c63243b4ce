// internal/service/category/category.go
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cms-admin/internal/domain/category"
	xerrors "cms-admin/internal/pkg/errors"
	"cms-admin/internal/pkg/slug"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type CategoryService struct {
	categoryRepo category.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewCategoryService(categoryRepo category.Repository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]*category.Category, error) {
	cats, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*category.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *CategoryService) Count(ctx context.Context) (int, error) {
	return s.categoryRepo.Count(ctx)
}

func (s *CategoryService) Create(ctx context.Context, req *category.CreateCategoryRequest) (*category.Category, error) {
	now := s.now()
	c := &category.Category{
		ID:          ulid.Make().String(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        pickSlug(req.Slug, req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Slug == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "name does not produce a slug")
	}
	if err := s.setParent(ctx, c, req.ParentID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category created", zap.String("category_id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *category.UpdateCategoryRequest) (*category.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		c.Slug = pickSlug(*req.Slug, c.Name)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.ParentID != nil {
		if err := s.setParent(ctx, c, req.ParentID); err != nil {
			return nil, err
		}
	}
	if c.Name == "" || c.Slug == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "name and slug cannot be empty")
	}
	c.UpdatedAt = s.now()

	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.Info("category updated", zap.String("category_id", c.ID))
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.logger.Info("category deleted", zap.String("category_id", id))
	return nil
}

// setParent validates and assigns parentID. An empty id detaches the category.
// Walking up from the parent must never reach c itself.
func (s *CategoryService) setParent(ctx context.Context, c *category.Category, parentID *string) error {
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		c.ParentID = nil
		return nil
	}

	id := strings.TrimSpace(*parentID)
	for cur, first := id, true; cur != ""; first = false {
		if cur == c.ID {
			return xerrors.Wrap(xerrors.ErrInvalidInput, "category cannot be its own ancestor")
		}
		parent, err := s.categoryRepo.FindByID(ctx, cur)
		if errors.Is(err, xerrors.ErrNotFound) {
			if first {
				return xerrors.Wrap(xerrors.ErrInvalidInput, "parent category does not exist")
			}
			break
		}
		if err != nil {
			return fmt.Errorf("failed to load parent category: %w", err)
		}
		if parent.ParentID == nil {
			break
		}
		cur = *parent.ParentID
	}

	c.ParentID = &id
	return nil
}

func pickSlug(explicit, name string) string {
	if s := slug.Clean(explicit); s != "" {
		return s
	}
	return slug.Make(name)
}
