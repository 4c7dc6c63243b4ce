// internal/repository/memory/category_repo.go
package memory

import (
	"context"
	"sort"
	"sync"

	"cms-admin/internal/domain/category"
	xerrors "cms-admin/internal/pkg/errors"
)

type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*category.Category
}

func NewCategoryRepository(seed ...*category.Category) *CategoryRepository {
	r := &CategoryRepository{categories: make(map[string]*category.Category)}
	for _, c := range seed {
		stored := *c
		r.categories[c.ID] = &stored
	}
	return r
}

// List returns categories ordered by name.
func (r *CategoryRepository) List(_ context.Context) ([]*category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*category.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// FindByIDs returns the categories that exist, in the order of ids.
func (r *CategoryRepository) FindByIDs(_ context.Context, ids []string) ([]*category.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*category.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *CategoryRepository) Create(_ context.Context, c *category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[c.ID]; ok {
		return xerrors.ErrConflict
	}
	if r.slugTakenLocked(c.Slug, c.ID) {
		return xerrors.Wrap(xerrors.ErrConflict, "category slug already exists")
	}
	stored := *c
	r.categories[c.ID] = &stored
	return nil
}

func (r *CategoryRepository) Update(_ context.Context, c *category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[c.ID]; !ok {
		return xerrors.ErrNotFound
	}
	if r.slugTakenLocked(c.Slug, c.ID) {
		return xerrors.Wrap(xerrors.ErrConflict, "category slug already exists")
	}
	stored := *c
	r.categories[c.ID] = &stored
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *CategoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.categories), nil
}

func (r *CategoryRepository) slugTakenLocked(slug, exceptID string) bool {
	for id, c := range r.categories {
		if id != exceptID && c.Slug == slug {
			return true
		}
	}
	return false
}
