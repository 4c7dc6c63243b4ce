// internal/repository/memory/content_repo.go
package memory

import (
	"context"
	"sort"
	"sync"

	"cms-admin/internal/domain/content"
	xerrors "cms-admin/internal/pkg/errors"
)

type ContentRepository struct {
	mu       sync.RWMutex
	contents map[string]*content.Content
}

func NewContentRepository(seed ...*content.Content) *ContentRepository {
	r := &ContentRepository{contents: make(map[string]*content.Content)}
	for _, c := range seed {
		r.contents[c.ID] = c.Clone()
	}
	return r
}

// List returns the matching items, newest first.
func (r *ContentRepository) List(_ context.Context, filter content.ListFilter) ([]*content.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*content.Content, 0, len(r.contents))
	for _, c := range r.contents {
		if filter.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *ContentRepository) Recent(ctx context.Context, limit int) ([]*content.Content, error) {
	all, err := r.List(ctx, content.ListFilter{})
	if err != nil {
		return nil, err
	}
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *ContentRepository) FindByID(_ context.Context, id string) (*content.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contents[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *ContentRepository) Create(_ context.Context, c *content.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contents[c.ID]; ok {
		return xerrors.ErrConflict
	}
	if r.slugTakenLocked(c.Slug, c.ID) {
		return xerrors.Wrap(xerrors.ErrConflict, "content slug already exists")
	}
	r.contents[c.ID] = c.Clone()
	return nil
}

func (r *ContentRepository) Update(_ context.Context, c *content.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contents[c.ID]; !ok {
		return xerrors.ErrNotFound
	}
	if r.slugTakenLocked(c.Slug, c.ID) {
		return xerrors.Wrap(xerrors.ErrConflict, "content slug already exists")
	}
	r.contents[c.ID] = c.Clone()
	return nil
}

func (r *ContentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contents[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.contents, id)
	return nil
}

func (r *ContentRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contents), nil
}

func (r *ContentRepository) slugTakenLocked(slug, exceptID string) bool {
	for id, c := range r.contents {
		if id != exceptID && c.Slug == slug {
			return true
		}
	}
	return false
}

func sortNewestFirst(items []*content.Content) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
