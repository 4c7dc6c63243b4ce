// internal/repository/memory/user_repo.go
package memory

import (
	"context"
	"strings"
	"sync"

	"cms-admin/internal/domain/auth"
	xerrors "cms-admin/internal/pkg/errors"
)

type UserRepository struct {
	mu       sync.RWMutex
	accounts map[string]*auth.Account
}

func NewUserRepository() *UserRepository {
	return &UserRepository{accounts: make(map[string]*auth.Account)}
}

func (r *UserRepository) Create(_ context.Context, a *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.ID]; ok {
		return xerrors.ErrConflict
	}
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return xerrors.ErrConflict
		}
	}

	stored := *a
	r.accounts[a.ID] = &stored
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			out := *a
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts), nil
}
