// internal/domain/auth/repository.go
package auth

import "context"

// UserRepository stores the console accounts used by the local identity backend.
type UserRepository interface {
	Create(ctx context.Context, a *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Count(ctx context.Context) (int, error)
}
