// internal/identity/mock.go
package identity

import (
	"context"
	"time"

	"cms-admin/internal/domain/auth"
)

// MockToken is the token every mock exchange resolves with.
const MockToken = "fake-jwt-token"

// MockBackend resolves every exchange after a fixed delay. Login always yields
// an admin and register always yields an editor; the roles stand in for real
// role assignment.
type MockBackend struct {
	delay time.Duration
	now   func() time.Time
}

func NewMockBackend(delay time.Duration) *MockBackend {
	return &MockBackend{delay: delay, now: time.Now}
}

func (b *MockBackend) Login(ctx context.Context, email, _ string) (*auth.Result, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	now := b.now()
	return &auth.Result{
		User: &auth.User{
			ID:        "1",
			Username:  "admin",
			Email:     email,
			Role:      auth.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Token: MockToken,
	}, nil
}

func (b *MockBackend) Register(ctx context.Context, username, email, _ string) (*auth.Result, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	now := b.now()
	return &auth.Result{
		User: &auth.User{
			ID:        "2",
			Username:  username,
			Email:     email,
			Role:      auth.RoleEditor,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Token: MockToken,
	}, nil
}

func (b *MockBackend) wait(ctx context.Context) error {
	if b.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
