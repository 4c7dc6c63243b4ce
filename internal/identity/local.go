// internal/identity/local.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cms-admin/internal/domain/auth"
	xerrors "cms-admin/internal/pkg/errors"
	"cms-admin/internal/pkg/jwt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned by Profile when a token no longer resolves to an
// account.
var ErrInvalidToken = xerrors.ErrInvalidToken

// LocalBackend checks credentials against a user repository and issues RS256
// session tokens. It can also turn a stored token back into its user.
type LocalBackend struct {
	users  auth.UserRepository
	tokens *jwt.Manager
	logger *zap.Logger
	now    func() time.Time
}

func NewLocalBackend(users auth.UserRepository, tokens *jwt.Manager, logger *zap.Logger) *LocalBackend {
	return &LocalBackend{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

func (b *LocalBackend) Login(ctx context.Context, email, password string) (*auth.Result, error) {
	account, err := b.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return b.issue(&account.User)
}

// Register creates an editor account and signs into it.
func (b *LocalBackend) Register(ctx context.Context, username, email, password string) (*auth.Result, error) {
	account, err := b.create(ctx, username, email, password, auth.RoleEditor)
	if err != nil {
		return nil, err
	}
	return b.issue(&account.User)
}

// Profile verifies token and loads the account it was issued for.
func (b *LocalBackend) Profile(ctx context.Context, token string) (*auth.User, error) {
	claims, err := b.tokens.Verifier.Verify(token)
	if err != nil {
		return nil, xerrors.Wrap(ErrInvalidToken, err.Error())
	}

	account, err := b.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.Wrap(ErrInvalidToken, "account no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	return account.User.Clone(), nil
}

// SeedAdmin creates the bootstrap admin account unless an account with that
// email already exists.
func (b *LocalBackend) SeedAdmin(ctx context.Context, username, email, password string) error {
	_, err := b.users.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	if _, err := b.create(ctx, username, email, password, auth.RoleAdmin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	b.logger.Info("seeded admin account", zap.String("email", normalizeEmail(email)))
	return nil
}

func (b *LocalBackend) create(ctx context.Context, username, email, password string, role auth.Role) (*auth.Account, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "username, email and password are required")
	}

	_, err := b.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "email already registered")
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := b.now()
	account := &auth.Account{
		User: auth.User{
			ID:        ulid.Make().String(),
			Username:  username,
			Email:     email,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	}

	if err := b.users.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (b *LocalBackend) issue(user *auth.User) (*auth.Result, error) {
	token, _, err := b.tokens.Generator.Generate(jwt.Subject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &auth.Result{User: user.Clone(), Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
