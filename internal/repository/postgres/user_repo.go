// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"

	"cms-admin/internal/domain/auth"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, role, avatar, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, a *auth.Account) error {
	query := `
		INSERT INTO console_users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Username, a.Email, a.Role, a.Avatar, a.PasswordHash, a.CreatedAt, a.UpdatedAt,
	)
	return mapError(err, "create user")
}

// FindByEmail matches the email without regard to case.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `SELECT ` + userColumns + ` FROM console_users WHERE LOWER(email) = LOWER($1)`
	return r.scan(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	query := `SELECT ` + userColumns + ` FROM console_users WHERE id = $1`
	return r.scan(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM console_users`).Scan(&n)
	return n, mapError(err, "count users")
}

func (r *UserRepository) scan(row interface {
	Scan(dest ...interface{}) error
}) (*auth.Account, error) {
	var a auth.Account
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.Role, &a.Avatar, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "find user")
	}
	return &a, nil
}
