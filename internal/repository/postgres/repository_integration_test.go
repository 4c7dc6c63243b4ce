//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"cms-admin/internal/domain/auth"
	"cms-admin/internal/domain/category"
	"cms-admin/internal/domain/content"
	"cms-admin/internal/db"
	xerrors "cms-admin/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("cms_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, NewDB(pool).Migrate(ctx))
	require.NoError(t, NewDB(pool).Migrate(ctx), "migration is repeatable")
	return pool
}

func TestRepositories(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("users", func(t *testing.T) {
		repo := NewUserRepository(pool)
		acc := &auth.Account{
			User:         auth.User{ID: "u1", Username: "admin", Email: "Admin@Example.com", Role: auth.RoleAdmin, CreatedAt: now, UpdatedAt: now},
			PasswordHash: "hash",
		}
		require.NoError(t, repo.Create(ctx, acc))
		assert.ErrorIs(t, repo.Create(ctx, &auth.Account{User: auth.User{ID: "u2", Email: "admin@example.com", Role: auth.RoleEditor}}), xerrors.ErrConflict)

		found, err := repo.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", found.ID)
		assert.Equal(t, auth.RoleAdmin, found.Role)

		_, err = repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, xerrors.ErrNotFound)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	categories := NewCategoryRepository(pool)
	t.Run("categories", func(t *testing.T) {
		require.NoError(t, categories.Create(ctx, &category.Category{ID: "1", Name: "Technology", Slug: "technology", CreatedAt: now, UpdatedAt: now}))
		parent := "1"
		require.NoError(t, categories.Create(ctx, &category.Category{ID: "2", Name: "Design", Slug: "design", ParentID: &parent, CreatedAt: now, UpdatedAt: now}))
		assert.ErrorIs(t, categories.Create(ctx, &category.Category{ID: "3", Name: "Dup", Slug: "design"}), xerrors.ErrConflict)

		byIDs, err := categories.FindByIDs(ctx, []string{"2", "missing", "1"})
		require.NoError(t, err)
		require.Len(t, byIDs, 2)
		assert.Equal(t, "2", byIDs[0].ID)
		require.NotNil(t, byIDs[0].ParentID)

		list, err := categories.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Design", list[0].Name)

		assert.ErrorIs(t, categories.Update(ctx, &category.Category{ID: "missing", Slug: "x"}), xerrors.ErrNotFound)
	})

	t.Run("contents", func(t *testing.T) {
		repo := NewContentRepository(pool, NewDB(pool))
		c := &content.Content{
			ID: "c1", Title: "First Article", Slug: "first-article", Body: "Body with 100% coverage",
			Status: content.StatusPublished, Author: content.Author{ID: "u1", Username: "admin"},
			CategoryIDs: []string{"1"}, Tags: []string{"go", "web"},
			CreatedAt: now, UpdatedAt: now, PublishedAt: &now,
		}
		require.NoError(t, repo.Create(ctx, c))
		require.NoError(t, repo.Create(ctx, &content.Content{
			ID: "c2", Title: "Draft", Slug: "draft", Body: "b", Status: content.StatusDraft,
			CreatedAt: now.Add(time.Minute), UpdatedAt: now,
		}))

		got, err := repo.FindByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "web"}, []string(got.Tags))
		assert.Equal(t, "admin", got.Author.Username)
		require.NotNil(t, got.PublishedAt)

		found, err := repo.List(ctx, content.ListFilter{Search: "FIRST", Status: content.StatusAll})
		require.NoError(t, err)
		require.Len(t, found, 1)

		found, err = repo.List(ctx, content.ListFilter{Search: "100%"})
		require.NoError(t, err)
		assert.Len(t, found, 1)

		drafts, err := repo.List(ctx, content.ListFilter{Status: "draft"})
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Empty(t, drafts[0].Tags)

		recent, err := repo.Recent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "c2", recent[0].ID)

		got.Title = "Renamed"
		got.Tags = []string{"go"}
		require.NoError(t, repo.Update(ctx, got))
		again, err := repo.FindByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", again.Title)
		assert.Equal(t, []string{"go"}, []string(again.Tags))

		assert.ErrorIs(t, repo.Update(ctx, &content.Content{ID: "missing"}), xerrors.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, "c2"))
		assert.ErrorIs(t, repo.Delete(ctx, "c2"), xerrors.ErrNotFound)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
