package content

import (
	"context"
	"testing"
	"time"

	"cms-admin/internal/domain/auth"
	"cms-admin/internal/domain/content"
	xerrors "cms-admin/internal/pkg/errors"
	"cms-admin/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *ContentService {
	t.Helper()
	svc := NewContentService(
		memory.NewContentRepository(memory.SeedContents(fixedNow.Add(-time.Hour))...),
		memory.NewCategoryRepository(memory.SeedCategories(fixedNow.Add(-time.Hour))...),
		zap.NewNop(),
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

func TestCreate_DefaultsAndDerivedFields(t *testing.T) {
	svc := newService(t)
	author := &auth.User{ID: "1", Username: "admin"}

	c, err := svc.Create(context.Background(), author, &content.CreateContentRequest{
		Title:       "Hello, Go World!",
		Body:        "body",
		CategoryIDs: []string{"1", "1", " 2 "},
		Tags:        []string{" go ", "go", "", "web"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "hello-go-world", c.Slug)
	assert.Equal(t, content.StatusDraft, c.Status)
	assert.Nil(t, c.PublishedAt)
	assert.Equal(t, content.Author{ID: "1", Username: "admin"}, c.Author)
	assert.Equal(t, []string{"go", "web"}, []string(c.Tags))
	assert.Equal(t, []string{"1", "2"}, []string(c.CategoryIDs))
	require.Len(t, c.Categories, 2)
	assert.Equal(t, "Technology", c.Categories[0].Name)
}

func TestCreate_PublishedStampsPublishedAt(t *testing.T) {
	svc := newService(t)

	c, err := svc.Create(context.Background(), nil, &content.CreateContentRequest{
		Title: "Launch", Body: "b", Status: content.StatusPublished, Slug: "my-launch",
	})
	require.NoError(t, err)
	require.NotNil(t, c.PublishedAt)
	assert.Equal(t, fixedNow, *c.PublishedAt)
	assert.Equal(t, "my-launch", c.Slug)
}

func TestCreate_Rejections(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, &content.CreateContentRequest{Title: "x", Body: "b", CategoryIDs: []string{"nope"}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = svc.Create(ctx, nil, &content.CreateContentRequest{Title: "!!!", Body: "b"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = svc.Create(ctx, nil, &content.CreateContentRequest{Title: "First Article", Body: "b"})
	assert.ErrorIs(t, err, xerrors.ErrConflict, "slug collides with the seeded article")
}

func TestUpdate_PublishTransitions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, nil, &content.CreateContentRequest{Title: "Draft", Body: "b"})
	require.NoError(t, err)

	published := content.StatusPublished
	c, err = svc.Update(ctx, c.ID, &content.UpdateContentRequest{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, c.PublishedAt)
	first := *c.PublishedAt

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	c, err = svc.Update(ctx, c.ID, &content.UpdateContentRequest{Title: strPtr("Draft v2"), Status: &published})
	require.NoError(t, err)
	assert.Equal(t, first, *c.PublishedAt, "staying published keeps the original stamp")
	assert.Equal(t, "draft", c.Slug, "slug is not re-derived unless asked")

	archived := content.StatusArchived
	c, err = svc.Update(ctx, c.ID, &content.UpdateContentRequest{Status: &archived})
	require.NoError(t, err)
	assert.Nil(t, c.PublishedAt)
}

func TestUpdate_EmptySlugRederivesFromTitle(t *testing.T) {
	svc := newService(t)

	c, err := svc.Update(context.Background(), "1", &content.UpdateContentRequest{
		Title: strPtr("Renamed Article"),
		Slug:  strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed-article", c.Slug)
}

func TestUpdate_Missing(t *testing.T) {
	svc := newService(t)
	_, err := svc.Update(context.Background(), "missing", &content.UpdateContentRequest{})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestList_FilterAndResolve(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	items, err := svc.List(ctx, content.ListFilter{Search: "first", Status: "published"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Categories, 1)
	assert.Equal(t, "Technology", items[0].Categories[0].Name)

	_, err = svc.List(ctx, content.ListFilter{Status: "bogus"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "1"))
	_, err := svc.Get(ctx, "1")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), xerrors.ErrNotFound)
}
