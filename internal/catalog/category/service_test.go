package category_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/catalog/category"
	"github.com/mkazennov/kritika/internal/platform/apperr"
)

type fakeRepository struct {
	bySlug map[string]*category.Category
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bySlug: map[string]*category.Category{}, nextID: 1}
}

func (repository *fakeRepository) List(_ context.Context, search string, limit, offset int) ([]*category.Category, int, error) {
	categories := []*category.Category{}
	for _, c := range repository.bySlug {
		categories = append(categories, c)
	}
	return categories, len(categories), nil
}

func (repository *fakeRepository) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	if c, ok := repository.bySlug[slug]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Category")
}

func (repository *fakeRepository) Create(_ context.Context, c *category.Category) error {
	if _, ok := repository.bySlug[c.Slug]; ok {
		return apperr.ValidationError("Duplicate value violates a uniqueness constraint",
			apperr.FieldError{Field: "slug", Message: "Already exists"})
	}
	c.ID = repository.nextID
	repository.nextID++
	repository.bySlug[c.Slug] = c
	return nil
}

func (repository *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := repository.bySlug[slug]; !ok {
		return apperr.NotFound("Category")
	}
	delete(repository.bySlug, slug)
	return nil
}

func newService(repository *fakeRepository) *category.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return category.NewService(repository, logger)
}

func TestService_Create_DerivesSlug(t *testing.T) {
	tests := []struct {
		name         string
		categoryName string
		slug         string
		expectedSlug string
	}{
		{"explicit_slug_kept", "Science Fiction", "sci-fi", "sci-fi"},
		{"slug_derived_from_name", "Science Fiction", "", "science-fiction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeRepository())

			created, err := service.Create(context.Background(), tt.categoryName, tt.slug)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedSlug, created.Slug)
			assert.NotZero(t, created.ID)
		})
	}
}

func TestService_Create_DuplicateSlug(t *testing.T) {
	repository := newFakeRepository()
	service := newService(repository)

	_, err := service.Create(context.Background(), "Books", "books")
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "More Books", "books")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "slug", ae.Details[0].Field)
}

func TestService_Delete(t *testing.T) {
	repository := newFakeRepository()
	service := newService(repository)

	_, err := service.Create(context.Background(), "Books", "books")
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "books"))

	err = service.Delete(context.Background(), "books")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
