// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package title_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/catalog/category"
	"github.com/mkazennov/kritika/internal/catalog/genre"
	"github.com/mkazennov/kritika/internal/catalog/title"
	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/clock"
	"github.com/mkazennov/kritika/pkg/pointer"
)

// # Fakes

type fakeTitleRepository struct {
	byID      map[int64]*title.Title
	junctions map[int64][]int64
	nextID    int64
}

func newFakeTitleRepository() *fakeTitleRepository {
	return &fakeTitleRepository{byID: map[int64]*title.Title{}, junctions: map[int64][]int64{}, nextID: 1}
}

func (repository *fakeTitleRepository) List(_ context.Context, filter title.Filter, limit, offset int) ([]*title.Title, int, error) {
	titles := []*title.Title{}
	for _, t := range repository.byID {
		titles = append(titles, t)
	}
	return titles, len(titles), nil
}

func (repository *fakeTitleRepository) FindByID(_ context.Context, id int64) (*title.Title, error) {
	if t, ok := repository.byID[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, apperr.NotFound("Title")
}

func (repository *fakeTitleRepository) Create(_ context.Context, t *title.Title, genreIDs []int64) error {
	t.ID = repository.nextID
	repository.nextID++
	repository.byID[t.ID] = t
	repository.junctions[t.ID] = genreIDs
	return nil
}

func (repository *fakeTitleRepository) Update(_ context.Context, t *title.Title, genreIDs []int64, syncGenres bool) error {
	if _, ok := repository.byID[t.ID]; !ok {
		return apperr.NotFound("Title")
	}
	repository.byID[t.ID] = t
	if syncGenres {
		repository.junctions[t.ID] = genreIDs
	}
	return nil
}

func (repository *fakeTitleRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repository.byID[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repository.byID, id)
	return nil
}

type fakeCategoryRepository struct {
	bySlug map[string]*category.Category
}

func (repository *fakeCategoryRepository) List(_ context.Context, search string, limit, offset int) ([]*category.Category, int, error) {
	return nil, 0, nil
}

func (repository *fakeCategoryRepository) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	if c, ok := repository.bySlug[slug]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Category")
}

func (repository *fakeCategoryRepository) Create(_ context.Context, c *category.Category) error { return nil }

func (repository *fakeCategoryRepository) DeleteBySlug(_ context.Context, slug string) error { return nil }

type fakeGenreRepository struct {
	bySlug map[string]*genre.Genre
}

func (repository *fakeGenreRepository) List(_ context.Context, search string, limit, offset int) ([]*genre.Genre, int, error) {
	return nil, 0, nil
}

func (repository *fakeGenreRepository) FindBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	if g, ok := repository.bySlug[slug]; ok {
		return g, nil
	}
	return nil, apperr.NotFound("Genre")
}

func (repository *fakeGenreRepository) Create(_ context.Context, g *genre.Genre) error { return nil }

func (repository *fakeGenreRepository) DeleteBySlug(_ context.Context, slug string) error { return nil }

// # Fixtures

var frozen = clock.Fixed{Instant: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}

func newService(repository *fakeTitleRepository) *title.Service {
	categories := &fakeCategoryRepository{bySlug: map[string]*category.Category{
		"books": {ID: 1, Name: "Books", Slug: "books"},
	}}
	genres := &fakeGenreRepository{bySlug: map[string]*genre.Genre{
		"fantasy": {ID: 10, Name: "Fantasy", Slug: "fantasy"},
		"drama":   {ID: 11, Name: "Drama", Slug: "drama"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return title.NewService(repository, categories, genres, frozen, logger)
}

func validCreate() title.CreateInput {
	return title.CreateInput{
		Name:         "The Hobbit",
		Year:         1937,
		CategorySlug: "books",
		GenreSlugs:   []string{"fantasy"},
	}
}

// # Tests

/*
TestService_Create_YearBoundary pins the year rule to the server clock.
*/
func TestService_Create_YearBoundary(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		valid bool
	}{
		{"past_year", 1937, true},
		{"current_year", 2026, true},
		{"next_year", 2027, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeTitleRepository())

			input := validCreate()
			input.Year = tt.year
			created, err := service.Create(context.Background(), input)

			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.year, created.Year)
			} else {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, "year", ae.Details[0].Field)
			}
		})
	}
}

/*
TestService_Create_UnknownGenres verifies every bad slug is reported at once.
*/
func TestService_Create_UnknownGenres(t *testing.T) {
	service := newService(newFakeTitleRepository())

	input := validCreate()
	input.GenreSlugs = []string{"fantasy", "vaporwave", "cyberdrama"}
	_, err := service.Create(context.Background(), input)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "genre", ae.Details[0].Field)
	assert.Contains(t, ae.Details[0].Message, "vaporwave")
	assert.Contains(t, ae.Details[0].Message, "cyberdrama")
}

/*
TestService_Create_RequiresGenre verifies a title cannot exist without genres.
*/
func TestService_Create_RequiresGenre(t *testing.T) {
	service := newService(newFakeTitleRepository())

	input := validCreate()
	input.GenreSlugs = nil
	_, err := service.Create(context.Background(), input)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "genre", ae.Details[0].Field)
}

/*
TestService_Create_UnknownCategory verifies the category slug must resolve.
*/
func TestService_Create_UnknownCategory(t *testing.T) {
	service := newService(newFakeTitleRepository())

	input := validCreate()
	input.CategorySlug = "vinyl"
	_, err := service.Create(context.Background(), input)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "category", ae.Details[0].Field)
}

/*
TestService_Update_GenreSemantics pins the partial-update contract: an absent
genre list leaves associations untouched, a present one replaces them.
*/
func TestService_Update_GenreSemantics(t *testing.T) {
	repository := newFakeTitleRepository()
	service := newService(repository)

	created, err := service.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.Equal(t, []int64{10}, repository.junctions[created.ID])

	t.Run("absent_list_untouched", func(t *testing.T) {
		_, err := service.Update(context.Background(), created.ID, title.UpdateInput{
			Name: pointer.To("The Hobbit, or There and Back Again"),
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{10}, repository.junctions[created.ID])
	})

	t.Run("present_list_replaces", func(t *testing.T) {
		updated, err := service.Update(context.Background(), created.ID, title.UpdateInput{
			GenreSlugs: []string{"drama"},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{11}, repository.junctions[created.ID])
		require.Len(t, updated.Genres, 1)
		assert.Equal(t, "drama", updated.Genres[0].Slug)
	})
}

/*
TestService_Update_NotFound verifies unknown IDs surface as 404.
*/
func TestService_Update_NotFound(t *testing.T) {
	service := newService(newFakeTitleRepository())

	_, err := service.Update(context.Background(), 999, title.UpdateInput{Name: pointer.To("x")})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_TimestampsFollowClock pins creation and update times to the
injected clock.
*/
func TestService_TimestampsFollowClock(t *testing.T) {
	repository := newFakeTitleRepository()
	service := newService(repository)

	created, err := service.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, frozen.Instant, created.CreatedAt)
	assert.Equal(t, frozen.Instant, created.UpdatedAt)

	updated, err := service.Update(context.Background(), created.ID, title.UpdateInput{
		Name: pointer.To("The Hobbit, or There and Back Again"),
	})
	require.NoError(t, err)

	assert.Equal(t, frozen.Instant, updated.UpdatedAt)

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, frozen.Instant, stored.CreatedAt)
}
