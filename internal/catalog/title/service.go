// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkazennov/kritika/internal/catalog/category"
	"github.com/mkazennov/kritika/internal/catalog/genre"
	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/clock"
)

// # Service Layer

// Service orchestrates title management, resolving category and genre slugs
// before any write reaches storage.
type Service struct {
	repo       Repository
	categories category.Repository
	genres     genre.Repository
	clock      clock.Clock
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	repo Repository,
	categories category.Repository,
	genres genre.Repository,
	clk clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		clock:      clk,
		logger:     logger,
	}
}

// # Queries

/*
List returns a page of titles matching the filter.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Title: Page of hydrated titles
  - int: Total matches
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
Get returns one title by ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.FindByID(context, id)
}

// # Mutations

// CreateInput holds the client-supplied fields of a new title.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

/*
Create validates references and persists a new title.

Description: The category slug and every genre slug must resolve; unknown
genre slugs are reported together in one validation error. The year may not
lie after the server's current year.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Title: Created entity, hydrated
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	if err := service.checkYear(input.Year); err != nil {
		return nil, err
	}

	resolvedCategory, err := service.resolveCategory(context, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	resolvedGenres, genreIDs, err := service.resolveGenres(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	now := service.clock.Now()
	title := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    resolvedCategory,
		Genres:      resolvedGenres,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repo.Create(context, title, genreIDs); err != nil {
		return nil, err
	}

	service.logger.Info("title_created",
		slog.Int64("title_id", title.ID),
		slog.String("category", resolvedCategory.Slug),
	)

	return title, nil
}

// UpdateInput holds a partial title update. Nil pointers leave the current
// value untouched; a nil GenreSlugs slice leaves associations untouched while
// a present one replaces them.
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

/*
Update applies a partial update to a title.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *Title: Updated entity, hydrated
  - error: Not found, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Title, error) {
	title, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		if err := service.checkYear(*input.Year); err != nil {
			return nil, err
		}
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.CategorySlug != nil {
		resolvedCategory, err := service.resolveCategory(context, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.Category = resolvedCategory
	}

	// A present genre list replaces the association set; an absent one is
	// left alone.
	syncGenres := input.GenreSlugs != nil
	var genreIDs []int64
	if syncGenres {
		resolvedGenres, ids, err := service.resolveGenres(context, input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		title.Genres = resolvedGenres
		genreIDs = ids
	}

	title.UpdatedAt = service.clock.Now()

	if err := service.repo.Update(context, title, genreIDs, syncGenres); err != nil {
		return nil, err
	}

	service.logger.Info("title_updated", slog.Int64("title_id", title.ID))

	return title, nil
}

/*
Delete removes a title together with its reviews and comments.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Not found or execution failures
*/
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))

	return nil
}

// # Reference Resolution

// checkYear rejects years after the server's current calendar year.
func (service *Service) checkYear(year int) error {
	if currentYear := service.clock.Now().Year(); year > currentYear {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "year",
			Message: fmt.Sprintf("Cannot be after %d", currentYear),
		})
	}
	return nil
}

// resolveCategory turns a category slug into its entity.
func (service *Service) resolveCategory(context context.Context, slug string) (*category.Category, error) {
	resolved, err := service.categories.FindBySlug(context, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "category",
				Message: fmt.Sprintf("Unknown category slug %q", slug),
			})
		}
		return nil, err
	}
	return resolved, nil
}

// resolveGenres turns genre slugs into entities and IDs; every unknown slug
// is collected and reported in a single validation error.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, []int64, error) {
	if len(slugs) == 0 {
		return nil, nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "genre",
			Message: "At least one genre is required",
		})
	}

	resolved := make([]genre.Genre, 0, len(slugs))
	ids := make([]int64, 0, len(slugs))
	var unknown []string

	for _, slug := range slugs {
		g, err := service.genres.FindBySlug(context, slug)
		if err != nil {
			if apperr.IsNotFound(err) {
				unknown = append(unknown, slug)
				continue
			}
			return nil, nil, err
		}
		resolved = append(resolved, *g)
		ids = append(ids, g.ID)
	}

	if len(unknown) > 0 {
		return nil, nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "genre",
			Message: fmt.Sprintf("Unknown genre slugs: %s", strings.Join(unknown, ", ")),
		})
	}

	return resolved, ids, nil
}
