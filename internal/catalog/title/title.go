// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

/*
Package title manages the catalogued works users review: books, films, music.

A title belongs to exactly one category, carries one or more genres through the
catalog.genretitle junction, and exposes a derived rating — the average review
score, recomputed by the review domain inside the same transaction as every
review write.

# Architecture

  - Entities: Title with its hydrated Category and Genres.
  - Storage: Create and Update run in a single pgx transaction so the core row
    and the genre associations never diverge.
  - Validation: Category and genre slugs are resolved before any write; the
    year is checked against the server clock at request time.
*/
package title

import (
	"context"
	"time"

	"github.com/mkazennov/kritika/internal/catalog/category"
	"github.com/mkazennov/kritika/internal/catalog/genre"
)

// # Domain Entities

// Title is a catalogued work. Rating is never client-supplied: it is NULL
// until the first review exists and the mean score afterwards.
type Title struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Rating      *float64           `json:"rating"`
	Description string             `json:"description"`
	Category    *category.Category `json:"category"`
	Genres      []genre.Genre      `json:"genre"`
	CreatedAt   time.Time          `json:"-"`
	UpdatedAt   time.Time          `json:"-"`
}

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

// # Data Access

// Repository defines the persistence contract for titles.
type Repository interface {

	/*
		List returns a page of titles matching the filter, hydrated with
		category and genres, plus the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Title: Page ordered by name
		  - int: Total matches
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	/*
		FindByID returns one title hydrated with category and genres.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Title: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Title, error)

	/*
		Create persists the title row and its genre associations in one
		transaction, filling in the generated ID.

		Parameters:
		  - context: context.Context
		  - title: *Title (Category must carry a resolved ID)
		  - genreIDs: []int64

		Returns:
		  - error: Constraint or execution failures
	*/
	Create(context context.Context, title *Title, genreIDs []int64) error

	/*
		Update persists changed fields and, when syncGenres is true, replaces
		the genre association set, all in one transaction.

		Parameters:
		  - context: context.Context
		  - title: *Title
		  - genreIDs: []int64
		  - syncGenres: bool (false leaves associations untouched)

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Update(context context.Context, title *Title, genreIDs []int64, syncGenres bool) error

	/*
		Delete removes a title; reviews, comments, and genre associations go
		with it via cascading foreign keys.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, id int64) error
}
