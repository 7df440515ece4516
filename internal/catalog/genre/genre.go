// Package genre manages the fine-grained classification of titles.
package genre

import "context"

// Genre is a content label a title carries, addressed by slug. A title can
// carry several genres at once.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Repository defines the persistence contract for genres.
type Repository interface {
	// List returns a page of genres matching an optional name search,
	// together with the total match count.
	List(context context.Context, search string, limit, offset int) ([]*Genre, int, error)

	// FindBySlug returns the genre addressed by slug.
	FindBySlug(context context.Context, slug string) (*Genre, error)

	// Create persists a new genre and fills in its generated ID.
	Create(context context.Context, genre *Genre) error

	// DeleteBySlug removes a genre. Deletion is rejected while titles still
	// carry it.
	DeleteBySlug(context context.Context, slug string) error
}
