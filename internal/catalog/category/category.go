// Package category manages the top-level grouping of titles (books, films, music).
package category

import "context"

// Category is a coarse content class a title belongs to, addressed by slug.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Repository defines the persistence contract for categories.
type Repository interface {
	// List returns a page of categories matching an optional name search,
	// together with the total match count.
	List(context context.Context, search string, limit, offset int) ([]*Category, int, error)

	// FindBySlug returns the category addressed by slug.
	FindBySlug(context context.Context, slug string) (*Category, error)

	// Create persists a new category and fills in its generated ID.
	Create(context context.Context, category *Category) error

	// DeleteBySlug removes a category. Deletion is rejected while titles
	// still reference it.
	DeleteBySlug(context context.Context, slug string) error
}
