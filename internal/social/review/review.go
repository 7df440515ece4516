// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

/*
Package review implements the social layer of Kritika: reviews on titles and
comments on reviews.

A user writes at most one review per title, scored 1 to 10. Every review write
recomputes the owning title's mean rating inside the same transaction, so a
read that follows a write always sees a rating consistent with the stored
reviews. Comments hang off reviews and carry no score.

# Authorization

Creation requires any authenticated user; editing and deletion require the
author, a moderator, or an admin. The decision itself lives in the authz
package; services here only supply the owner.
*/
package review

import (
	"context"
	"time"
)

// # Domain Entities

// Review is a scored, authored text about one title. Author serializes as the
// author's username.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// MeanScore returns the arithmetic mean of scores, or nil when there are
// none. It is the single definition of a title's stored rating: repositories
// persist exactly this value after every review write.
func MeanScore(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}

	mean := float64(sum) / float64(len(scores))
	return &mean
}

// Comment is an authored remark on a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// # Review Data Access

// ReviewRepository defines the persistence contract for reviews.
//
// Create, Update, and Delete each run in one transaction together with the
// title rating recompute.
type ReviewRepository interface {

	/*
		TitleExists reports whether a title row exists.

		Parameters:
		  - context: context.Context
		  - titleID: int64

		Returns:
		  - bool: Existence
		  - error: Retrieval failures
	*/
	TitleExists(context context.Context, titleID int64) (bool, error)

	/*
		ListByTitle returns a page of a title's reviews with author usernames
		resolved, plus the total count.

		Parameters:
		  - context: context.Context
		  - titleID: int64
		  - limit: int
		  - offset: int

		Returns:
		  - []*Review: Page ordered by publication date, newest first
		  - int: Total reviews on the title
		  - error: Retrieval failures
	*/
	ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	/*
		FindByID returns one review scoped to a title.

		Parameters:
		  - context: context.Context
		  - titleID: int64
		  - reviewID: int64

		Returns:
		  - *Review: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, titleID, reviewID int64) (*Review, error)

	/*
		FindByAuthorAndTitle returns the author's review on a title, if any.

		Parameters:
		  - context: context.Context
		  - authorID: string
		  - titleID: int64

		Returns:
		  - *Review: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByAuthorAndTitle(context context.Context, authorID string, titleID int64) (*Review, error)

	/*
		Create persists a review and recomputes the title rating in the same
		transaction, filling in the generated ID.

		Parameters:
		  - context: context.Context
		  - review: *Review

		Returns:
		  - error: Constraint (duplicate author/title) or execution failures
	*/
	Create(context context.Context, review *Review) error

	/*
		Update persists text and score changes and recomputes the title
		rating in the same transaction.

		Parameters:
		  - context: context.Context
		  - review: *Review

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Update(context context.Context, review *Review) error

	/*
		Delete removes a review (cascading its comments) and recomputes the
		title rating in the same transaction.

		Parameters:
		  - context: context.Context
		  - titleID: int64
		  - reviewID: int64

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, titleID, reviewID int64) error
}

// # Comment Data Access

// CommentRepository defines the persistence contract for comments.
type CommentRepository interface {

	/*
		ListByReview returns a page of a review's comments with author
		usernames resolved, plus the total count.

		Parameters:
		  - context: context.Context
		  - reviewID: int64
		  - limit: int
		  - offset: int

		Returns:
		  - []*Comment: Page ordered by publication date, oldest first
		  - int: Total comments on the review
		  - error: Retrieval failures
	*/
	ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	/*
		FindByID returns one comment scoped to a review.

		Parameters:
		  - context: context.Context
		  - reviewID: int64
		  - commentID: int64

		Returns:
		  - *Comment: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, reviewID, commentID int64) (*Comment, error)

	/*
		Create persists a comment, filling in the generated ID.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Execution failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		Update persists text changes to a comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Update(context context.Context, comment *Comment) error

	/*
		Delete removes a comment.

		Parameters:
		  - context: context.Context
		  - reviewID: int64
		  - commentID: int64

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, reviewID, commentID int64) error
}
