// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/authz"
	"github.com/mkazennov/kritika/internal/platform/clock"
	"github.com/mkazennov/kritika/internal/platform/constants"
)

// # Service Layer

// Service orchestrates review and comment use cases, including the
// authorization decisions that depend on resource ownership.
type Service struct {
	reviews  ReviewRepository
	comments CommentRepository
	clock    clock.Clock
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(reviews ReviewRepository, comments CommentRepository, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		reviews:  reviews,
		comments: comments,
		clock:    clk,
		logger:   logger,
	}
}

// ensureTitle maps a missing title to a 404 before any review operation.
func (service *Service) ensureTitle(context context.Context, titleID int64) error {
	exists, err := service.reviews.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// checkScore rejects scores outside the inclusive 1..10 range.
func checkScore(score int) error {
	if score < constants.MinScore || score > constants.MaxScore {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "score",
			Message: fmt.Sprintf("Must be between %d and %d", constants.MinScore, constants.MaxScore),
		})
	}
	return nil
}

// # Review Use Cases

/*
ListReviews returns a page of a title's reviews.

Parameters:
  - context: context.Context
  - titleID: int64
  - limit: int
  - offset: int

Returns:
  - []*Review: Page, newest first
  - int: Total reviews
  - error: Not found (unknown title) or retrieval failures
*/
func (service *Service) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.reviews.ListByTitle(context, titleID, limit, offset)
}

/*
GetReview returns one review scoped to a title.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64

Returns:
  - *Review: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, err
	}
	return service.reviews.FindByID(context, titleID, reviewID)
}

/*
CreateReview validates and persists a new review by the actor.

Description: One review per (author, title): a duplicate is rejected before
the write, and the unique constraint catches the loser of a concurrent race
with the same error shape. The title rating is recomputed in the same
transaction as the insert.

Parameters:
  - context: context.Context
  - actor: *authz.Actor
  - titleID: int64
  - text: string
  - score: int

Returns:
  - *Review: Created entity
  - error: Authorization, validation, or storage failures
*/
func (service *Service) CreateReview(context context.Context, actor *authz.Actor, titleID int64, text string, score int) (*Review, error) {
	if err := authz.Can(actor, authz.ActionCreate, authz.ResourceReview, ""); err != nil {
		return nil, err
	}

	if err := service.ensureTitle(context, titleID); err != nil {
		return nil, err
	}

	if err := checkScore(score); err != nil {
		return nil, err
	}

	// One review per author per title
	if _, err := service.reviews.FindByAuthorAndTitle(context, actor.ID, titleID); err == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "title",
			Message: "You have already reviewed this title",
		})
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     text,
		Score:    score,
		PubDate:  service.clock.Now(),
	}

	if err := service.reviews.Create(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int64("title_id", titleID),
		slog.String("author", actor.Username),
	)

	return review, nil
}

/*
UpdateReview applies text and score changes to a review the actor may edit.

Parameters:
  - context: context.Context
  - actor: *authz.Actor
  - titleID: int64
  - reviewID: int64
  - text: *string (nil leaves the text untouched)
  - score: *int (nil leaves the score untouched)

Returns:
  - *Review: Updated entity
  - error: Authorization, validation, not found, or storage failures
*/
func (service *Service) UpdateReview(context context.Context, actor *authz.Actor, titleID, reviewID int64, text *string, score *int) (*Review, error) {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.Can(actor, authz.ActionUpdate, authz.ResourceReview, review.AuthorID); err != nil {
		return nil, err
	}

	if text != nil {
		review.Text = *text
	}
	if score != nil {
		if err := checkScore(*score); err != nil {
			return nil, err
		}
		review.Score = *score
	}

	if err := service.reviews.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.Int64("review_id", review.ID))

	return review, nil
}

/*
DeleteReview removes a review the actor may delete, cascading its comments.

Parameters:
  - context: context.Context
  - actor: *authz.Actor
  - titleID: int64
  - reviewID: int64

Returns:
  - error: Authorization, not found, or storage failures
*/
func (service *Service) DeleteReview(context context.Context, actor *authz.Actor, titleID, reviewID int64) error {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.Can(actor, authz.ActionDestroy, authz.ResourceReview, review.AuthorID); err != nil {
		return err
	}

	if err := service.reviews.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted", slog.Int64("review_id", reviewID))

	return nil
}

// # Comment Use Cases

/*
ListComments returns a page of a review's comments.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64
  - limit: int
  - offset: int

Returns:
  - []*Comment: Page, oldest first
  - int: Total comments
  - error: Not found or retrieval failures
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.comments.ListByReview(context, reviewID, limit, offset)
}

/*
GetComment returns one comment scoped to a review under a title.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64
  - commentID: int64

Returns:
  - *Comment: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.comments.FindByID(context, reviewID, commentID)
}

/*
CreateComment persists a new comment by the actor on a review.

Parameters:
  - context: context.Context
  - actor: *authz.Actor
  - titleID: int64
  - reviewID: int64
  - text: string

Returns:
  - *Comment: Created entity
  - error: Authorization, not found, or storage failures
*/
func (service *Service) CreateComment(context context.Context, actor *authz.Actor, titleID, reviewID int64, text string) (*Comment, error) {
	if err := authz.Can(actor, authz.ActionCreate, authz.ResourceComment, ""); err != nil {
		return nil, err
	}

	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Author:   actor.Username,
		Text:     text,
		PubDate:  service.clock.Now(),
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("review_id", reviewID),
		slog.String("author", actor.Username),
	)

	return comment, nil
}

/*
UpdateComment applies text changes to a comment the actor may edit.

Parameters:
  - context: context.Context
  - actor: *authz.Actor
  - titleID: int64
  - reviewID: int64
  - commentID: int64
  - text: string

Returns:
  - *Comment: Updated entity
  - error: Authorization, not found, or storage failures
*/
func (service *Service) UpdateComment(context context.Context, actor *authz.Actor, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.Can(actor, authz.ActionUpdate, authz.ResourceComment, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.comments.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", comment.ID))

	return comment, nil
}

/*
DeleteComment removes a comment the actor may delete.

Parameters:
  - context: context.Context
  - actor: *authz.Actor
  - titleID: int64
  - reviewID: int64
  - commentID: int64

Returns:
  - error: Authorization, not found, or storage failures
*/
func (service *Service) DeleteComment(context context.Context, actor *authz.Actor, titleID, reviewID, commentID int64) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := authz.Can(actor, authz.ActionDestroy, authz.ResourceComment, comment.AuthorID); err != nil {
		return err
	}

	if err := service.comments.Delete(context, reviewID, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.Int64("comment_id", commentID))

	return nil
}
