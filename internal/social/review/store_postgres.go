// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/database/schema"
	"github.com/mkazennov/kritika/internal/platform/dberr"
)

// # Review Repository

// PostgresReviewRepository implements the ReviewRepository interface using pgx.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new PostgreSQL implementation of ReviewRepository.
func NewReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

/*
TitleExists reports whether a title row exists.

Parameters:
  - context: context.Context
  - titleID: int64

Returns:
  - bool: Existence
  - error: Retrieval failures
*/
func (repository *PostgresReviewRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.Title.Table, schema.Title.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_review_repo_title_exists_failed: %w", err)
	}

	return exists, nil
}

/*
ListByTitle returns a page of a title's reviews, newest first.

Parameters:
  - context: context.Context
  - titleID: int64
  - limit: int
  - offset: int

Returns:
  - []*Review: Page with author usernames resolved
  - int: Total reviews on the title
  - error: Retrieval failures
*/
func (repository *PostgresReviewRepository) ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON r.%s = a.%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC
		LIMIT $2 OFFSET $3`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.Account.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table, schema.Account.Table,
		schema.Review.AuthorID, schema.Account.ID,
		schema.Review.TitleID, schema.Review.PubDate)

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	reviews := []*Review{}
	for rows.Next() {
		review := &Review{}
		if err := rows.Scan(
			&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
			&review.Text, &review.Score, &review.PubDate,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_review_repo_scan_failed: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_rows_failed: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.Review.Table, schema.Review.TitleID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_count_failed: %w", err)
	}

	return reviews, total, nil
}

/*
FindByID returns one review scoped to a title.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64

Returns:
  - *Review: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresReviewRepository) FindByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON r.%s = a.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.Account.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table, schema.Account.Table,
		schema.Review.AuthorID, schema.Account.ID,
		schema.Review.TitleID, schema.Review.ID)

	return repository.scanOne(repository.pool.QueryRow(context, query, titleID, reviewID))
}

/*
FindByAuthorAndTitle returns the author's review on a title, if any.

Parameters:
  - context: context.Context
  - authorID: string
  - titleID: int64

Returns:
  - *Review: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresReviewRepository) FindByAuthorAndTitle(context context.Context, authorID string, titleID int64) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON r.%s = a.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.Account.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table, schema.Account.Table,
		schema.Review.AuthorID, schema.Account.ID,
		schema.Review.AuthorID, schema.Review.TitleID)

	return repository.scanOne(repository.pool.QueryRow(context, query, authorID, titleID))
}

/*
Create persists a review and recomputes the title rating in one transaction.

Description: The unique (author, title) constraint backs the service's
pre-check; a racing duplicate surfaces through dberr as the same validation
error shape.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: Constraint or execution failures
*/
func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		schema.Review.Table,
		schema.Review.TitleID, schema.Review.AuthorID, schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.ID)

	err = transaction.QueryRow(context, query,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.PubDate,
	).Scan(&review.ID)

	if err != nil {
		return dberr.Wrap(err, "postgres_review_repo_create")
	}

	if err := repository.recomputeRating(context, transaction, review.TitleID); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_review_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Update persists text and score changes and recomputes the title rating in one
transaction.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4
		WHERE %s = $1 AND %s = $2`,
		schema.Review.Table, schema.Review.Text, schema.Review.Score,
		schema.Review.ID, schema.Review.TitleID)

	tag, err := transaction.Exec(context, query, review.ID, review.TitleID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "postgres_review_repo_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	if err := repository.recomputeRating(context, transaction, review.TitleID); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_review_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Delete removes a review and recomputes the title rating in one transaction.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresReviewRepository) Delete(context context.Context, titleID, reviewID int64) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.Review.Table, schema.Review.TitleID, schema.Review.ID)

	tag, err := transaction.Exec(context, query, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	if err := repository.recomputeRating(context, transaction, titleID); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_review_repo_commit_failed: %w", err)
	}

	return nil
}

// recomputeRating refreshes the stored mean score for a title inside the
// caller's transaction. The mean itself comes from [MeanScore], which yields
// nil (stored as NULL) once the last review is gone.
func (repository *PostgresReviewRepository) recomputeRating(context context.Context, transaction pgx.Tx, titleID int64) error {
	scoresQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		schema.Review.Score, schema.Review.Table, schema.Review.TitleID)

	rows, err := transaction.Query(context, scoresQuery, titleID)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_scores_failed: %w", err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return fmt.Errorf("postgres_review_repo_score_scan_failed: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres_review_repo_score_rows_failed: %w", err)
	}
	rows.Close()

	updateQuery := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1",
		schema.Title.Table, schema.Title.Rating, schema.Title.ID)

	if _, err := transaction.Exec(context, updateQuery, titleID, MeanScore(scores)); err != nil {
		return fmt.Errorf("postgres_review_repo_rating_failed: %w", err)
	}

	return nil
}

// scanOne hydrates a single review row from the standard column list.
func (repository *PostgresReviewRepository) scanOne(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres_review_repo_find_failed: %w", err)
	}

	return review, nil
}

// # Comment Repository

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
ListByReview returns a page of a review's comments, oldest first.

Parameters:
  - context: context.Context
  - reviewID: int64
  - limit: int
  - offset: int

Returns:
  - []*Comment: Page with author usernames resolved
  - int: Total comments on the review
  - error: Retrieval failures
*/
func (repository *PostgresCommentRepository) ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON c.%s = a.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC
		LIMIT $2 OFFSET $3`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Account.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table, schema.Account.Table,
		schema.Comment.AuthorID, schema.Account.ID,
		schema.Comment.ReviewID, schema.Comment.PubDate)

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(
			&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
			&comment.Text, &comment.PubDate,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.Comment.Table, schema.Comment.ReviewID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	return comments, total, nil
}

/*
FindByID returns one comment scoped to a review.

Parameters:
  - context: context.Context
  - reviewID: int64
  - commentID: int64

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) FindByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON c.%s = a.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Account.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table, schema.Account.Table,
		schema.Comment.AuthorID, schema.Account.ID,
		schema.Comment.ReviewID, schema.Comment.ID)

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, reviewID, commentID).Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
Create persists a comment, filling in the generated ID.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Execution failures
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		schema.Comment.Table,
		schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.ID)

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.PubDate,
	).Scan(&comment.ID)

	if err != nil {
		return dberr.Wrap(err, "postgres_comment_repo_create")
	}

	return nil
}

/*
Update persists text changes to a comment.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3
		WHERE %s = $1 AND %s = $2`,
		schema.Comment.Table, schema.Comment.Text,
		schema.Comment.ID, schema.Comment.ReviewID)

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.ReviewID, comment.Text)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

/*
Delete removes a comment.

Parameters:
  - context: context.Context
  - reviewID: int64
  - commentID: int64

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, reviewID, commentID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.Comment.Table, schema.Comment.ReviewID, schema.Comment.ID)

	tag, err := repository.pool.Exec(context, query, reviewID, commentID)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
