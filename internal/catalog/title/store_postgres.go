// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkazennov/kritika/internal/catalog/category"
	"github.com/mkazennov/kritika/internal/catalog/genre"
	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/database/schema"
	"github.com/mkazennov/kritika/internal/platform/dberr"
)

// # Title Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a page of titles matching the filter, with category joined in and
genres aggregated per page.

Description: Filters combine with AND. The genre filter goes through an EXISTS
subquery on the junction so titles with several genres are not duplicated.

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
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {

	// Shared predicate for the page and count queries
	var conditions []string
	var args []any

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("c.%s = $%d", schema.Category.Slug, len(args)))
	}
	if filter.GenreSlug != "" {
		args = append(args, filter.GenreSlug)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s gt JOIN %s g ON gt.%s = g.%s WHERE gt.%s = t.%s AND g.%s = $%d)",
			schema.GenreTitle.Table, schema.Genre.Table,
			schema.GenreTitle.GenreID, schema.Genre.ID,
			schema.GenreTitle.TitleID, schema.Title.ID,
			schema.Genre.Slug, len(args)))
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		conditions = append(conditions, fmt.Sprintf("t.%s ILIKE '%%' || $%d || '%%'", schema.Title.Name, len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("t.%s = $%d", schema.Title.Year, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	baseQuery := fmt.Sprintf(`
		FROM %s t
		JOIN %s c ON t.%s = c.%s%s`,
		schema.Title.Table, schema.Category.Table,
		schema.Title.CategoryID, schema.Category.ID, where)

	countArgs := make([]any, len(args))
	copy(countArgs, args)

	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) "+baseQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_count_failed: %w", err)
	}

	args = append(args, limit)
	limitIdx := len(args)
	args = append(args, offset)

	pageQuery := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, c.%s, c.%s, c.%s
		%s
		ORDER BY t.%s ASC
		LIMIT $%d OFFSET $%d`,
		schema.Title.ID, schema.Title.Name, schema.Title.Year, schema.Title.Rating, schema.Title.Description,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug,
		baseQuery, schema.Title.Name, limitIdx, limitIdx+1)

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_list_failed: %w", err)
	}
	defer rows.Close()

	titles := []*Title{}
	byID := map[int64]*Title{}
	ids := []int64{}

	for rows.Next() {
		t := &Title{Category: &category.Category{}, Genres: []genre.Genre{}}
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Year, &t.Rating, &t.Description,
			&t.Category.ID, &t.Category.Name, &t.Category.Slug,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_title_repo_scan_failed: %w", err)
		}
		titles = append(titles, t)
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_rows_failed: %w", err)
	}

	if err := repository.attachGenres(context, byID, ids); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

/*
FindByID returns one title hydrated with category and genres.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, c.%s, c.%s, c.%s
		FROM %s t
		JOIN %s c ON t.%s = c.%s
		WHERE t.%s = $1`,
		schema.Title.ID, schema.Title.Name, schema.Title.Year, schema.Title.Rating, schema.Title.Description,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug,
		schema.Title.Table, schema.Category.Table,
		schema.Title.CategoryID, schema.Category.ID, schema.Title.ID)

	t := &Title{Category: &category.Category{}, Genres: []genre.Genre{}}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&t.ID, &t.Name, &t.Year, &t.Rating, &t.Description,
		&t.Category.ID, &t.Category.Name, &t.Category.Slug,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("postgres_title_repo_find_failed: %w", err)
	}

	if err := repository.attachGenres(context, map[int64]*Title{t.ID: t}, []int64{t.ID}); err != nil {
		return nil, err
	}

	return t, nil
}

/*
Create persists the title row and its genre associations in one transaction.

Parameters:
  - context: context.Context
  - title: *Title (Category resolved, timestamps set by the caller)
  - genreIDs: []int64

Returns:
  - error: Constraint or execution failures
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title, genreIDs []int64) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.Title.Table,
		schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID,
		schema.Title.CreatedAt, schema.Title.UpdatedAt,
		schema.Title.ID)

	err = transaction.QueryRow(context, query,
		title.Name,
		title.Year,
		title.Description,
		title.Category.ID,
		title.CreatedAt,
		title.UpdatedAt,
	).Scan(&title.ID)

	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_create")
	}

	if err := repository.updateJunction(context, transaction, title.ID, genreIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_title_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Update persists the title's fields and optionally replaces its genre set.

Description: The core UPDATE and the junction rewrite share one transaction so
a failed genre sync never leaves a half-updated title behind.

Parameters:
  - context: context.Context
  - title: *Title
  - genreIDs: []int64
  - syncGenres: bool (false leaves associations untouched)

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresRepository) Update(context context.Context, title *Title, genreIDs []int64, syncGenres bool) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1`,
		schema.Title.Table,
		schema.Title.Name, schema.Title.Year, schema.Title.Description, schema.Title.CategoryID, schema.Title.UpdatedAt,
		schema.Title.ID)

	tag, err := transaction.Exec(context, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.Category.ID,
		title.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	if syncGenres {
		if err := repository.updateJunction(context, transaction, title.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_title_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Delete removes a title. Reviews, comments, and genre associations cascade.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Title.Table, schema.Title.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

/*
updateJunction replaces a title's genre associations inside a transaction.

Description: Clear-and-insert. Prior rows for the title are flushed, then the
new set is queued through a pgx.Batch to bound network round trips.

Parameters:
  - context: context.Context
  - transaction: pgx.Tx
  - titleID: int64
  - genreIDs: []int64

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) updateJunction(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.GenreTitle.Table, schema.GenreTitle.TitleID)
	if _, err := transaction.Exec(context, delQuery, titleID); err != nil {
		return fmt.Errorf("postgres_title_repo_clear_genres_failed: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.GenreTitle.Table, schema.GenreTitle.TitleID, schema.GenreTitle.GenreID)
	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insQuery, titleID, genreID)
	}

	results := transaction.SendBatch(context, batch)
	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres_title_repo_insert_genres_failed: %w", err)
	}

	return nil
}

// attachGenres hydrates the Genres slice for every title in byID.
func (repository *PostgresRepository) attachGenres(context context.Context, byID map[int64]*Title, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT gt.%s, g.%s, g.%s, g.%s
		FROM %s gt
		JOIN %s g ON gt.%s = g.%s
		WHERE gt.%s = ANY($1)
		ORDER BY g.%s ASC`,
		schema.GenreTitle.TitleID, schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug,
		schema.GenreTitle.Table, schema.Genre.Table,
		schema.GenreTitle.GenreID, schema.Genre.ID,
		schema.GenreTitle.TitleID, schema.Genre.Name)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_genres_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		g := genre.Genre{}
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return fmt.Errorf("postgres_title_repo_genre_scan_failed: %w", err)
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}

	return rows.Err()
}
