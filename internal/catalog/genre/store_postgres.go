package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/database/schema"
	"github.com/mkazennov/kritika/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Genre, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug, schema.Genre.Table,
		schema.Genre.Name, schema.Genre.Name)

	rows, err := repository.db.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres_rows")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`,
		schema.Genre.Table, schema.Genre.Name)

	var total int
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	return genres, total, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Genre.ID, schema.Genre.Name, schema.Genre.Slug,
		schema.Genre.Table, schema.Genre.Slug)

	g := &Genre{}
	if err := repository.db.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug); err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Genre.Table, schema.Genre.Name, schema.Genre.Slug, schema.Genre.ID)

	if err := repository.db.QueryRow(context, query, genre.Name, genre.Slug).Scan(&genre.ID); err != nil {
		return dberr.Wrap(err, "create_genre")
	}

	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Genre.Table, schema.Genre.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		// A restrict FK from catalog.genretitle surfaces here as a 409
		return dberr.Wrap(err, "delete_genre")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	return nil
}
