package category

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

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Category, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug, schema.Category.Table,
		schema.Category.Name, schema.Category.Name)

	rows, err := repository.db.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories_rows")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`,
		schema.Category.Table, schema.Category.Name)

	var total int
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	return categories, total, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Category.ID, schema.Category.Name, schema.Category.Slug,
		schema.Category.Table, schema.Category.Slug)

	c := &Category{}
	if err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Category.Table, schema.Category.Name, schema.Category.Slug, schema.Category.ID)

	if err := repository.db.QueryRow(context, query, category.Name, category.Slug).Scan(&category.ID); err != nil {
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Category.Table, schema.Category.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		// A restrict FK from catalog.title surfaces here as a 409
		return dberr.Wrap(err, "delete_category")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}
