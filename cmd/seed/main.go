// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

// Command seed loads the bundled CSV fixtures into the database.
//
// # Files
//
// The data directory must contain:
//
//	category.csv     id,name,slug
//	genre.csv        id,name,slug
//	titles.csv       id,name,year,category
//	genre_title.csv  id,title_id,genre_id
//	users.csv        id,username,email,role,bio,first_name,last_name
//	review.csv       id,title_id,text,author,score,pub_date
//	comments.csv     id,review_id,text,author,pub_date
//
// Catalog and social rows keep their CSV ids so cross-file references stay
// intact; the sequences are advanced past the highest imported id. User rows
// are keyed by UUID in the database, so the importer maps each CSV user id to
// a freshly generated UUID in memory. After all rows land, every title rating
// is recomputed from its reviews.
//
// The whole import runs in one transaction: a broken fixture leaves the
// database untouched.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	pgstore "github.com/mkazennov/kritika/internal/platform/postgres"
	"github.com/mkazennov/kritika/pkg/uuid"
)

func main() {
	dataDir := flag.String("data", "./data/seed", "directory holding the CSV fixtures")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "kritika-seed"))

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, dsn, log)
	if err != nil {
		log.Error("connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	importer := &importer{dir: *dataDir, userIDs: make(map[int64]string), log: log}

	transaction, err := pool.Begin(ctx)
	if err != nil {
		log.Error("begin failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	// Import order follows the foreign keys.
	steps := []struct {
		name string
		run  func(context.Context, pgx.Tx) error
	}{
		{"users", importer.importUsers},
		{"categories", importer.importCategories},
		{"genres", importer.importGenres},
		{"titles", importer.importTitles},
		{"genre_title", importer.importGenreTitles},
		{"reviews", importer.importReviews},
		{"comments", importer.importComments},
		{"ratings", importer.recomputeRatings},
	}

	for _, step := range steps {
		if err := step.run(ctx, transaction); err != nil {
			log.Error("import failed", slog.String("step", step.name), slog.Any("error", err))
			os.Exit(1)
		}
		log.Info("import step done", slog.String("step", step.name))
	}

	if err := transaction.Commit(ctx); err != nil {
		log.Error("commit failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("seed complete")
}

// importer carries the data directory and the CSV-id to UUID mapping built
// while loading users.
type importer struct {
	dir     string
	userIDs map[int64]string
	log     *slog.Logger
}

// forEachRecord streams a CSV file and calls handle with a header-keyed map
// per row.
func (imp *importer) forEachRecord(filename string, handle func(row map[string]string) error) error {
	file, err := os.Open(imp.dir + "/" + filename)
	if err != nil {
		return fmt.Errorf("seed: open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("seed: read %s header: %w", filename, err)
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("seed: read %s line %d: %w", filename, line, err)
		}
		line++

		row := make(map[string]string, len(header))
		for index, column := range header {
			row[column] = record[index]
		}
		if err := handle(row); err != nil {
			return fmt.Errorf("seed: %s line %d: %w", filename, line, err)
		}
	}
}

func parseID(row map[string]string, column string) (int64, error) {
	id, err := strconv.ParseInt(row[column], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", column, row[column])
	}
	return id, nil
}

// resolveAuthor maps a CSV user id to the UUID generated during the user import.
func (imp *importer) resolveAuthor(row map[string]string, column string) (string, error) {
	csvID, err := parseID(row, column)
	if err != nil {
		return "", err
	}
	authorID, ok := imp.userIDs[csvID]
	if !ok {
		return "", fmt.Errorf("unknown user id %d", csvID)
	}
	return authorID, nil
}

// # Import Steps

func (imp *importer) importUsers(ctx context.Context, transaction pgx.Tx) error {
	return imp.forEachRecord("users.csv", func(row map[string]string) error {
		csvID, err := parseID(row, "id")
		if err != nil {
			return err
		}

		id := uuid.New()
		imp.userIDs[csvID] = id

		_, err = transaction.Exec(ctx, `
			INSERT INTO users.account (id, username, email, firstname, lastname, bio, role)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT ON CONSTRAINT account_username_key DO NOTHING`,
			id, row["username"], row["email"], row["first_name"], row["last_name"], row["bio"], row["role"],
		)
		return err
	})
}

func (imp *importer) importCategories(ctx context.Context, transaction pgx.Tx) error {
	if err := imp.forEachRecord("category.csv", func(row map[string]string) error {
		id, err := parseID(row, "id")
		if err != nil {
			return err
		}
		_, err = transaction.Exec(ctx, `
			INSERT INTO catalog.category (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`,
			id, row["name"], row["slug"],
		)
		return err
	}); err != nil {
		return err
	}
	return advanceSequence(ctx, transaction, "catalog.category")
}

func (imp *importer) importGenres(ctx context.Context, transaction pgx.Tx) error {
	if err := imp.forEachRecord("genre.csv", func(row map[string]string) error {
		id, err := parseID(row, "id")
		if err != nil {
			return err
		}
		_, err = transaction.Exec(ctx, `
			INSERT INTO catalog.genre (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`,
			id, row["name"], row["slug"],
		)
		return err
	}); err != nil {
		return err
	}
	return advanceSequence(ctx, transaction, "catalog.genre")
}

func (imp *importer) importTitles(ctx context.Context, transaction pgx.Tx) error {
	if err := imp.forEachRecord("titles.csv", func(row map[string]string) error {
		id, err := parseID(row, "id")
		if err != nil {
			return err
		}
		year, err := parseID(row, "year")
		if err != nil {
			return err
		}
		categoryID, err := parseID(row, "category")
		if err != nil {
			return err
		}
		_, err = transaction.Exec(ctx, `
			INSERT INTO catalog.title (id, name, year, categoryid)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, year = EXCLUDED.year, categoryid = EXCLUDED.categoryid`,
			id, row["name"], year, categoryID,
		)
		return err
	}); err != nil {
		return err
	}
	return advanceSequence(ctx, transaction, "catalog.title")
}

func (imp *importer) importGenreTitles(ctx context.Context, transaction pgx.Tx) error {
	return imp.forEachRecord("genre_title.csv", func(row map[string]string) error {
		titleID, err := parseID(row, "title_id")
		if err != nil {
			return err
		}
		genreID, err := parseID(row, "genre_id")
		if err != nil {
			return err
		}
		_, err = transaction.Exec(ctx, `
			INSERT INTO catalog.genretitle (titleid, genreid)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			titleID, genreID,
		)
		return err
	})
}

func (imp *importer) importReviews(ctx context.Context, transaction pgx.Tx) error {
	if err := imp.forEachRecord("review.csv", func(row map[string]string) error {
		id, err := parseID(row, "id")
		if err != nil {
			return err
		}
		titleID, err := parseID(row, "title_id")
		if err != nil {
			return err
		}
		authorID, err := imp.resolveAuthor(row, "author")
		if err != nil {
			return err
		}
		score, err := parseID(row, "score")
		if err != nil {
			return err
		}
		pubDate, err := time.Parse(time.RFC3339, row["pub_date"])
		if err != nil {
			return fmt.Errorf("invalid pub_date %q", row["pub_date"])
		}
		_, err = transaction.Exec(ctx, `
			INSERT INTO social.review (id, titleid, authorid, text, score, pubdate)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			id, titleID, authorID, row["text"], score, pubDate,
		)
		return err
	}); err != nil {
		return err
	}
	return advanceSequence(ctx, transaction, "social.review")
}

func (imp *importer) importComments(ctx context.Context, transaction pgx.Tx) error {
	if err := imp.forEachRecord("comments.csv", func(row map[string]string) error {
		id, err := parseID(row, "id")
		if err != nil {
			return err
		}
		reviewID, err := parseID(row, "review_id")
		if err != nil {
			return err
		}
		authorID, err := imp.resolveAuthor(row, "author")
		if err != nil {
			return err
		}
		pubDate, err := time.Parse(time.RFC3339, row["pub_date"])
		if err != nil {
			return fmt.Errorf("invalid pub_date %q", row["pub_date"])
		}
		_, err = transaction.Exec(ctx, `
			INSERT INTO social.comment (id, reviewid, authorid, text, pubdate)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			id, reviewID, authorID, row["text"], pubDate,
		)
		return err
	}); err != nil {
		return err
	}
	return advanceSequence(ctx, transaction, "social.comment")
}

// recomputeRatings refreshes every title's mean score from the imported reviews.
func (imp *importer) recomputeRatings(ctx context.Context, transaction pgx.Tx) error {
	_, err := transaction.Exec(ctx, `
		UPDATE catalog.title t
		SET rating = sub.mean
		FROM (
			SELECT titleid, AVG(score)::double precision AS mean
			FROM social.review
			GROUP BY titleid
		) sub
		WHERE t.id = sub.titleid`,
	)
	return err
}

// advanceSequence moves a table's id sequence past the highest imported id so
// subsequent API inserts do not collide with seeded rows.
func advanceSequence(ctx context.Context, transaction pgx.Tx, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s`,
		table, table,
	)
	_, err := transaction.Exec(ctx, query)
	return err
}
