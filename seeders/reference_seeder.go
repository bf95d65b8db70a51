package seeders

import (
	"context"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// updateIfExists switches the reference seeders from skip to upsert on a known id.
const updateIfExists = false

func seedNamed(ctx context.Context, db *pgxpool.Pool, table string, rows []namedRow) error {
	log.Printf("  - seeding '%s'...", table)

	suffix := "ON CONFLICT (id) DO NOTHING"
	if updateIfExists {
		suffix = "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(table).
		Columns("id", "name").
		Suffix(suffix)
	for _, r := range rows {
		builder = builder.Values(r.ID, r.Name)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s seed: %w", table, err)
	}

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}
	log.Printf("    %d new rows in %s", tag.RowsAffected(), table)
	return nil
}
