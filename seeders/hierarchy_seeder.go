package seeders

import (
	"context"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func seedHierarchyLevel(ctx context.Context, tx pgx.Tx, table, parentColumn string, rows []hierarchyRow) error {
	log.Printf("  - seeding '%s'...", table)

	columns := []string{"id", "name", "code"}
	if parentColumn != "" {
		columns = append(columns, parentColumn)
	}
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(table).
		Columns(columns...).
		Suffix("ON CONFLICT (code) DO NOTHING")
	for _, r := range rows {
		values := []interface{}{r.ID, r.Name, r.Code}
		if parentColumn != "" {
			values = append(values, r.ParentID)
		}
		builder = builder.Values(values...)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s seed: %w", table, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}

	sequenceSQL := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))",
		table, pgx.Identifier{table}.Sanitize())
	if _, err := tx.Exec(ctx, sequenceSQL); err != nil {
		return fmt.Errorf("advance %s sequence: %w", table, err)
	}
	return nil
}

func seedSampleHierarchy(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := seedHierarchyLevel(ctx, tx, "markets", "", marketsData); err != nil {
		return err
	}
	if err := seedHierarchyLevel(ctx, tx, "regions", "market_id", regionsData); err != nil {
		return err
	}
	if err := seedHierarchyLevel(ctx, tx, "districts", "region_id", districtsData); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
