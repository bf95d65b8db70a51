package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/types"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func pick(pool *pgxpool.Pool, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return pool
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// writeError translates constraint violations into domain errors. Only a
// primary key collision is reported as ErrDuplicateKey; other unique
// indexes (username, email) stay plain conflicts.
func writeError(err error, op string) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		name := pgConstraint(err)
		if strings.HasSuffix(name, "_pkey") {
			return fmt.Errorf("%s: %w: %w (%s)", op, apperrors.ErrDuplicateKey, apperrors.ErrConflict, name)
		}
		return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrConflict, name)
	case pgForeignKeyViolation:
		return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrForeignKey, pgConstraint(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// applyListFilter adds search, whitelisted filters, sort and paging to a select.
func applyListFilter(b sq.SelectBuilder, filter types.Filter, searchCols []string, filters map[string]string, sorts map[string]string, defaultSort string, paged bool) sq.SelectBuilder {
	if filter.Search != "" && len(searchCols) > 0 {
		or := sq.Or{}
		for _, col := range searchCols {
			or = append(or, sq.ILike{col: "%" + filter.Search + "%"})
		}
		b = b.Where(or)
	}
	for key, value := range filter.Filter {
		dbColumn, ok := filters[key]
		if !ok {
			continue
		}
		if items, ok := value.(string); ok && strings.Contains(items, ",") {
			b = b.Where(sq.Eq{dbColumn: strings.Split(items, ",")})
		} else {
			b = b.Where(sq.Eq{dbColumn: value})
		}
	}
	if !paged {
		return b
	}
	sorted := false
	for field, direction := range filter.Sort {
		column, ok := sorts[field]
		if !ok {
			continue
		}
		dir := "ASC"
		if strings.ToUpper(direction) == "DESC" {
			dir = "DESC"
		}
		b = b.OrderBy(column + " " + dir)
		sorted = true
	}
	if !sorted {
		b = b.OrderBy(defaultSort)
	}
	if filter.WithPagination {
		if filter.Limit > 0 {
			b = b.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			b = b.Offset(uint64(filter.Offset))
		}
	}
	return b
}
