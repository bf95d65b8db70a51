package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ReferenceTable names a table that import rows may point at.
type ReferenceTable string

const (
	RefDistricts          ReferenceTable = "districts"
	RefEmployees          ReferenceTable = "employees"
	RefLocations          ReferenceTable = "locations"
	RefUserTypes          ReferenceTable = "user_types"
	RefTerminationReasons ReferenceTable = "termination_reasons"
	RefJobTitles          ReferenceTable = "job_titles"
)

// referenceKeys is the whitelist of queryable tables and their key column.
var referenceKeys = map[ReferenceTable]string{
	RefDistricts:          "id",
	RefEmployees:          "employee_id",
	RefLocations:          "location_id",
	RefUserTypes:          "id",
	RefTerminationReasons: "id",
	RefJobTitles:          "id",
}

type ReferenceRepositoryInterface interface {
	// ExistingIDs returns the subset of ids present in table, in a single query.
	ExistingIDs(ctx context.Context, table ReferenceTable, ids []int64) (map[int64]struct{}, error)
}

type referenceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReferenceRepository(storage *pgxpool.Pool, logger *zap.Logger) ReferenceRepositoryInterface {
	return &referenceRepository{storage: storage, logger: logger}
}

// existenceQuery binds ids as one int8[] parameter, so the statement stays
// under the 65535 bind parameter limit for any file size.
func existenceQuery(table ReferenceTable, ids []int64) (string, []interface{}, error) {
	column, ok := referenceKeys[table]
	if !ok {
		return "", nil, fmt.Errorf("unknown reference table %q", table)
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(column).From(string(table)).Where(sq.Expr(column+" = ANY(?)", ids)).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build existence query for %s: %w", table, err)
	}
	return query, args, nil
}

func (r *referenceRepository) ExistingIDs(ctx context.Context, table ReferenceTable, ids []int64) (map[int64]struct{}, error) {
	found := make(map[int64]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	query, args, err := existenceQuery(table, ids)
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s ids: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", table, err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s ids: %w", table, err)
	}

	r.logger.Debug("reference ids checked",
		zap.String("table", string(table)),
		zap.Int("requested", len(ids)),
		zap.Int("found", len(found)))
	return found, nil
}
