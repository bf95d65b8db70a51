package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type HierarchyMigrationRepositoryInterface interface {
	TableExists(ctx context.Context, table string) (bool, error)
	CountRows(ctx context.Context, tables []string) (map[string]int64, error)
	// ExecStep runs the statements of one step in a single transaction.
	ExecStep(ctx context.Context, step string, stmts []Statement) error
	ListTables(ctx context.Context, prefix string) ([]string, error)
}

type hierarchyMigrationRepository struct {
	storage         *pgxpool.Pool
	txManager       TxManagerInterface
	stepLockTimeout time.Duration
	logger          *zap.Logger
}

// NewHierarchyMigrationRepository runs every step with the given lock timeout;
// zero waits for locks indefinitely.
func NewHierarchyMigrationRepository(storage *pgxpool.Pool, txManager TxManagerInterface, stepLockTimeout time.Duration, logger *zap.Logger) HierarchyMigrationRepositoryInterface {
	return &hierarchyMigrationRepository{storage: storage, txManager: txManager, stepLockTimeout: stepLockTimeout, logger: logger}
}

func (r *hierarchyMigrationRepository) TableExists(ctx context.Context, table string) (bool, error) {
	query, args, err := sq.Select().
		Column(sq.Expr("to_regclass(?) IS NOT NULL", table)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build table check: %w", err)
	}
	var exists bool
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return exists, nil
}

// CountRows counts every table in one round trip; missing tables are reported as -1.
func (r *hierarchyMigrationRepository) CountRows(ctx context.Context, tables []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	if len(tables) == 0 {
		return counts, nil
	}

	// COUNT on a missing table fails the whole statement
	present := make([]string, 0, len(tables))
	for _, t := range tables {
		ok, err := r.TableExists(ctx, t)
		if err != nil {
			return nil, err
		}
		if ok {
			present = append(present, t)
		} else {
			counts[t] = -1
		}
	}
	if len(present) == 0 {
		return counts, nil
	}

	cols := make([]string, 0, len(present))
	for _, t := range present {
		cols = append(cols, fmt.Sprintf("(SELECT COUNT(*) FROM %s)", ident(t)))
	}
	query, _, err := sq.Select(cols...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	values := make([]int64, len(present))
	dest := make([]interface{}, len(present))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.storage.QueryRow(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("count hierarchy tables: %w", err)
	}
	for i, t := range present {
		counts[t] = values[i]
	}
	return counts, nil
}

func (r *hierarchyMigrationRepository) ExecStep(ctx context.Context, step string, stmts []Statement) error {
	return r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for i, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
				return fmt.Errorf("statement %d of %s: %w", i+1, step, err)
			}
		}
		r.logger.Debug("migration step executed", zap.String("step", step), zap.Int("statements", len(stmts)))
		return nil
	}, WithLabel("hierarchy:"+step), WithLockTimeout(r.stepLockTimeout))
}

func (r *hierarchyMigrationRepository) ListTables(ctx context.Context, prefix string) ([]string, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `_`, `\_`, `%`, `\%`).Replace(prefix)
	query, args, err := sq.Select("table_name").
		From("information_schema.tables").
		Where("table_schema = current_schema()").
		Where(sq.Like{"table_name": escaped + "%"}).
		OrderBy("table_name").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build table list: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
