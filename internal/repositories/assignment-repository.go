package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-org-system/internal/entities"
	apperrors "hr-org-system/pkg/errors"
)

const (
	assignmentTable  = "employee_assignments"
	assignmentFields = `id, employee_id, location_id, job_title_id, supervisor_employee_id, assignment_type,
	start_date, end_date, is_current, is_primary, created_at, updated_at`
)

type AssignmentRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error)
	FindByEmployee(ctx context.Context, employeeID int64) ([]*entities.Assignment, error)
	Create(ctx context.Context, tx pgx.Tx, a entities.Assignment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, a entities.Assignment) error
	// DemoteCurrentPrimary turns every other current primary assignment of the
	// employee into a SECONDARY one and returns how many rows changed.
	DemoteCurrentPrimary(ctx context.Context, tx pgx.Tx, employeeID int64, exceptID uint64) (int64, error)
	Promote(ctx context.Context, tx pgx.Tx, id uint64) error
	End(ctx context.Context, tx pgx.Tx, id uint64) error
}

type assignmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssignmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AssignmentRepositoryInterface {
	return &assignmentRepository{storage: storage, logger: logger}
}

func scanAssignment(row pgx.Row) (*entities.Assignment, error) {
	var a entities.Assignment
	var assignmentType string
	err := row.Scan(&a.ID, &a.EmployeeID, &a.LocationID, &a.JobTitleID, &a.SupervisorEmployeeID, &assignmentType,
		&a.StartDate, &a.EndDate, &a.IsCurrent, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	a.AssignmentType = entities.AssignmentType(assignmentType)
	return &a, nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Assignment, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(assignmentFields).From(assignmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignment select: %w", err)
	}
	return scanAssignment(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *assignmentRepository) FindByEmployee(ctx context.Context, employeeID int64) ([]*entities.Assignment, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(assignmentFields).From(assignmentTable).
		Where(sq.Eq{"employee_id": employeeID}).
		OrderBy("is_current DESC", "is_primary DESC", "start_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assignment list: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *assignmentRepository) Create(ctx context.Context, tx pgx.Tx, a entities.Assignment) (uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(assignmentTable).
		Columns("employee_id", "location_id", "job_title_id", "supervisor_employee_id", "assignment_type",
			"start_date", "end_date", "is_current", "is_primary").
		Values(a.EmployeeID, a.LocationID, a.JobTitleID, a.SupervisorEmployeeID, string(a.AssignmentType),
			a.StartDate, a.EndDate, a.IsCurrent, a.IsPrimary).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build assignment insert: %w", err)
	}
	var id uint64
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, writeError(err, "insert assignment")
	}
	return id, nil
}

func (r *assignmentRepository) Update(ctx context.Context, tx pgx.Tx, a entities.Assignment) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(assignmentTable).
		Set("location_id", a.LocationID).
		Set("job_title_id", a.JobTitleID).
		Set("supervisor_employee_id", a.SupervisorEmployeeID).
		Set("assignment_type", string(a.AssignmentType)).
		Set("start_date", a.StartDate).
		Set("end_date", a.EndDate).
		Set("is_current", a.IsCurrent).
		Set("is_primary", a.IsPrimary).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build assignment update: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "update assignment")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) DemoteCurrentPrimary(ctx context.Context, tx pgx.Tx, employeeID int64, exceptID uint64) (int64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update(assignmentTable).
		Set("assignment_type", string(entities.AssignmentSecondary)).
		Set("is_primary", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"employee_id": employeeID, "is_current": true, "is_primary": true})
	if exceptID != 0 {
		builder = builder.Where(sq.NotEq{"id": exceptID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build assignment demote: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("demote assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *assignmentRepository) Promote(ctx context.Context, tx pgx.Tx, id uint64) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(assignmentTable).
		Set("assignment_type", string(entities.AssignmentPrimary)).
		Set("is_primary", true).
		Set("is_current", true).
		Set("end_date", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build assignment promote: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("promote assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// endAssignmentQuery closes an assignment. An ended row is never primary,
// so its type drops to SECONDARY together with the flag.
func endAssignmentQuery(id uint64) (string, []interface{}, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return psql.Update(assignmentTable).
		Set("assignment_type", string(entities.AssignmentSecondary)).
		Set("is_current", false).
		Set("is_primary", false).
		Set("end_date", sq.Expr("COALESCE(end_date, CURRENT_DATE)")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func (r *assignmentRepository) End(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := endAssignmentQuery(id)
	if err != nil {
		return fmt.Errorf("build assignment end: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("end assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
