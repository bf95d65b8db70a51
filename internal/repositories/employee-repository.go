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
	"hr-org-system/pkg/types"
)

const employeeTable = "employees e"

// the current primary assignment is joined so list and export see it
const employeeSelect = `e.employee_id, e.username, e.email, e.first_name, e.last_name, e.user_type_id,
	e.hire_date, e.termination_date, e.termination_reason_id, e.address_id, e.is_active,
	a.location_id, a.job_title_id, a.supervisor_employee_id, e.created_at, e.updated_at`

const employeePrimaryJoin = "employee_assignments a ON a.employee_id = e.employee_id AND a.is_current AND a.is_primary"

var allowedEmployeeFilters = map[string]string{
	"user_type_id": "e.user_type_id",
	"is_active":    "e.is_active",
	"location_id":  "a.location_id",
	"job_title_id": "a.job_title_id",
}

var allowedEmployeeSortFields = map[string]string{
	"employee_id": "e.employee_id",
	"username":    "e.username",
	"last_name":   "e.last_name",
	"hire_date":   "e.hire_date",
}

type EmployeeRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.Employee, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Employee) error
	Update(ctx context.Context, tx pgx.Tx, e entities.Employee) error
	Deactivate(ctx context.Context, tx pgx.Tx, id int64) error
}

type employeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &employeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.EmployeeID, &e.Username, &e.Email, &e.FirstName, &e.LastName, &e.UserTypeID,
		&e.HireDate, &e.TerminationDate, &e.TerminationReasonID, &e.AddressID, &e.IsActive,
		&e.PrimaryLocationID, &e.PrimaryJobTitleID, &e.SupervisorEmployeeID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &e, nil
}

func (r *employeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.Employee, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(employeeSelect).From(employeeTable).
		LeftJoin(employeePrimaryJoin).
		Where(sq.Eq{"e.employee_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build employee select: %w", err)
	}
	return scanEmployee(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *employeeRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	searchCols := []string{"e.username", "e.email", "e.first_name", "e.last_name"}

	countQuery, countArgs, err := applyListFilter(
		psql.Select("COUNT(*)").From(employeeTable).LeftJoin(employeePrimaryJoin),
		filter, searchCols, allowedEmployeeFilters, nil, "", false).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build employee count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	if total == 0 {
		return []*entities.Employee{}, 0, nil
	}

	query, args, err := applyListFilter(
		psql.Select(employeeSelect).From(employeeTable).LeftJoin(employeePrimaryJoin),
		filter, searchCols, allowedEmployeeFilters, allowedEmployeeSortFields, "e.employee_id ASC", true).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build employee select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select employees: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func (r *employeeRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert("employees").
		Columns("employee_id", "username", "email", "first_name", "last_name", "user_type_id",
			"hire_date", "termination_date", "termination_reason_id", "address_id", "is_active").
		Values(e.EmployeeID, e.Username, e.Email, e.FirstName, e.LastName, e.UserTypeID,
			e.HireDate, e.TerminationDate, e.TerminationReasonID, e.AddressID, e.IsActive).
		ToSql()
	if err != nil {
		return fmt.Errorf("build employee insert: %w", err)
	}
	if _, err := pick(r.storage, tx).Exec(ctx, query, args...); err != nil {
		return writeError(err, "insert employee")
	}
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, tx pgx.Tx, e entities.Employee) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("employees").
		Set("username", e.Username).
		Set("email", e.Email).
		Set("first_name", e.FirstName).
		Set("last_name", e.LastName).
		Set("user_type_id", e.UserTypeID).
		Set("hire_date", e.HireDate).
		Set("termination_date", e.TerminationDate).
		Set("termination_reason_id", e.TerminationReasonID).
		Set("is_active", e.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"employee_id": e.EmployeeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build employee update: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "update employee")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) Deactivate(ctx context.Context, tx pgx.Tx, id int64) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("employees").
		Set("is_active", false).
		Set("termination_date", sq.Expr("COALESCE(termination_date, CURRENT_DATE)")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"employee_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build employee deactivate: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
