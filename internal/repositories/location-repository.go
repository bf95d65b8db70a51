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

const (
	locationTable  = "locations"
	locationFields = "location_id, district_id, name, store_number, manager_employee_id, is_active, address_id, created_at, updated_at"
)

var allowedLocationFilters = map[string]string{
	"district_id":         "district_id",
	"is_active":           "is_active",
	"manager_employee_id": "manager_employee_id",
	"store_number":        "store_number",
}

var allowedLocationSortFields = map[string]string{
	"location_id": "location_id",
	"name":        "name",
	"district_id": "district_id",
	"created_at":  "created_at",
}

type LocationRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.Location, error)
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Location, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, l entities.Location) error
	Update(ctx context.Context, tx pgx.Tx, l entities.Location) error
	Deactivate(ctx context.Context, tx pgx.Tx, id int64) error
}

type locationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLocationRepository(storage *pgxpool.Pool, logger *zap.Logger) LocationRepositoryInterface {
	return &locationRepository{storage: storage, logger: logger}
}

func scanLocation(row pgx.Row) (*entities.Location, error) {
	var l entities.Location
	err := row.Scan(&l.LocationID, &l.DistrictID, &l.Name, &l.StoreNumber, &l.ManagerEmployeeID,
		&l.IsActive, &l.AddressID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return &l, nil
}

func (r *locationRepository) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.Location, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(locationFields).From(locationTable).Where(sq.Eq{"location_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build location select: %w", err)
	}
	return scanLocation(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *locationRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Location, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	searchCols := []string{"name", "store_number"}

	countQuery, countArgs, err := applyListFilter(psql.Select("COUNT(*)").From(locationTable),
		filter, searchCols, allowedLocationFilters, nil, "", false).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build location count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}
	if total == 0 {
		return []*entities.Location{}, 0, nil
	}

	query, args, err := applyListFilter(psql.Select(locationFields).From(locationTable),
		filter, searchCols, allowedLocationFilters, allowedLocationSortFields, "location_id ASC", true).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build location select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select locations: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

func (r *locationRepository) Create(ctx context.Context, tx pgx.Tx, l entities.Location) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(locationTable).
		Columns("location_id", "district_id", "name", "store_number", "manager_employee_id", "is_active", "address_id").
		Values(l.LocationID, l.DistrictID, l.Name, l.StoreNumber, l.ManagerEmployeeID, l.IsActive, l.AddressID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build location insert: %w", err)
	}
	if _, err := pick(r.storage, tx).Exec(ctx, query, args...); err != nil {
		return writeError(err, "insert location")
	}
	return nil
}

func (r *locationRepository) Update(ctx context.Context, tx pgx.Tx, l entities.Location) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(locationTable).
		Set("district_id", l.DistrictID).
		Set("name", l.Name).
		Set("store_number", l.StoreNumber).
		Set("manager_employee_id", l.ManagerEmployeeID).
		Set("is_active", l.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"location_id": l.LocationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build location update: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "update location")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *locationRepository) Deactivate(ctx context.Context, tx pgx.Tx, id int64) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(locationTable).
		Set("is_active", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"location_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build location deactivate: %w", err)
	}
	tag, err := pick(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
