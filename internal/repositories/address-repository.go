package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-org-system/internal/entities"
)

const (
	addressTable  = "addresses"
	addressFields = "id, street, city, state, postal_code, country, phone, created_at"
)

type AddressRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, a entities.Address) (uint64, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Address, error)
}

type addressRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAddressRepository(storage *pgxpool.Pool, logger *zap.Logger) AddressRepositoryInterface {
	return &addressRepository{storage: storage, logger: logger}
}

func (r *addressRepository) Create(ctx context.Context, tx pgx.Tx, a entities.Address) (uint64, error) {
	country := a.Country
	if country == "" {
		country = "US"
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(addressTable).
		Columns("street", "city", "state", "postal_code", "country", "phone").
		Values(a.Street, a.City, a.State, a.PostalCode, country, a.Phone).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build address insert: %w", err)
	}

	var id uint64
	if err := pick(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}
	return id, nil
}

// FindByIDs loads addresses for export in one query.
func (r *addressRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Address, error) {
	out := make(map[int64]*entities.Address, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(addressFields).From(addressTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build address select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entities.Address
		if err := rows.Scan(&a.ID, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out[int64(a.ID)] = &a
	}
	return out, rows.Err()
}
