package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	"hr-org-system/internal/repositories"
	"hr-org-system/pkg/types"
)

type LocationServiceInterface interface {
	GetLocations(ctx context.Context, filter types.Filter) ([]*entities.Location, uint64, error)
	FindLocation(ctx context.Context, id int64) (*entities.Location, error)
	CreateLocation(ctx context.Context, d dto.CreateLocationDTO) (*entities.Location, error)
	UpdateLocation(ctx context.Context, id int64, d dto.UpdateLocationDTO) (*entities.Location, error)
	DeactivateLocation(ctx context.Context, id int64) error
}

type LocationService struct {
	txManager    repositories.TxManagerInterface
	locationRepo repositories.LocationRepositoryInterface
	addressRepo  repositories.AddressRepositoryInterface
	logger       *zap.Logger
}

func NewLocationService(
	txManager repositories.TxManagerInterface,
	locationRepo repositories.LocationRepositoryInterface,
	addressRepo repositories.AddressRepositoryInterface,
	logger *zap.Logger,
) LocationServiceInterface {
	return &LocationService{
		txManager:    txManager,
		locationRepo: locationRepo,
		addressRepo:  addressRepo,
		logger:       logger,
	}
}

func addressFromDTO(d *dto.AddressDTO) entities.Address {
	return entities.Address{
		Street:     d.Street,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Country:    d.Country,
		Phone:      d.Phone,
	}
}

func (s *LocationService) GetLocations(ctx context.Context, filter types.Filter) ([]*entities.Location, uint64, error) {
	return s.locationRepo.GetAll(ctx, filter)
}

func (s *LocationService) FindLocation(ctx context.Context, id int64) (*entities.Location, error) {
	return s.locationRepo.FindByID(ctx, nil, id)
}

func (s *LocationService) CreateLocation(ctx context.Context, d dto.CreateLocationDTO) (*entities.Location, error) {
	loc := entities.Location{
		LocationID:        d.LocationID,
		DistrictID:        d.DistrictID,
		Name:              d.Name,
		StoreNumber:       d.StoreNumber,
		ManagerEmployeeID: d.ManagerEmployeeID,
		IsActive:          d.IsActive == nil || *d.IsActive,
	}

	var created *entities.Location
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if d.Address != nil {
			id, err := s.addressRepo.Create(ctx, tx, addressFromDTO(d.Address))
			if err != nil {
				return err
			}
			loc.AddressID = null.Int64From(int64(id))
		}
		if err := s.locationRepo.Create(ctx, tx, loc); err != nil {
			return err
		}
		var err error
		created, err = s.locationRepo.FindByID(ctx, tx, loc.LocationID)
		return err
	})
	if err != nil {
		s.logger.Error("location create failed", zap.Int64("location_id", d.LocationID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("location created", zap.Int64("location_id", created.LocationID))
	return created, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, id int64, d dto.UpdateLocationDTO) (*entities.Location, error) {
	var updated *entities.Location
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		loc, err := s.locationRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if d.DistrictID != nil {
			loc.DistrictID = *d.DistrictID
		}
		if d.Name != nil {
			loc.Name = *d.Name
		}
		if d.StoreNumber.Valid {
			loc.StoreNumber = d.StoreNumber
		}
		if d.ManagerEmployeeID.Valid {
			loc.ManagerEmployeeID = d.ManagerEmployeeID
		}
		if d.IsActive != nil {
			loc.IsActive = *d.IsActive
		}
		if err := s.locationRepo.Update(ctx, tx, *loc); err != nil {
			return err
		}
		updated, err = s.locationRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LocationService) DeactivateLocation(ctx context.Context, id int64) error {
	return s.locationRepo.Deactivate(ctx, nil, id)
}
