package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

func newLocationService(locations *fakeLocationRepo) (LocationServiceInterface, *fakeTxManager, *fakeAddressRepo) {
	tx := &fakeTxManager{}
	addresses := &fakeAddressRepo{}
	return NewLocationService(tx, locations, addresses, zap.NewNop()), tx, addresses
}

func TestLocationService_CreateWithAddress(t *testing.T) {
	locations := &fakeLocationRepo{}
	svc, tx, addresses := newLocationService(locations)

	loc, err := svc.CreateLocation(context.Background(), dto.CreateLocationDTO{
		LocationID:  1001,
		DistrictID:  7,
		Name:        "Main",
		StoreNumber: null.StringFrom("S-1"),
		Address: &dto.AddressDTO{
			Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls, "address and location share one transaction")
	require.Len(t, addresses.created, 1)
	assert.Equal(t, "Springfield", addresses.created[0].City)
	assert.EqualValues(t, 1001, loc.LocationID)
	assert.True(t, loc.IsActive)
	assert.Equal(t, null.Int64From(1), loc.AddressID)
}

func TestLocationService_CreateWithoutAddress(t *testing.T) {
	locations := &fakeLocationRepo{}
	svc, _, addresses := newLocationService(locations)

	loc, err := svc.CreateLocation(context.Background(), dto.CreateLocationDTO{
		LocationID: 1002, DistrictID: 7, Name: "Closed", IsActive: utils.ToPtr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, addresses.created)
	assert.False(t, loc.AddressID.Valid)
	assert.False(t, loc.IsActive)
}

func TestLocationService_CreateFailure(t *testing.T) {
	conflict := fmt.Errorf("insert location: %w: %w (locations_pkey)", apperrors.ErrDuplicateKey, apperrors.ErrConflict)
	locations := &fakeLocationRepo{failWith: map[int64]error{1001: conflict}}
	svc, _, _ := newLocationService(locations)

	_, err := svc.CreateLocation(context.Background(), dto.CreateLocationDTO{LocationID: 1001, DistrictID: 7, Name: "Main"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, locations.created)
}

func TestLocationService_PartialUpdate(t *testing.T) {
	locations := &fakeLocationRepo{created: []entities.Location{{
		LocationID: 1001, DistrictID: 7, Name: "Main", StoreNumber: null.StringFrom("S-1"),
		ManagerEmployeeID: null.Int64From(900), IsActive: true,
	}}}
	svc, tx, _ := newLocationService(locations)

	updated, err := svc.UpdateLocation(context.Background(), 1001, dto.UpdateLocationDTO{
		Name:       utils.ToPtr("Main Street"),
		DistrictID: utils.ToPtr(int64(8)),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "Main Street", updated.Name)
	assert.EqualValues(t, 8, updated.DistrictID)
	// fields absent from the request keep their stored values
	assert.Equal(t, "S-1", updated.StoreNumber.String)
	assert.EqualValues(t, 900, updated.ManagerEmployeeID.Int64)
	assert.True(t, updated.IsActive)
	assert.Equal(t, *updated, locations.created[0])
}

func TestLocationService_UpdateMissing(t *testing.T) {
	svc, _, _ := newLocationService(&fakeLocationRepo{})

	_, err := svc.UpdateLocation(context.Background(), 404, dto.UpdateLocationDTO{Name: utils.ToPtr("x")})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestLocationService_Deactivate(t *testing.T) {
	locations := &fakeLocationRepo{created: []entities.Location{{LocationID: 1001, DistrictID: 7, Name: "Main", IsActive: true}}}
	svc, _, _ := newLocationService(locations)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateLocation(ctx, 1001))
	loc, err := svc.FindLocation(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, loc.IsActive)

	assert.ErrorIs(t, svc.DeactivateLocation(ctx, 1002), apperrors.ErrNotFound)
}
