package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

func newEmployeeService(employees *fakeEmployeeRepo) (EmployeeServiceInterface, *fakeTxManager, *fakeAddressRepo) {
	tx := &fakeTxManager{}
	addresses := &fakeAddressRepo{}
	return NewEmployeeService(tx, employees, addresses, zap.NewNop()), tx, addresses
}

func sampleEmployeeDTO() dto.CreateEmployeeDTO {
	return dto.CreateEmployeeDTO{
		EmployeeID: 5001,
		Username:   "ada",
		Email:      "ada@example.com",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		UserTypeID: 3,
		HireDate:   null.TimeFrom(time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)),
	}
}

func TestEmployeeService_CreateWithAddress(t *testing.T) {
	employees := &fakeEmployeeRepo{}
	svc, tx, addresses := newEmployeeService(employees)

	d := sampleEmployeeDTO()
	d.Address = &dto.AddressDTO{Street: "12 Elm St", City: "Dayton", State: "OH", PostalCode: "45402"}

	emp, err := svc.CreateEmployee(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	require.Len(t, addresses.created, 1)
	assert.Equal(t, "Dayton", addresses.created[0].City)
	assert.Equal(t, null.Int64From(1), emp.AddressID)
	assert.True(t, emp.IsActive)
}

func TestEmployeeService_CreateActiveFlag(t *testing.T) {
	tests := []struct {
		name       string
		terminated bool
		isActive   *bool
		want       bool
	}{
		{name: "current employee", want: true},
		{name: "terminated defaults to inactive", terminated: true, want: false},
		{name: "explicit flag wins", terminated: true, isActive: utils.ToPtr(true), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newEmployeeService(&fakeEmployeeRepo{})
			d := sampleEmployeeDTO()
			d.IsActive = tt.isActive
			if tt.terminated {
				d.TerminationDate = null.TimeFrom(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
				d.TerminationReasonID = null.Int64From(1)
			}

			emp, err := svc.CreateEmployee(context.Background(), d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, emp.IsActive)
		})
	}
}

func TestEmployeeService_CreateUsernameTaken(t *testing.T) {
	employees := &fakeEmployeeRepo{failWith: map[int64]error{
		5001: fmt.Errorf("insert employee: %w (employees_username_key)", apperrors.ErrConflict),
	}}
	svc, _, _ := newEmployeeService(employees)

	_, err := svc.CreateEmployee(context.Background(), sampleEmployeeDTO())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicateKey)
}

func TestEmployeeService_PartialUpdate(t *testing.T) {
	employees := &fakeEmployeeRepo{created: []entities.Employee{{
		EmployeeID: 5001, Username: "ada", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
		UserTypeID: 3, IsActive: true, HireDate: null.TimeFrom(time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)),
	}}}
	svc, tx, _ := newEmployeeService(employees)

	updated, err := svc.UpdateEmployee(context.Background(), 5001, dto.UpdateEmployeeDTO{
		Email:           utils.ToPtr("ada.king@example.com"),
		TerminationDate: null.TimeFrom(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)),
		IsActive:        utils.ToPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "ada.king@example.com", updated.Email)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "2024-05-31", updated.TerminationDate.Time.Format("2006-01-02"))
	assert.Equal(t, "ada", updated.Username)
	assert.EqualValues(t, 3, updated.UserTypeID)
	assert.Equal(t, "2023-01-09", updated.HireDate.Time.Format("2006-01-02"))
}

func TestEmployeeService_UpdateMissing(t *testing.T) {
	svc, _, _ := newEmployeeService(&fakeEmployeeRepo{})
	_, err := svc.UpdateEmployee(context.Background(), 404, dto.UpdateEmployeeDTO{FirstName: utils.ToPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEmployeeService_Deactivate(t *testing.T) {
	employees := &fakeEmployeeRepo{created: []entities.Employee{{EmployeeID: 5001, Username: "ada", IsActive: true}}}
	svc, _, _ := newEmployeeService(employees)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateEmployee(ctx, 5001))
	emp, err := svc.FindEmployee(ctx, 5001)
	require.NoError(t, err)
	assert.False(t, emp.IsActive)

	assert.ErrorIs(t, svc.DeactivateEmployee(ctx, 5002), apperrors.ErrNotFound)
}
