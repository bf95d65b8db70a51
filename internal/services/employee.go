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

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id int64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, d dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, d dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeactivateEmployee(ctx context.Context, id int64) error
}

type EmployeeService struct {
	txManager    repositories.TxManagerInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	addressRepo  repositories.AddressRepositoryInterface
	logger       *zap.Logger
}

func NewEmployeeService(
	txManager repositories.TxManagerInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	addressRepo repositories.AddressRepositoryInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		addressRepo:  addressRepo,
		logger:       logger,
	}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]*entities.Employee, uint64, error) {
	return s.employeeRepo.GetAll(ctx, filter)
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id int64) (*entities.Employee, error) {
	return s.employeeRepo.FindByID(ctx, nil, id)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, d dto.CreateEmployeeDTO) (*entities.Employee, error) {
	emp := entities.Employee{
		EmployeeID:          d.EmployeeID,
		Username:            d.Username,
		Email:               d.Email,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		UserTypeID:          d.UserTypeID,
		HireDate:            d.HireDate,
		TerminationDate:     d.TerminationDate,
		TerminationReasonID: d.TerminationReasonID,
		IsActive:            !d.TerminationDate.Valid,
	}
	if d.IsActive != nil {
		emp.IsActive = *d.IsActive
	}

	var created *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if d.Address != nil {
			id, err := s.addressRepo.Create(ctx, tx, addressFromDTO(d.Address))
			if err != nil {
				return err
			}
			emp.AddressID = null.Int64From(int64(id))
		}
		if err := s.employeeRepo.Create(ctx, tx, emp); err != nil {
			return err
		}
		var err error
		created, err = s.employeeRepo.FindByID(ctx, tx, emp.EmployeeID)
		return err
	})
	if err != nil {
		s.logger.Error("employee create failed", zap.Int64("employee_id", d.EmployeeID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("employee created", zap.Int64("employee_id", created.EmployeeID))
	return created, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, d dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	var updated *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		emp, err := s.employeeRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if d.Username != nil {
			emp.Username = *d.Username
		}
		if d.Email != nil {
			emp.Email = *d.Email
		}
		if d.FirstName != nil {
			emp.FirstName = *d.FirstName
		}
		if d.LastName != nil {
			emp.LastName = *d.LastName
		}
		if d.UserTypeID != nil {
			emp.UserTypeID = *d.UserTypeID
		}
		if d.HireDate.Valid {
			emp.HireDate = d.HireDate
		}
		if d.TerminationDate.Valid {
			emp.TerminationDate = d.TerminationDate
		}
		if d.TerminationReasonID.Valid {
			emp.TerminationReasonID = d.TerminationReasonID
		}
		if d.IsActive != nil {
			emp.IsActive = *d.IsActive
		}
		if err := s.employeeRepo.Update(ctx, tx, *emp); err != nil {
			return err
		}
		updated, err = s.employeeRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EmployeeService) DeactivateEmployee(ctx context.Context, id int64) error {
	return s.employeeRepo.Deactivate(ctx, nil, id)
}
