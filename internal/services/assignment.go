package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/entities"
	"hr-org-system/internal/repositories"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

type AssignmentServiceInterface interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]*entities.Assignment, error)
	Create(ctx context.Context, d dto.CreateAssignmentDTO) (*entities.Assignment, error)
	Update(ctx context.Context, id uint64, d dto.UpdateAssignmentDTO) (*entities.Assignment, error)
	// SetPrimaryAssignment makes the assignment the employee's only current primary one.
	SetPrimaryAssignment(ctx context.Context, employeeID int64, assignmentID uint64) (*entities.Assignment, error)
	End(ctx context.Context, id uint64) error
}

type AssignmentService struct {
	txManager      repositories.TxManagerInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	logger         *zap.Logger
}

func NewAssignmentService(
	txManager repositories.TxManagerInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	logger *zap.Logger,
) AssignmentServiceInterface {
	return &AssignmentService{
		txManager:      txManager,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// normalizeKind keeps assignment_type and is_primary in agreement.
func normalizeKind(a *entities.Assignment) {
	a.AssignmentType = entities.AssignmentType(strings.ToUpper(string(a.AssignmentType)))
	switch {
	case a.AssignmentType == entities.AssignmentPrimary:
		a.IsPrimary = true
	case a.IsPrimary:
		a.AssignmentType = entities.AssignmentPrimary
	}
}

func checkDates(a *entities.Assignment) error {
	if a.EndDate.Valid && a.EndDate.Time.Before(a.StartDate) {
		return apperrors.NewHttpError(http.StatusBadRequest, "end_date must not be before start_date", nil, nil)
	}
	return nil
}

func (s *AssignmentService) ListByEmployee(ctx context.Context, employeeID int64) ([]*entities.Assignment, error) {
	return s.assignmentRepo.FindByEmployee(ctx, employeeID)
}

func (s *AssignmentService) Create(ctx context.Context, d dto.CreateAssignmentDTO) (*entities.Assignment, error) {
	a := entities.Assignment{
		EmployeeID:           d.EmployeeID,
		LocationID:           d.LocationID,
		JobTitleID:           d.JobTitleID,
		SupervisorEmployeeID: d.SupervisorEmployeeID,
		AssignmentType:       entities.AssignmentType(d.AssignmentType),
		StartDate:            utils.Today(),
		EndDate:              d.EndDate,
		IsCurrent:            true,
		IsPrimary:            d.IsPrimary,
	}
	if d.StartDate != nil {
		a.StartDate = *d.StartDate
	}
	if d.IsCurrent != nil {
		a.IsCurrent = *d.IsCurrent
	}
	normalizeKind(&a)
	if err := checkDates(&a); err != nil {
		return nil, err
	}

	var created *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if a.IsCurrentPrimary() {
			demoted, err := s.assignmentRepo.DemoteCurrentPrimary(ctx, tx, a.EmployeeID, 0)
			if err != nil {
				return err
			}
			if demoted > 0 {
				s.logger.Info("previous primary assignment demoted",
					zap.Int64("employee_id", a.EmployeeID), zap.Int64("demoted", demoted))
			}
		}
		id, err := s.assignmentRepo.Create(ctx, tx, a)
		if err != nil {
			return err
		}
		created, err = s.assignmentRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AssignmentService) Update(ctx context.Context, id uint64, d dto.UpdateAssignmentDTO) (*entities.Assignment, error) {
	var updated *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		a, err := s.assignmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		wasPrimary := a.IsCurrentPrimary()

		if d.LocationID != nil {
			a.LocationID = *d.LocationID
		}
		if d.JobTitleID != nil {
			a.JobTitleID = *d.JobTitleID
		}
		if d.SupervisorEmployeeID.Valid {
			a.SupervisorEmployeeID = d.SupervisorEmployeeID
		}
		if d.StartDate != nil {
			a.StartDate = *d.StartDate
		}
		if d.EndDate.Valid {
			a.EndDate = d.EndDate
		}
		if d.IsCurrent != nil {
			a.IsCurrent = *d.IsCurrent
		}
		if d.AssignmentType != nil {
			a.AssignmentType = entities.AssignmentType(*d.AssignmentType)
			a.IsPrimary = strings.EqualFold(*d.AssignmentType, string(entities.AssignmentPrimary))
		}
		if d.IsPrimary != nil {
			a.IsPrimary = *d.IsPrimary
			if !a.IsPrimary && a.AssignmentType == entities.AssignmentPrimary {
				a.AssignmentType = entities.AssignmentSecondary
			}
		}
		normalizeKind(a)
		if err := checkDates(a); err != nil {
			return err
		}

		promote := a.IsCurrentPrimary() && !wasPrimary
		if promote {
			// written as non-primary first, then promoted through the single path
			a.IsPrimary = false
			a.AssignmentType = entities.AssignmentSecondary
		}
		if err := s.assignmentRepo.Update(ctx, tx, *a); err != nil {
			return err
		}
		if promote {
			if err := s.setPrimaryTx(ctx, tx, a.EmployeeID, a.ID); err != nil {
				return err
			}
		}
		updated, err = s.assignmentRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AssignmentService) SetPrimaryAssignment(ctx context.Context, employeeID int64, assignmentID uint64) (*entities.Assignment, error) {
	var result *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		a, err := s.assignmentRepo.FindByID(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if a.EmployeeID != employeeID {
			return apperrors.NewHttpError(http.StatusBadRequest,
				fmt.Sprintf("assignment %d does not belong to employee %d", assignmentID, employeeID), nil, nil)
		}
		if err := s.setPrimaryTx(ctx, tx, employeeID, assignmentID); err != nil {
			return err
		}
		result, err = s.assignmentRepo.FindByID(ctx, tx, assignmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AssignmentService) setPrimaryTx(ctx context.Context, tx pgx.Tx, employeeID int64, assignmentID uint64) error {
	if _, err := s.assignmentRepo.DemoteCurrentPrimary(ctx, tx, employeeID, assignmentID); err != nil {
		return err
	}
	return s.assignmentRepo.Promote(ctx, tx, assignmentID)
}

func (s *AssignmentService) End(ctx context.Context, id uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.assignmentRepo.End(ctx, tx, id)
	})
}
