package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/services"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

type MigrationController struct {
	service services.HierarchyMigrationServiceInterface
	logger  *zap.Logger
}

func NewMigrationController(service services.HierarchyMigrationServiceInterface, logger *zap.Logger) *MigrationController {
	return &MigrationController{service: service, logger: logger}
}

func (ctrl *MigrationController) MigrateHierarchy(c echo.Context) error {
	logger := utils.LoggerFromCtx(c.Request().Context(), ctrl.logger)

	result, err := ctrl.service.Migrate(c.Request().Context())
	if err == nil {
		return c.JSON(http.StatusOK, result)
	}

	if stepErr, ok := services.IsMigrationStepError(err); ok {
		results := stepErr.Results
		if results == nil {
			results = []dto.MigrationStepResult{}
		}
		return c.JSON(http.StatusInternalServerError, dto.HierarchyMigrationFailureDTO{
			Error:   "hierarchy migration failed at step " + stepErr.Step,
			Details: stepErr.Err.Error(),
			Results: results,
		})
	}
	if errors.Is(err, services.ErrHierarchyAlreadyMigrated) {
		return c.JSON(http.StatusBadRequest, dto.HierarchyMigrationErrorDTO{Error: services.ErrHierarchyAlreadyMigrated.Message})
	}
	if errors.Is(err, apperrors.ErrLocked) {
		return c.JSON(http.StatusConflict, dto.HierarchyMigrationErrorDTO{Error: "hierarchy migration is already running"})
	}

	logger.Error("hierarchy migration aborted", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, dto.HierarchyMigrationFailureDTO{
		Error:   "hierarchy migration failed",
		Details: err.Error(),
		Results: []dto.MigrationStepResult{},
	})
}

func (ctrl *MigrationController) HierarchyStatus(c echo.Context) error {
	status, err := ctrl.service.Status(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, status, "hierarchy migration status", http.StatusOK)
}
