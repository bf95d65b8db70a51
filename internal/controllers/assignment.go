package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/services"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/utils"
)

type AssignmentController struct {
	service services.AssignmentServiceInterface
	logger  *zap.Logger
}

func NewAssignmentController(service services.AssignmentServiceInterface, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{service: service, logger: logger}
}

func parseAssignmentID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid assignment id", err, nil)
	}
	return id, nil
}

func (c *AssignmentController) ListByEmployee(ctx echo.Context) error {
	employeeID, err := parseInt64Param(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.service.ListByEmployee(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "assignments", http.StatusOK)
}

func (c *AssignmentController) Create(ctx echo.Context) error {
	var d dto.CreateAssignmentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	a, err := c.service.Create(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, a, "assignment created", http.StatusCreated)
}

func (c *AssignmentController) Update(ctx echo.Context) error {
	id, err := parseAssignmentID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateAssignmentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	a, err := c.service.Update(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, a, "assignment updated", http.StatusOK)
}

type setPrimaryRequest struct {
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

func (c *AssignmentController) SetPrimary(ctx echo.Context) error {
	id, err := parseAssignmentID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var req setPrimaryRequest
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	a, err := c.service.SetPrimaryAssignment(ctx.Request().Context(), req.EmployeeID, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, a, "primary assignment set", http.StatusOK)
}

func (c *AssignmentController) End(ctx echo.Context) error {
	id, err := parseAssignmentID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.End(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "assignment ended", http.StatusOK)
}
