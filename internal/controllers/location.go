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

type LocationController struct {
	service services.LocationServiceInterface
	logger  *zap.Logger
}

func NewLocationController(service services.LocationServiceInterface, logger *zap.Logger) *LocationController {
	return &LocationController{service: service, logger: logger}
}

func parseInt64Param(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid "+name, err, nil)
	}
	return id, nil
}

func (c *LocationController) GetAll(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.service.GetLocations(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "locations", http.StatusOK, total)
}

func (c *LocationController) FindByID(ctx echo.Context) error {
	id, err := parseInt64Param(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	loc, err := c.service.FindLocation(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loc, "location", http.StatusOK)
}

func (c *LocationController) Create(ctx echo.Context) error {
	var d dto.CreateLocationDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	loc, err := c.service.CreateLocation(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loc, "location created", http.StatusCreated)
}

func (c *LocationController) Update(ctx echo.Context) error {
	id, err := parseInt64Param(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateLocationDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	loc, err := c.service.UpdateLocation(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loc, "location updated", http.StatusOK)
}

func (c *LocationController) Deactivate(ctx echo.Context) error {
	id, err := parseInt64Param(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.DeactivateLocation(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "location deactivated", http.StatusOK)
}
