package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/internal/controllers"
	"hr-org-system/internal/services"
)

func runAssignmentRouter(group *echo.Group, service services.AssignmentServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewAssignmentController(service, logger)

	group.POST("/assignments", ctrl.Create)
	group.PUT("/assignments/:id", ctrl.Update)
	group.POST("/assignments/:id/primary", ctrl.SetPrimary)
	group.DELETE("/assignments/:id", ctrl.End)
}
