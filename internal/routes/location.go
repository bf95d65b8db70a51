package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/internal/controllers"
	"hr-org-system/internal/services"
)

func runLocationRouter(group *echo.Group, service services.LocationServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewLocationController(service, logger)

	group.GET("/locations", ctrl.GetAll)
	group.GET("/locations/:id", ctrl.FindByID)
	group.POST("/locations", ctrl.Create)
	group.PUT("/locations/:id", ctrl.Update)
	group.DELETE("/locations/:id", ctrl.Deactivate)
}
