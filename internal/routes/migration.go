package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/internal/controllers"
	"hr-org-system/internal/services"
)

func runMigrationRouter(group *echo.Group, service services.HierarchyMigrationServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewMigrationController(service, logger)

	group.POST("/migrations/hierarchy", ctrl.MigrateHierarchy)
	group.GET("/migrations/hierarchy", ctrl.HierarchyStatus)
}
