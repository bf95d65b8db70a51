package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/internal/controllers"
	"hr-org-system/internal/services"
)

func runEmployeeRouter(
	group *echo.Group,
	service services.EmployeeServiceInterface,
	assignmentService services.AssignmentServiceInterface,
	logger *zap.Logger,
) {
	ctrl := controllers.NewEmployeeController(service, logger)
	assignmentCtrl := controllers.NewAssignmentController(assignmentService, logger)

	group.GET("/employees", ctrl.GetAll)
	group.GET("/employees/:id", ctrl.FindByID)
	group.POST("/employees", ctrl.Create)
	group.PUT("/employees/:id", ctrl.Update)
	group.DELETE("/employees/:id", ctrl.Deactivate)
	group.GET("/employees/:id/assignments", assignmentCtrl.ListByEmployee)
}
