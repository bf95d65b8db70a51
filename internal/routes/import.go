package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appconfig "hr-org-system/config"
	"hr-org-system/internal/controllers"
	"hr-org-system/internal/services"
	"hr-org-system/pkg/filestorage"
)

func runImportRouter(
	group *echo.Group,
	importService services.ImportServiceInterface,
	exportService services.ExportServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	rules appconfig.UploadConfig,
	logger *zap.Logger,
) {
	importCtrl := controllers.NewImportController(importService, exportService, fileStorage, rules, logger)
	exportCtrl := controllers.NewExportController(exportService, logger)

	group.POST("/import", importCtrl.Import)
	group.GET("/import/template/:type", importCtrl.Template)
	group.GET("/export/:type", exportCtrl.Export)
}
