package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hr-org-system/internal/dto"
	"hr-org-system/internal/services"
	"hr-org-system/pkg/utils"
)

type ExportController struct {
	exportService services.ExportServiceInterface
	logger        *zap.Logger
}

func NewExportController(exportService services.ExportServiceInterface, logger *zap.Logger) *ExportController {
	return &ExportController{exportService: exportService, logger: logger}
}

func (ctrl *ExportController) Export(c echo.Context) error {
	entity := dto.ImportEntityType(strings.ToLower(c.Param("type")))
	format := strings.ToLower(c.QueryParam("format"))

	table, err := ctrl.exportService.Export(c.Request().Context(), entity)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	fileName := fmt.Sprintf("%s_%s", table.Name, time.Now().Format("2006-01-02"))
	if format == "xlsx" {
		return ctrl.respondWithXLSX(c, table, fileName+".xlsx")
	}
	return ctrl.respondWithCSV(c, table, fileName+".csv")
}

func (ctrl *ExportController) respondWithCSV(c echo.Context, table *services.ExportTable, fileName string) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response().Writer)
	if err := w.Write(table.Header); err != nil {
		return err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		ctrl.logger.Error("csv export write failed", zap.Error(err))
		return err
	}
	return nil
}

func (ctrl *ExportController) respondWithXLSX(c echo.Context, table *services.ExportTable, fileName string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := table.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &table.Header); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(table.Header))
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
	}

	for i, row := range table.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
	}
	_ = f.SetColWidth(sheet, "A", lastCol, 18)

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}
