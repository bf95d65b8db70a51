package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-org-system/config"
	"hr-org-system/internal/dto"
	"hr-org-system/internal/services"
	apperrors "hr-org-system/pkg/errors"
	"hr-org-system/pkg/filestorage"
	"hr-org-system/pkg/utils"
)

type ImportController struct {
	importService services.ImportServiceInterface
	exportService services.ExportServiceInterface
	fileStorage   filestorage.FileStorageInterface
	rules         config.UploadConfig
	logger        *zap.Logger
}

// NewImportController wires the importer; a nil fileStorage disables archiving.
func NewImportController(
	importService services.ImportServiceInterface,
	exportService services.ExportServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	rules config.UploadConfig,
	logger *zap.Logger,
) *ImportController {
	return &ImportController{
		importService: importService,
		exportService: exportService,
		fileStorage:   fileStorage,
		rules:         rules,
		logger:        logger,
	}
}

func importError(c echo.Context, code int, message string, errs ...string) error {
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(code, dto.ImportErrorResponseDTO{
		Error:   message,
		Details: dto.ImportErrorDetails{Errors: errs},
	})
}

func (ctrl *ImportController) Import(c echo.Context) error {
	logger := utils.LoggerFromCtx(c.Request().Context(), ctrl.logger)

	entity := dto.ImportEntityType(strings.ToLower(strings.TrimSpace(c.FormValue("type"))))
	if entity == "" {
		return importError(c, http.StatusBadRequest, "missing import type", "field 'type' is required (locations or employees)")
	}
	if !entity.Valid() {
		return importError(c, http.StatusBadRequest, "invalid import type", fmt.Sprintf("unsupported type %q", entity))
	}
	mode := dto.ImportMode(strings.ToLower(strings.TrimSpace(c.FormValue("mode"))))
	if mode == "" {
		mode = dto.ImportModeInsert
	}
	if !mode.Valid() {
		return importError(c, http.StatusBadRequest, "invalid import mode", fmt.Sprintf("unsupported mode %q", mode))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return importError(c, http.StatusBadRequest, "missing file", "field 'file' is required")
	}
	if err := ctrl.rules.Check(fileHeader.Filename, fileHeader.Size); err != nil {
		return importError(c, http.StatusBadRequest, "invalid file", err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("open uploaded file", zap.Error(err))
		return importError(c, http.StatusInternalServerError, "failed to read file", err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		logger.Error("read uploaded file", zap.Error(err))
		return importError(c, http.StatusInternalServerError, "failed to read file", err.Error())
	}

	if ctrl.fileStorage != nil {
		upload := filestorage.Upload{Entity: string(entity), Mode: string(mode), FileName: fileHeader.Filename}
		if archived, err := ctrl.fileStorage.Save(bytes.NewReader(data), ctrl.rules.PathPrefix, upload); err != nil {
			logger.Warn("import file not archived", zap.Error(err))
		} else {
			logger.Info("import file archived",
				zap.String("path", archived.Path),
				zap.Int64("size", archived.Size),
				zap.String("sha256", archived.SHA256))
		}
	}

	var parsed *services.ParsedFile
	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		parsed, err = services.ParseXLSX(bytes.NewReader(data))
	} else {
		parsed, err = services.ParseCSV(bytes.NewReader(data))
	}
	if err != nil {
		logger.Error("parse import file", zap.String("file", fileHeader.Filename), zap.Error(err))
		return importError(c, http.StatusInternalServerError, "failed to parse file", err.Error())
	}

	result, err := ctrl.importService.Import(c.Request().Context(), entity, mode, parsed)
	if err != nil {
		code := utils.StatusFor(err)
		message := "import failed"
		var httpErr *apperrors.HttpError
		switch {
		case errors.As(err, &httpErr):
			message = httpErr.Message
		case errors.Is(err, apperrors.ErrLocked):
			message = "another import of this type is running"
		}
		if code == http.StatusInternalServerError {
			logger.Error("import aborted", zap.Error(err))
		}
		return importError(c, code, message, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ImportResponseDTO{
		Message: fmt.Sprintf("Import completed: %d imported, %d failed, %d skipped", result.Imported, result.Failed, result.Skipped),
		Details: result,
	})
}

func (ctrl *ImportController) Template(c echo.Context) error {
	entity := dto.ImportEntityType(strings.ToLower(c.Param("type")))
	body, err := ctrl.exportService.Template(entity)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.csv", entity))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}
