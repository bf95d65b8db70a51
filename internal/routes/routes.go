package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appconfig "hr-org-system/config"
	"hr-org-system/internal/repositories"
	"hr-org-system/internal/services"
	"hr-org-system/pkg/config"
	"hr-org-system/pkg/filestorage"
	"hr-org-system/pkg/middleware"
	"hr-org-system/pkg/service"
	"hr-org-system/pkg/validation"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Import    *zap.Logger
	Migration *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: building routes")

	api := e.Group("/api")
	secureGroup := api
	if jwtSvc != nil {
		authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
		secureGroup = api.Group("", authMW.Auth)
	} else {
		loggers.Main.Warn("JWT secret not configured, API routes are not authenticated")
	}

	var fileStorage filestorage.FileStorageInterface
	if cfg.Import.ArchiveUploads {
		fs, err := filestorage.NewLocalFileStorage(cfg.Import.UploadDir)
		if err != nil {
			loggers.Main.Fatal("failed to create file storage", zap.Error(err))
		}
		fileStorage = fs
	}

	txManager := repositories.NewTxManager(dbConn, loggers.Main)
	locker := repositories.NewRedisLockRepository(redisClient)

	referenceRepo := repositories.NewReferenceRepository(dbConn, loggers.Import)
	addressRepo := repositories.NewAddressRepository(dbConn, loggers.Main)
	locationRepo := repositories.NewLocationRepository(dbConn, loggers.Main)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, loggers.Main)
	assignmentRepo := repositories.NewAssignmentRepository(dbConn, loggers.Main)
	hierarchyRepo := repositories.NewHierarchyMigrationRepository(dbConn, txManager, cfg.Hierarchy.StepLockTimeout, loggers.Migration)

	assignmentService := services.NewAssignmentService(txManager, assignmentRepo, loggers.Main)
	locationService := services.NewLocationService(txManager, locationRepo, addressRepo, loggers.Main)
	employeeService := services.NewEmployeeService(txManager, employeeRepo, addressRepo, loggers.Main)
	exportService := services.NewExportService(locationRepo, employeeRepo, addressRepo, loggers.Import)
	importService := services.NewImportService(
		txManager, referenceRepo, addressRepo, locationRepo, employeeRepo,
		assignmentService, locker, validation.NewWithFieldTag("csv"),
		services.ImportOptions{
			DefaultUserTypeID: cfg.Import.DefaultUserType,
			LockTTL:           cfg.Import.LockTTL,
			MaxErrors:         cfg.Import.MaxErrorsInReply,
		},
		loggers.Import,
	)
	migrationService := services.NewHierarchyMigrationService(
		hierarchyRepo, locker, HierarchyPlan(cfg.Hierarchy), cfg.Hierarchy.LockTTL, loggers.Migration,
	)

	uploadRules := appconfig.UploadContexts["import"]
	if cfg.Import.MaxSizeMB > 0 {
		uploadRules.MaxSizeMB = cfg.Import.MaxSizeMB
	}

	runImportRouter(secureGroup, importService, exportService, fileStorage, uploadRules, loggers.Import)
	runMigrationRouter(secureGroup, migrationService, loggers.Migration)
	runLocationRouter(secureGroup, locationService, loggers.Main)
	runEmployeeRouter(secureGroup, employeeService, assignmentService, loggers.Main)
	runAssignmentRouter(secureGroup, assignmentService, loggers.Main)

	loggers.Main.Info("InitRouter: routes ready")
}

// HierarchyPlan maps configuration onto the migration plan.
func HierarchyPlan(h config.HierarchyConfig) repositories.HierarchyPlan {
	return repositories.HierarchyPlan{
		Seed: repositories.HierarchySeed{
			CompanyID:    h.CompanyID,
			CompanyName:  h.CompanyName,
			CompanyCode:  h.CompanyCode,
			DivisionID:   h.DivisionID,
			DivisionName: h.DivisionName,
			DivisionCode: h.DivisionCode,
		},
		BackupPrefix: h.BackupPrefix,
	}
}
