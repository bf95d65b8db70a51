package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hr-org-system/internal/routes"
	"hr-org-system/migrations"
	"hr-org-system/pkg/config"
	"hr-org-system/pkg/database/postgresql"
	apperrors "hr-org-system/pkg/errors"
	applogger "hr-org-system/pkg/logger"
	appmiddleware "hr-org-system/pkg/middleware"
	"hr-org-system/pkg/service"
	"hr-org-system/pkg/utils"
	"hr-org-system/pkg/validation"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply the base schema migrations before starting")
	flag.Parse()

	cfg := config.New()

	e := echo.New()
	e.HideBanner = true
	logger := applogger.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))
	e.Use(appmiddleware.InjectLogger(logger))

	e.Validator = validation.New()

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbConn.Close()

	if *migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := migrations.Up(ctx, dbConn); err != nil {
			cancel()
			logger.Fatal("base schema migration failed", zap.Error(err))
		}
		cancel()
		logger.Info("base schema is up to date")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("redis is unreachable", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	var jwtSvc service.JWTService
	if cfg.JWT.SecretKey != "" {
		jwtSvc = service.NewJWTService(cfg.JWT.SecretKey, logger)
	}

	loggers := &routes.Loggers{
		Main:      logger,
		Auth:      logger.Named("auth"),
		Import:    logger.Named("import"),
		Migration: logger.Named("migration"),
	}
	routes.InitRouter(e, dbConn, redisClient, jwtSvc, loggers, cfg)

	addr := ":" + cfg.Server.Port
	logger.Info("server starting", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
