package main

import (
	"context"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/api"
	"github.com/campusperks/points-services/pointsgateway/internal/api/middleware"
	apivalidator "github.com/campusperks/points-services/pointsgateway/internal/api/validator"
	v1 "github.com/campusperks/points-services/pointsgateway/internal/api/v1"
	"github.com/campusperks/points-services/pointsgateway/internal/config"
	"github.com/campusperks/points-services/pointsgateway/internal/database"
	apierrors "github.com/campusperks/points-services/pointsgateway/internal/errors"
	"github.com/campusperks/points-services/pointsgateway/internal/metrics"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			database.NewConnection,
			metrics.NewMetrics,
			validator.New,
			apivalidator.NewXValidator,

			repository.NewTransactionManager,
			repository.NewAccountRepository,
			repository.NewTransactionRepository,
			repository.NewPromotionRepository,
			repository.NewEventRepository,
			repository.NewLedgerEventRepository,

			service.NewPointsCalculator,
			service.NewAccountService,
			service.NewTransactionService,
			service.NewPromotionService,
			service.NewEventService,

			v1.NewHandler,
			newFiberApp,
		),
		fx.Invoke(startServer),
	).Run()
}

func newFiberApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: apierrors.ErrorHandler(),
	})
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	db *gorm.DB, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(metrics.HealthCheckMiddleware())
	app.Use(middleware.TrackID())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.SetupRoutes(app, handler, middleware.RequireAuth(cfg.Auth.JWTSecret, logger))

	systemCollector := metrics.NewSystemCollector(m, logger)
	dbCollector := metrics.NewDatabaseMetricsCollector(m, logger, db)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			systemCollector.Start(15 * time.Second)
			dbCollector.Start(15 * time.Second)

			go app.Listen(cfg.API.Port)

			logger.Info("points gateway started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			systemCollector.Stop()
			dbCollector.Stop()
			return app.ShutdownWithContext(ctx)
		},
	})
}
