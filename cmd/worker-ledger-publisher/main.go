package main

import (
	"context"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/config"
	"github.com/campusperks/points-services/pointsgateway/internal/publishers"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/campusperks/points-services/pointsgateway/pkg/mq"
	"github.com/campusperks/points-services/pointsgateway/pkg/mysql"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,

			repository.NewLedgerEventRepository,

			service.NewLedgerFeedService,

			NewLedgerPublisher,
		),
		fx.Invoke(runLedgerPublisher),
	).Run()
}

func runLedgerPublisher(cfg *config.Config, publisher publishers.LedgerPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	interval := cfg.Worker.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.LedgerQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", publishers.LedgerQueue))

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish ledger events", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("ledger publisher started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping ledger publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewLedgerPublisher(svc service.LedgerFeedService, publisher mq.Publisher, cfg *config.Config, logger *zap.Logger) publishers.LedgerPublisher {
	return publishers.NewLedgerPublisher(svc, publisher, cfg.Worker.BatchSize, logger)
}
