package main

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/config"
	"github.com/campusperks/points-services/pointsgateway/internal/consumers"
	"github.com/campusperks/points-services/pointsgateway/internal/publishers"
	"github.com/campusperks/points-services/pointsgateway/pkg/mq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewMQConnection,
			NewMQConsumer,

			NewLedgerConsumer,
		),
		fx.Invoke(runLedgerConsumer),
	).Run()
}

func runLedgerConsumer(ledgerConsumer consumers.LedgerConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.LedgerQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", publishers.LedgerQueue))

			go func() {
				if err := ledgerConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("ledger audit consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping ledger audit consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewLedgerConsumer(consumer mq.Consumer, cfg *config.Config, logger *zap.Logger) consumers.LedgerConsumer {
	return consumers.NewLedgerConsumer(consumer, cfg.Worker.Prefetch, logger)
}
