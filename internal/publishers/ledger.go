package publishers

import (
	"context"
	"encoding/json"

	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/campusperks/points-services/pointsgateway/pkg/mq"
	"go.uber.org/zap"
)

const LedgerQueue = "points.ledger"

// LedgerPublisher drains the outbox to the broker. Rows are only marked
// published after a successful publish, so a broker outage means redelivery,
// never loss.
type LedgerPublisher interface {
	Publish(ctx context.Context) error
}

type ledgerPublisher struct {
	service   service.LedgerFeedService
	publisher mq.Publisher
	batchSize int
	logger    *zap.Logger
}

func NewLedgerPublisher(service service.LedgerFeedService, publisher mq.Publisher, batchSize int, logger *zap.Logger) LedgerPublisher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ledgerPublisher{service: service, publisher: publisher, batchSize: batchSize, logger: logger}
}

func (p *ledgerPublisher) Publish(ctx context.Context) error {
	messages, err := p.service.FindEventsToPublish(ctx, p.batchSize)
	if err != nil {
		return err
	}

	if len(messages) == 0 {
		return nil
	}

	p.logger.Info("Publishing ledger events", zap.Int("count", len(messages)))

	successCount := 0
	for _, message := range messages {
		body, _ := json.Marshal(message)
		if err := p.publisher.Publish(ctx, "", LedgerQueue, body); err != nil {
			p.logger.Error("Failed to publish ledger event",
				zap.Error(err),
				zap.Int64("ledgerEventID", message.LedgerEventID))
			continue
		}

		if err := p.service.MarkEventPublished(ctx, message.LedgerEventID); err != nil {
			continue
		}

		successCount++
	}

	if successCount > 0 {
		p.logger.Info("Successfully published ledger events",
			zap.Int("published", successCount),
			zap.Int("total", len(messages)))
	}

	return nil
}
