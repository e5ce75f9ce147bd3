package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campusperks/points-services/pointsgateway/internal/publishers"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/campusperks/points-services/pointsgateway/pkg/mq"
	"go.uber.org/zap"
)

// LedgerConsumer tails the points.ledger queue and emits one audit record
// per balance mutation. Payloads that fail to decode are rejected without
// requeue and land in the dead-letter queue.
type LedgerConsumer interface {
	Consume(ctx context.Context) error
}

type ledgerConsumer struct {
	consumer mq.Consumer
	prefetch int
	logger   *zap.Logger
}

func NewLedgerConsumer(consumer mq.Consumer, prefetch int, logger *zap.Logger) LedgerConsumer {
	return &ledgerConsumer{consumer: consumer, prefetch: prefetch, logger: logger}
}

func (l *ledgerConsumer) Consume(ctx context.Context) error {
	return l.consumer.Consume(ctx, l.prefetch, publishers.LedgerQueue, l.handleMessage)
}

func (l *ledgerConsumer) handleMessage(ctx context.Context, body []byte) error {
	var msg service.LedgerFeedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		l.logger.Warn("invalid ledger event payload", zap.ByteString("body", body), zap.Error(err))
		return err
	}

	if msg.LedgerEventID == 0 || msg.UserID == 0 {
		err := fmt.Errorf("ledger event missing identity")
		l.logger.Warn("rejecting ledger event", zap.ByteString("body", body))
		return err
	}

	l.logger.Info("ledger event",
		zap.Int64("ledgerEventID", msg.LedgerEventID),
		zap.Int64("transactionID", msg.TransactionID),
		zap.Int64("userID", msg.UserID),
		zap.String("eventType", msg.EventType),
		zap.Int64("amount", msg.Amount),
	)

	return nil
}
