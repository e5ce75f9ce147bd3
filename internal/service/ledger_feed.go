package service

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"go.uber.org/zap"
)

// LedgerFeedService drains the outbox written alongside every ledger
// mutation; the publisher worker pushes the rows to the broker.
type LedgerFeedService interface {
	FindEventsToPublish(ctx context.Context, limit int) ([]LedgerFeedMessage, error)
	MarkEventPublished(ctx context.Context, ledgerEventID int64) error
}

type ledgerFeedService struct {
	ledgerEventRepo repository.LedgerEventRepository
	log             *zap.Logger
}

func NewLedgerFeedService(ledgerEventRepo repository.LedgerEventRepository, log *zap.Logger) LedgerFeedService {
	return &ledgerFeedService{ledgerEventRepo: ledgerEventRepo, log: log}
}

func (s *ledgerFeedService) FindEventsToPublish(ctx context.Context, limit int) ([]LedgerFeedMessage, error) {
	events, err := s.ledgerEventRepo.FindUnpublished(limit)
	if err != nil {
		s.log.Error("error find unpublished ledger events", zap.Error(err))
		return nil, err
	}

	messages := make([]LedgerFeedMessage, 0, len(events))
	for _, event := range events {
		messages = append(messages, LedgerFeedMessage{
			LedgerEventID: event.ID,
			TransactionID: event.TransactionID,
			UserID:        event.UserID,
			EventType:     event.EventType,
			Amount:        event.Amount,
		})
	}

	return messages, nil
}

func (s *ledgerFeedService) MarkEventPublished(ctx context.Context, ledgerEventID int64) error {
	if err := s.ledgerEventRepo.MarkPublished(ctx, ledgerEventID); err != nil {
		s.log.Error("error mark ledger event published", zap.Int64("ledgerEventID", ledgerEventID), zap.Error(err))
		return err
	}

	return nil
}
