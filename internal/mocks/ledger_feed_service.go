package mocks

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type LedgerFeedService struct {
	mock.Mock
}

func (l *LedgerFeedService) FindEventsToPublish(ctx context.Context, limit int) ([]service.LedgerFeedMessage, error) {
	args := l.Called(ctx, limit)
	return args.Get(0).([]service.LedgerFeedMessage), args.Error(1)
}

func (l *LedgerFeedService) MarkEventPublished(ctx context.Context, ledgerEventID int64) error {
	args := l.Called(ctx, ledgerEventID)
	return args.Error(0)
}
