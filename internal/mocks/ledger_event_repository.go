package mocks

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type LedgerEventRepository struct {
	mock.Mock
}

func (l *LedgerEventRepository) Create(ctx context.Context, event *model.LedgerEvent) error {
	args := l.Called(ctx, event)
	return args.Error(0)
}

func (l *LedgerEventRepository) FindUnpublished(limit int) ([]model.LedgerEvent, error) {
	args := l.Called(limit)
	return args.Get(0).([]model.LedgerEvent), args.Error(1)
}

func (l *LedgerEventRepository) MarkPublished(ctx context.Context, id int64) error {
	args := l.Called(ctx, id)
	return args.Error(0)
}
