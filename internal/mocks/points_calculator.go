package mocks

import (
	"context"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type PointsCalculator struct {
	mock.Mock
}

func (p *PointsCalculator) Calculate(ctx context.Context, userID int64, spent decimal.Decimal, promotionIDs []int64) (int64, []model.Promotion, error) {
	args := p.Called(ctx, userID, spent, promotionIDs)
	return args.Get(0).(int64), args.Get(1).([]model.Promotion), args.Error(2)
}

func (p *PointsCalculator) Recalculate(spent decimal.Decimal, promos []model.Promotion) int64 {
	args := p.Called(spent, promos)
	return args.Get(0).(int64)
}

func (p *PointsCalculator) ActiveAutomatic(ctx context.Context, now time.Time, spent decimal.Decimal) ([]model.Promotion, error) {
	args := p.Called(ctx, now, spent)
	return args.Get(0).([]model.Promotion), args.Error(1)
}
