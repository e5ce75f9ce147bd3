package mocks

import (
	"context"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type PromotionRepository struct {
	mock.Mock
}

func (p *PromotionRepository) Create(ctx context.Context, promo *model.Promotion) error {
	args := p.Called(ctx, promo)
	return args.Error(0)
}

func (p *PromotionRepository) GetByID(ctx context.Context, id int64) (model.Promotion, error) {
	args := p.Called(ctx, id)
	return args.Get(0).(model.Promotion), args.Error(1)
}

func (p *PromotionRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Promotion, error) {
	args := p.Called(ctx, ids)
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (p *PromotionRepository) ListActiveAutomatic(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	args := p.Called(ctx, now)
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (p *PromotionRepository) List(ctx context.Context, limit, offset int) ([]model.Promotion, int64, error) {
	args := p.Called(ctx, limit, offset)
	return args.Get(0).([]model.Promotion), args.Get(1).(int64), args.Error(2)
}

func (p *PromotionRepository) Update(ctx context.Context, promo *model.Promotion) error {
	args := p.Called(ctx, promo)
	return args.Error(0)
}

func (p *PromotionRepository) DeleteBeforeStart(ctx context.Context, id int64, now time.Time) error {
	args := p.Called(ctx, id, now)
	return args.Error(0)
}

func (p *PromotionRepository) IsUsed(ctx context.Context, userID, promotionID int64) (bool, error) {
	args := p.Called(ctx, userID, promotionID)
	return args.Bool(0), args.Error(1)
}

func (p *PromotionRepository) MarkUsed(ctx context.Context, userID, promotionID int64) error {
	args := p.Called(ctx, userID, promotionID)
	return args.Error(0)
}
