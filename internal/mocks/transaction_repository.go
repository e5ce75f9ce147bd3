package mocks

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (t *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := t.Called(ctx, tx)
	return args.Error(0)
}

func (t *TransactionRepository) GetByID(ctx context.Context, id int64) (model.Transaction, error) {
	args := t.Called(ctx, id)
	return args.Get(0).(model.Transaction), args.Error(1)
}

func (t *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, int64, error) {
	args := t.Called(ctx, userID, limit, offset)
	return args.Get(0).([]model.Transaction), args.Get(1).(int64), args.Error(2)
}

func (t *TransactionRepository) AttachPromotions(ctx context.Context, txID int64, promotionIDs []int64) error {
	args := t.Called(ctx, txID, promotionIDs)
	return args.Error(0)
}

func (t *TransactionRepository) PromotionIDs(ctx context.Context, txID int64) ([]int64, error) {
	args := t.Called(ctx, txID)
	return args.Get(0).([]int64), args.Error(1)
}

func (t *TransactionRepository) MarkProcessed(ctx context.Context, txID int64, processedBy int64) error {
	args := t.Called(ctx, txID, processedBy)
	return args.Error(0)
}

func (t *TransactionRepository) SetSuspicious(ctx context.Context, txID int64, from, to bool, processed bool, processedBy *int64) error {
	args := t.Called(ctx, txID, from, to, processed, processedBy)
	return args.Error(0)
}

func (t *TransactionRepository) UpdateAmount(ctx context.Context, txID int64, oldAmount, newAmount int64) error {
	args := t.Called(ctx, txID, oldAmount, newAmount)
	return args.Error(0)
}

func (t *TransactionRepository) UpdateSpent(ctx context.Context, txID int64, oldAmount, newAmount int64, newSpent decimal.Decimal) error {
	args := t.Called(ctx, txID, oldAmount, newAmount, newSpent)
	return args.Error(0)
}
