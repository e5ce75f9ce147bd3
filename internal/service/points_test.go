package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/mocks"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPointsCalculator_Calculate(t *testing.T) {
	logger := zap.NewNop()
	now := time.Now()

	openWindow := func(promo model.Promotion) model.Promotion {
		promo.StartTime = now.Add(-time.Hour)
		promo.EndTime = now.Add(time.Hour)
		return promo
	}

	t.Run("accrues four points per dollar without promotions", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		total, promos, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), nil)

		assert.NoError(t, err)
		assert.Equal(t, int64(40), total)
		assert.Empty(t, promos)
		mockPromoRepo.AssertNotCalled(t, "GetByIDs")
	})

	t.Run("truncates the fractional base", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		total, _, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.15"), nil)

		assert.NoError(t, err)
		assert.Equal(t, int64(40), total)
	})

	t.Run("rate promotion adds extra points per cent", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		rate := decimal.RequireFromString("0.02")
		promo := openWindow(model.Promotion{ID: 7, Type: model.PromotionTypeAutomatic, Rate: &rate})

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{7}).
			Return([]model.Promotion{promo}, nil)

		total, promos, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), []int64{7})

		assert.NoError(t, err)
		assert.Equal(t, int64(60), total)
		assert.Len(t, promos, 1)
		mockPromoRepo.AssertExpectations(t)
	})

	t.Run("flat bonus promotion adds its points once", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		points := int64(50)
		promo := openWindow(model.Promotion{ID: 3, Type: model.PromotionTypeOneTime, Points: &points})

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{3}).
			Return([]model.Promotion{promo}, nil)
		mockPromoRepo.On("IsUsed", context.Background(), int64(1), int64(3)).
			Return(false, nil)

		total, _, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), []int64{3})

		assert.NoError(t, err)
		assert.Equal(t, int64(90), total)
		mockPromoRepo.AssertExpectations(t)
	})

	t.Run("stacked promotions truncate once at the end", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		rate := decimal.RequireFromString("0.01")
		points := int64(5)
		ratePromo := openWindow(model.Promotion{ID: 1, Type: model.PromotionTypeAutomatic, Rate: &rate})
		flatPromo := openWindow(model.Promotion{ID: 2, Type: model.PromotionTypeAutomatic, Points: &points})

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{1, 2}).
			Return([]model.Promotion{ratePromo, flatPromo}, nil)

		// 9.99*4 + 9.99*0.01*100 + 5 = 54.95; truncating per step would
		// give 53 instead.
		total, _, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("9.99"), []int64{1, 2})

		assert.NoError(t, err)
		assert.Equal(t, int64(54), total)
	})

	t.Run("fails on the first unknown promotion id", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		promo := openWindow(model.Promotion{ID: 2, Type: model.PromotionTypeAutomatic})

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{9, 2}).
			Return([]model.Promotion{promo}, nil)

		total, promos, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), []int64{9, 2})

		assert.Error(t, err)
		assert.Equal(t, int64(0), total)
		assert.Nil(t, promos)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodePromotionNotFound, serviceErr.Code)
	})

	t.Run("rejects a promotion outside its window", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		expired := model.Promotion{
			ID:        4,
			Type:      model.PromotionTypeAutomatic,
			StartTime: now.Add(-48 * time.Hour),
			EndTime:   now.Add(-24 * time.Hour),
		}

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{4}).
			Return([]model.Promotion{expired}, nil)

		_, _, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), []int64{4})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodePromotionInactive, serviceErr.Code)
	})

	t.Run("rejects a consumed one-time promotion", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		points := int64(50)
		promo := openWindow(model.Promotion{ID: 3, Type: model.PromotionTypeOneTime, Points: &points})

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{3}).
			Return([]model.Promotion{promo}, nil)
		mockPromoRepo.On("IsUsed", context.Background(), int64(1), int64(3)).
			Return(true, nil)

		_, _, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), []int64{3})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodePromotionAlreadyUsed, serviceErr.Code)
	})

	t.Run("rejects a purchase below the promotion minimum", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		minSpending := decimal.RequireFromString("50.00")
		rate := decimal.RequireFromString("0.02")
		promo := openWindow(model.Promotion{
			ID:          5,
			Type:        model.PromotionTypeAutomatic,
			MinSpending: &minSpending,
			Rate:        &rate,
		})

		mockPromoRepo.On("GetByIDs", context.Background(), []int64{5}).
			Return([]model.Promotion{promo}, nil)

		_, _, err := calc.Calculate(context.Background(), 1,
			decimal.RequireFromString("10.00"), []int64{5})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeMinSpendingNotMet, serviceErr.Code)
	})
}

func TestPointsCalculator_Recalculate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("re-derives the amount without eligibility checks", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		rate := decimal.RequireFromString("0.02")
		points := int64(10)
		promos := []model.Promotion{
			{ID: 1, Type: model.PromotionTypeOneTime, Rate: &rate},
			{ID: 2, Type: model.PromotionTypeAutomatic, Points: &points},
		}

		total := calc.Recalculate(decimal.RequireFromString("20.00"), promos)

		// 20*4 + 20*0.02*100 + 10; a consumed one-time promotion still
		// counts because the entry already holds it.
		assert.Equal(t, int64(130), total)
		mockPromoRepo.AssertNotCalled(t, "IsUsed")
	})

	t.Run("base only for an empty promotion set", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		total := calc.Recalculate(decimal.RequireFromString("12.50"), nil)

		assert.Equal(t, int64(50), total)
	})
}

func TestPointsCalculator_ActiveAutomatic(t *testing.T) {
	logger := zap.NewNop()
	now := time.Now()

	t.Run("filters automatic promotions by minimum spending", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		lowMin := decimal.RequireFromString("5.00")
		highMin := decimal.RequireFromString("100.00")
		promos := []model.Promotion{
			{ID: 1, Type: model.PromotionTypeAutomatic, MinSpending: &lowMin},
			{ID: 2, Type: model.PromotionTypeAutomatic, MinSpending: &highMin},
			{ID: 3, Type: model.PromotionTypeAutomatic},
		}

		mockPromoRepo.On("ListActiveAutomatic", context.Background(), now).
			Return(promos, nil)

		eligible, err := calc.ActiveAutomatic(context.Background(), now,
			decimal.RequireFromString("10.00"))

		assert.NoError(t, err)
		assert.Len(t, eligible, 2)
		assert.Equal(t, int64(1), eligible[0].ID)
		assert.Equal(t, int64(3), eligible[1].ID)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		calc := service.NewPointsCalculator(mockPromoRepo, logger)

		mockPromoRepo.On("ListActiveAutomatic", context.Background(), now).
			Return([]model.Promotion(nil), errors.New("connection reset"))

		_, err := calc.ActiveAutomatic(context.Background(), now,
			decimal.RequireFromString("10.00"))

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeOperationFailed, serviceErr.Code)
	})
}
