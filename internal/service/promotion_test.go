package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/auth"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/mocks"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestPromotion_Create(t *testing.T) {
	manager := auth.Principal{AccountID: 90, Role: model.RoleManager}

	rate := decimal.RequireFromString("0.02")
	cmd := service.CreatePromotionCommand{
		Name:      "double points week",
		Type:      "AUTOMATIC",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(7 * 24 * time.Hour),
		Rate:      &rate,
	}

	t.Run("creates an automatic rate promotion", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		mockPromoRepo.On("Create", context.Background(),
			mock.MatchedBy(func(promo *model.Promotion) bool {
				return promo.Type == model.PromotionTypeAutomatic &&
					promo.Rate != nil && promo.Rate.Equal(rate) &&
					promo.Points == nil
			})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Promotion).ID = 7
		}).Return(nil)

		promo, err := svc.Create(context.Background(), manager, cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), promo.ID)
		mockPromoRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		bad := cmd
		bad.Type = "SEASONAL"

		_, err := svc.Create(context.Background(), manager, bad)

		assertServiceErrorCode(t, err, constants.ErrCodeValidationFailed)
		mockPromoRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		bad := cmd
		bad.EndTime = cmd.StartTime.Add(-time.Hour)

		_, err := svc.Create(context.Background(), manager, bad)

		assertServiceErrorCode(t, err, constants.ErrCodeValidationFailed)
	})

	t.Run("requires a rate or a flat bonus", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		bad := cmd
		bad.Rate = nil

		_, err := svc.Create(context.Background(), manager, bad)

		assertServiceErrorCode(t, err, constants.ErrCodeValidationFailed)
	})

	t.Run("rejects a cashier", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		cashier := auth.Principal{AccountID: 50, Role: model.RoleCashier}

		_, err := svc.Create(context.Background(), cashier, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeForbidden)
	})
}

func TestPromotion_Get(t *testing.T) {
	caller := auth.Principal{AccountID: 1, Role: model.RoleRegular}

	t.Run("reports consumption of a one-time promotion", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{ID: 3, Type: model.PromotionTypeOneTime}

		mockPromoRepo.On("GetByID", context.Background(), int64(3)).Return(promo, nil)
		mockPromoRepo.On("IsUsed", context.Background(), int64(1), int64(3)).Return(true, nil)

		result, err := svc.Get(context.Background(), caller, 3)

		assert.NoError(t, err)
		assert.True(t, result.Used)
	})

	t.Run("skips the usage lookup for automatic promotions", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{ID: 7, Type: model.PromotionTypeAutomatic}

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)

		result, err := svc.Get(context.Background(), caller, 7)

		assert.NoError(t, err)
		assert.False(t, result.Used)
		mockPromoRepo.AssertNotCalled(t, "IsUsed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		mockPromoRepo.On("GetByID", context.Background(), int64(9)).
			Return(model.Promotion{}, repository.ErrPromotionNotFound)

		_, err := svc.Get(context.Background(), caller, 9)

		assertServiceErrorCode(t, err, constants.ErrCodePromotionNotFound)
	})
}

func TestPromotion_Update(t *testing.T) {
	manager := auth.Principal{AccountID: 90, Role: model.RoleManager}

	t.Run("everything is open before the window starts", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{
			ID:        7,
			Type:      model.PromotionTypeAutomatic,
			StartTime: time.Now().Add(24 * time.Hour),
			EndTime:   time.Now().Add(48 * time.Hour),
		}
		newRate := decimal.RequireFromString("0.05")

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)
		mockPromoRepo.On("Update", context.Background(),
			mock.MatchedBy(func(p *model.Promotion) bool {
				return p.Rate != nil && p.Rate.Equal(newRate)
			})).Return(nil)

		result, err := svc.Update(context.Background(), manager,
			service.UpdatePromotionCommand{PromotionID: 7, Rate: &newRate})

		assert.NoError(t, err)
		assert.True(t, result.Rate.Equal(newRate))
	})

	t.Run("only the end time may move after the window opens", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{
			ID:        7,
			Type:      model.PromotionTypeAutomatic,
			StartTime: time.Now().Add(-24 * time.Hour),
			EndTime:   time.Now().Add(24 * time.Hour),
		}
		newRate := decimal.RequireFromString("0.05")

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)

		_, err := svc.Update(context.Background(), manager,
			service.UpdatePromotionCommand{PromotionID: 7, Rate: &newRate})

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
		mockPromoRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("extends a started promotion", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{
			ID:        7,
			Type:      model.PromotionTypeAutomatic,
			StartTime: time.Now().Add(-24 * time.Hour),
			EndTime:   time.Now().Add(24 * time.Hour),
		}
		newEnd := time.Now().Add(72 * time.Hour)

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)
		mockPromoRepo.On("Update", context.Background(),
			mock.MatchedBy(func(p *model.Promotion) bool {
				return p.EndTime.Equal(newEnd)
			})).Return(nil)

		result, err := svc.Update(context.Background(), manager,
			service.UpdatePromotionCommand{PromotionID: 7, EndTime: &newEnd})

		assert.NoError(t, err)
		assert.True(t, result.EndTime.Equal(newEnd))
	})

	t.Run("the end time cannot move into the past", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{
			ID:        7,
			Type:      model.PromotionTypeAutomatic,
			StartTime: time.Now().Add(-24 * time.Hour),
			EndTime:   time.Now().Add(24 * time.Hour),
		}
		pastEnd := time.Now().Add(-time.Hour)

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)

		_, err := svc.Update(context.Background(), manager,
			service.UpdatePromotionCommand{PromotionID: 7, EndTime: &pastEnd})

		assertServiceErrorCode(t, err, constants.ErrCodeValidationFailed)
	})
}

func TestPromotion_Delete(t *testing.T) {
	manager := auth.Principal{AccountID: 90, Role: model.RoleManager}

	t.Run("removes a promotion before its window opens", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{ID: 7, StartTime: time.Now().Add(24 * time.Hour)}

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)
		mockPromoRepo.On("DeleteBeforeStart", context.Background(), int64(7),
			mock.AnythingOfType("time.Time")).Return(nil)

		err := svc.Delete(context.Background(), manager, 7)

		assert.NoError(t, err)
		mockPromoRepo.AssertExpectations(t)
	})

	t.Run("refuses once the window has opened", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		promo := model.Promotion{ID: 7, StartTime: time.Now().Add(-time.Hour)}

		mockPromoRepo.On("GetByID", context.Background(), int64(7)).Return(promo, nil)
		mockPromoRepo.On("DeleteBeforeStart", context.Background(), int64(7),
			mock.AnythingOfType("time.Time")).Return(repository.ErrPromotionStarted)

		err := svc.Delete(context.Background(), manager, 7)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
	})

	t.Run("rejects a cashier", func(t *testing.T) {
		mockPromoRepo := &mocks.PromotionRepository{}
		svc := service.NewPromotionService(mockPromoRepo, zap.NewNop())

		cashier := auth.Principal{AccountID: 50, Role: model.RoleCashier}

		err := svc.Delete(context.Background(), cashier, 7)

		assertServiceErrorCode(t, err, constants.ErrCodeForbidden)
		mockPromoRepo.AssertNotCalled(t, "DeleteBeforeStart", mock.Anything, mock.Anything, mock.Anything)
	})
}
