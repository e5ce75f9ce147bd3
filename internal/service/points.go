package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// pointsPerDollar is the base accrual rate: one point per quarter dollar.
var pointsPerDollar = decimal.NewFromInt(4)

// rateScale multiplies the spent×rate product into whole points: a rate is
// extra points per dollar expressed as a fraction, e.g. 0.02 adds 2 points
// per dollar.
var rateScale = decimal.NewFromInt(100)

// PointsCalculator maps a purchase amount and a promotion set to the total
// points earned, enforcing every eligibility rule before anything is written.
type PointsCalculator interface {
	Calculate(ctx context.Context, userID int64, spent decimal.Decimal, promotionIDs []int64) (int64, []model.Promotion, error)
	Recalculate(spent decimal.Decimal, promos []model.Promotion) int64
	ActiveAutomatic(ctx context.Context, now time.Time, spent decimal.Decimal) ([]model.Promotion, error)
}

type pointsCalculator struct {
	promotionRepo repository.PromotionRepository
	log           *zap.Logger
}

func NewPointsCalculator(promotionRepo repository.PromotionRepository, log *zap.Logger) PointsCalculator {
	return &pointsCalculator{promotionRepo: promotionRepo, log: log}
}

// Calculate accumulates in decimal and truncates exactly once at the end, so
// fractional remainders from stacked promotions are dropped together rather
// than per promotion.
func (c *pointsCalculator) Calculate(ctx context.Context, userID int64, spent decimal.Decimal, promotionIDs []int64) (int64, []model.Promotion, error) {
	total := spent.Mul(pointsPerDollar)

	promos, err := c.resolve(ctx, promotionIDs)
	if err != nil {
		return 0, nil, err
	}

	now := time.Now()
	for _, promo := range promos {
		if !promo.ActiveAt(now) {
			return 0, nil, NewServiceError(constants.ErrCodePromotionInactive,
				fmt.Errorf("promotion %d is not active", promo.ID))
		}

		if promo.Type == model.PromotionTypeOneTime {
			used, err := c.promotionRepo.IsUsed(ctx, userID, promo.ID)
			if err != nil {
				c.log.Error("error check promotion usage", zap.Int64("promotionID", promo.ID), zap.Error(err))
				return 0, nil, NewServiceError(constants.ErrCodeOperationFailed, err)
			}
			if used {
				return 0, nil, NewServiceError(constants.ErrCodePromotionAlreadyUsed,
					fmt.Errorf("promotion %d already used", promo.ID))
			}
		}

		if !promo.MeetsMinSpending(spent) {
			return 0, nil, NewServiceError(constants.ErrCodeMinSpendingNotMet,
				fmt.Errorf("promotion %d requires minimum spending %s", promo.ID, promo.MinSpending))
		}

		if promo.Rate != nil {
			total = total.Add(spent.Mul(*promo.Rate).Mul(rateScale))
		}
		if promo.Points != nil {
			total = total.Add(decimal.NewFromInt(*promo.Points))
		}
	}

	return total.IntPart(), promos, nil
}

// Recalculate re-derives the amount for a corrected spend against an already
// consumed promotion set. Eligibility was settled when the entry was created,
// so only the arithmetic runs here.
func (c *pointsCalculator) Recalculate(spent decimal.Decimal, promos []model.Promotion) int64 {
	total := spent.Mul(pointsPerDollar)

	for _, promo := range promos {
		if promo.Rate != nil {
			total = total.Add(spent.Mul(*promo.Rate).Mul(rateScale))
		}
		if promo.Points != nil {
			total = total.Add(decimal.NewFromInt(*promo.Points))
		}
	}

	return total.IntPart()
}

func (c *pointsCalculator) ActiveAutomatic(ctx context.Context, now time.Time, spent decimal.Decimal) ([]model.Promotion, error) {
	promos, err := c.promotionRepo.ListActiveAutomatic(ctx, now)
	if err != nil {
		c.log.Error("error list active automatic promotions", zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	eligible := make([]model.Promotion, 0, len(promos))
	for _, promo := range promos {
		if promo.MeetsMinSpending(spent) {
			eligible = append(eligible, promo)
		}
	}

	return eligible, nil
}

// resolve fetches the promotion set and returns it in the order the caller
// gave; the first id that does not exist fails the whole calculation.
func (c *pointsCalculator) resolve(ctx context.Context, promotionIDs []int64) ([]model.Promotion, error) {
	if len(promotionIDs) == 0 {
		return nil, nil
	}

	found, err := c.promotionRepo.GetByIDs(ctx, promotionIDs)
	if err != nil {
		c.log.Error("error resolve promotions", zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	byID := make(map[int64]model.Promotion, len(found))
	for _, promo := range found {
		byID[promo.ID] = promo
	}

	promos := make([]model.Promotion, 0, len(promotionIDs))
	for _, id := range promotionIDs {
		promo, ok := byID[id]
		if !ok {
			return nil, NewServiceError(constants.ErrCodePromotionNotFound,
				fmt.Errorf("promotion %d not found", id))
		}
		promos = append(promos, promo)
	}

	return promos, nil
}
