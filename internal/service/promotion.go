package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/auth"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"go.uber.org/zap"
)

type PromotionService interface {
	Create(ctx context.Context, actor auth.Principal, cmd CreatePromotionCommand) (model.Promotion, error)
	Get(ctx context.Context, actor auth.Principal, promotionID int64) (PromotionResult, error)
	List(ctx context.Context, actor auth.Principal, limit, offset int) (ListPromotionsResult, error)
	Update(ctx context.Context, actor auth.Principal, cmd UpdatePromotionCommand) (model.Promotion, error)
	Delete(ctx context.Context, actor auth.Principal, promotionID int64) error
}

type promotionService struct {
	promotionRepo repository.PromotionRepository
	log           *zap.Logger
}

func NewPromotionService(promotionRepo repository.PromotionRepository, log *zap.Logger) PromotionService {
	return &promotionService{promotionRepo: promotionRepo, log: log}
}

func (s *promotionService) Create(ctx context.Context, actor auth.Principal, cmd CreatePromotionCommand) (model.Promotion, error) {
	if !actor.IsManager() {
		return model.Promotion{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	promoType := model.PromotionType(cmd.Type)
	if promoType != model.PromotionTypeAutomatic && promoType != model.PromotionTypeOneTime {
		return model.Promotion{}, NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("unknown promotion type %q", cmd.Type))
	}

	if !cmd.EndTime.After(cmd.StartTime) {
		return model.Promotion{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("end time must be after start time"))
	}

	if cmd.Rate == nil && cmd.Points == nil {
		return model.Promotion{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("promotion must set a rate or a flat bonus"))
	}

	promo := model.Promotion{
		Name:        cmd.Name,
		Type:        promoType,
		StartTime:   cmd.StartTime,
		EndTime:     cmd.EndTime,
		MinSpending: cmd.MinSpending,
		Rate:        cmd.Rate,
		Points:      cmd.Points,
	}

	if err := s.promotionRepo.Create(ctx, &promo); err != nil {
		s.log.Error("error create promotion", zap.Error(err))
		return model.Promotion{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("promotion created",
		zap.Int64("promotionID", promo.ID),
		zap.String("type", string(promo.Type)),
	)

	return promo, nil
}

// Get includes whether the calling user has already consumed a one-time
// promotion, so the client can grey it out.
func (s *promotionService) Get(ctx context.Context, actor auth.Principal, promotionID int64) (PromotionResult, error) {
	promo, err := s.promotionRepo.GetByID(ctx, promotionID)
	if err != nil {
		return PromotionResult{}, s.promotionError(err)
	}

	result := PromotionResult{Promotion: promo}

	if promo.Type == model.PromotionTypeOneTime {
		used, err := s.promotionRepo.IsUsed(ctx, actor.AccountID, promo.ID)
		if err != nil {
			s.log.Error("error check promotion usage", zap.Int64("promotionID", promo.ID), zap.Error(err))
			return PromotionResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
		}
		result.Used = used
	}

	return result, nil
}

func (s *promotionService) List(ctx context.Context, actor auth.Principal, limit, offset int) (ListPromotionsResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	promos, total, err := s.promotionRepo.List(ctx, limit, offset)
	if err != nil {
		s.log.Error("error list promotions", zap.Error(err))
		return ListPromotionsResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return ListPromotionsResult{Promotions: promos, Total: total}, nil
}

// Update enforces the window lock: before start_time every field is open,
// after it only end_time may still move.
func (s *promotionService) Update(ctx context.Context, actor auth.Principal, cmd UpdatePromotionCommand) (model.Promotion, error) {
	if !actor.IsManager() {
		return model.Promotion{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	promo, err := s.promotionRepo.GetByID(ctx, cmd.PromotionID)
	if err != nil {
		return model.Promotion{}, s.promotionError(err)
	}

	now := time.Now()
	started := promo.Started(now)

	if started && (cmd.Name != nil || cmd.Type != nil || cmd.StartTime != nil ||
		cmd.MinSpending != nil || cmd.Rate != nil || cmd.Points != nil) {
		return model.Promotion{}, NewServiceError(constants.ErrCodeInvalidState, ErrWindowLocked)
	}

	if cmd.Name != nil {
		promo.Name = *cmd.Name
	}
	if cmd.Type != nil {
		promoType := model.PromotionType(*cmd.Type)
		if promoType != model.PromotionTypeAutomatic && promoType != model.PromotionTypeOneTime {
			return model.Promotion{}, NewServiceError(constants.ErrCodeValidationFailed,
				fmt.Errorf("unknown promotion type %q", *cmd.Type))
		}
		promo.Type = promoType
	}
	if cmd.StartTime != nil {
		promo.StartTime = *cmd.StartTime
	}
	if cmd.EndTime != nil {
		if cmd.EndTime.Before(now) {
			return model.Promotion{}, NewServiceError(constants.ErrCodeValidationFailed,
				errors.New("end time cannot be in the past"))
		}
		promo.EndTime = *cmd.EndTime
	}
	if cmd.MinSpending != nil {
		promo.MinSpending = cmd.MinSpending
	}
	if cmd.Rate != nil {
		promo.Rate = cmd.Rate
	}
	if cmd.Points != nil {
		promo.Points = cmd.Points
	}

	if !promo.EndTime.After(promo.StartTime) {
		return model.Promotion{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("end time must be after start time"))
	}

	if err := s.promotionRepo.Update(ctx, &promo); err != nil {
		s.log.Error("error update promotion", zap.Int64("promotionID", promo.ID), zap.Error(err))
		return model.Promotion{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("promotion updated", zap.Int64("promotionID", promo.ID))

	return promo, nil
}

// Delete only succeeds while the window has not opened; the conditional
// delete makes the check and the removal one statement.
func (s *promotionService) Delete(ctx context.Context, actor auth.Principal, promotionID int64) error {
	if !actor.IsManager() {
		return NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	if _, err := s.promotionRepo.GetByID(ctx, promotionID); err != nil {
		return s.promotionError(err)
	}

	if err := s.promotionRepo.DeleteBeforeStart(ctx, promotionID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrPromotionStarted) {
			return NewServiceError(constants.ErrCodeInvalidState, err)
		}
		s.log.Error("error delete promotion", zap.Int64("promotionID", promotionID), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("promotion deleted", zap.Int64("promotionID", promotionID))

	return nil
}

func (s *promotionService) promotionError(err error) error {
	if errors.Is(err, repository.ErrPromotionNotFound) {
		return NewServiceError(constants.ErrCodePromotionNotFound, err)
	}
	return NewServiceError(constants.ErrCodeOperationFailed, err)
}
