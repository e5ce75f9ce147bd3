package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrPromotionNotFound    = errors.New("PROMOTION_NOT_FOUND")
	ErrPromotionAlreadyUsed = errors.New("PROMOTION_ALREADY_USED")
	ErrPromotionStarted     = errors.New("PROMOTION_STARTED")
)

type PromotionRepository interface {
	Create(ctx context.Context, promo *model.Promotion) error
	GetByID(ctx context.Context, id int64) (model.Promotion, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Promotion, error)
	ListActiveAutomatic(ctx context.Context, now time.Time) ([]model.Promotion, error)
	List(ctx context.Context, limit, offset int) ([]model.Promotion, int64, error)
	Update(ctx context.Context, promo *model.Promotion) error
	DeleteBeforeStart(ctx context.Context, id int64, now time.Time) error
	IsUsed(ctx context.Context, userID, promotionID int64) (bool, error)
	MarkUsed(ctx context.Context, userID, promotionID int64) error
}

type promotion struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotion{db: db}
}

func (r *promotion) Create(ctx context.Context, promo *model.Promotion) error {
	db := GetTx(ctx, r.db)
	return db.Create(promo).Error
}

func (r *promotion) GetByID(ctx context.Context, id int64) (model.Promotion, error) {
	db := GetTx(ctx, r.db)

	var promo model.Promotion
	if err := db.Where("id = ?", id).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Promotion{}, ErrPromotionNotFound
		}
		return model.Promotion{}, err
	}

	return promo, nil
}

func (r *promotion) GetByIDs(ctx context.Context, ids []int64) ([]model.Promotion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := GetTx(ctx, r.db)

	var promos []model.Promotion
	if err := db.Where("id IN ?", ids).Find(&promos).Error; err != nil {
		return nil, err
	}

	return promos, nil
}

func (r *promotion) ListActiveAutomatic(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	db := GetTx(ctx, r.db)

	var promos []model.Promotion
	err := db.Where("type = ? AND start_time <= ? AND end_time >= ?", model.PromotionTypeAutomatic, now, now).
		Find(&promos).Error
	if err != nil {
		return nil, err
	}

	return promos, nil
}

func (r *promotion) List(ctx context.Context, limit, offset int) ([]model.Promotion, int64, error) {
	db := GetTx(ctx, r.db)

	var total int64
	if err := db.Model(&model.Promotion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var promos []model.Promotion
	if err := db.Order("id DESC").Limit(limit).Offset(offset).Find(&promos).Error; err != nil {
		return nil, 0, err
	}

	return promos, total, nil
}

func (r *promotion) Update(ctx context.Context, promo *model.Promotion) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Promotion{}).
		Where("id = ?", promo.ID).
		Updates(map[string]interface{}{
			"name":         promo.Name,
			"type":         promo.Type,
			"start_time":   promo.StartTime,
			"end_time":     promo.EndTime,
			"min_spending": promo.MinSpending,
			"rate":         promo.Rate,
			"points":       promo.Points,
		})

	return res.Error
}

// DeleteBeforeStart removes a promotion only while its window is still
// closed. A started promotion is part of ledger history and must survive.
func (r *promotion) DeleteBeforeStart(ctx context.Context, id int64, now time.Time) error {
	db := GetTx(ctx, r.db)

	res := db.Where("id = ? AND start_time > ?", id, now).Delete(&model.Promotion{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrPromotionStarted
	}

	return nil
}

func (r *promotion) IsUsed(ctx context.Context, userID, promotionID int64) (bool, error) {
	db := GetTx(ctx, r.db)

	var count int64
	err := db.Model(&model.UserPromotion{}).
		Where("user_id = ? AND promotion_id = ? AND used = ?", userID, promotionID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// MarkUsed records one-time consumption. The composite primary key turns a
// concurrent second consumption into a duplicate-key error, so the race
// cannot award the bonus twice.
func (r *promotion) MarkUsed(ctx context.Context, userID, promotionID int64) error {
	db := GetTx(ctx, r.db)

	up := model.UserPromotion{
		UserID:      userID,
		PromotionID: promotionID,
		Used:        true,
		UsedAt:      time.Now(),
	}

	err := db.Create(&up).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrPromotionAlreadyUsed
	}

	return err
}
