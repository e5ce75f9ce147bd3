package repository

import (
	"context"
	"errors"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
	ErrStaleTransaction    = errors.New("STALE_TRANSACTION")
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id int64) (model.Transaction, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, int64, error)
	AttachPromotions(ctx context.Context, txID int64, promotionIDs []int64) error
	PromotionIDs(ctx context.Context, txID int64) ([]int64, error)
	MarkProcessed(ctx context.Context, txID int64, processedBy int64) error
	SetSuspicious(ctx context.Context, txID int64, from, to bool, processed bool, processedBy *int64) error
	UpdateAmount(ctx context.Context, txID int64, oldAmount, newAmount int64) error
	UpdateSpent(ctx context.Context, txID int64, oldAmount, newAmount int64, newSpent decimal.Decimal) error
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (r *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	db := GetTx(ctx, r.db)
	return db.Omit("Promotions").Create(tx).Error
}

func (r *transaction) GetByID(ctx context.Context, id int64) (model.Transaction, error) {
	db := GetTx(ctx, r.db)

	var tx model.Transaction
	if err := db.Preload("Promotions").Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Transaction{}, ErrTransactionNotFound
		}
		return model.Transaction{}, err
	}

	return tx, nil
}

func (r *transaction) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, int64, error) {
	db := GetTx(ctx, r.db)

	var total int64
	if err := db.Model(&model.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []model.Transaction
	err := db.Preload("Promotions").
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *transaction) AttachPromotions(ctx context.Context, txID int64, promotionIDs []int64) error {
	if len(promotionIDs) == 0 {
		return nil
	}

	db := GetTx(ctx, r.db)

	rows := make([]model.TransactionPromotion, 0, len(promotionIDs))
	for _, id := range promotionIDs {
		rows = append(rows, model.TransactionPromotion{TransactionID: txID, PromotionID: id})
	}

	return db.Create(&rows).Error
}

func (r *transaction) PromotionIDs(ctx context.Context, txID int64) ([]int64, error) {
	db := GetTx(ctx, r.db)

	var ids []int64
	err := db.Model(&model.TransactionPromotion{}).
		Where("transaction_id = ?", txID).
		Pluck("promotion_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// MarkProcessed flips a pending redemption to processed. The guard on the
// current flag makes a second concurrent processing attempt miss.
func (r *transaction) MarkProcessed(ctx context.Context, txID int64, processedBy int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Transaction{}).
		Where("id = ? AND type = ? AND processed = ?", txID, model.TransactionTypeRedemption, false).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_by": processedBy,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrStaleTransaction
	}

	return nil
}

// SetSuspicious toggles the suspicious overlay, keyed on the entry's current
// flag so two concurrent toggles cannot both apply their balance reversal.
func (r *transaction) SetSuspicious(ctx context.Context, txID int64, from, to bool, processed bool, processedBy *int64) error {
	db := GetTx(ctx, r.db)

	updates := map[string]interface{}{
		"suspicious": to,
		"processed":  processed,
	}
	if processedBy != nil {
		updates["processed_by"] = *processedBy
	}

	res := db.Model(&model.Transaction{}).
		Where("id = ? AND suspicious = ?", txID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrStaleTransaction
	}

	return nil
}

// UpdateAmount overrides the entry's amount, keyed on the amount the caller
// read so an interleaved correction cannot be silently overwritten.
func (r *transaction) UpdateAmount(ctx context.Context, txID int64, oldAmount, newAmount int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Transaction{}).
		Where("id = ? AND amount = ?", txID, oldAmount).
		Update("amount", newAmount)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrStaleTransaction
	}

	return nil
}

func (r *transaction) UpdateSpent(ctx context.Context, txID int64, oldAmount, newAmount int64, newSpent decimal.Decimal) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Transaction{}).
		Where("id = ? AND amount = ?", txID, oldAmount).
		Updates(map[string]interface{}{
			"amount": newAmount,
			"spent":  newSpent,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrStaleTransaction
	}

	return nil
}
