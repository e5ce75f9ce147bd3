package repository

import (
	"context"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"gorm.io/gorm"
)

type LedgerEventRepository interface {
	Create(ctx context.Context, event *model.LedgerEvent) error
	FindUnpublished(limit int) ([]model.LedgerEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}

type ledgerEvent struct {
	db *gorm.DB
}

func NewLedgerEventRepository(db *gorm.DB) LedgerEventRepository {
	return &ledgerEvent{db: db}
}

func (r *ledgerEvent) Create(ctx context.Context, event *model.LedgerEvent) error {
	db := GetTx(ctx, r.db)
	return db.Create(event).Error
}

func (r *ledgerEvent) FindUnpublished(limit int) ([]model.LedgerEvent, error) {
	var events []model.LedgerEvent
	err := r.db.Where("published = ?", false).
		Order("id ASC").Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *ledgerEvent) MarkPublished(ctx context.Context, id int64) error {
	db := GetTx(ctx, r.db)

	now := time.Now()
	return db.Model(&model.LedgerEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"published":    true,
			"published_at": now,
		}).Error
}
