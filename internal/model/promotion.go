package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	PromotionTypeAutomatic PromotionType = "AUTOMATIC"
	PromotionTypeOneTime   PromotionType = "ONETIME"
)

type Promotion struct {
	ID          int64            `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	Name        string           `gorm:"column:name;type:varchar(128);not null"`
	Type        PromotionType    `gorm:"column:type;type:enum('AUTOMATIC','ONETIME');not null"`
	StartTime   time.Time        `gorm:"column:start_time;not null"`
	EndTime     time.Time        `gorm:"column:end_time;not null"`
	MinSpending *decimal.Decimal `gorm:"column:min_spending;type:decimal(10,2)"`
	Rate        *decimal.Decimal `gorm:"column:rate;type:decimal(8,4)"`
	Points      *int64           `gorm:"column:points"`
	CreatedAt   time.Time        `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// ActiveAt reports whether t falls inside the promotion window, inclusive on
// both ends.
func (p *Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartTime) && !t.After(p.EndTime)
}

// Started reports whether the window has opened; once it has, only the end
// time may still change.
func (p *Promotion) Started(t time.Time) bool {
	return !t.Before(p.StartTime)
}

// MeetsMinSpending reports whether spent satisfies the promotion's minimum,
// an unset minimum matches everything.
func (p *Promotion) MeetsMinSpending(spent decimal.Decimal) bool {
	return p.MinSpending == nil || spent.GreaterThanOrEqual(*p.MinSpending)
}

// UserPromotion marks a one-time promotion as consumed by a user. The row is
// created the first time the promotion is consumed; the composite primary key
// makes a second consumption impossible at the storage layer.
type UserPromotion struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	PromotionID int64     `gorm:"primaryKey;autoIncrement:false;column:promotion_id"`
	Used        bool      `gorm:"column:used;not null;default:true"`
	UsedAt      time.Time `gorm:"column:used_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (UserPromotion) TableName() string {
	return "user_promotions"
}
