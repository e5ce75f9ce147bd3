package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeRedemption TransactionType = "REDEMPTION"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeEvent      TransactionType = "EVENT"
)

// Transaction is one ledger entry: a signed point movement for one account.
// Core fields are write-once; amount, spent, suspicious and processed are the
// only fields privileged actors may mutate afterwards, and every such
// mutation re-derives the balance delta in the same atomic unit.
type Transaction struct {
	ID          int64            `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	UserID      int64            `gorm:"column:user_id;not null;index:idx_transactions_user;<-:create"`
	Type        TransactionType  `gorm:"column:type;type:enum('PURCHASE','REDEMPTION','ADJUSTMENT','TRANSFER','EVENT');not null;<-:create"`
	Amount      int64            `gorm:"column:amount;not null"`
	Spent       *decimal.Decimal `gorm:"column:spent;type:decimal(10,2)"`
	RelatedID   *int64           `gorm:"column:related_id;<-:create"`
	Suspicious  bool             `gorm:"column:suspicious;not null;default:false"`
	Processed   bool             `gorm:"column:processed;not null;default:false"`
	CreatedBy   int64            `gorm:"column:created_by;not null;<-:create"`
	ProcessedBy *int64           `gorm:"column:processed_by"`
	Remark      string           `gorm:"column:remark;type:varchar(255)"`
	CreatedAt   time.Time        `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;<-:create"`

	Promotions []TransactionPromotion `gorm:"foreignKey:TransactionID"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Flaggable reports whether the suspicious overlay applies to this entry
// type. Only purchases and adjustments are ever withheld from the balance.
func (t *Transaction) Flaggable() bool {
	return t.Type == TransactionTypePurchase || t.Type == TransactionTypeAdjustment
}

// TransactionPromotion records one promotion consumed by a purchase.
type TransactionPromotion struct {
	TransactionID int64 `gorm:"primaryKey;autoIncrement:false;column:transaction_id"`
	PromotionID   int64 `gorm:"primaryKey;autoIncrement:false;column:promotion_id"`
}

func (TransactionPromotion) TableName() string {
	return "transaction_promotions"
}
