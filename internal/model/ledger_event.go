package model

import "time"

const (
	LedgerEventCreated           = "CREATED"
	LedgerEventProcessed         = "PROCESSED"
	LedgerEventSuspiciousSet     = "SUSPICIOUS_SET"
	LedgerEventSuspiciousCleared = "SUSPICIOUS_CLEARED"
	LedgerEventAmountAdjusted    = "AMOUNT_ADJUSTED"
)

// LedgerEvent is the outbox row written in the same transaction as every
// ledger mutation. The publisher worker drains unpublished rows to the
// broker for downstream consumers.
type LedgerEvent struct {
	ID            int64      `gorm:"primaryKey;autoIncrement;<-:create"`
	TransactionID int64      `gorm:"column:transaction_id;not null;<-:create"`
	UserID        int64      `gorm:"column:user_id;not null;<-:create"`
	EventType     string     `gorm:"column:event_type;type:enum('CREATED','PROCESSED','SUSPICIOUS_SET','SUSPICIOUS_CLEARED','AMOUNT_ADJUSTED');not null;<-:create"`
	Amount        int64      `gorm:"column:amount;not null;<-:create"`
	Published     bool       `gorm:"column:published;not null;default:false"`
	PublishedAt   *time.Time `gorm:"column:published_at;type:timestamp;null"`
	CreatedAt     time.Time  `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}
