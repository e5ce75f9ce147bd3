package service

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAccountCommand struct {
	Handle string
}

type UpdateAccountStatusCommand struct {
	AccountID  int64
	Verified   *bool
	Suspicious *bool
	Role       *string
}

type CreatePurchaseCommand struct {
	Handle       string
	Spent        decimal.Decimal
	PromotionIDs []int64
	Remark       string
}

type CreateRedemptionCommand struct {
	Amount int64
	Remark string
}

type CreateAdjustmentCommand struct {
	UserID    int64
	Amount    int64
	RelatedID int64
	Remark    string
}

type CreateTransferCommand struct {
	RecipientID int64
	Amount      int64
	Remark      string
}

type SetSuspiciousCommand struct {
	TransactionID int64
	Suspicious    bool
}

type UpdateAmountCommand struct {
	TransactionID int64
	Amount        int64
}

type UpdateSpentCommand struct {
	TransactionID int64
	Spent         decimal.Decimal
}

type ListTransactionsQuery struct {
	UserID int64
	Limit  int
	Offset int
}

type CreatePromotionCommand struct {
	Name        string
	Type        string
	StartTime   time.Time
	EndTime     time.Time
	MinSpending *decimal.Decimal
	Rate        *decimal.Decimal
	Points      *int64
}

type UpdatePromotionCommand struct {
	PromotionID int64
	Name        *string
	Type        *string
	StartTime   *time.Time
	EndTime     *time.Time
	MinSpending *decimal.Decimal
	Rate        *decimal.Decimal
	Points      *int64
}

type CreateEventCommand struct {
	Name            string
	Description     string
	Location        string
	StartTime       time.Time
	EndTime         time.Time
	Capacity        *int64
	PointsAllocated int64
}

type UpdateEventCommand struct {
	EventID         int64
	Name            *string
	Description     *string
	Location        *string
	StartTime       *time.Time
	EndTime         *time.Time
	Capacity        *int64
	PointsAllocated *int64
	Published       *bool
}

type AwardPointsCommand struct {
	EventID      int64
	Amount       int64
	RecipientIDs []int64
	AllGuests    bool
	Remark       string
}
