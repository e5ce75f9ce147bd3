package service

import "github.com/campusperks/points-services/pointsgateway/internal/model"

type TransactionResult struct {
	Transaction model.Transaction `json:"transaction"`
	Balance     int64             `json:"balance"`

	// AppliedPromotions is filled for purchases only.
	AppliedPromotions []model.Promotion `json:"applied_promotions,omitempty"`
}

type TransferResult struct {
	Sender    model.Transaction `json:"sender"`
	Recipient model.Transaction `json:"recipient"`
	Balance   int64             `json:"balance"`
}

type AwardResult struct {
	Transactions []model.Transaction `json:"transactions"`
	PointsRemain int64               `json:"points_remain"`
}

type ListTransactionsResult struct {
	Transactions []model.Transaction `json:"transactions"`
	Total        int64               `json:"total"`
}

type PromotionResult struct {
	Promotion model.Promotion `json:"promotion"`
	Used      bool            `json:"used"`
}

type ListPromotionsResult struct {
	Promotions []model.Promotion `json:"promotions"`
	Total      int64             `json:"total"`
}

type ListEventsResult struct {
	Events []model.Event `json:"events"`
	Total  int64         `json:"total"`
}

// LedgerFeedMessage is the JSON body published to the points.ledger queue
// for every outbox row.
type LedgerFeedMessage struct {
	LedgerEventID int64  `json:"ledger_event_id"`
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	EventType     string `json:"event_type"`
	Amount        int64  `json:"amount"`
}
