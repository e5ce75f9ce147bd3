package v1

import "time"

type CreateAccountRequest struct {
	Handle string `json:"handle" validate:"required,handle"`
}

type UpdateAccountStatusRequest struct {
	Verified   *bool   `json:"verified"`
	Suspicious *bool   `json:"suspicious"`
	Role       *string `json:"role" validate:"omitempty,role"`
}

type CreatePurchaseRequest struct {
	Handle       string  `json:"handle" validate:"required,handle"`
	Spent        string  `json:"spent" validate:"required,spent"`
	PromotionIDs []int64 `json:"promotion_ids"`
	Remark       string  `json:"remark" validate:"max=255"`
}

type CreateRedemptionRequest struct {
	Amount int64  `json:"amount" validate:"required,min=1"`
	Remark string `json:"remark" validate:"max=255"`
}

type CreateAdjustmentRequest struct {
	UserID    int64  `json:"user_id" validate:"required,min=1"`
	Amount    int64  `json:"amount" validate:"required"`
	RelatedID int64  `json:"related_id" validate:"required,min=1"`
	Remark    string `json:"remark" validate:"max=255"`
}

type CreateTransferRequest struct {
	RecipientID int64  `json:"recipient_id" validate:"required,min=1"`
	Amount      int64  `json:"amount" validate:"required,min=1"`
	Remark      string `json:"remark" validate:"max=255"`
}

type SetSuspiciousRequest struct {
	Suspicious *bool `json:"suspicious" validate:"required"`
}

type UpdateAmountRequest struct {
	Amount int64 `json:"amount" validate:"required"`
}

type UpdateSpentRequest struct {
	Spent string `json:"spent" validate:"required,spent"`
}

type CreatePromotionRequest struct {
	Name        string    `json:"name" validate:"required,max=128"`
	Type        string    `json:"type" validate:"required,oneof=AUTOMATIC ONETIME"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	MinSpending *string   `json:"min_spending" validate:"omitempty,spent"`
	Rate        *string   `json:"rate"`
	Points      *int64    `json:"points" validate:"omitempty,min=1"`
}

type UpdatePromotionRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=128"`
	Type        *string    `json:"type" validate:"omitempty,oneof=AUTOMATIC ONETIME"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	MinSpending *string    `json:"min_spending" validate:"omitempty,spent"`
	Rate        *string    `json:"rate"`
	Points      *int64     `json:"points" validate:"omitempty,min=1"`
}

type CreateEventRequest struct {
	Name            string    `json:"name" validate:"required,max=128"`
	Description     string    `json:"description"`
	Location        string    `json:"location" validate:"max=128"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	Capacity        *int64    `json:"capacity" validate:"omitempty,min=1"`
	PointsAllocated int64     `json:"points_allocated" validate:"required,min=1"`
}

type UpdateEventRequest struct {
	Name            *string    `json:"name" validate:"omitempty,max=128"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location" validate:"omitempty,max=128"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Capacity        *int64     `json:"capacity" validate:"omitempty,min=1"`
	PointsAllocated *int64     `json:"points_allocated" validate:"omitempty,min=1"`
	Published       *bool      `json:"published"`
}

type AddGuestRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
}

type AddOrganizerRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
}

type AwardPointsRequest struct {
	Amount       int64   `json:"amount" validate:"required,min=1"`
	RecipientIDs []int64 `json:"recipient_ids"`
	AllGuests    bool    `json:"all_guests"`
	Remark       string  `json:"remark" validate:"max=255"`
}
