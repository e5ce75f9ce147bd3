package constants

const (
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountExists       = "ACCOUNT_EXISTS"
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodePromotionNotFound   = "PROMOTION_NOT_FOUND"
	ErrCodeEventNotFound       = "EVENT_NOT_FOUND"

	ErrCodePromotionInactive    = "PROMOTION_INACTIVE"
	ErrCodePromotionAlreadyUsed = "PROMOTION_ALREADY_USED"
	ErrCodeMinSpendingNotMet    = "MIN_SPENDING_NOT_MET"

	ErrCodeInsufficientPoints = "INSUFFICIENT_POINTS"
	ErrCodeInsufficientBudget = "INSUFFICIENT_BUDGET"

	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeAlreadyProcessed = "ALREADY_PROCESSED"
	ErrCodeAlreadyGuest     = "ALREADY_GUEST"
	ErrCodeNotGuest         = "NOT_GUEST"
	ErrCodeEventFull        = "EVENT_FULL"

	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeUnauthorized = "UNAUTHORIZED"

	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeOperationFailed    = "OPERATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const MessageErrorFormat = "field %s is invalid"

var errorMessages = map[string]string{
	ErrCodeAccountNotFound:     "account not found",
	ErrCodeAccountExists:       "account already exists",
	ErrCodeTransactionNotFound: "transaction not found",
	ErrCodePromotionNotFound:   "promotion not found",
	ErrCodeEventNotFound:       "event not found",

	ErrCodePromotionInactive:    "promotion is not active",
	ErrCodePromotionAlreadyUsed: "promotion has already been used",
	ErrCodeMinSpendingNotMet:    "purchase does not meet the promotion minimum spending",

	ErrCodeInsufficientPoints: "insufficient points",
	ErrCodeInsufficientBudget: "insufficient event points budget",

	ErrCodeInvalidState:     "operation not allowed in the current state",
	ErrCodeAlreadyProcessed: "transaction already processed",
	ErrCodeAlreadyGuest:     "user is already a guest of this event",
	ErrCodeNotGuest:         "user is not a guest of this event",
	ErrCodeEventFull:        "event is at capacity",

	ErrCodeForbidden:    "not allowed",
	ErrCodeUnauthorized: "missing or invalid credentials",

	ErrCodeValidationFailed:   "request validation failed",
	ErrCodeInvalidRequestBody: "failed to parse request body",
	ErrCodeOperationFailed:    "operation failed",
	ErrCodeInternalError:      "internal server error",
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return errorMessages[ErrCodeInternalError]
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeAccountNotFound, ErrCodeTransactionNotFound, ErrCodePromotionNotFound, ErrCodeEventNotFound:
		return 404
	case ErrCodeAccountExists, ErrCodePromotionInactive, ErrCodePromotionAlreadyUsed, ErrCodeMinSpendingNotMet,
		ErrCodeInsufficientPoints, ErrCodeInsufficientBudget, ErrCodeInvalidState, ErrCodeAlreadyProcessed,
		ErrCodeAlreadyGuest, ErrCodeNotGuest, ErrCodeEventFull:
		return 409
	case ErrCodeForbidden:
		return 403
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeValidationFailed:
		return 422
	case ErrCodeInvalidRequestBody:
		return 400
	default:
		return 500
	}
}
