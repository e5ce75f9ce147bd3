package v1

import (
	"errors"
	"strconv"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/api/contract"
	"github.com/campusperks/points-services/pointsgateway/internal/api/middleware"
	"github.com/campusperks/points-services/pointsgateway/internal/api/validator"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/metrics"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	logger             *zap.Logger
	accountService     service.AccountService
	transactionService service.TransactionService
	promotionService   service.PromotionService
	eventService       service.EventService
	XValidator         validator.IXValidator
	metrics            *metrics.Metrics
}

func NewHandler(logger *zap.Logger, accountService service.AccountService,
	transactionService service.TransactionService, promotionService service.PromotionService,
	eventService service.EventService, XValidator validator.IXValidator, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:             logger,
		accountService:     accountService,
		transactionService: transactionService,
		promotionService:   promotionService,
		eventService:       eventService,
		XValidator:         XValidator,
		metrics:            metrics,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// --- Accounts ---

func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var handlerRequest CreateAccountRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	account, err := h.accountService.Create(c.UserContext(), middleware.Principal(c), service.CreateAccountCommand{
		Handle: handlerRequest.Handle,
	})
	if err != nil {
		return err
	}

	return h.success(c, "account created", account)
}

func (h *Handler) GetAccount(c *fiber.Ctx) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.accountService.Get(c.UserContext(), middleware.Principal(c), accountID)
	if err != nil {
		return err
	}

	return h.success(c, "account retrieved", account)
}

func (h *Handler) UpdateAccountStatus(c *fiber.Ctx) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest UpdateAccountStatusRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	account, err := h.accountService.UpdateStatus(c.UserContext(), middleware.Principal(c), service.UpdateAccountStatusCommand{
		AccountID:  accountID,
		Verified:   handlerRequest.Verified,
		Suspicious: handlerRequest.Suspicious,
		Role:       handlerRequest.Role,
	})
	if err != nil {
		return err
	}

	return h.success(c, "account status updated", account)
}

// --- Transactions ---

func (h *Handler) CreatePurchase(c *fiber.Ctx) error {
	start := time.Now()

	var handlerRequest CreatePurchaseRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	spent, err := decimal.NewFromString(handlerRequest.Spent)
	if err != nil || !spent.IsPositive() {
		return service.NewServiceError(constants.ErrCodeValidationFailed, errInvalidAmount)
	}

	result, err := h.transactionService.CreatePurchase(c.UserContext(), middleware.Principal(c), service.CreatePurchaseCommand{
		Handle:       handlerRequest.Handle,
		Spent:        spent,
		PromotionIDs: handlerRequest.PromotionIDs,
		Remark:       handlerRequest.Remark,
	})
	if err != nil {
		h.recordEligibilityFailure(err)
		return err
	}

	h.metrics.RecordTransactionCreated(string(model.TransactionTypePurchase))
	if !result.Transaction.Suspicious {
		h.metrics.RecordPointsDelta(result.Transaction.Amount)
	}
	for _, promo := range result.AppliedPromotions {
		h.metrics.RecordPromotionConsumed(string(promo.Type))
	}

	h.logger.Info("purchase request served",
		zap.Int64("transactionID", result.Transaction.ID),
		zap.Duration("duration", time.Since(start)),
	)

	return h.success(c, "purchase created", result)
}

func (h *Handler) CreateRedemption(c *fiber.Ctx) error {
	var handlerRequest CreateRedemptionRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	result, err := h.transactionService.CreateRedemption(c.UserContext(), middleware.Principal(c), service.CreateRedemptionCommand{
		Amount: handlerRequest.Amount,
		Remark: handlerRequest.Remark,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordTransactionCreated(string(model.TransactionTypeRedemption))

	return h.success(c, "redemption requested", result)
}

func (h *Handler) ProcessRedemption(c *fiber.Ctx) error {
	transactionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.transactionService.ProcessRedemption(c.UserContext(), middleware.Principal(c), transactionID)
	if err != nil {
		return err
	}

	h.metrics.RecordRedemptionProcessed()
	h.metrics.RecordPointsDelta(result.Transaction.Amount)

	return h.success(c, "redemption processed", result)
}

func (h *Handler) CreateAdjustment(c *fiber.Ctx) error {
	var handlerRequest CreateAdjustmentRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	result, err := h.transactionService.CreateAdjustment(c.UserContext(), middleware.Principal(c), service.CreateAdjustmentCommand{
		UserID:    handlerRequest.UserID,
		Amount:    handlerRequest.Amount,
		RelatedID: handlerRequest.RelatedID,
		Remark:    handlerRequest.Remark,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordTransactionCreated(string(model.TransactionTypeAdjustment))
	h.metrics.RecordPointsDelta(result.Transaction.Amount)

	return h.success(c, "adjustment created", result)
}

func (h *Handler) CreateTransfer(c *fiber.Ctx) error {
	var handlerRequest CreateTransferRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	result, err := h.transactionService.CreateTransfer(c.UserContext(), middleware.Principal(c), service.CreateTransferCommand{
		RecipientID: handlerRequest.RecipientID,
		Amount:      handlerRequest.Amount,
		Remark:      handlerRequest.Remark,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordTransactionCreated(string(model.TransactionTypeTransfer))

	return h.success(c, "transfer created", result)
}

func (h *Handler) SetSuspicious(c *fiber.Ctx) error {
	transactionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest SetSuspiciousRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	entry, err := h.transactionService.SetSuspicious(c.UserContext(), middleware.Principal(c), service.SetSuspiciousCommand{
		TransactionID: transactionID,
		Suspicious:    *handlerRequest.Suspicious,
	})
	if err != nil {
		return err
	}

	direction := "cleared"
	if entry.Suspicious {
		direction = "set"
	}
	h.metrics.RecordSuspiciousToggle(direction)

	return h.success(c, "suspicious flag updated", entry)
}

func (h *Handler) UpdateAmount(c *fiber.Ctx) error {
	transactionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest UpdateAmountRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	entry, err := h.transactionService.UpdateAmount(c.UserContext(), middleware.Principal(c), service.UpdateAmountCommand{
		TransactionID: transactionID,
		Amount:        handlerRequest.Amount,
	})
	if err != nil {
		return err
	}

	return h.success(c, "transaction amount updated", entry)
}

func (h *Handler) UpdateSpent(c *fiber.Ctx) error {
	transactionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest UpdateSpentRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	spent, err := decimal.NewFromString(handlerRequest.Spent)
	if err != nil || !spent.IsPositive() {
		return service.NewServiceError(constants.ErrCodeValidationFailed, errInvalidAmount)
	}

	entry, err := h.transactionService.UpdateSpent(c.UserContext(), middleware.Principal(c), service.UpdateSpentCommand{
		TransactionID: transactionID,
		Spent:         spent,
	})
	if err != nil {
		return err
	}

	return h.success(c, "transaction spent updated", entry)
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	transactionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	entry, err := h.transactionService.Get(c.UserContext(), middleware.Principal(c), transactionID)
	if err != nil {
		return err
	}

	return h.success(c, "transaction retrieved", entry)
}

func (h *Handler) ListUserTransactions(c *fiber.Ctx) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	result, err := h.transactionService.ListByUser(c.UserContext(), middleware.Principal(c), service.ListTransactionsQuery{
		UserID: userID,
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return err
	}

	return h.success(c, "transactions retrieved", result)
}

// --- Promotions ---

func (h *Handler) CreatePromotion(c *fiber.Ctx) error {
	var handlerRequest CreatePromotionRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	minSpending, err := parseDecimal(handlerRequest.MinSpending)
	if err != nil {
		return service.NewServiceError(constants.ErrCodeValidationFailed, err)
	}
	rate, err := parseDecimal(handlerRequest.Rate)
	if err != nil {
		return service.NewServiceError(constants.ErrCodeValidationFailed, err)
	}

	promo, err := h.promotionService.Create(c.UserContext(), middleware.Principal(c), service.CreatePromotionCommand{
		Name:        handlerRequest.Name,
		Type:        handlerRequest.Type,
		StartTime:   handlerRequest.StartTime,
		EndTime:     handlerRequest.EndTime,
		MinSpending: minSpending,
		Rate:        rate,
		Points:      handlerRequest.Points,
	})
	if err != nil {
		return err
	}

	return h.success(c, "promotion created", promo)
}

func (h *Handler) GetPromotion(c *fiber.Ctx) error {
	promotionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.promotionService.Get(c.UserContext(), middleware.Principal(c), promotionID)
	if err != nil {
		return err
	}

	return h.success(c, "promotion retrieved", result)
}

func (h *Handler) ListPromotions(c *fiber.Ctx) error {
	result, err := h.promotionService.List(c.UserContext(), middleware.Principal(c),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return h.success(c, "promotions retrieved", result)
}

func (h *Handler) UpdatePromotion(c *fiber.Ctx) error {
	promotionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest UpdatePromotionRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	minSpending, err := parseDecimal(handlerRequest.MinSpending)
	if err != nil {
		return service.NewServiceError(constants.ErrCodeValidationFailed, err)
	}
	rate, err := parseDecimal(handlerRequest.Rate)
	if err != nil {
		return service.NewServiceError(constants.ErrCodeValidationFailed, err)
	}

	promo, err := h.promotionService.Update(c.UserContext(), middleware.Principal(c), service.UpdatePromotionCommand{
		PromotionID: promotionID,
		Name:        handlerRequest.Name,
		Type:        handlerRequest.Type,
		StartTime:   handlerRequest.StartTime,
		EndTime:     handlerRequest.EndTime,
		MinSpending: minSpending,
		Rate:        rate,
		Points:      handlerRequest.Points,
	})
	if err != nil {
		return err
	}

	return h.success(c, "promotion updated", promo)
}

func (h *Handler) DeletePromotion(c *fiber.Ctx) error {
	promotionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.promotionService.Delete(c.UserContext(), middleware.Principal(c), promotionID); err != nil {
		return err
	}

	return h.success(c, "promotion deleted", nil)
}

// --- Events ---

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var handlerRequest CreateEventRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	event, err := h.eventService.Create(c.UserContext(), middleware.Principal(c), service.CreateEventCommand{
		Name:            handlerRequest.Name,
		Description:     handlerRequest.Description,
		Location:        handlerRequest.Location,
		StartTime:       handlerRequest.StartTime,
		EndTime:         handlerRequest.EndTime,
		Capacity:        handlerRequest.Capacity,
		PointsAllocated: handlerRequest.PointsAllocated,
	})
	if err != nil {
		return err
	}

	return h.success(c, "event created", event)
}

func (h *Handler) GetEvent(c *fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.eventService.Get(c.UserContext(), middleware.Principal(c), eventID)
	if err != nil {
		return err
	}

	return h.success(c, "event retrieved", event)
}

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	result, err := h.eventService.List(c.UserContext(), middleware.Principal(c),
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return h.success(c, "events retrieved", result)
}

func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest UpdateEventRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	event, err := h.eventService.Update(c.UserContext(), middleware.Principal(c), service.UpdateEventCommand{
		EventID:         eventID,
		Name:            handlerRequest.Name,
		Description:     handlerRequest.Description,
		Location:        handlerRequest.Location,
		StartTime:       handlerRequest.StartTime,
		EndTime:         handlerRequest.EndTime,
		Capacity:        handlerRequest.Capacity,
		PointsAllocated: handlerRequest.PointsAllocated,
		Published:       handlerRequest.Published,
	})
	if err != nil {
		return err
	}

	return h.success(c, "event updated", event)
}

func (h *Handler) AddGuest(c *fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest AddGuestRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	if err := h.eventService.AddGuest(c.UserContext(), middleware.Principal(c), eventID, handlerRequest.UserID); err != nil {
		return err
	}

	return h.success(c, "guest added", nil)
}

func (h *Handler) RemoveGuest(c *fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.eventService.RemoveGuest(c.UserContext(), middleware.Principal(c), eventID, userID); err != nil {
		return err
	}

	return h.success(c, "guest removed", nil)
}

func (h *Handler) AddOrganizer(c *fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest AddOrganizerRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	if err := h.eventService.AddOrganizer(c.UserContext(), middleware.Principal(c), eventID, handlerRequest.UserID); err != nil {
		return err
	}

	return h.success(c, "organizer added", nil)
}

func (h *Handler) AwardPoints(c *fiber.Ctx) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var handlerRequest AwardPointsRequest
	if responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c); responseError.Code != "" {
		return c.JSON(responseError)
	}

	result, err := h.eventService.AwardPoints(c.UserContext(), middleware.Principal(c), service.AwardPointsCommand{
		EventID:      eventID,
		Amount:       handlerRequest.Amount,
		RecipientIDs: handlerRequest.RecipientIDs,
		AllGuests:    handlerRequest.AllGuests,
		Remark:       handlerRequest.Remark,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordEventPointsAwarded(handlerRequest.Amount * int64(len(result.Transactions)))
	for range result.Transactions {
		h.metrics.RecordTransactionCreated(string(model.TransactionTypeEvent))
	}

	return h.success(c, "event points awarded", result)
}

// --- helpers ---

func (h *Handler) recordEligibilityFailure(err error) {
	var serviceErr service.Error
	if !errors.As(err, &serviceErr) {
		return
	}

	switch serviceErr.Code {
	case constants.ErrCodePromotionInactive,
		constants.ErrCodePromotionAlreadyUsed,
		constants.ErrCodeMinSpendingNotMet:
		h.metrics.RecordEligibilityFailure(serviceErr.Code)
	}
}

func (h *Handler) success(c *fiber.Ctx, message string, result any) error {
	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Message:    message,
		TrackID:    middleware.GetTrackID(c),
		Result:     result,
	})
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewServiceError(constants.ErrCodeInvalidRequestBody, errInvalidPathID)
	}
	return id, nil
}
