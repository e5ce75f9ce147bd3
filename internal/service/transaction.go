package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/auth"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionService turns typed transaction requests into ledger entries and
// balance mutations. Every write path runs inside one TxManager unit, so a
// ledger entry can never land without its balance delta or vice versa.
type TransactionService interface {
	CreatePurchase(ctx context.Context, actor auth.Principal, cmd CreatePurchaseCommand) (TransactionResult, error)
	CreateRedemption(ctx context.Context, actor auth.Principal, cmd CreateRedemptionCommand) (TransactionResult, error)
	ProcessRedemption(ctx context.Context, actor auth.Principal, transactionID int64) (TransactionResult, error)
	CreateAdjustment(ctx context.Context, actor auth.Principal, cmd CreateAdjustmentCommand) (TransactionResult, error)
	CreateTransfer(ctx context.Context, actor auth.Principal, cmd CreateTransferCommand) (TransferResult, error)
	SetSuspicious(ctx context.Context, actor auth.Principal, cmd SetSuspiciousCommand) (model.Transaction, error)
	UpdateAmount(ctx context.Context, actor auth.Principal, cmd UpdateAmountCommand) (model.Transaction, error)
	UpdateSpent(ctx context.Context, actor auth.Principal, cmd UpdateSpentCommand) (model.Transaction, error)
	Get(ctx context.Context, actor auth.Principal, transactionID int64) (model.Transaction, error)
	ListByUser(ctx context.Context, actor auth.Principal, query ListTransactionsQuery) (ListTransactionsResult, error)
}

type transactionService struct {
	txManager       repository.TxManager
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	promotionRepo   repository.PromotionRepository
	ledgerEventRepo repository.LedgerEventRepository
	calculator      PointsCalculator
	log             *zap.Logger
}

func NewTransactionService(txManager repository.TxManager, accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository, promotionRepo repository.PromotionRepository,
	ledgerEventRepo repository.LedgerEventRepository, calculator PointsCalculator, log *zap.Logger) TransactionService {
	return &transactionService{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		promotionRepo:   promotionRepo,
		ledgerEventRepo: ledgerEventRepo,
		calculator:      calculator,
		log:             log,
	}
}

func (s *transactionService) CreatePurchase(ctx context.Context, actor auth.Principal, cmd CreatePurchaseCommand) (TransactionResult, error) {
	if !actor.IsCashier() {
		return TransactionResult{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	account, err := s.accountRepo.GetByHandle(ctx, cmd.Handle)
	if err != nil {
		return TransactionResult{}, s.accountError(err)
	}

	creator, err := s.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		return TransactionResult{}, s.accountError(err)
	}

	// A flagged cashier's purchases are withheld from the balance until a
	// manager clears them.
	suspicious := creator.Role == model.RoleCashier && creator.Suspicious

	automatic, err := s.calculator.ActiveAutomatic(ctx, time.Now(), cmd.Spent)
	if err != nil {
		return TransactionResult{}, err
	}

	promotionIDs := mergePromotionIDs(automatic, cmd.PromotionIDs)

	total, promos, err := s.calculator.Calculate(ctx, account.ID, cmd.Spent, promotionIDs)
	if err != nil {
		return TransactionResult{}, err
	}

	spent := cmd.Spent
	entry := model.Transaction{
		UserID:     account.ID,
		Type:       model.TransactionTypePurchase,
		Amount:     total,
		Spent:      &spent,
		Suspicious: suspicious,
		Processed:  !suspicious,
		CreatedBy:  actor.AccountID,
		Remark:     cmd.Remark,
		CreatedAt:  time.Now(),
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.Create(ctx, &entry); err != nil {
			s.log.Error("error create purchase entry", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.transactionRepo.AttachPromotions(ctx, entry.ID, promotionIDs); err != nil {
			s.log.Error("error attach promotions", zap.Int64("transactionID", entry.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		for _, promo := range promos {
			if promo.Type != model.PromotionTypeOneTime {
				continue
			}

			if err := s.promotionRepo.MarkUsed(ctx, account.ID, promo.ID); err != nil {
				if errors.Is(err, repository.ErrPromotionAlreadyUsed) {
					return NewServiceError(constants.ErrCodePromotionAlreadyUsed,
						fmt.Errorf("promotion %d already used", promo.ID))
				}
				s.log.Error("error mark promotion used", zap.Int64("promotionID", promo.ID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}
		}

		if !suspicious {
			if err := s.accountRepo.AddPoints(ctx, account.ID, total); err != nil {
				s.log.Error("error credit purchase points", zap.Int64("userID", account.ID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}
		}

		return s.appendLedgerEvent(ctx, &entry, model.LedgerEventCreated)
	})
	if err != nil {
		return TransactionResult{}, err
	}

	balance := account.Points
	if !suspicious {
		balance += total
	}

	s.log.Info("purchase created",
		zap.Int64("transactionID", entry.ID),
		zap.Int64("userID", account.ID),
		zap.Int64("amount", total),
		zap.Bool("suspicious", suspicious),
	)

	return TransactionResult{Transaction: entry, Balance: balance, AppliedPromotions: promos}, nil
}

// CreateRedemption holds the requested amount against the caller's balance
// without debiting it. The hold and the pending entry are one atomic
// reservation, so two concurrent redemptions cannot both pass the
// sufficiency check.
func (s *transactionService) CreateRedemption(ctx context.Context, actor auth.Principal, cmd CreateRedemptionCommand) (TransactionResult, error) {
	account, err := s.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		return TransactionResult{}, s.accountError(err)
	}

	if !account.Verified {
		return TransactionResult{}, NewServiceError(constants.ErrCodeForbidden, ErrNotVerified)
	}

	entry := model.Transaction{
		UserID:    account.ID,
		Type:      model.TransactionTypeRedemption,
		Amount:    -cmd.Amount,
		Processed: false,
		CreatedBy: actor.AccountID,
		Remark:    cmd.Remark,
		CreatedAt: time.Now(),
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.ReservePoints(ctx, account.ID, cmd.Amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientPoints) {
				return NewServiceError(constants.ErrCodeInsufficientPoints, err)
			}
			s.log.Error("error reserve points", zap.Int64("userID", account.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.transactionRepo.Create(ctx, &entry); err != nil {
			s.log.Error("error create redemption entry", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		return s.appendLedgerEvent(ctx, &entry, model.LedgerEventCreated)
	})
	if err != nil {
		return TransactionResult{}, err
	}

	s.log.Info("redemption requested",
		zap.Int64("transactionID", entry.ID),
		zap.Int64("userID", account.ID),
		zap.Int64("amount", cmd.Amount),
	)

	return TransactionResult{Transaction: entry, Balance: account.Points}, nil
}

func (s *transactionService) ProcessRedemption(ctx context.Context, actor auth.Principal, transactionID int64) (TransactionResult, error) {
	if !actor.IsCashier() {
		return TransactionResult{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	entry, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return TransactionResult{}, s.transactionError(err)
	}

	if entry.Type != model.TransactionTypeRedemption {
		return TransactionResult{}, NewServiceError(constants.ErrCodeInvalidState,
			fmt.Errorf("transaction %d is not a redemption", transactionID))
	}

	if entry.Processed {
		return TransactionResult{}, NewServiceError(constants.ErrCodeAlreadyProcessed,
			fmt.Errorf("transaction %d already processed", transactionID))
	}

	amount := -entry.Amount

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.MarkProcessed(ctx, transactionID, actor.AccountID); err != nil {
			if errors.Is(err, repository.ErrStaleTransaction) {
				return NewServiceError(constants.ErrCodeAlreadyProcessed, err)
			}
			s.log.Error("error mark redemption processed", zap.Int64("transactionID", transactionID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.accountRepo.RedeemReserved(ctx, entry.UserID, amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientPoints) {
				return NewServiceError(constants.ErrCodeInsufficientPoints, err)
			}
			s.log.Error("error redeem reserved points", zap.Int64("userID", entry.UserID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		return s.appendLedgerEvent(ctx, &entry, model.LedgerEventProcessed)
	})
	if err != nil {
		return TransactionResult{}, err
	}

	entry.Processed = true
	processedBy := actor.AccountID
	entry.ProcessedBy = &processedBy

	s.log.Info("redemption processed",
		zap.Int64("transactionID", transactionID),
		zap.Int64("userID", entry.UserID),
		zap.Int64("amount", amount),
		zap.Int64("processedBy", actor.AccountID),
	)

	return TransactionResult{Transaction: entry}, nil
}

func (s *transactionService) CreateAdjustment(ctx context.Context, actor auth.Principal, cmd CreateAdjustmentCommand) (TransactionResult, error) {
	if !actor.IsManager() {
		return TransactionResult{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	account, err := s.accountRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return TransactionResult{}, s.accountError(err)
	}

	if _, err := s.transactionRepo.GetByID(ctx, cmd.RelatedID); err != nil {
		return TransactionResult{}, s.transactionError(err)
	}

	relatedID := cmd.RelatedID
	processedBy := actor.AccountID
	entry := model.Transaction{
		UserID:      account.ID,
		Type:        model.TransactionTypeAdjustment,
		Amount:      cmd.Amount,
		RelatedID:   &relatedID,
		Processed:   true,
		CreatedBy:   actor.AccountID,
		ProcessedBy: &processedBy,
		Remark:      cmd.Remark,
		CreatedAt:   time.Now(),
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.Create(ctx, &entry); err != nil {
			s.log.Error("error create adjustment entry", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.accountRepo.AddPoints(ctx, account.ID, cmd.Amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientPoints) {
				return NewServiceError(constants.ErrCodeInsufficientPoints, err)
			}
			s.log.Error("error apply adjustment", zap.Int64("userID", account.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		return s.appendLedgerEvent(ctx, &entry, model.LedgerEventCreated)
	})
	if err != nil {
		return TransactionResult{}, err
	}

	s.log.Info("adjustment created",
		zap.Int64("transactionID", entry.ID),
		zap.Int64("userID", account.ID),
		zap.Int64("amount", cmd.Amount),
		zap.Int64("relatedID", cmd.RelatedID),
	)

	return TransactionResult{Transaction: entry, Balance: account.Points + cmd.Amount}, nil
}

// CreateTransfer commits the matched pair of entries and both balance
// mutations as one unit. Account rows are touched in ascending id order so
// two opposite transfers cannot deadlock on row locks.
func (s *transactionService) CreateTransfer(ctx context.Context, actor auth.Principal, cmd CreateTransferCommand) (TransferResult, error) {
	if cmd.RecipientID == actor.AccountID {
		return TransferResult{}, NewServiceError(constants.ErrCodeInvalidState, ErrSelfTransfer)
	}

	sender, err := s.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		return TransferResult{}, s.accountError(err)
	}

	if !sender.Verified {
		return TransferResult{}, NewServiceError(constants.ErrCodeForbidden, ErrNotVerified)
	}

	recipient, err := s.accountRepo.GetByID(ctx, cmd.RecipientID)
	if err != nil {
		return TransferResult{}, s.accountError(err)
	}

	// Fast-fail on the snapshot; the in-transaction debit guard is what
	// actually protects the balance and any reserved hold.
	if sender.Available() < cmd.Amount {
		return TransferResult{}, NewServiceError(constants.ErrCodeInsufficientPoints, repository.ErrInsufficientPoints)
	}

	recipientID := recipient.ID
	senderID := sender.ID
	now := time.Now()

	debit := model.Transaction{
		UserID:    sender.ID,
		Type:      model.TransactionTypeTransfer,
		Amount:    -cmd.Amount,
		RelatedID: &recipientID,
		Processed: true,
		CreatedBy: actor.AccountID,
		Remark:    cmd.Remark,
		CreatedAt: now,
	}
	credit := model.Transaction{
		UserID:    recipient.ID,
		Type:      model.TransactionTypeTransfer,
		Amount:    cmd.Amount,
		RelatedID: &senderID,
		Processed: true,
		CreatedBy: actor.AccountID,
		Remark:    cmd.Remark,
		CreatedAt: now,
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		mutations := []struct {
			accountID int64
			delta     int64
		}{
			{sender.ID, -cmd.Amount},
			{recipient.ID, cmd.Amount},
		}
		if recipient.ID < sender.ID {
			mutations[0], mutations[1] = mutations[1], mutations[0]
		}

		for _, m := range mutations {
			if err := s.accountRepo.AddPoints(ctx, m.accountID, m.delta); err != nil {
				if errors.Is(err, repository.ErrInsufficientPoints) {
					return NewServiceError(constants.ErrCodeInsufficientPoints, err)
				}
				s.log.Error("error apply transfer delta", zap.Int64("accountID", m.accountID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}
		}

		if err := s.transactionRepo.Create(ctx, &debit); err != nil {
			s.log.Error("error create transfer debit entry", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.transactionRepo.Create(ctx, &credit); err != nil {
			s.log.Error("error create transfer credit entry", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.appendLedgerEvent(ctx, &debit, model.LedgerEventCreated); err != nil {
			return err
		}

		return s.appendLedgerEvent(ctx, &credit, model.LedgerEventCreated)
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.log.Info("transfer created",
		zap.Int64("senderID", sender.ID),
		zap.Int64("recipientID", recipient.ID),
		zap.Int64("amount", cmd.Amount),
	)

	return TransferResult{Sender: debit, Recipient: credit, Balance: sender.Points - cmd.Amount}, nil
}

// SetSuspicious inverts the entry's effect on the balance exactly once. The
// flag flip is keyed on the entry's current value, so a concurrent toggle
// loses the race instead of applying the reversal twice.
func (s *transactionService) SetSuspicious(ctx context.Context, actor auth.Principal, cmd SetSuspiciousCommand) (model.Transaction, error) {
	if !actor.IsManager() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	entry, err := s.transactionRepo.GetByID(ctx, cmd.TransactionID)
	if err != nil {
		return model.Transaction{}, s.transactionError(err)
	}

	if !entry.Flaggable() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeInvalidState, ErrNotFlaggable)
	}

	if entry.Suspicious == cmd.Suspicious {
		return entry, nil
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var delta int64
		var processed bool
		var processedBy *int64
		eventType := model.LedgerEventSuspiciousSet

		if cmd.Suspicious {
			delta = -entry.Amount
			processed = false
		} else {
			delta = entry.Amount
			processed = true
			actorID := actor.AccountID
			processedBy = &actorID
			eventType = model.LedgerEventSuspiciousCleared
		}

		if err := s.transactionRepo.SetSuspicious(ctx, entry.ID, entry.Suspicious, cmd.Suspicious, processed, processedBy); err != nil {
			if errors.Is(err, repository.ErrStaleTransaction) {
				return NewServiceError(constants.ErrCodeInvalidState, err)
			}
			s.log.Error("error toggle suspicious flag", zap.Int64("transactionID", entry.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.accountRepo.AddPoints(ctx, entry.UserID, delta); err != nil {
			if errors.Is(err, repository.ErrInsufficientPoints) {
				return NewServiceError(constants.ErrCodeInsufficientPoints, err)
			}
			s.log.Error("error reverse entry amount", zap.Int64("userID", entry.UserID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		return s.appendLedgerEvent(ctx, &entry, eventType)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	entry.Suspicious = cmd.Suspicious
	entry.Processed = !cmd.Suspicious
	if !cmd.Suspicious {
		actorID := actor.AccountID
		entry.ProcessedBy = &actorID
	}

	s.log.Info("suspicious flag updated",
		zap.Int64("transactionID", entry.ID),
		zap.Bool("suspicious", cmd.Suspicious),
	)

	return entry, nil
}

func (s *transactionService) UpdateAmount(ctx context.Context, actor auth.Principal, cmd UpdateAmountCommand) (model.Transaction, error) {
	if !actor.IsManager() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	entry, err := s.transactionRepo.GetByID(ctx, cmd.TransactionID)
	if err != nil {
		return model.Transaction{}, s.transactionError(err)
	}

	if !entry.Flaggable() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeInvalidState,
			fmt.Errorf("amount of a %s entry cannot be corrected", entry.Type))
	}

	if cmd.Amount == entry.Amount {
		return entry, nil
	}

	if err := s.applyAmountCorrection(ctx, &entry, cmd.Amount, nil); err != nil {
		return model.Transaction{}, err
	}

	s.log.Info("transaction amount corrected",
		zap.Int64("transactionID", entry.ID),
		zap.Int64("amount", cmd.Amount),
	)

	return entry, nil
}

// UpdateSpent re-derives the purchase amount from the corrected spend and the
// entry's stored promotion set, then applies the difference to the balance.
func (s *transactionService) UpdateSpent(ctx context.Context, actor auth.Principal, cmd UpdateSpentCommand) (model.Transaction, error) {
	if !actor.IsManager() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	entry, err := s.transactionRepo.GetByID(ctx, cmd.TransactionID)
	if err != nil {
		return model.Transaction{}, s.transactionError(err)
	}

	if entry.Type != model.TransactionTypePurchase {
		return model.Transaction{}, NewServiceError(constants.ErrCodeInvalidState,
			fmt.Errorf("spent of a %s entry cannot be corrected", entry.Type))
	}

	promotionIDs := make([]int64, 0, len(entry.Promotions))
	for _, tp := range entry.Promotions {
		promotionIDs = append(promotionIDs, tp.PromotionID)
	}

	promos, err := s.promotionRepo.GetByIDs(ctx, promotionIDs)
	if err != nil {
		s.log.Error("error resolve entry promotions", zap.Int64("transactionID", entry.ID), zap.Error(err))
		return model.Transaction{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	newAmount := s.calculator.Recalculate(cmd.Spent, promos)

	if err := s.applyAmountCorrection(ctx, &entry, newAmount, &cmd.Spent); err != nil {
		return model.Transaction{}, err
	}

	spent := cmd.Spent
	entry.Spent = &spent

	s.log.Info("transaction spent corrected",
		zap.Int64("transactionID", entry.ID),
		zap.String("spent", cmd.Spent.String()),
		zap.Int64("amount", newAmount),
	)

	return entry, nil
}

func (s *transactionService) Get(ctx context.Context, actor auth.Principal, transactionID int64) (model.Transaction, error) {
	entry, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, s.transactionError(err)
	}

	if entry.UserID != actor.AccountID && !actor.IsManager() {
		return model.Transaction{}, NewServiceError(constants.ErrCodeForbidden, ErrNotOwner)
	}

	return entry, nil
}

func (s *transactionService) ListByUser(ctx context.Context, actor auth.Principal, query ListTransactionsQuery) (ListTransactionsResult, error) {
	if query.UserID != actor.AccountID && !actor.IsManager() {
		return ListTransactionsResult{}, NewServiceError(constants.ErrCodeForbidden, ErrNotOwner)
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txs, total, err := s.transactionRepo.ListByUser(ctx, query.UserID, limit, query.Offset)
	if err != nil {
		s.log.Error("error list transactions", zap.Int64("userID", query.UserID), zap.Error(err))
		return ListTransactionsResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return ListTransactionsResult{Transactions: txs, Total: total}, nil
}

// applyAmountCorrection commits the new amount and, unless the entry is
// suspicious, the delta against the balance. A suspicious entry's amount is
// not reflected in the balance, so only the entry changes.
func (s *transactionService) applyAmountCorrection(ctx context.Context, entry *model.Transaction, newAmount int64, newSpent *decimal.Decimal) error {
	oldAmount := entry.Amount

	return s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if newSpent != nil {
			err = s.transactionRepo.UpdateSpent(ctx, entry.ID, oldAmount, newAmount, *newSpent)
		} else {
			err = s.transactionRepo.UpdateAmount(ctx, entry.ID, oldAmount, newAmount)
		}
		if err != nil {
			if errors.Is(err, repository.ErrStaleTransaction) {
				return NewServiceError(constants.ErrCodeInvalidState, err)
			}
			s.log.Error("error correct entry amount", zap.Int64("transactionID", entry.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if !entry.Suspicious && newAmount != oldAmount {
			if err := s.accountRepo.AddPoints(ctx, entry.UserID, newAmount-oldAmount); err != nil {
				if errors.Is(err, repository.ErrInsufficientPoints) {
					return NewServiceError(constants.ErrCodeInsufficientPoints, err)
				}
				s.log.Error("error apply correction delta", zap.Int64("userID", entry.UserID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}
		}

		entry.Amount = newAmount

		return s.appendLedgerEvent(ctx, entry, model.LedgerEventAmountAdjusted)
	})
}

func (s *transactionService) appendLedgerEvent(ctx context.Context, entry *model.Transaction, eventType string) error {
	event := model.LedgerEvent{
		TransactionID: entry.ID,
		UserID:        entry.UserID,
		EventType:     eventType,
		Amount:        entry.Amount,
		CreatedAt:     time.Now(),
	}

	if err := s.ledgerEventRepo.Create(ctx, &event); err != nil {
		s.log.Error("error append ledger event", zap.Int64("transactionID", entry.ID), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return nil
}

func (s *transactionService) accountError(err error) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return NewServiceError(constants.ErrCodeAccountNotFound, err)
	}
	return NewServiceError(constants.ErrCodeOperationFailed, err)
}

func (s *transactionService) transactionError(err error) error {
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return NewServiceError(constants.ErrCodeTransactionNotFound, err)
	}
	return NewServiceError(constants.ErrCodeOperationFailed, err)
}

// mergePromotionIDs puts eligible automatic promotions ahead of the caller's
// explicit selection, dropping duplicates.
func mergePromotionIDs(automatic []model.Promotion, selected []int64) []int64 {
	seen := make(map[int64]bool, len(automatic)+len(selected))
	merged := make([]int64, 0, len(automatic)+len(selected))

	for _, promo := range automatic {
		if !seen[promo.ID] {
			seen[promo.ID] = true
			merged = append(merged, promo.ID)
		}
	}
	for _, id := range selected {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}

	return merged
}
