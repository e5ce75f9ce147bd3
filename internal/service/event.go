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
	"go.uber.org/zap"
)

type EventService interface {
	Create(ctx context.Context, actor auth.Principal, cmd CreateEventCommand) (model.Event, error)
	Get(ctx context.Context, actor auth.Principal, eventID int64) (model.Event, error)
	List(ctx context.Context, actor auth.Principal, limit, offset int) (ListEventsResult, error)
	Update(ctx context.Context, actor auth.Principal, cmd UpdateEventCommand) (model.Event, error)
	AddGuest(ctx context.Context, actor auth.Principal, eventID, userID int64) error
	RemoveGuest(ctx context.Context, actor auth.Principal, eventID, userID int64) error
	AddOrganizer(ctx context.Context, actor auth.Principal, eventID, userID int64) error
	AwardPoints(ctx context.Context, actor auth.Principal, cmd AwardPointsCommand) (AwardResult, error)
}

type eventService struct {
	txManager       repository.TxManager
	eventRepo       repository.EventRepository
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	ledgerEventRepo repository.LedgerEventRepository
	log             *zap.Logger
}

func NewEventService(txManager repository.TxManager, eventRepo repository.EventRepository,
	accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository,
	ledgerEventRepo repository.LedgerEventRepository, log *zap.Logger) EventService {
	return &eventService{
		txManager:       txManager,
		eventRepo:       eventRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ledgerEventRepo: ledgerEventRepo,
		log:             log,
	}
}

func (s *eventService) Create(ctx context.Context, actor auth.Principal, cmd CreateEventCommand) (model.Event, error) {
	if !actor.IsManager() {
		return model.Event{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	if !cmd.EndTime.After(cmd.StartTime) {
		return model.Event{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("end time must be after start time"))
	}

	event := model.Event{
		Name:            cmd.Name,
		Description:     cmd.Description,
		Location:        cmd.Location,
		StartTime:       cmd.StartTime,
		EndTime:         cmd.EndTime,
		Capacity:        cmd.Capacity,
		PointsAllocated: cmd.PointsAllocated,
		PointsRemain:    cmd.PointsAllocated,
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		s.log.Error("error create event", zap.Error(err))
		return model.Event{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("event created",
		zap.Int64("eventID", event.ID),
		zap.Int64("pointsAllocated", event.PointsAllocated),
	)

	return event, nil
}

// Get hides unpublished events from everyone but organizers and managers.
func (s *eventService) Get(ctx context.Context, actor auth.Principal, eventID int64) (model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return model.Event{}, s.eventError(err)
	}

	if !event.Published && !event.IsOrganizer(actor.AccountID) && !actor.IsManager() {
		return model.Event{}, s.eventError(repository.ErrEventNotFound)
	}

	return event, nil
}

func (s *eventService) List(ctx context.Context, actor auth.Principal, limit, offset int) (ListEventsResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, total, err := s.eventRepo.List(ctx, !actor.IsManager(), limit, offset)
	if err != nil {
		s.log.Error("error list events", zap.Error(err))
		return ListEventsResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return ListEventsResult{Events: events, Total: total}, nil
}

func (s *eventService) Update(ctx context.Context, actor auth.Principal, cmd UpdateEventCommand) (model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, cmd.EventID)
	if err != nil {
		return model.Event{}, s.eventError(err)
	}

	organizer := event.IsOrganizer(actor.AccountID)
	if !organizer && !actor.IsManager() {
		return model.Event{}, NewServiceError(constants.ErrCodeForbidden, ErrNotOrganizer)
	}

	if cmd.Published != nil {
		if !actor.IsManager() {
			return model.Event{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
		}
		// Publication is one-way.
		if event.Published && !*cmd.Published {
			return model.Event{}, NewServiceError(constants.ErrCodeInvalidState, ErrUnpublish)
		}
		event.Published = *cmd.Published
	}

	if cmd.Capacity != nil {
		if *cmd.Capacity < int64(len(event.Guests)) {
			return model.Event{}, NewServiceError(constants.ErrCodeInvalidState, ErrCapacityBelowGuest)
		}
		event.Capacity = cmd.Capacity
	}

	if cmd.Name != nil {
		event.Name = *cmd.Name
	}
	if cmd.Description != nil {
		event.Description = *cmd.Description
	}
	if cmd.Location != nil {
		event.Location = *cmd.Location
	}
	if cmd.StartTime != nil {
		event.StartTime = *cmd.StartTime
	}
	if cmd.EndTime != nil {
		event.EndTime = *cmd.EndTime
	}
	if !event.EndTime.After(event.StartTime) {
		return model.Event{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("end time must be after start time"))
	}

	var allocationDelta int64
	if cmd.PointsAllocated != nil {
		if !actor.IsManager() {
			return model.Event{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
		}
		allocationDelta = *cmd.PointsAllocated - event.PointsAllocated
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.Update(ctx, &event); err != nil {
			s.log.Error("error update event", zap.Int64("eventID", event.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if allocationDelta != 0 {
			// The guard refuses a reduction below what is already awarded.
			if err := s.eventRepo.AdjustAllocation(ctx, event.ID, allocationDelta); err != nil {
				if errors.Is(err, repository.ErrAllocationTooLow) {
					return NewServiceError(constants.ErrCodeInvalidState, err)
				}
				s.log.Error("error adjust event allocation", zap.Int64("eventID", event.ID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}
			event.PointsAllocated += allocationDelta
			event.PointsRemain += allocationDelta
		}

		return nil
	})
	if err != nil {
		return model.Event{}, err
	}

	s.log.Info("event updated", zap.Int64("eventID", event.ID))

	return event, nil
}

func (s *eventService) AddGuest(ctx context.Context, actor auth.Principal, eventID, userID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return s.eventError(err)
	}

	organizer := event.IsOrganizer(actor.AccountID)
	if !organizer && !actor.IsManager() {
		return NewServiceError(constants.ErrCodeForbidden, ErrNotOrganizer)
	}

	if organizer && !actor.IsManager() && !event.Published {
		return NewServiceError(constants.ErrCodeInvalidState,
			errors.New("organizers may only add guests to a published event"))
	}

	if event.IsOrganizer(userID) {
		return NewServiceError(constants.ErrCodeInvalidState,
			fmt.Errorf("user %d organizes this event", userID))
	}

	if event.Capacity != nil && int64(len(event.Guests)) >= *event.Capacity {
		return NewServiceError(constants.ErrCodeEventFull, ErrEventFull)
	}

	if _, err := s.accountRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return NewServiceError(constants.ErrCodeAccountNotFound, err)
		}
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	// The insert itself is count-guarded; the snapshot check above only
	// fast-fails before touching the account.
	if err := s.eventRepo.AddGuest(ctx, eventID, userID, event.Capacity); err != nil {
		if errors.Is(err, repository.ErrAlreadyGuest) {
			return NewServiceError(constants.ErrCodeAlreadyGuest, err)
		}
		if errors.Is(err, repository.ErrEventFull) {
			return NewServiceError(constants.ErrCodeEventFull, err)
		}
		s.log.Error("error add guest", zap.Int64("eventID", eventID), zap.Int64("userID", userID), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("guest added", zap.Int64("eventID", eventID), zap.Int64("userID", userID))

	return nil
}

func (s *eventService) RemoveGuest(ctx context.Context, actor auth.Principal, eventID, userID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return s.eventError(err)
	}

	if !event.IsOrganizer(actor.AccountID) && !actor.IsManager() {
		return NewServiceError(constants.ErrCodeForbidden, ErrNotOrganizer)
	}

	if err := s.eventRepo.RemoveGuest(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return NewServiceError(constants.ErrCodeNotGuest, err)
		}
		s.log.Error("error remove guest", zap.Int64("eventID", eventID), zap.Int64("userID", userID), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("guest removed", zap.Int64("eventID", eventID), zap.Int64("userID", userID))

	return nil
}

func (s *eventService) AddOrganizer(ctx context.Context, actor auth.Principal, eventID, userID int64) error {
	if !actor.IsManager() {
		return NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return s.eventError(err)
	}

	if _, err := s.accountRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return NewServiceError(constants.ErrCodeAccountNotFound, err)
		}
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if err := s.eventRepo.AddOrganizer(ctx, eventID, userID); err != nil {
		s.log.Error("error add organizer", zap.Int64("eventID", eventID), zap.Int64("userID", userID), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("organizer added", zap.Int64("eventID", eventID), zap.Int64("userID", userID))

	return nil
}

// AwardPoints debits the event budget and credits every recipient as one
// atomic unit. The guarded budget debit serializes concurrent awards, so the
// pool can never be overdrawn and a partial award is impossible.
func (s *eventService) AwardPoints(ctx context.Context, actor auth.Principal, cmd AwardPointsCommand) (AwardResult, error) {
	event, err := s.eventRepo.GetByID(ctx, cmd.EventID)
	if err != nil {
		return AwardResult{}, s.eventError(err)
	}

	if !event.IsOrganizer(actor.AccountID) && !actor.IsManager() {
		return AwardResult{}, NewServiceError(constants.ErrCodeForbidden, ErrNotOrganizer)
	}

	recipients, err := s.resolveRecipients(&event, cmd)
	if err != nil {
		return AwardResult{}, err
	}

	total := cmd.Amount * int64(len(recipients))
	if total > event.PointsRemain {
		return AwardResult{}, NewServiceError(constants.ErrCodeInsufficientBudget, repository.ErrInsufficientBudget)
	}

	eventID := event.ID
	now := time.Now()
	entries := make([]model.Transaction, 0, len(recipients))

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.DebitBudget(ctx, event.ID, total); err != nil {
			if errors.Is(err, repository.ErrInsufficientBudget) {
				return NewServiceError(constants.ErrCodeInsufficientBudget, err)
			}
			s.log.Error("error debit event budget", zap.Int64("eventID", event.ID), zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		for _, userID := range recipients {
			entry := model.Transaction{
				UserID:    userID,
				Type:      model.TransactionTypeEvent,
				Amount:    cmd.Amount,
				RelatedID: &eventID,
				Processed: true,
				CreatedBy: actor.AccountID,
				Remark:    cmd.Remark,
				CreatedAt: now,
			}

			if err := s.transactionRepo.Create(ctx, &entry); err != nil {
				s.log.Error("error create award entry", zap.Int64("userID", userID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}

			if err := s.accountRepo.AddPoints(ctx, userID, cmd.Amount); err != nil {
				s.log.Error("error credit award points", zap.Int64("userID", userID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}

			ledgerEvent := model.LedgerEvent{
				TransactionID: entry.ID,
				UserID:        userID,
				EventType:     model.LedgerEventCreated,
				Amount:        cmd.Amount,
				CreatedAt:     now,
			}
			if err := s.ledgerEventRepo.Create(ctx, &ledgerEvent); err != nil {
				s.log.Error("error append ledger event", zap.Int64("transactionID", entry.ID), zap.Error(err))
				return NewServiceError(constants.ErrCodeOperationFailed, err)
			}

			entries = append(entries, entry)
		}

		return nil
	})
	if err != nil {
		return AwardResult{}, err
	}

	s.log.Info("event points awarded",
		zap.Int64("eventID", event.ID),
		zap.Int64("amountPerRecipient", cmd.Amount),
		zap.Int("recipients", len(recipients)),
		zap.Int64("total", total),
	)

	return AwardResult{Transactions: entries, PointsRemain: event.PointsRemain - total}, nil
}

// resolveRecipients dedups the requested list and checks every recipient is a
// guest; AllGuests expands to the full guest list.
func (s *eventService) resolveRecipients(event *model.Event, cmd AwardPointsCommand) ([]int64, error) {
	if cmd.AllGuests {
		if len(event.Guests) == 0 {
			return nil, NewServiceError(constants.ErrCodeInvalidState, ErrNoGuests)
		}

		recipients := make([]int64, 0, len(event.Guests))
		for _, guest := range event.Guests {
			recipients = append(recipients, guest.UserID)
		}
		return recipients, nil
	}

	if len(cmd.RecipientIDs) == 0 {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, errors.New("no recipients given"))
	}

	seen := make(map[int64]bool, len(cmd.RecipientIDs))
	recipients := make([]int64, 0, len(cmd.RecipientIDs))
	for _, userID := range cmd.RecipientIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		if !event.IsGuest(userID) {
			return nil, NewServiceError(constants.ErrCodeNotGuest,
				fmt.Errorf("user %d is not a guest of event %d", userID, event.ID))
		}
		recipients = append(recipients, userID)
	}

	return recipients, nil
}

func (s *eventService) eventError(err error) error {
	if errors.Is(err, repository.ErrEventNotFound) {
		return NewServiceError(constants.ErrCodeEventNotFound, err)
	}
	return NewServiceError(constants.ErrCodeOperationFailed, err)
}
