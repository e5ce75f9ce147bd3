package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/campusperks/points-services/pointsgateway/internal/auth"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/mocks"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type eventServiceMocks struct {
	txManager       *mocks.TxManager
	eventRepo       *mocks.EventRepository
	accountRepo     *mocks.AccountRepository
	transactionRepo *mocks.TransactionRepository
	ledgerEventRepo *mocks.LedgerEventRepository
}

func newEventService(t *testing.T) (service.EventService, *eventServiceMocks) {
	t.Helper()

	m := &eventServiceMocks{
		txManager:       &mocks.TxManager{},
		eventRepo:       &mocks.EventRepository{},
		accountRepo:     &mocks.AccountRepository{},
		transactionRepo: &mocks.TransactionRepository{},
		ledgerEventRepo: &mocks.LedgerEventRepository{},
	}

	svc := service.NewEventService(m.txManager, m.eventRepo, m.accountRepo,
		m.transactionRepo, m.ledgerEventRepo, zap.NewNop())

	return svc, m
}

func makeEvent() model.Event {
	return model.Event{
		ID:              4,
		Name:            "orientation night",
		StartTime:       time.Now().Add(24 * time.Hour),
		EndTime:         time.Now().Add(28 * time.Hour),
		PointsAllocated: 500,
		PointsRemain:    300,
		Published:       true,
		Guests: []model.EventGuest{
			{EventID: 4, UserID: 2},
			{EventID: 4, UserID: 3},
		},
		Organizers: []model.EventOrganizer{
			{EventID: 4, UserID: 10},
		},
	}
}

func TestEvent_AwardPoints(t *testing.T) {
	organizer := auth.Principal{AccountID: 10, Role: model.RoleRegular}

	t.Run("debits the budget and credits every recipient", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, RecipientIDs: []int64{2, 3}}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("DebitBudget", mock.AnythingOfType("*context.valueCtx"),
			int64(4), int64(100)).Return(nil)
		m.transactionRepo.On("Create", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(tx *model.Transaction) bool {
				return tx.Type == model.TransactionTypeEvent &&
					tx.Amount == 50 &&
					tx.RelatedID != nil && *tx.RelatedID == 4 &&
					tx.Processed &&
					tx.CreatedBy == 10
			})).Return(nil)
		m.accountRepo.On("AddPoints", mock.AnythingOfType("*context.valueCtx"),
			int64(2), int64(50)).Return(nil)
		m.accountRepo.On("AddPoints", mock.AnythingOfType("*context.valueCtx"),
			int64(3), int64(50)).Return(nil)
		m.ledgerEventRepo.On("Create", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(event *model.LedgerEvent) bool {
				return event.EventType == model.LedgerEventCreated && event.Amount == 50
			})).Return(nil)

		result, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assert.NoError(t, err)
		assert.Len(t, result.Transactions, 2)
		assert.Equal(t, int64(200), result.PointsRemain)

		m.eventRepo.AssertExpectations(t)
		m.accountRepo.AssertNumberOfCalls(t, "AddPoints", 2)
		m.transactionRepo.AssertNumberOfCalls(t, "Create", 2)
		m.ledgerEventRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("expands all guests", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		cmd := service.AwardPointsCommand{EventID: 4, Amount: 30, AllGuests: true}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("DebitBudget", mock.AnythingOfType("*context.valueCtx"),
			int64(4), int64(60)).Return(nil)
		m.transactionRepo.On("Create", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("*model.Transaction")).Return(nil)
		m.accountRepo.On("AddPoints", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("int64"), int64(30)).Return(nil)
		m.ledgerEventRepo.On("Create", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("*model.LedgerEvent")).Return(nil)

		result, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assert.NoError(t, err)
		assert.Len(t, result.Transactions, 2)
		assert.Equal(t, int64(240), result.PointsRemain)
	})

	t.Run("dedups repeated recipients", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, RecipientIDs: []int64{2, 2}}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("DebitBudget", mock.AnythingOfType("*context.valueCtx"),
			int64(4), int64(50)).Return(nil)
		m.transactionRepo.On("Create", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("*model.Transaction")).Return(nil)
		m.accountRepo.On("AddPoints", mock.AnythingOfType("*context.valueCtx"),
			int64(2), int64(50)).Return(nil)
		m.ledgerEventRepo.On("Create", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("*model.LedgerEvent")).Return(nil)

		result, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assert.NoError(t, err)
		assert.Len(t, result.Transactions, 1)
		m.accountRepo.AssertNumberOfCalls(t, "AddPoints", 1)
	})

	t.Run("refuses an award exceeding the remaining budget", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		event.PointsRemain = 80

		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, RecipientIDs: []int64{2, 3}}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeInsufficientBudget)
		m.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("fails when a concurrent award drained the budget", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, RecipientIDs: []int64{2}}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("DebitBudget", mock.AnythingOfType("*context.valueCtx"),
			int64(4), int64(50)).Return(repository.ErrInsufficientBudget)

		_, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeInsufficientBudget)
		m.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.accountRepo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refuses a recipient who is not a guest", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, RecipientIDs: []int64{2, 99}}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeNotGuest)
		m.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("refuses all guests on an event without guests", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		event.Guests = nil

		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, AllGuests: true}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.AwardPoints(context.Background(), organizer, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
	})

	t.Run("refuses a caller who neither organizes nor manages", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		stranger := auth.Principal{AccountID: 99, Role: model.RoleRegular}
		cmd := service.AwardPointsCommand{EventID: 4, Amount: 50, RecipientIDs: []int64{2}}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.AwardPoints(context.Background(), stranger, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeForbidden)
	})
}

func TestEvent_Create(t *testing.T) {
	manager := auth.Principal{AccountID: 90, Role: model.RoleManager}

	cmd := service.CreateEventCommand{
		Name:            "hackathon",
		StartTime:       time.Now().Add(24 * time.Hour),
		EndTime:         time.Now().Add(48 * time.Hour),
		PointsAllocated: 1000,
	}

	t.Run("seeds the remaining budget from the allocation", func(t *testing.T) {
		svc, m := newEventService(t)

		m.eventRepo.On("Create", context.Background(),
			mock.MatchedBy(func(event *model.Event) bool {
				return event.PointsAllocated == 1000 &&
					event.PointsRemain == 1000 &&
					!event.Published
			})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Event).ID = 4
		}).Return(nil)

		event, err := svc.Create(context.Background(), manager, cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), event.ID)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("rejects an inverted time window", func(t *testing.T) {
		svc, m := newEventService(t)

		inverted := cmd
		inverted.EndTime = cmd.StartTime.Add(-time.Hour)

		_, err := svc.Create(context.Background(), manager, inverted)

		assertServiceErrorCode(t, err, constants.ErrCodeValidationFailed)
		m.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a cashier", func(t *testing.T) {
		svc, m := newEventService(t)

		cashier := auth.Principal{AccountID: 50, Role: model.RoleCashier}

		_, err := svc.Create(context.Background(), cashier, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeForbidden)
		m.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestEvent_Get(t *testing.T) {
	t.Run("hides an unpublished event from regular users", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		event.Published = false
		stranger := auth.Principal{AccountID: 99, Role: model.RoleRegular}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.Get(context.Background(), stranger, 4)

		assertServiceErrorCode(t, err, constants.ErrCodeEventNotFound)
	})

	t.Run("shows an unpublished event to its organizer", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		event.Published = false
		organizer := auth.Principal{AccountID: 10, Role: model.RoleRegular}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		result, err := svc.Get(context.Background(), organizer, 4)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), result.ID)
	})
}

func TestEvent_Update(t *testing.T) {
	manager := auth.Principal{AccountID: 90, Role: model.RoleManager}
	organizer := auth.Principal{AccountID: 10, Role: model.RoleRegular}

	t.Run("manager raises the allocation atomically", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		newAllocation := int64(600)
		cmd := service.UpdateEventCommand{EventID: 4, PointsAllocated: &newAllocation}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("*model.Event")).Return(nil)
		m.eventRepo.On("AdjustAllocation", mock.AnythingOfType("*context.valueCtx"),
			int64(4), int64(100)).Return(nil)

		result, err := svc.Update(context.Background(), manager, cmd)

		assert.NoError(t, err)
		assert.Equal(t, int64(600), result.PointsAllocated)
		assert.Equal(t, int64(400), result.PointsRemain)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("refuses a reduction below what was awarded", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		newAllocation := int64(100)
		cmd := service.UpdateEventCommand{EventID: 4, PointsAllocated: &newAllocation}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.AnythingOfType("*model.Event")).Return(nil)
		m.eventRepo.On("AdjustAllocation", mock.AnythingOfType("*context.valueCtx"),
			int64(4), int64(-400)).Return(repository.ErrAllocationTooLow)

		_, err := svc.Update(context.Background(), manager, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
	})

	t.Run("publication is one-way", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		unpublish := false
		cmd := service.UpdateEventCommand{EventID: 4, Published: &unpublish}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.Update(context.Background(), manager, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
		m.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("organizer cannot publish", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		event.Published = false
		publish := true
		cmd := service.UpdateEventCommand{EventID: 4, Published: &publish}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.Update(context.Background(), organizer, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeForbidden)
	})

	t.Run("capacity cannot fall below the guest count", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		capacity := int64(1)
		cmd := service.UpdateEventCommand{EventID: 4, Capacity: &capacity}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		_, err := svc.Update(context.Background(), manager, cmd)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
	})

	t.Run("organizer edits the description", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		description := "free pizza"
		cmd := service.UpdateEventCommand{EventID: 4, Description: &description}

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.txManager.On("WithTx", context.Background(),
			mock.AnythingOfType("func(context.Context) error")).Return(nil)
		m.eventRepo.On("Update", mock.AnythingOfType("*context.valueCtx"),
			mock.MatchedBy(func(ev *model.Event) bool {
				return ev.Description == "free pizza"
			})).Return(nil)

		result, err := svc.Update(context.Background(), organizer, cmd)

		assert.NoError(t, err)
		assert.Equal(t, "free pizza", result.Description)
	})
}

func TestEvent_AddGuest(t *testing.T) {
	manager := auth.Principal{AccountID: 90, Role: model.RoleManager}
	organizer := auth.Principal{AccountID: 10, Role: model.RoleRegular}

	t.Run("manager adds a guest", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.accountRepo.On("GetByID", context.Background(), int64(5)).
			Return(model.Account{ID: 5}, nil)
		m.eventRepo.On("AddGuest", context.Background(), int64(4), int64(5), (*int64)(nil)).Return(nil)

		err := svc.AddGuest(context.Background(), manager, 4, 5)

		assert.NoError(t, err)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("organizer cannot add to an unpublished event", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		event.Published = false

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		err := svc.AddGuest(context.Background(), organizer, 4, 5)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
		m.eventRepo.AssertNotCalled(t, "AddGuest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an organizer cannot become a guest", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		err := svc.AddGuest(context.Background(), manager, 4, 10)

		assertServiceErrorCode(t, err, constants.ErrCodeInvalidState)
	})

	t.Run("refuses a full event", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()
		capacity := int64(2)
		event.Capacity = &capacity

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)

		err := svc.AddGuest(context.Background(), manager, 4, 5)

		assertServiceErrorCode(t, err, constants.ErrCodeEventFull)
	})

	t.Run("reports a duplicate guest", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.accountRepo.On("GetByID", context.Background(), int64(5)).
			Return(model.Account{ID: 5}, nil)
		m.eventRepo.On("AddGuest", context.Background(), int64(4), int64(5), (*int64)(nil)).
			Return(repository.ErrAlreadyGuest)

		err := svc.AddGuest(context.Background(), manager, 4, 5)

		assertServiceErrorCode(t, err, constants.ErrCodeAlreadyGuest)
	})

	t.Run("loses the race for the last seat", func(t *testing.T) {
		svc, m := newEventService(t)

		// Two guests in the snapshot, room for one more: the snapshot check
		// passes but the count-guarded insert misses.
		event := makeEvent()
		capacity := int64(3)
		event.Capacity = &capacity

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.accountRepo.On("GetByID", context.Background(), int64(5)).
			Return(model.Account{ID: 5}, nil)
		m.eventRepo.On("AddGuest", context.Background(), int64(4), int64(5), &capacity).
			Return(repository.ErrEventFull)

		err := svc.AddGuest(context.Background(), manager, 4, 5)

		assertServiceErrorCode(t, err, constants.ErrCodeEventFull)
	})
}

func TestEvent_RemoveGuest(t *testing.T) {
	organizer := auth.Principal{AccountID: 10, Role: model.RoleRegular}

	t.Run("organizer removes a guest", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.eventRepo.On("RemoveGuest", context.Background(), int64(4), int64(2)).Return(nil)

		err := svc.RemoveGuest(context.Background(), organizer, 4, 2)

		assert.NoError(t, err)
	})

	t.Run("reports a user who was never a guest", func(t *testing.T) {
		svc, m := newEventService(t)

		event := makeEvent()

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.eventRepo.On("RemoveGuest", context.Background(), int64(4), int64(99)).
			Return(repository.ErrGuestNotFound)

		err := svc.RemoveGuest(context.Background(), organizer, 4, 99)

		assertServiceErrorCode(t, err, constants.ErrCodeNotGuest)
	})
}

func TestEvent_AddOrganizer(t *testing.T) {
	t.Run("manager appoints an organizer", func(t *testing.T) {
		svc, m := newEventService(t)

		manager := auth.Principal{AccountID: 90, Role: model.RoleManager}
		event := makeEvent()

		m.eventRepo.On("GetByID", context.Background(), int64(4)).Return(event, nil)
		m.accountRepo.On("GetByID", context.Background(), int64(5)).
			Return(model.Account{ID: 5}, nil)
		m.eventRepo.On("AddOrganizer", context.Background(), int64(4), int64(5)).Return(nil)

		err := svc.AddOrganizer(context.Background(), manager, 4, 5)

		assert.NoError(t, err)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("rejects a non-manager", func(t *testing.T) {
		svc, m := newEventService(t)

		organizer := auth.Principal{AccountID: 10, Role: model.RoleRegular}

		err := svc.AddOrganizer(context.Background(), organizer, 4, 5)

		assertServiceErrorCode(t, err, constants.ErrCodeForbidden)
		m.eventRepo.AssertNotCalled(t, "AddOrganizer", mock.Anything, mock.Anything, mock.Anything)
	})
}
