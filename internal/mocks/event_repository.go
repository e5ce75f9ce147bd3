package mocks

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type EventRepository struct {
	mock.Mock
}

func (e *EventRepository) Create(ctx context.Context, event *model.Event) error {
	args := e.Called(ctx, event)
	return args.Error(0)
}

func (e *EventRepository) GetByID(ctx context.Context, id int64) (model.Event, error) {
	args := e.Called(ctx, id)
	return args.Get(0).(model.Event), args.Error(1)
}

func (e *EventRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Event, int64, error) {
	args := e.Called(ctx, publishedOnly, limit, offset)
	return args.Get(0).([]model.Event), args.Get(1).(int64), args.Error(2)
}

func (e *EventRepository) Update(ctx context.Context, event *model.Event) error {
	args := e.Called(ctx, event)
	return args.Error(0)
}

func (e *EventRepository) AdjustAllocation(ctx context.Context, id int64, delta int64) error {
	args := e.Called(ctx, id, delta)
	return args.Error(0)
}

func (e *EventRepository) DebitBudget(ctx context.Context, id int64, total int64) error {
	args := e.Called(ctx, id, total)
	return args.Error(0)
}

func (e *EventRepository) AddGuest(ctx context.Context, eventID, userID int64, capacity *int64) error {
	args := e.Called(ctx, eventID, userID, capacity)
	return args.Error(0)
}

func (e *EventRepository) RemoveGuest(ctx context.Context, eventID, userID int64) error {
	args := e.Called(ctx, eventID, userID)
	return args.Error(0)
}

func (e *EventRepository) AddOrganizer(ctx context.Context, eventID, userID int64) error {
	args := e.Called(ctx, eventID, userID)
	return args.Error(0)
}
