package publishers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/campusperks/points-services/pointsgateway/internal/mocks"
	"github.com/campusperks/points-services/pointsgateway/internal/publishers"
	"github.com/campusperks/points-services/pointsgateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestLedgerPublisher_Publish(t *testing.T) {
	logger := zap.NewNop()

	messages := []service.LedgerFeedMessage{
		{LedgerEventID: 1, TransactionID: 10, UserID: 5, EventType: "CREATED", Amount: 80},
		{LedgerEventID: 2, TransactionID: 11, UserID: 6, EventType: "PROCESSED", Amount: -200},
	}

	t.Run("publishes every unpublished event and marks it", func(t *testing.T) {
		mockFeed := &mocks.LedgerFeedService{}
		mockPublisher := &mocks.Publisher{}

		publisher := publishers.NewLedgerPublisher(mockFeed, mockPublisher, 100, logger)

		mockFeed.On("FindEventsToPublish", context.Background(), 100).Return(messages, nil)

		for _, message := range messages {
			body, _ := json.Marshal(message)
			mockPublisher.On("Publish", context.Background(), "",
				publishers.LedgerQueue, body).Return(nil)
			mockFeed.On("MarkEventPublished", context.Background(),
				message.LedgerEventID).Return(nil)
		}

		err := publisher.Publish(context.Background())

		assert.NoError(t, err)
		mockPublisher.AssertNumberOfCalls(t, "Publish", 2)
		mockFeed.AssertNumberOfCalls(t, "MarkEventPublished", 2)
	})

	t.Run("a failed publish leaves the event for the next tick", func(t *testing.T) {
		mockFeed := &mocks.LedgerFeedService{}
		mockPublisher := &mocks.Publisher{}

		publisher := publishers.NewLedgerPublisher(mockFeed, mockPublisher, 100, logger)

		mockFeed.On("FindEventsToPublish", context.Background(), 100).Return(messages, nil)

		firstBody, _ := json.Marshal(messages[0])
		secondBody, _ := json.Marshal(messages[1])

		mockPublisher.On("Publish", context.Background(), "",
			publishers.LedgerQueue, firstBody).Return(errors.New("broker unavailable"))
		mockPublisher.On("Publish", context.Background(), "",
			publishers.LedgerQueue, secondBody).Return(nil)
		mockFeed.On("MarkEventPublished", context.Background(), int64(2)).Return(nil)

		err := publisher.Publish(context.Background())

		assert.NoError(t, err)
		mockFeed.AssertNumberOfCalls(t, "MarkEventPublished", 1)
		mockFeed.AssertNotCalled(t, "MarkEventPublished", context.Background(), int64(1))
	})

	t.Run("nothing to publish", func(t *testing.T) {
		mockFeed := &mocks.LedgerFeedService{}
		mockPublisher := &mocks.Publisher{}

		publisher := publishers.NewLedgerPublisher(mockFeed, mockPublisher, 100, logger)

		mockFeed.On("FindEventsToPublish", context.Background(), 100).
			Return([]service.LedgerFeedMessage{}, nil)

		err := publisher.Publish(context.Background())

		assert.NoError(t, err)
		mockPublisher.AssertNotCalled(t, "Publish",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates a feed failure", func(t *testing.T) {
		mockFeed := &mocks.LedgerFeedService{}
		mockPublisher := &mocks.Publisher{}

		publisher := publishers.NewLedgerPublisher(mockFeed, mockPublisher, 100, logger)

		feedErr := errors.New("connection reset")
		mockFeed.On("FindEventsToPublish", context.Background(), 100).
			Return([]service.LedgerFeedMessage(nil), feedErr)

		err := publisher.Publish(context.Background())

		assert.Equal(t, feedErr, err)
	})
}
