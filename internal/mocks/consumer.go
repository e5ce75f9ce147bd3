package mocks

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type Consumer struct {
	mock.Mock
}

func (c *Consumer) Consume(ctx context.Context, prefetch int, queue string, handler mq.Handle) error {
	args := c.Called(ctx, prefetch, queue, handler)
	return args.Error(0)
}
