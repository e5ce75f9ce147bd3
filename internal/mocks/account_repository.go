package mocks

import (
	"context"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type AccountRepository struct {
	mock.Mock
}

func (a *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := a.Called(ctx, account)
	return args.Error(0)
}

func (a *AccountRepository) GetByID(ctx context.Context, id int64) (model.Account, error) {
	args := a.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (a *AccountRepository) GetByHandle(ctx context.Context, handle string) (model.Account, error) {
	args := a.Called(ctx, handle)
	return args.Get(0).(model.Account), args.Error(1)
}

func (a *AccountRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	args := a.Called(ctx, handle)
	return args.Bool(0), args.Error(1)
}

func (a *AccountRepository) AddPoints(ctx context.Context, id int64, delta int64) error {
	args := a.Called(ctx, id, delta)
	return args.Error(0)
}

func (a *AccountRepository) ReservePoints(ctx context.Context, id int64, amount int64) error {
	args := a.Called(ctx, id, amount)
	return args.Error(0)
}

func (a *AccountRepository) RedeemReserved(ctx context.Context, id int64, amount int64) error {
	args := a.Called(ctx, id, amount)
	return args.Error(0)
}

func (a *AccountRepository) UpdateStatus(ctx context.Context, account *model.Account) error {
	args := a.Called(ctx, account)
	return args.Error(0)
}
