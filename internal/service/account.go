package service

import (
	"context"
	"errors"

	"github.com/campusperks/points-services/pointsgateway/internal/auth"
	"github.com/campusperks/points-services/pointsgateway/internal/constants"
	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/campusperks/points-services/pointsgateway/internal/repository"
	"go.uber.org/zap"
)

type AccountService interface {
	Create(ctx context.Context, actor auth.Principal, cmd CreateAccountCommand) (model.Account, error)
	Get(ctx context.Context, actor auth.Principal, accountID int64) (model.Account, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	UpdateStatus(ctx context.Context, actor auth.Principal, cmd UpdateAccountStatusCommand) (model.Account, error)
}

type accountService struct {
	accountRepo repository.AccountRepository
	log         *zap.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, log *zap.Logger) AccountService {
	return &accountService{accountRepo: accountRepo, log: log}
}

func (s *accountService) Create(ctx context.Context, actor auth.Principal, cmd CreateAccountCommand) (model.Account, error) {
	if !actor.IsCashier() {
		return model.Account{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	account := model.Account{
		Handle: cmd.Handle,
		Role:   model.RoleRegular,
	}

	if err := s.accountRepo.Create(ctx, &account); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return model.Account{}, NewServiceError(constants.ErrCodeAccountExists, err)
		}
		s.log.Error("error create account", zap.String("handle", cmd.Handle), zap.Error(err))
		return model.Account{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("account created",
		zap.Int64("accountID", account.ID),
		zap.String("handle", account.Handle),
	)

	return account, nil
}

func (s *accountService) Get(ctx context.Context, actor auth.Principal, accountID int64) (model.Account, error) {
	if accountID != actor.AccountID && !actor.IsCashier() {
		return model.Account{}, NewServiceError(constants.ErrCodeForbidden, ErrNotOwner)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.Account{}, NewServiceError(constants.ErrCodeAccountNotFound, err)
		}
		return model.Account{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return account, nil
}

func (s *accountService) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	exists, err := s.accountRepo.ExistsByHandle(ctx, handle)
	if err != nil {
		s.log.Error("error check handle", zap.String("handle", handle), zap.Error(err))
		return false, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return exists, nil
}

// UpdateStatus applies manager status changes. Verification is one-way and
// role grants above cashier need a superuser.
func (s *accountService) UpdateStatus(ctx context.Context, actor auth.Principal, cmd UpdateAccountStatusCommand) (model.Account, error) {
	if !actor.IsManager() {
		return model.Account{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
	}

	account, err := s.accountRepo.GetByID(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.Account{}, NewServiceError(constants.ErrCodeAccountNotFound, err)
		}
		return model.Account{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if cmd.Verified != nil {
		if account.Verified && !*cmd.Verified {
			return model.Account{}, NewServiceError(constants.ErrCodeInvalidState,
				errors.New("verification cannot be revoked"))
		}
		account.Verified = *cmd.Verified
	}

	if cmd.Suspicious != nil {
		account.Suspicious = *cmd.Suspicious
	}

	if cmd.Role != nil {
		role := model.Role(*cmd.Role)
		if !role.Valid() {
			return model.Account{}, NewServiceError(constants.ErrCodeValidationFailed,
				errors.New("unknown role"))
		}
		if role.AtLeast(model.RoleManager) && !actor.IsSuperuser() {
			return model.Account{}, NewServiceError(constants.ErrCodeForbidden, ErrRoleTooLow)
		}
		account.Role = role
	}

	if err := s.accountRepo.UpdateStatus(ctx, &account); err != nil {
		s.log.Error("error update account status", zap.Int64("accountID", account.ID), zap.Error(err))
		return model.Account{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("account status updated",
		zap.Int64("accountID", account.ID),
		zap.String("role", string(account.Role)),
		zap.Bool("verified", account.Verified),
		zap.Bool("suspicious", account.Suspicious),
	)

	return account, nil
}
