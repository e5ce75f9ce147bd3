package repository

import (
	"context"
	"errors"

	"github.com/campusperks/points-services/pointsgateway/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound    = errors.New("ACCOUNT_NOT_FOUND")
	ErrAccountExists      = errors.New("ACCOUNT_EXISTS")
	ErrInsufficientPoints = errors.New("INSUFFICIENT_POINTS")
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id int64) (model.Account, error)
	GetByHandle(ctx context.Context, handle string) (model.Account, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	AddPoints(ctx context.Context, id int64, delta int64) error
	ReservePoints(ctx context.Context, id int64, amount int64) error
	RedeemReserved(ctx context.Context, id int64, amount int64) error
	UpdateStatus(ctx context.Context, account *model.Account) error
}

type account struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &account{db: db}
}

func (r *account) Create(ctx context.Context, acc *model.Account) error {
	db := GetTx(ctx, r.db)
	err := db.Create(acc).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrAccountExists
	}

	return err
}

func (r *account) GetByID(ctx context.Context, id int64) (model.Account, error) {
	db := GetTx(ctx, r.db)

	var acc model.Account
	if err := db.Where("id = ?", id).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, err
	}

	return acc, nil
}

func (r *account) GetByHandle(ctx context.Context, handle string) (model.Account, error) {
	db := GetTx(ctx, r.db)

	var acc model.Account
	if err := db.Where("handle = ?", handle).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, err
	}

	return acc, nil
}

func (r *account) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	db := GetTx(ctx, r.db)

	var count int64
	if err := db.Model(&model.Account{}).Where("handle = ?", handle).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// AddPoints applies a signed delta to the balance. The WHERE guard keeps the
// balance from dropping below the reserved portion, so a debit can never
// spend points held for a pending redemption; a guard miss surfaces as
// ErrInsufficientPoints for a debit and ErrAccountNotFound for a credit.
func (r *account) AddPoints(ctx context.Context, id int64, delta int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Account{}).
		Where("id = ? AND points + ? >= reserved_points", id, delta).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if delta < 0 {
			return ErrInsufficientPoints
		}
		return ErrAccountNotFound
	}

	return nil
}

// ReservePoints holds amount against the balance for a pending redemption.
// The guard checks the unreserved portion, so two concurrent redemption
// requests cannot both reserve the same points.
func (r *account) ReservePoints(ctx context.Context, id int64, amount int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Account{}).
		Where("id = ? AND points - reserved_points >= ?", id, amount).
		Update("reserved_points", gorm.Expr("reserved_points + ?", amount))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}

	return nil
}

// RedeemReserved converts a hold into an actual debit when a cashier
// processes the redemption.
func (r *account) RedeemReserved(ctx context.Context, id int64, amount int64) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Account{}).
		Where("id = ? AND reserved_points >= ? AND points >= ?", id, amount, amount).
		Updates(map[string]interface{}{
			"points":          gorm.Expr("points - ?", amount),
			"reserved_points": gorm.Expr("reserved_points - ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}

	return nil
}

func (r *account) UpdateStatus(ctx context.Context, acc *model.Account) error {
	db := GetTx(ctx, r.db)

	res := db.Model(&model.Account{}).
		Where("id = ?", acc.ID).
		Updates(map[string]interface{}{
			"role":       acc.Role,
			"verified":   acc.Verified,
			"suspicious": acc.Suspicious,
		})

	return res.Error
}
