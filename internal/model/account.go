package model

import "time"

type Role string

const (
	RoleRegular   Role = "REGULAR"
	RoleCashier   Role = "CASHIER"
	RoleManager   Role = "MANAGER"
	RoleSuperuser Role = "SUPERUSER"
)

var roleRank = map[Role]int{
	RoleRegular:   0,
	RoleCashier:   1,
	RoleManager:   2,
	RoleSuperuser: 3,
}

// AtLeast reports whether r carries the privileges of other. Unknown roles
// rank below REGULAR.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type Account struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	Handle         string    `gorm:"column:handle;type:varchar(16);index:idx_accounts_handle,unique;<-:create"`
	Role           Role      `gorm:"column:role;type:enum('REGULAR','CASHIER','MANAGER','SUPERUSER');not null"`
	Points         int64     `gorm:"column:points;not null;default:0"`
	ReservedPoints int64     `gorm:"column:reserved_points;not null;default:0"`
	Verified       bool      `gorm:"column:verified;not null;default:false"`
	Suspicious     bool      `gorm:"column:suspicious;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Account) TableName() string {
	return "accounts"
}

// Available is the portion of the balance not held by pending redemptions.
func (a *Account) Available() int64 {
	return a.Points - a.ReservedPoints
}
