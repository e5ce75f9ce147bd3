package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	spentRegex  = `^\d+(\.\d{1,2})?$`
	handleRegex = `^[a-z0-9]{4,16}$`
)

const (
	SpentTag  = "spent"
	HandleTag = "handle"
	RoleTag   = "role"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	SpentTag:  ValidateSpent,
	HandleTag: ValidateHandle,
	RoleTag:   ValidateRole,
}

// ValidateSpent accepts a non-negative dollar amount with up to two decimals.
func ValidateSpent(fl validator.FieldLevel) bool {
	spent := fl.Field().String()
	return regexp.MustCompile(spentRegex).MatchString(spent)
}

func ValidateHandle(fl validator.FieldLevel) bool {
	handle := fl.Field().String()
	return regexp.MustCompile(handleRegex).MatchString(handle)
}

func ValidateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "REGULAR", "CASHIER", "MANAGER", "SUPERUSER":
		return true
	}
	return false
}
