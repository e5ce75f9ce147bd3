package service

import "errors"

var (
	ErrNotOwner           = errors.New("NOT_OWNER")
	ErrNotVerified        = errors.New("NOT_VERIFIED")
	ErrNotOrganizer       = errors.New("NOT_ORGANIZER")
	ErrRoleTooLow         = errors.New("ROLE_TOO_LOW")
	ErrNotGuest           = errors.New("NOT_GUEST")
	ErrNoGuests           = errors.New("NO_GUESTS")
	ErrEventFull          = errors.New("EVENT_FULL")
	ErrUnpublish          = errors.New("UNPUBLISH_NOT_ALLOWED")
	ErrCapacityBelowGuest = errors.New("CAPACITY_BELOW_GUEST_COUNT")
	ErrWindowLocked       = errors.New("PROMOTION_WINDOW_LOCKED")
	ErrNotFlaggable       = errors.New("TYPE_NOT_FLAGGABLE")
	ErrSelfTransfer       = errors.New("SELF_TRANSFER")
)

// Error is the typed failure every service operation returns. Code selects
// the HTTP status and client message; Cause identifies the failing
// precondition, down to the offending promotion id for eligibility failures.
type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
