package model

import "errors"

// Error is the kind of a recoverable validation failure. The value is a
// stable code, the wording of the message is left to the presentation layer.
type Error string

const (
	ErrEmptyUsername     = Error("ERR_EMPTY_USERNAME")
	ErrInvalidSlot       = Error("ERR_INVALID_SLOT")
	ErrSlotTaken         = Error("ERR_SLOT_TAKEN")
	ErrSessionNotFound   = Error("ERR_SESSION_NOT_FOUND")
	ErrPlayerNotFound    = Error("ERR_PLAYER_NOT_FOUND")
	ErrSessionFull       = Error("ERR_SESSION_FULL")
	ErrDuplicateUsername = Error("ERR_DUPLICATE_USERNAME")
)

func (e Error) Error() string {
	return string(e)
}

func (e Error) String() string {
	return string(e)
}

// IsError reports whether err carries one of the validation kinds.
func IsError(err error) bool {
	_, ok := KindOf(err)
	return ok
}

// KindOf unwraps err down to its validation kind.
func KindOf(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return "", false
}
