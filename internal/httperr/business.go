package httperr

import "errors"

// Kind classifies a business failure so transports can map it without
// inspecting codes.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation_error"
	KindPastDate        Kind = "past_date"
	KindSlotUnavailable Kind = "slot_unavailable"
	KindForbidden       Kind = "forbidden"
	KindInvalidState    Kind = "invalid_state"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func New(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return New(KindNotFound, code, message)
}

func ErrValidation(code, message string) error {
	return New(KindValidation, code, message)
}

func ErrPastDate(code, message string) error {
	return New(KindPastDate, code, message)
}

func ErrSlotUnavailable(code, message string) error {
	return New(KindSlotUnavailable, code, message)
}

func ErrForbidden(code, message string) error {
	return New(KindForbidden, code, message)
}

func ErrInvalidState(code, message string) error {
	return New(KindInvalidState, code, message)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
