package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is what the UI is told about a failed operation.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindConflict        ErrorKind = "conflict"
	KindNotFound        ErrorKind = "not_found"
	KindRemote          ErrorKind = "remote"
)

var (
	// Kinds
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden operation")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrRemote          = errors.New("operation failed, try again")

	// Registration errors
	ErrAlreadyRegistered = fmt.Errorf("already registered: %w", ErrConflict)
	ErrEventFull         = fmt.Errorf("event is full: %w", ErrConflict)
	ErrNotRegistered     = fmt.Errorf("registration not found: %w", ErrNotFound)

	// Volunteer errors
	ErrAlreadyVolunteer = fmt.Errorf("volunteer already assigned: %w", ErrConflict)
	ErrNotVolunteer     = fmt.Errorf("person is not a volunteer of this event: %w", ErrNotFound)
	ErrNotParticipant   = fmt.Errorf("person is not a participant of this event: %w", ErrNotFound)

	// Input errors
	ErrEmptyID         = fmt.Errorf("identifier is required: %w", ErrValidation)
	ErrMissingTitle    = fmt.Errorf("title is required: %w", ErrValidation)
	ErrInvalidCapacity = fmt.Errorf("capacity must be at least 1: %w", ErrValidation)
	ErrInvalidFee      = fmt.Errorf("fees cannot be negative: %w", ErrValidation)
	ErrInvalidImage    = fmt.Errorf("image cannot be decoded: %w", ErrValidation)
	ErrMissingLogin    = fmt.Errorf("email and password are required: %w", ErrValidation)

	// Account errors
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("invalid or expired token: %w", ErrUnauthenticated)
)

// KindOf classifies err into one of the error kinds.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindRemote
	}
}

// UserMessage is the text shown for err.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindUnauthenticated:
		return "please sign in again"
	case KindForbidden:
		return "you are not allowed to do that"
	case KindRemote:
		return ErrRemote.Error()
	case KindValidation:
		return strings.TrimSuffix(err.Error(), ": "+ErrValidation.Error())
	case KindConflict:
		return strings.TrimSuffix(err.Error(), ": "+ErrConflict.Error())
	default:
		return strings.TrimSuffix(err.Error(), ": "+ErrNotFound.Error())
	}
}
