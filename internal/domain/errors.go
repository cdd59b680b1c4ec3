package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the stable, machine-readable code of a domain error.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "BOOKING_CONFLICT"
	KindCapacity         Kind = "CAPACITY_EXCEEDED"
	KindAuthorization    Kind = "FORBIDDEN"
	KindAlreadyCancelled Kind = "ALREADY_CANCELLED"
	KindAlreadyPaid      Kind = "ALREADY_PAID"
	KindPastBooking      Kind = "PAST_BOOKING"
	KindInvalidState     Kind = "INVALID_STATUS_TRANSITION"
)

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (Kind, bool) {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e *ValidationError) Kind() Kind { return KindValidation }

func validationFromFields(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+" failed "+fields[f])
	}
	return &ValidationError{Msg: strings.Join(parts, "; ")}
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error { return e.Err }
func (e *NotFoundError) Kind() Kind    { return KindNotFound }

// ConflictError covers double booking and booking code collisions. Retryable
// is set when issuing the same request again may succeed.
type ConflictError struct {
	Msg       string
	Retryable bool
	Err       error
}

func (e *ConflictError) Error() string {
	if e.Msg == "" {
		return "conflict"
	}
	return e.Msg
}

func (e *ConflictError) Unwrap() error { return e.Err }
func (e *ConflictError) Kind() Kind    { return KindConflict }

type CapacityError struct {
	Capacity  int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("this taxi can only accommodate %d passengers, requested %d", e.Capacity, e.Requested)
}

func (e *CapacityError) Kind() Kind { return KindCapacity }

type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	if e.Action == "" {
		return "not authorized"
	}
	return "not authorized to " + e.Action
}

func (e *AuthorizationError) Kind() Kind { return KindAuthorization }

// StateError is a request that is valid in shape but not allowed in the
// booking's current state.
type StateError struct {
	kind Kind
	Msg  string
}

func (e *StateError) Error() string { return e.Msg }
func (e *StateError) Kind() Kind    { return e.kind }

var (
	ErrAlreadyCancelled = &StateError{kind: KindAlreadyCancelled, Msg: "booking is already cancelled"}
	ErrAlreadyPaid      = &StateError{kind: KindAlreadyPaid, Msg: "payment already completed"}
	ErrPastBooking      = &StateError{kind: KindPastBooking, Msg: "cannot cancel past bookings"}
	ErrAlreadyCompleted = &StateError{kind: KindInvalidState, Msg: "booking is already completed"}
	ErrNotConfirmed     = &StateError{kind: KindInvalidState, Msg: "only confirmed bookings can be completed"}
)

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsRetryable reports a conflict that a caller may retry as-is.
func IsRetryable(err error) bool {
	var target *ConflictError
	return errors.As(err, &target) && target.Retryable
}

func IsCapacity(err error) bool {
	var target *CapacityError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}
