package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// SeatConflictError reports which seats of a multi-seat claim were already
// held at commit time. The whole claim is rolled back; callers can prompt a
// reselection of exactly these seats.
type SeatConflictError struct {
	Seats []string
	Err   error
}

func (e SeatConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "seat no longer available"
	}
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.Seats, ", "))
}

func (e SeatConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// StorageError marks a store that could not be opened or written. It is fatal
// for the attempted operation and always carries the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var c ConflictError
	var s SeatConflictError
	return errors.As(err, &c) || errors.As(err, &s)
}

func IsSeatConflict(err error) (SeatConflictError, bool) {
	var target SeatConflictError
	ok := errors.As(err, &target)
	return target, ok
}

func IsStorage(err error) bool {
	var target StorageError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
