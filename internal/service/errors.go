package service

import (
	"errors"
	"fmt"
)

// Kind classifies why a guarded operation was refused. Every guarded
// operation validates its preconditions before performing any mutation, so
// a non-zero Kind always means nothing was committed.
type Kind int

const (
	// KindValidation marks caller-recoverable input problems: duplicate
	// member names, split totals that do not match the amount, and so on.
	KindValidation Kind = iota + 1
	// KindAuthorization marks a non-owner attempting an owner-only action,
	// or a non-member acting on a group.
	KindAuthorization
	// KindPrecondition marks operations whose state requirements do not
	// hold: removing a member with history, settling with open balances.
	KindPrecondition
	// KindNotFound marks references to records that do not exist or are
	// not visible to the caller.
	KindNotFound
)

// Error is a refusal from a guarded ledger operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a service error, or zero for any other error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func authorizationf(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func preconditionf(format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}
