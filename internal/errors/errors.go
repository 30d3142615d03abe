// Package errors holds the error taxonomy shared by the authentication and
// category layers. Every domain error is safe to show to the caller; anything
// else is reported as Unexpected.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidCredentials
	KindDuplicateAccount
	KindRegistrationFailed
	KindCategoryNotFound
	KindCategoryAlreadyExists
	KindInvalidArgument
	KindMissingOrMalformedToken
	KindMissingOwnerClaim
	KindInvalidToken
)

const (
	msgInvalidCredentials      = "Invalid credentials. Email/Password mismatch or do not exist."
	msgDuplicateAccount        = "The user already exists with this email"
	msgRegistrationFailed      = "Registration failed"
	msgCategoryNotFound        = "Category not found; Invalid categoryId or userId"
	msgCategoryAlreadyExists   = "Categories already exist"
	msgInvalidArgument         = "Data not provided"
	msgMissingOrMalformedToken = "Unable to fetch authorization header or bearer token"
	msgMissingOwnerClaim       = "Invalid user id"
	msgInvalidToken            = "Invalid or expired token"
	MsgInternalError           = "Internal server error"
)

var (
	ErrInvalidCredentials      = New(KindInvalidCredentials, msgInvalidCredentials)
	ErrDuplicateAccount        = New(KindDuplicateAccount, msgDuplicateAccount)
	ErrRegistrationFailed      = New(KindRegistrationFailed, msgRegistrationFailed)
	ErrCategoryNotFound        = New(KindCategoryNotFound, msgCategoryNotFound)
	ErrCategoryAlreadyExists   = New(KindCategoryAlreadyExists, msgCategoryAlreadyExists)
	ErrInvalidArgument         = New(KindInvalidArgument, msgInvalidArgument)
	ErrMissingOrMalformedToken = New(KindMissingOrMalformedToken, msgMissingOrMalformedToken)
	ErrMissingOwnerClaim       = New(KindMissingOwnerClaim, msgMissingOwnerClaim)
	ErrInvalidToken            = New(KindInvalidToken, msgInvalidToken)
	ErrUnexpected              = New(KindUnexpected, MsgInternalError)
)

// Error is a classified failure. Two errors match under errors.Is when their
// kinds are equal, so callers can compare against the package sentinels even
// when the message was customised.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	if e.err != nil && e.Kind == KindUnexpected {
		return fmt.Sprintf("%s: %v", e.Msg, e.err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// RegistrationFailed joins the identity provider's policy violations into a
// single message, one violation per line.
func RegistrationFailed(messages []string) error {
	if len(messages) == 0 {
		return ErrRegistrationFailed
	}
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(m)
		sb.WriteString("\n")
	}
	return &Error{Kind: KindRegistrationFailed, Msg: sb.String()}
}

// Unexpected wraps an infrastructure failure. The cause is kept for logging
// but never rendered to the caller.
func Unexpected(op string, err error) error {
	return &Error{Kind: KindUnexpected, Msg: op, err: err}
}

// IsDomainError reports whether err is a user-facing error from the taxonomy.
func IsDomainError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind != KindUnexpected
}

// PublicMessage returns the message that may be sent back to the caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnexpected {
		return e.Msg
	}
	return MsgInternalError
}
