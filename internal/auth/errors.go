package auth

import (
	"errors"
	"fmt"
)

// Kind classifies the outcome of a failed account operation.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyRegistered
	KindAlreadyVerified
	KindInvalidCode
	KindCodeExpired
	KindInvalidOrExpiredCode
	KindInvalidCredentials
	KindEmailNotVerified
	KindEmailDeliveryFailed
	KindValidation
	KindConfigurationFault
)

var kindNames = [...]string{
	KindInternal:             "Internal",
	KindNotFound:             "NotFound",
	KindAlreadyRegistered:    "AlreadyRegistered",
	KindAlreadyVerified:      "AlreadyVerified",
	KindInvalidCode:          "InvalidCode",
	KindCodeExpired:          "CodeExpired",
	KindInvalidOrExpiredCode: "InvalidOrExpiredCode",
	KindInvalidCredentials:   "InvalidCredentials",
	KindEmailNotVerified:     "EmailNotVerified",
	KindEmailDeliveryFailed:  "EmailDeliveryFailed",
	KindValidation:           "ValidationError",
	KindConfigurationFault:   "ConfigurationFault",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is the typed failure returned by Service operations.
type Error struct {
	Kind   Kind
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "auth: " + e.Kind.String()
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrAlreadyRegistered    = &Error{Kind: KindAlreadyRegistered}
	ErrAlreadyVerified      = &Error{Kind: KindAlreadyVerified}
	ErrInvalidCode          = &Error{Kind: KindInvalidCode}
	ErrCodeExpired          = &Error{Kind: KindCodeExpired}
	ErrInvalidOrExpiredCode = &Error{Kind: KindInvalidOrExpiredCode}
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials}
	ErrEmailNotVerified     = &Error{Kind: KindEmailNotVerified}
	ErrEmailDeliveryFailed  = &Error{Kind: KindEmailDeliveryFailed}
	ErrValidation           = &Error{Kind: KindValidation}
	ErrConfigurationFault   = &Error{Kind: KindConfigurationFault}
)

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func validationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields, Err: errors.New("invalid input")}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
