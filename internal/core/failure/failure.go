package failure

import (
	"errors"
)

// Kind groups causes by the layer that raised them.
type Kind string

const (
	// KindAuth covers sign-in failures and missing identity.
	KindAuth Kind = "AUTH"
	// KindPersistence covers document store reads, writes and key generation.
	KindPersistence Kind = "PERSISTENCE"
	// KindValidation covers input rejected before any gateway call.
	KindValidation Kind = "VALIDATION"
)

// Cause is a closed set of failure tags. Messages are derived from the tag, never from the Go type.
type Cause string

const (
	CauseInvalidUser        Cause = "INVALID_USER"
	CauseInvalidCredentials Cause = "INVALID_CREDENTIALS"
	CauseTooManyRequests    Cause = "TOO_MANY_REQUESTS"
	CauseNetwork            Cause = "NETWORK"
	CauseProvider           Cause = "PROVIDER"
	CauseInvalidInput       Cause = "INVALID_INPUT"
	CauseEmailInUse         Cause = "EMAIL_IN_USE"
	CauseNotAuthenticated   Cause = "NOT_AUTHENTICATED"
	CauseKeyGeneration      Cause = "KEY_GENERATION"
	CauseRead               Cause = "READ"
	CauseWrite              Cause = "WRITE"
	CauseMissingFields      Cause = "MISSING_FIELDS"
	CauseUnknown            Cause = "UNKNOWN"
)

// Error is the failure value returned by every gateway operation.
type Error struct {
	// Kind is the failure family.
	Kind Kind
	// Cause is the tag used for message mapping.
	Cause Cause
	// Detail is a user-facing description, possibly empty.
	Detail string
	// Err is the underlying error, possibly nil.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return e.Detail + ": " + e.Err.Error()
	case e.Detail != "":
		return e.Detail
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind) + "/" + string(e.Cause)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Auth builds an AUTH failure.
func Auth(cause Cause, detail string, err error) *Error {
	return &Error{Kind: KindAuth, Cause: cause, Detail: detail, Err: err}
}

// Persistence builds a PERSISTENCE failure.
func Persistence(cause Cause, detail string, err error) *Error {
	return &Error{Kind: KindPersistence, Cause: cause, Detail: detail, Err: err}
}

// Validation builds a VALIDATION failure.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Cause: CauseMissingFields, Detail: detail}
}

// NotAuthenticated is returned by gateway operations when no user is signed in.
func NotAuthenticated() *Error {
	return Auth(CauseNotAuthenticated, "Usuário não logado", nil)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// CauseOf returns the cause tag of err, or CauseUnknown for foreign errors.
func CauseOf(err error) Cause {
	if fe, ok := As(err); ok {
		return fe.Cause
	}
	return CauseUnknown
}
