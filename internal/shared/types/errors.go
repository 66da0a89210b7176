package types

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates factory failures
type ErrorKind uint8

const (
	KindProgramInitializationFailed ErrorKind = iota
	KindProgramInitializationFailedWithContext
	KindUnauthorized
	KindUnexpectedFTEvent
	KindMessageSendError
	KindNotFound
	KindIDNotFoundInAddress
	KindIDNotFound
)

var kindNames = [...]string{
	KindProgramInitializationFailed:            "ProgramInitializationFailed",
	KindProgramInitializationFailedWithContext: "ProgramInitializationFailedWithContext",
	KindUnauthorized:                           "Unauthorized",
	KindUnexpectedFTEvent:                      "UnexpectedFTEvent",
	KindMessageSendError:                       "MessageSendError",
	KindNotFound:                               "NotFound",
	KindIDNotFoundInAddress:                    "IdNotFoundInAddress",
	KindIDNotFound:                             "IdNotFound",
}

// String returns the wire name of the kind
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// ParseErrorKind resolves a wire name
func ParseErrorKind(name string) (ErrorKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return ErrorKind(i), true
		}
	}
	return 0, false
}

// HasDetail reports whether the kind carries a detail string
func (k ErrorKind) HasDetail() bool {
	return k == KindProgramInitializationFailedWithContext
}

// FactoryError is the failure reply of a command.
// UnexpectedFTEvent, MessageSendError and NotFound have no producer; they
// stay in the enumeration so the reply schema does not change.
type FactoryError struct {
	Kind   ErrorKind
	Detail string
}

func (e *FactoryError) Error() string {
	if e.Kind.HasDetail() {
		return fmt.Sprintf("factory: %s: %s", e.Kind, e.Detail)
	}
	return "factory: " + e.Kind.String()
}

// Is matches any FactoryError of the same kind
func (e *FactoryError) Is(target error) bool {
	t, ok := target.(*FactoryError)
	return ok && t.Kind == e.Kind
}

var (
	ErrProgramInitializationFailed = &FactoryError{Kind: KindProgramInitializationFailed}
	ErrUnauthorized                = &FactoryError{Kind: KindUnauthorized}
	ErrUnexpectedFTEvent           = &FactoryError{Kind: KindUnexpectedFTEvent}
	ErrMessageSendError            = &FactoryError{Kind: KindMessageSendError}
	ErrNotFound                    = &FactoryError{Kind: KindNotFound}
	ErrIDNotFoundInAddress         = &FactoryError{Kind: KindIDNotFoundInAddress}
	ErrIDNotFound                  = &FactoryError{Kind: KindIDNotFound}

	// ErrProgramInitializationFailedWithContext matches any detail
	ErrProgramInitializationFailedWithContext = &FactoryError{Kind: KindProgramInitializationFailedWithContext}
)

// InitFailure builds a ProgramInitializationFailedWithContext error
func InitFailure(err error) *FactoryError {
	return &FactoryError{Kind: KindProgramInitializationFailedWithContext, Detail: err.Error()}
}

// AsFactoryError extracts a FactoryError from err. Errors of any other type
// surface as ProgramInitializationFailedWithContext carrying their message.
func AsFactoryError(err error) *FactoryError {
	var fe *FactoryError
	if errors.As(err, &fe) {
		return fe
	}
	return InitFailure(err)
}
