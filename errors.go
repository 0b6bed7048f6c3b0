package corvid

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error dispositions a registration or
// dispatch call can raise.
type Kind int

const (
	// KindPatternError: a pattern failed to compile or declared duplicate
	// parameter names.
	KindPatternError Kind = iota
	// KindDiscoveryError: a candidate type could not be turned into a
	// Resource (no zero-arg constructor, missing bound method, wrong
	// scope plumbing).
	KindDiscoveryError
	// KindNotFound: Route(ctx) found zero enabled matching routes.
	KindNotFound
	// KindHandlerFailure: a handler, Before, or After returned an error.
	KindHandlerFailure
	// KindValidation: a Context.Bind call decoded a request body that
	// failed struct-tag validation (see validation.go).
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindPatternError:
		return "PatternError"
	case KindDiscoveryError:
		return "DiscoveryError"
	case KindNotFound:
		return "NotFound"
	case KindHandlerFailure:
		return "HandlerFailure"
	case KindValidation:
		return "Validation"
	default:
		return "UnknownError"
	}
}

// RouterError is the error type raised by registration and dispatch.
// Callers distinguish kinds with errors.As and (*RouterError).Kind, or
// with the Is* helpers below.
type RouterError struct {
	kind    Kind
	Message string
	Err     error
}

func (e *RouterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

func (e *RouterError) Unwrap() error { return e.Err }

// Kind reports which of the five dispositions produced this error.
func (e *RouterError) Kind() Kind { return e.kind }

func newError(k Kind, msg string) *RouterError {
	return &RouterError{kind: k, Message: msg}
}

func wrapError(k Kind, msg string, err error) *RouterError {
	return &RouterError{kind: k, Message: msg, Err: err}
}

// PatternError reports a pattern that failed to compile.
func PatternError(msg string) *RouterError { return newError(KindPatternError, msg) }

// DiscoveryError reports a candidate type that could not be discovered.
func DiscoveryError(msg string) *RouterError { return newError(KindDiscoveryError, msg) }

// WrapDiscoveryError wraps an underlying reflection failure.
func WrapDiscoveryError(msg string, err error) *RouterError {
	return wrapError(KindDiscoveryError, msg, err)
}

// NotFoundError reports that no enabled route matched a request.
func NotFoundError(msg string) *RouterError { return newError(KindNotFound, msg) }

// HandlerFailure wraps a handler/before/after failure.
func HandlerFailure(err error) *RouterError {
	return wrapError(KindHandlerFailure, "handler failed", err)
}

// IsNotFound reports whether err is (or wraps) a NotFound RouterError.
func IsNotFound(err error) bool {
	var re *RouterError
	return errors.As(err, &re) && re.kind == KindNotFound
}

// IsHandlerFailure reports whether err is (or wraps) a HandlerFailure.
func IsHandlerFailure(err error) bool {
	var re *RouterError
	return errors.As(err, &re) && re.kind == KindHandlerFailure
}

// ValidationFailure wraps a failed Validate/ValidateVar call into a
// RouterError of KindValidation, so a failed Context.Bind can be
// inspected with errors.As/Is alongside the other four dispositions
// instead of a validation-only error type with no RouterError relation.
func ValidationFailure(errs ValidationErrors) *RouterError {
	return &RouterError{kind: KindValidation, Message: "validation failed", Err: errs}
}

// IsValidation reports whether err is (or wraps) a KindValidation
// RouterError.
func IsValidation(err error) bool {
	var re *RouterError
	return errors.As(err, &re) && re.kind == KindValidation
}

// AsValidationErrors extracts the ValidationErrors a KindValidation
// RouterError carries, if err is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var re *RouterError
	if !errors.As(err, &re) || re.kind != KindValidation {
		return nil, false
	}
	errs, ok := re.Err.(ValidationErrors)
	return errs, ok
}
