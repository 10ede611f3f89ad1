package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError. The HTTP layer maps kinds to status codes.
type ErrorKind string

const (
	KindValidation          ErrorKind = "VALIDATION"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindIllegalTransition   ErrorKind = "ILLEGAL_TRANSITION"
	KindInsufficientStock   ErrorKind = "INSUFFICIENT_STOCK"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindExceedsBalance      ErrorKind = "EXCEEDS_BALANCE"
	KindLimitExceeded       ErrorKind = "LIMIT_EXCEEDED"
	KindConflict            ErrorKind = "CONFLICT"
	KindPersistence         ErrorKind = "PERSISTENCE"
)

// IsBusinessRule reports whether the kind is a rule rejection computed from balances.
func (k ErrorKind) IsBusinessRule() bool {
	switch k {
	case KindInsufficientStock, KindInsufficientBalance, KindExceedsBalance, KindLimitExceeded:
		return true
	}
	return false
}

// DomainError represents a domain-level error.
// Details carries the offending field/value so callers can render a precise message.
type DomainError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches on code. A kind sentinel (Code equal to its Kind) matches every error of that kind,
// so errors.Is(err, ErrNotFound) holds for INVOICE_NOT_FOUND as well.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == string(t.Kind) && t.Kind == e.Kind
}

// WithDetail returns a copy of the error with an extra detail entry.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// WithField records the offending input field and its value.
func (e *DomainError) WithField(field string, value any) *DomainError {
	return e.WithDetail("field", field).WithDetail("value", value)
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for malformed or missing input.
func NewValidationError(code, field, message string) *DomainError {
	return NewDomainError(KindValidation, code, message).WithDetail("field", field)
}

// NewNotFoundError creates an error for an entity that does not exist or is inactive in the tenant.
func NewNotFoundError(entity string, id any) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    fmt.Sprintf("%s_NOT_FOUND", toUpperSnake(entity)),
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]any{"entity": entity, "id": fmt.Sprint(id)},
	}
}

// NewIllegalTransitionError names both the current and the attempted state.
func NewIllegalTransitionError(entity, current, attempted string) *DomainError {
	return &DomainError{
		Kind:    KindIllegalTransition,
		Code:    "ILLEGAL_TRANSITION",
		Message: fmt.Sprintf("cannot move %s from %s to %s", entity, current, attempted),
		Details: map[string]any{"entity": entity, "current": current, "attempted": attempted},
	}
}

// WrapPersistenceError marks a storage failure. Domain errors pass through untouched.
func WrapPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return &DomainError{
		Kind:    KindPersistence,
		Code:    "PERSISTENCE_ERROR",
		Message: op + " failed",
		cause:   err,
	}
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound            = NewDomainError(KindNotFound, string(KindNotFound), "Resource not found")
	ErrInvalidInput        = NewDomainError(KindValidation, string(KindValidation), "Invalid input provided")
	ErrIllegalTransition   = NewDomainError(KindIllegalTransition, string(KindIllegalTransition), "Transition not allowed in current state")
	ErrInsufficientStock   = NewDomainError(KindInsufficientStock, string(KindInsufficientStock), "Insufficient stock available")
	ErrInsufficientBalance = NewDomainError(KindInsufficientBalance, string(KindInsufficientBalance), "Insufficient balance available")
	ErrExceedsBalance      = NewDomainError(KindExceedsBalance, string(KindExceedsBalance), "Amount exceeds balance due")
	ErrLimitExceeded       = NewDomainError(KindLimitExceeded, string(KindLimitExceeded), "Configured limit exceeded")
	ErrConflict            = NewDomainError(KindConflict, string(KindConflict), "Resource was modified by another process")
	ErrPersistence         = NewDomainError(KindPersistence, string(KindPersistence), "Persistence failure")
)

// Warning is a non-blocking notice returned alongside a successful result.
type Warning struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func toUpperSnake(s string) string {
	out := make([]byte, 0, len(s)+4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '-':
			out = append(out, '_')
		case c >= 'A' && c <= 'Z' && i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z':
			out = append(out, '_', c)
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
