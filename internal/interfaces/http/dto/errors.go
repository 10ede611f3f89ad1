package dto

import (
	"errors"
	"net/http"

	"github.com/erp/ledger/internal/domain/shared"
)

// Transport-level error codes. Domain errors keep their own code
// (INVOICE_NOT_FOUND, ILLEGAL_TRANSITION, ...) and only borrow a status.
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeServiceDown      = "SERVICE_UNAVAILABLE"
)

// KindHTTPStatus maps domain error kinds to HTTP status codes.
// Business-rule rejections are client errors: the request was well formed
// but the balances do not allow it.
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:          http.StatusBadRequest,
	shared.KindNotFound:            http.StatusNotFound,
	shared.KindIllegalTransition:   http.StatusBadRequest,
	shared.KindInsufficientStock:   http.StatusBadRequest,
	shared.KindInsufficientBalance: http.StatusBadRequest,
	shared.KindExceedsBalance:      http.StatusBadRequest,
	shared.KindLimitExceeded:       http.StatusBadRequest,
	shared.KindConflict:            http.StatusConflict,
	shared.KindPersistence:         http.StatusInternalServerError,
}

var codeHTTPStatus = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeServiceDown:      http.StatusServiceUnavailable,
}

// StatusForKind returns the HTTP status for a domain error kind, 500 when unknown
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHTTPStatus returns the HTTP status for a transport error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := codeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorFrom converts err into a status code and the error body of the envelope.
// Persistence failures and unknown errors never leak their cause to the client.
func ErrorFrom(err error) (int, *ErrorInfo) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, &ErrorInfo{
			Code:    ErrCodeInternal,
			Message: "An unexpected error occurred",
		}
	}
	info := &ErrorInfo{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Details: domainErr.Details,
	}
	if domainErr.Kind == shared.KindPersistence {
		info.Details = nil
	}
	return StatusForKind(domainErr.Kind), info
}
