package dto

import (
	"errors"
	"net/http"

	"github.com/labcore/backend/internal/domain/lab"
	"github.com/labcore/backend/internal/domain/security"
	"github.com/labcore/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep their own code.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ERR_ROUTE_NOT_FOUND"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
)

// categoryHTTPStatus is the default status per error category
var categoryHTTPStatus = map[shared.ErrorCategory]int{
	shared.CategoryInput:        http.StatusBadRequest,
	shared.CategoryNotPermitted: http.StatusConflict,
	shared.CategoryNotFound:     http.StatusNotFound,
	shared.CategoryIntegrity:    http.StatusInternalServerError,
	shared.CategoryInternal:     http.StatusInternalServerError,
}

// codeHTTPStatus overrides the category default for specific codes
var codeHTTPStatus = map[string]int{
	// well-formed requests the lab cannot fulfil
	shared.ErrInsufficientStock.Code: http.StatusUnprocessableEntity,
	lab.ErrNoTestsSelected.Code:      http.StatusUnprocessableEntity,

	// authorization refusals
	security.ErrApprovalDenied.Code:        http.StatusForbidden,
	security.ErrApprovalNotConfigured.Code: http.StatusForbidden,
}

// GetHTTPStatus returns the status for err. Non-domain errors are 500.
func GetHTTPStatus(err error) int {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if status, ok := codeHTTPStatus[domainErr.Code]; ok {
			return status
		}
	}
	if status, ok := categoryHTTPStatus[shared.CategoryOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorInfoFrom builds the error body for err. Internal errors never leak
// their message; integrity errors keep their code so operators can alarm on it.
func ErrorInfoFrom(err error) *ErrorInfo {
	category := shared.CategoryOf(err)

	var domainErr *shared.DomainError
	if category == shared.CategoryInternal || !errors.As(err, &domainErr) {
		return &ErrorInfo{
			Code:     ErrCodeInternal,
			Message:  "An unexpected error occurred",
			Category: string(shared.CategoryInternal),
		}
	}
	return &ErrorInfo{
		Code:     domainErr.Code,
		Message:  domainErr.Message,
		Category: string(category),
		Details:  domainErr.Details,
	}
}
