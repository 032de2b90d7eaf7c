package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that errors carrying details
// still satisfy errors.Is against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an extra detail attached
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// ErrorCategory groups error codes by how the caller is expected to react
type ErrorCategory string

const (
	// CategoryInput means the caller should fix the input and retry
	CategoryInput ErrorCategory = "input"
	// CategoryNotPermitted covers state-machine and authorization refusals
	CategoryNotPermitted ErrorCategory = "not_permitted"
	// CategoryIntegrity is an operational alarm, not a routine user error
	CategoryIntegrity ErrorCategory = "integrity"
	// CategoryNotFound means a required record does not exist
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryInternal is anything that is not a domain error
	CategoryInternal ErrorCategory = "internal"
)

var categoryByCode = map[string]ErrorCategory{}

// RegisterErrorCategory associates an error code with a category.
// Bounded contexts call this from init for the codes they own.
func RegisterErrorCategory(category ErrorCategory, codes ...string) {
	for _, code := range codes {
		categoryByCode[code] = category
	}
}

func init() {
	RegisterErrorCategory(CategoryNotFound, ErrNotFound.Code)
	RegisterErrorCategory(CategoryInput, ErrInvalidInput.Code, ErrInsufficientStock.Code)
	RegisterErrorCategory(CategoryNotPermitted, ErrInvalidState.Code, ErrConcurrencyConflict.Code)
}

// CategoryOf classifies an error. Unknown domain codes default to input.
func CategoryOf(err error) ErrorCategory {
	var de *DomainError
	if !errors.As(err, &de) {
		return CategoryInternal
	}
	if c, ok := categoryByCode[de.Code]; ok {
		return c
	}
	return CategoryInput
}
