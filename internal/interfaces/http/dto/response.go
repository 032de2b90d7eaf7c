package dto

// Response is the envelope of every API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	Category  string             `json:"category,omitempty"`
	Details   map[string]any     `json:"details,omitempty"`
	Fields    []ValidationDetail `json:"fields,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
}

// ValidationDetail is one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
}

// NewErrorResponseFromInfo wraps info, stamping the request id
func NewErrorResponseFromInfo(info *ErrorInfo, requestID string) Response {
	info.RequestID = requestID
	return Response{Success: false, Error: info}
}

// NewValidationErrorResponse creates a 400 body listing the rejected fields
func NewValidationErrorResponse(message, requestID string, fields []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			Category:  "input",
			Fields:    fields,
			RequestID: requestID,
		},
	}
}
