package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/labcore/backend/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors translates validator errors into field details
func FormatValidationErrors(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: validationMessage(e),
		})
	}
	return details
}

// HandleBindError writes a 400 for a failed ShouldBindJSON
func HandleBindError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	if details := FormatValidationErrors(err); details != nil {
		c.Set(ErrorCodeKey, dto.ErrCodeValidation)
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", requestID, details))
		return
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		c.Set(ErrorCodeKey, dto.ErrCodeRequestTooLarge)
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseFromInfo(&dto.ErrorInfo{
			Code:    dto.ErrCodeRequestTooLarge,
			Message: "Request body exceeds maximum allowed size",
		}, requestID))
		return
	}

	c.Set(ErrorCodeKey, dto.ErrCodeInvalidJSON)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseFromInfo(&dto.ErrorInfo{
		Code:     dto.ErrCodeInvalidJSON,
		Message:  "Request body is not valid JSON",
		Category: "input",
	}, requestID))
}

// fieldPath drops the top-level struct name: "results[0].result_id"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Invalid UUID format"
	case "min":
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
