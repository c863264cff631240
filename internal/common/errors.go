package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int         `json:"-"`
	Success    bool        `json:"success"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%d %s: %s (%v)", e.StatusCode, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// WithDetails and WithMessage return modified copies; the package-level
// values below are shared and must stay untouched.
func (e *APIError) WithDetails(details interface{}) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// Is matches on status and code, so errors.Is(err, ErrNotFound) holds for
// any copy made by WithDetails or WithMessage.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

var (
	ErrBadRequest      = NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "The request is invalid.")
	ErrUnauthorized    = NewAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required.")
	ErrForbidden       = NewAPIError(http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource.")
	ErrNotFound        = NewAPIError(http.StatusNotFound, "NOT_FOUND", "The requested resource could not be found.")
	ErrConflict        = NewAPIError(http.StatusConflict, "CONFLICT", "The request conflicts with the current state of the resource.")
	ErrTooManyRequests = NewAPIError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests. Please slow down.")
	ErrInternalServer  = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred on the server.")
)

// IsAPIError unwraps err to an *APIError if it holds one.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// NewValidationAPIError is the 400 returned for field-level input problems.
func NewValidationAPIError(details interface{}) *APIError {
	return NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed.").WithDetails(details)
}

// BindingError converts the error of a ShouldBind* call.
func BindingError(err error) *APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationAPIError(FormatValidationErrors(verrs))
	}
	return ErrBadRequest.WithDetails(err.Error())
}

// validationMessages maps a validator tag to a message taking the field name
// and the tag parameter.
var validationMessages = map[string]string{
	"required": "The %[1]s field is required.",
	"email":    "The %[1]s field must be a valid email address.",
	"min":      "The %[1]s field must be at least %[2]s.",
	"max":      "The %[1]s field may not be greater than %[2]s.",
	"oneof":    "The %[1]s field must be one of: %[2]s.",
	"gte":      "The %[1]s field must be greater than or equal to %[2]s.",
	"lte":      "The %[1]s field must be less than or equal to %[2]s.",
	"uuid":     "The %[1]s field must be a valid id.",
}

// FormatValidationErrors keys one message per failing field.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		tmpl, ok := validationMessages[fe.Tag()]
		if !ok {
			out[fe.Field()] = fmt.Sprintf("The %s field failed the %q rule.", strings.ToLower(fe.Field()), fe.Tag())
			continue
		}
		out[fe.Field()] = fmt.Sprintf(tmpl, strings.ToLower(fe.Field()), fe.Param())
	}
	return out
}
