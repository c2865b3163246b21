package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidCode      ErrorCode = "INVALID_CODE"
	ErrCodeInvalidLevel     ErrorCode = "INVALID_LEVEL"
	ErrCodeInvalidShiftTime ErrorCode = "INVALID_SHIFT_TIME"
	ErrCodeShiftTooShort    ErrorCode = "SHIFT_TOO_SHORT"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS_CODE"

	ErrCodeEmployeeNotFound     ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeDepartmentNotFound   ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodePositionNotFound     ErrorCode = "WORK_POSITION_NOT_FOUND"
	ErrCodeShiftNotFound        ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeAssignmentNotFound   ErrorCode = "SHIFT_ASSIGNMENT_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateCode        ErrorCode = "DUPLICATE_CODE"
	ErrCodeDuplicateAssignment  ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeAlreadyCheckedIn     ErrorCode = "ALREADY_CHECKED_IN"
	ErrCodeNotCheckedIn         ErrorCode = "NOT_CHECKED_IN"
	ErrCodeAlreadyCheckedOut    ErrorCode = "ALREADY_CHECKED_OUT"
	ErrCodeDepartmentHasMembers ErrorCode = "DEPARTMENT_HAS_EMPLOYEES"

	ErrCodeAccessDenied       ErrorCode = "ACCESS_DENIED"
	ErrCodeNoAccessContext    ErrorCode = "NO_ACCESS_CONTEXT"
	ErrCodeUnknownRole        ErrorCode = "UNKNOWN_ROLE"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked       ErrorCode = "TOKEN_REVOKED"
	ErrCodeInvalidResetToken  ErrorCode = "INVALID_RESET_TOKEN"
	ErrCodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func newAppError(typ ErrorType, status int, code ErrorCode, message string) *AppError {
	return &AppError{Type: typ, Code: code, Message: message, StatusCode: status}
}

// Error prefers the first field message so validation failures read naturally in logs.
func (e *AppError) Error() string {
	if first, ok := e.fieldMessages(); ok {
		return first[0]
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message, falling back to Message.
func (e *AppError) GetDetailedMessage() string {
	if messages, ok := e.fieldMessages(); ok {
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) fieldMessages() ([]string, bool) {
	ve, ok := e.Details.(ValidationErrors)
	if !ok || len(ve.Errors) == 0 {
		return nil, false
	}
	messages := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		messages[i] = fe.Message
	}
	return messages, true
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type and code, so copies made by WithCause
// or WithDetails still satisfy errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == e.Type && t.Code == e.Code
}

// WithCause returns a copy carrying cause.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, code, message)
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError("Validation failed", ErrCodeValidationFailed).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}},
	})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, code, message)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, "INTERNAL_ERROR", message).WithCause(cause)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, code, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return newAppError(ErrorTypeRateLimited, http.StatusTooManyRequests, ErrCodeTooManyRequests, message)
}

// Sentinels are shared and never mutated; WithCause and WithDetails copy.
var (
	ErrEmployeeNotFound   = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrDepartmentNotFound = NewNotFoundError("Department not found", ErrCodeDepartmentNotFound)
	ErrPositionNotFound   = NewNotFoundError("Work position not found", ErrCodePositionNotFound)
	ErrShiftNotFound      = NewNotFoundError("Shift not found", ErrCodeShiftNotFound)
	ErrAssignmentNotFound = NewNotFoundError("Shift assignment not found", ErrCodeAssignmentNotFound)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)

	ErrAccessDenied    = NewForbiddenError("You do not have access to this resource", ErrCodeAccessDenied)
	ErrNoAccessContext = NewUnauthorizedError("Authentication required", ErrCodeNoAccessContext)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrTokenRevoked       = NewUnauthorizedError("Token has been revoked", ErrCodeTokenRevoked)
	ErrInvalidResetToken  = NewValidationError("Invalid or expired reset token", ErrCodeInvalidResetToken)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
