package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code and message so copies made by WithDetails
// still compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying details.
// Sentinels are shared, so the receiver is never modified.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Common errors
var (
	// 400 Bad Request
	ErrValidation = New(http.StatusBadRequest, "Please correct the errors below.")

	// 401 Unauthorized
	ErrUnauthorized       = New(http.StatusUnauthorized, "Login required.")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Email or Password did not match.")

	// 403 Forbidden
	ErrForbidden        = New(http.StatusForbidden, "You are not allowed for this operation.")
	ErrPermissionDenied = New(http.StatusForbidden, "You are not allowed for this operation")

	// 404 Not Found
	ErrNotFound        = New(http.StatusNotFound, "Not found.")
	ErrNothingFound    = New(http.StatusNotFound, "Nothing Found.")
	ErrNoTopics        = New(http.StatusNotFound, "No Topics Available")
	ErrUserNotExist    = New(http.StatusNotFound, "User does not exist.")
	ErrUserNotFound    = New(http.StatusNotFound, "User does not exist")
	ErrRoomNotFound    = New(http.StatusNotFound, "Room does not exist.")
	ErrRoomGone        = New(http.StatusNotFound, "Room not found.")
	ErrMessageNotFound = New(http.StatusNotFound, "Message does not exist")

	// 409 Conflict
	ErrUsernameExists = New(http.StatusConflict, "A user with that username already exists.")
	ErrEmailExists    = New(http.StatusConflict, "User with this Email address already exists.")

	// 413 Payload Too Large
	ErrFileTooLarge = New(http.StatusRequestEntityTooLarge, "Avatar must be at most 2 MB.")

	// 429 Too Many Requests
	ErrTooManyRequests = New(http.StatusTooManyRequests, "Too many requests, please try again later.")

	// 500 Internal Server Error
	ErrInternal = New(http.StatusInternalServerError, "Something went wrong.")
)

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// GetMessage returns the error message
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}

// GetDetails returns the details attached with WithDetails, if any.
func GetDetails(err error) interface{} {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
