package errors

import (
	"net/http"

	"gramosi/internal/errors"
)

// Kind classifies an application error independently of its transport status.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindDelivery   Kind = "delivery"
	KindUnexpected Kind = "unexpected"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Error classification
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		kind:      kind,
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches any BaseError carrying the same business code, so copies made by
// WithDetails still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == other.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) Kind() Kind {
	return e.kind
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors
	ErrValidationFailed = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid input data",
		"",
	)

	ErrPasswordMismatch = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"PASSWORD_MISMATCH",
		"Password and confirmation do not match",
		"",
	)

	ErrOTPRequired = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"OTP_REQUIRED",
		"OTP is required",
		"",
	)

	ErrAlreadyVerified = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"ACCOUNT_ALREADY_VERIFIED",
		"Account is already verified",
		"",
	)

	ErrCannotFollowSelf = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"CANNOT_FOLLOW_SELF",
		"You cannot follow yourself",
		"",
	)

	ErrMediaRequired = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"MEDIA_REQUIRED",
		"An image or video is required",
		"",
	)

	ErrUnsupportedMedia = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"UNSUPPORTED_MEDIA_TYPE",
		"Only image (jpeg, png, gif, webp) and video (mp4, webm, quicktime) files are allowed",
		"",
	)

	ErrMediaTooLarge = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"MEDIA_TOO_LARGE",
		"The uploaded file exceeds the allowed size",
		"",
	)

	// Conflict errors
	ErrEmailTaken = NewBaseError(
		KindConflict,
		http.StatusBadRequest,
		"EMAIL_TAKEN",
		"Email already registered",
		"",
	)

	ErrUserNameTaken = NewBaseError(
		KindConflict,
		http.StatusBadRequest,
		"USERNAME_TAKEN",
		"Username already taken",
		"",
	)

	ErrAccountTaken = NewBaseError(
		KindConflict,
		http.StatusBadRequest,
		"ACCOUNT_TAKEN",
		"Email or username already taken",
		"",
	)

	// Authentication errors
	ErrInvalidCredentials = NewBaseError(
		KindAuth,
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Incorrect email/username or password",
		"",
	)

	ErrAccountNotVerified = NewBaseError(
		KindAuth,
		http.StatusForbidden,
		"ACCOUNT_NOT_VERIFIED",
		"Please verify your account before logging in",
		"",
	)

	ErrInvalidOTP = NewBaseError(
		KindAuth,
		http.StatusBadRequest,
		"INVALID_OTP",
		"Invalid OTP",
		"",
	)

	ErrInvalidCurrentPassword = NewBaseError(
		KindAuth,
		http.StatusBadRequest,
		"INVALID_CURRENT_PASSWORD",
		"Current password is incorrect",
		"",
	)

	ErrUnauthenticated = NewBaseError(
		KindAuth,
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"You are not logged in, please log in to get access",
		"",
	)

	ErrSessionInvalid = NewBaseError(
		KindAuth,
		http.StatusUnauthorized,
		"INVALID_SESSION",
		"Invalid or expired session, please log in again",
		"",
	)

	ErrSessionAccountGone = NewBaseError(
		KindAuth,
		http.StatusUnauthorized,
		"SESSION_ACCOUNT_GONE",
		"The account belonging to this session no longer exists",
		"",
	)

	ErrForbidden = NewBaseError(
		KindAuth,
		http.StatusForbidden,
		"FORBIDDEN",
		"You are not allowed to perform this action",
		"",
	)

	// Not found errors
	ErrAccountNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"No account found with this email or username",
		"",
	)

	ErrResetCodeNotMatched = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"RESET_CODE_NOT_MATCHED",
		"No matching account for this reset code",
		"",
	)

	ErrUserNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrPostNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"POST_NOT_FOUND",
		"Post not found",
		"",
	)

	ErrNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	// Delivery errors
	ErrCodeDeliveryFailed = NewBaseError(
		KindDelivery,
		http.StatusInternalServerError,
		"CODE_DELIVERY_FAILED",
		"There was an error sending the email, please try again later",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		KindUnexpected,
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Something went wrong, please try again later",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) Kind() Kind {
	return KindUnexpected
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindUnexpected
}
