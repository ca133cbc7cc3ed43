// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrBusinessRule      = errors.New("business rule violation")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenRevoked      = errors.New("token revoked")
)

const (
	CodeNotFound          = "RESOURCE_NOT_FOUND"
	CodeDuplicate         = "DUPLICATE_RESOURCE"
	CodeValidation        = "VALIDATION_ERROR"
	CodeDatabaseOperation = "DATABASE_OPERATION_ERROR"
	CodeUnauthorized      = "AUTHENTICATION_ERROR"
	CodeForbidden         = "AUTHORIZATION_ERROR"
	CodeInternal          = "INTERNAL_ERROR"

	DomainSecurity = "security"
	DomainSystem   = "system"
)

// AppError is a typed failure carrying everything the HTTP layer needs to
// render it. Err is the sentinel kind and stays reachable through errors.Is.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Domain     string
	Details    []string
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

func NewAppError(
	err error,
	message string,
	statusCode int,
	code string,
) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
		Domain:     DomainSystem,
	}
}

func (e *AppError) WithDomain(domain string) *AppError {
	e.Domain = domain
	return e
}

func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = append(e.Details, details...)
	return e
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func NotFoundError(resource, field string, value any) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found with %s '%v'", resource, field, value),
		http.StatusNotFound,
		CodeNotFound,
	).WithDomain(resource)
}

func DuplicateResourceError(resource, field string, value any) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists with %s '%v'", resource, field, value),
		http.StatusConflict,
		CodeDuplicate,
	).WithDomain(resource)
}

func BusinessRuleError(message, code, domain string) *AppError {
	return NewAppError(
		ErrBusinessRule,
		message,
		http.StatusBadRequest,
		code,
	).WithDomain(domain)
}

func DatabaseOperationError(operation string) *AppError {
	return NewAppError(
		ErrDatabaseOperation,
		fmt.Sprintf("database operation failed: %s", operation),
		http.StatusInternalServerError,
		CodeDatabaseOperation,
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		CodeUnauthorized,
	).WithDomain(DomainSecurity)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(
		ErrForbidden,
		message,
		http.StatusForbidden,
		CodeForbidden,
	).WithDomain(DomainSecurity)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	).WithDomain(DomainSecurity)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"token is invalid",
		http.StatusUnauthorized,
		"INVALID_TOKEN",
	).WithDomain(DomainSecurity)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		ErrTokenRevoked,
		"token has been revoked",
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
	).WithDomain(DomainSecurity)
}

// toAppError maps any error onto an AppError, falling back to the sentinel
// kind it wraps.
func toAppError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "resource not found", http.StatusNotFound, CodeNotFound)
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(err, "resource already exists", http.StatusConflict, CodeDuplicate)
	case errors.Is(err, ErrBusinessRule):
		return NewAppError(err, err.Error(), http.StatusBadRequest, "BUSINESS_RULE_VIOLATION")
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, err.Error(), http.StatusBadRequest, CodeValidation)
	case errors.Is(err, ErrDatabaseOperation):
		return DatabaseOperationError("unexpected empty result")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenRevoked):
		return TokenRevokedError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	default:
		return NewAppError(
			err,
			"an unexpected error occurred",
			http.StatusInternalServerError,
			CodeInternal,
		)
	}
}
