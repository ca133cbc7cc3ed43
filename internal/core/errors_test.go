// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsKeepSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		status   int
		code     string
		domain   string
		message  string
	}{
		{
			name:     "not found",
			err:      NotFoundError("user", "id", "42"),
			sentinel: ErrNotFound,
			status:   http.StatusNotFound,
			code:     CodeNotFound,
			domain:   "user",
			message:  "user not found with id '42'",
		},
		{
			name:     "duplicate",
			err:      DuplicateResourceError("role", "name", "ADMIN"),
			sentinel: ErrDuplicateKey,
			status:   http.StatusConflict,
			code:     CodeDuplicate,
			domain:   "role",
			message:  "role already exists with name 'ADMIN'",
		},
		{
			name:     "business rule",
			err:      BusinessRuleError("too young", "AGE_RESTRICTION", "user"),
			sentinel: ErrBusinessRule,
			status:   http.StatusBadRequest,
			code:     "AGE_RESTRICTION",
			domain:   "user",
			message:  "too young",
		},
		{
			name:     "unauthorized default message",
			err:      UnauthorizedError(""),
			sentinel: ErrUnauthorized,
			status:   http.StatusUnauthorized,
			code:     CodeUnauthorized,
			domain:   DomainSecurity,
			message:  "authentication required",
		},
		{
			name:     "forbidden",
			err:      ForbiddenError("admins only"),
			sentinel: ErrForbidden,
			status:   http.StatusForbidden,
			code:     CodeForbidden,
			domain:   DomainSecurity,
			message:  "admins only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)

			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.True(t, IsAppError(wrapped))

			appErr, ok := AsAppError(wrapped)
			require.True(t, ok)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.domain, appErr.Domain)
			assert.Equal(t, tt.message, appErr.Message)
			assert.True(t, HasCode(wrapped, tt.code))
		})
	}
}

func TestToAppErrorFallsBackOnSentinel(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("get user: %w", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("create role: %w", ErrDuplicateKey), http.StatusConflict, CodeDuplicate},
		{fmt.Errorf("parse: %w", ErrInvalidInput), http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("jwt: %w", ErrTokenExpired), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{fmt.Errorf("jwt: %w", ErrTokenRevoked), http.StatusUnauthorized, "TOKEN_REVOKED"},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			appErr := toAppError(tt.err)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestJSONErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, BusinessRuleError("age below minimum", "AGE_RESTRICTION", "user").
		WithDetails("birth_date"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "AGE_RESTRICTION", body.Error.Code)
	assert.Equal(t, "user", body.Error.Domain)
	assert.Equal(t, http.StatusBadRequest, body.Error.Status)
	assert.Equal(t, []string{"birth_date"}, body.Error.Details)
	assert.False(t, body.Error.Timestamp.IsZero())
}

func TestPaginatedMeta(t *testing.T) {
	rec := httptest.NewRecorder()

	Paginated(rec, []string{"a", "b"}, 2, 2, 5)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, 3, body.Meta.TotalPages)
	assert.Equal(t, 5, body.Meta.Total)
}
