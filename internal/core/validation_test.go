// AngelaMos | 2026
// validation_test.go

package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
}

func TestDecodeAndValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		details []string
	}{
		{
			name: "valid",
			body: `{"username":"ada","email":"ada@example.com"}`,
		},
		{
			name:    "malformed json",
			body:    `{"username":`,
			wantErr: true,
		},
		{
			name:    "unknown field",
			body:    `{"username":"ada","email":"ada@example.com","admin":true}`,
			wantErr: true,
		},
		{
			name:    "rule failures use json names",
			body:    `{"username":"ad","email":"nope"}`,
			wantErr: true,
			details: []string{
				"username must be at least 3 characters",
				"email must be a valid email address",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst signupBody
			err := DecodeAndValidate(req, v, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "ada", dst.Username)
				return
			}

			require.Error(t, err)
			assert.True(t, HasCode(err, CodeValidation))
			assert.ErrorIs(t, err, ErrInvalidInput)
			if tt.details != nil {
				appErr, _ := AsAppError(err)
				assert.Equal(t, tt.details, appErr.Details)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f", false},
		{"42", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userID", tt.raw)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			id, err := PathID(req, "userID")
			if tt.wantErr {
				assert.True(t, HasCode(err, CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, id)
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&size=abc", nil)

	assert.Equal(t, 3, QueryInt(req, "page", 1))
	assert.Equal(t, 20, QueryInt(req, "size", 20))
	assert.Equal(t, 7, QueryInt(req, "missing", 7))
}
