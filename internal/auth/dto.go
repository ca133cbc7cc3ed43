// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

// LoginRequest takes either the username or the email in Login.
type LoginRequest struct {
	Login    string `json:"login"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type MeResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type LoginResponse struct {
	User  MeResponse    `json:"user"`
	Token TokenResponse `json:"token"`
}

func ToMeResponse(u *UserInfo) MeResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return MeResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    roles,
	}
}
