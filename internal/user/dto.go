// AngelaMos | 2026
// dto.go

package user

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/go-accounts/internal/address"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/phone"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
)

const dateLayout = time.DateOnly

// UserRequest is the full set of user fields accepted on create and on
// update. Updates replace every field, so the password is always required.
type UserRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=50"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

func (r UserRequest) ToUser() (*User, error) {
	birthDate, err := time.Parse(dateLayout, r.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("parse birth_date: %w", core.ErrInvalidInput)
	}

	return &User{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: birthDate,
	}, nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

type CompleteUserRequest struct {
	User      UserRequest              `json:"user"`
	Addresses []address.AddressRequest `json:"addresses" validate:"omitempty,dive"`
	Phones    []phone.PhoneRequest     `json:"phones"    validate:"omitempty,dive"`
	RoleIDs   []string                 `json:"role_ids"  validate:"omitempty,dive,uuid"`
}

func (r CompleteUserRequest) ToCompleteUser() (CompleteUser, error) {
	u, err := r.User.ToUser()
	if err != nil {
		return CompleteUser{}, err
	}

	in := CompleteUser{User: u, RoleIDs: r.RoleIDs}
	for _, a := range r.Addresses {
		in.Addresses = append(in.Addresses, *a.ToAddress())
	}
	for _, p := range r.Phones {
		in.Phones = append(in.Phones, *p.ToPhone())
	}
	return in, nil
}

type UserResponse struct {
	ID        string                    `json:"id"`
	Username  string                    `json:"username"`
	Email     string                    `json:"email"`
	FirstName string                    `json:"first_name"`
	LastName  string                    `json:"last_name"`
	BirthDate string                    `json:"birth_date"`
	Enabled   bool                      `json:"enabled"`
	Roles     []role.RoleResponse       `json:"roles"`
	Addresses []address.AddressResponse `json:"addresses"`
	Phones    []phone.PhoneResponse     `json:"phones"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	CreatedBy string                    `json:"created_by"`
	UpdatedBy string                    `json:"updated_by"`
}

// UserSummary is the list representation, without owned collections.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Enabled  *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate.Format(dateLayout),
		Enabled:   u.Enabled,
		Roles:     role.ToRoleResponseList(u.Roles),
		Addresses: address.ToAddressResponseList(u.Addresses),
		Phones:    phone.ToPhoneResponseList(u.Phones),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		CreatedBy: u.CreatedBy,
		UpdatedBy: u.UpdatedBy,
	}
}

func ToUserSummaryList(users []User) []UserSummary {
	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		summaries = append(summaries, UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Enabled:   u.Enabled,
			CreatedAt: u.CreatedAt,
		})
	}
	return summaries
}
