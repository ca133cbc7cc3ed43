// AngelaMos | 2026
// dto.go

package phone

import (
	"time"
)

type PhoneRequest struct {
	Type        string `json:"type"         validate:"required,oneof=MOBILE HOME WORK OTHER"`
	CountryCode string `json:"country_code" validate:"required,max=5"`
	Number      string `json:"number"       validate:"required,min=4,max=20"`
	IsDefault   bool   `json:"is_default"`
}

func (r PhoneRequest) ToPhone() *Phone {
	return &Phone{
		Type:        Type(r.Type),
		CountryCode: r.CountryCode,
		Number:      r.Number,
		IsDefault:   r.IsDefault,
	}
}

type PhoneResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	CountryCode string    `json:"country_code"`
	Number      string    `json:"number"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToPhoneResponse(p *Phone) PhoneResponse {
	return PhoneResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Type:        string(p.Type),
		CountryCode: p.CountryCode,
		Number:      p.Number,
		IsDefault:   p.IsDefault,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPhoneResponseList(phones []Phone) []PhoneResponse {
	responses := make([]PhoneResponse, 0, len(phones))
	for i := range phones {
		responses = append(responses, ToPhoneResponse(&phones[i]))
	}
	return responses
}
