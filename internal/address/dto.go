// AngelaMos | 2026
// dto.go

package address

import (
	"time"
)

type AddressRequest struct {
	Label     string `json:"label"      validate:"max=50"`
	Street    string `json:"street"     validate:"required,max=255"`
	City      string `json:"city"       validate:"required,max=100"`
	State     string `json:"state"      validate:"max=100"`
	ZipCode   string `json:"zip_code"   validate:"required,max=20"`
	Country   string `json:"country"    validate:"required,max=100"`
	IsDefault bool   `json:"is_default"`
}

func (r AddressRequest) ToAddress() *Address {
	return &Address{
		Label:     r.Label,
		Street:    r.Street,
		City:      r.City,
		State:     r.State,
		ZipCode:   r.ZipCode,
		Country:   r.Country,
		IsDefault: r.IsDefault,
	}
}

type AddressResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToAddressResponse(a *Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Label:     a.Label,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
		Country:   a.Country,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ToAddressResponseList(addresses []Address) []AddressResponse {
	responses := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		responses = append(responses, ToAddressResponse(&addresses[i]))
	}
	return responses
}
