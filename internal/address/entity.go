// AngelaMos | 2026
// entity.go

package address

import (
	"time"
)

type Address struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Label     string    `db:"label"`
	Street    string    `db:"street"`
	City      string    `db:"city"`
	State     string    `db:"state"`
	ZipCode   string    `db:"zip_code"`
	Country   string    `db:"country"`
	IsDefault bool      `db:"is_default"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	CreatedBy string    `db:"created_by"`
	UpdatedBy string    `db:"updated_by"`
}

// overwrite copies every mutable field from details.
func (a *Address) overwrite(details *Address) {
	a.Label = details.Label
	a.Street = details.Street
	a.City = details.City
	a.State = details.State
	a.ZipCode = details.ZipCode
	a.Country = details.Country
	a.IsDefault = details.IsDefault
}
