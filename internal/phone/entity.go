// AngelaMos | 2026
// entity.go

package phone

import (
	"time"
)

type Type string

const (
	TypeMobile Type = "MOBILE"
	TypeHome   Type = "HOME"
	TypeWork   Type = "WORK"
	TypeOther  Type = "OTHER"
)

type Phone struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Type        Type      `db:"type"`
	CountryCode string    `db:"country_code"`
	Number      string    `db:"number"`
	IsDefault   bool      `db:"is_default"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	CreatedBy   string    `db:"created_by"`
	UpdatedBy   string    `db:"updated_by"`
}

func (p *Phone) overwrite(details *Phone) {
	p.Type = details.Type
	p.CountryCode = details.CountryCode
	p.Number = details.Number
	p.IsDefault = details.IsDefault
}
