// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/templates/go-accounts/internal/address"
	"github.com/carterperez-dev/templates/go-accounts/internal/phone"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
)

const DefaultMinimumAge = 18

// User is the aggregate root. Roles, Addresses and Phones are loaded by the
// service and never written through the users table.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	BirthDate    time.Time `db:"birth_date"`
	Enabled      bool      `db:"enabled"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	CreatedBy    string    `db:"created_by"`
	UpdatedBy    string    `db:"updated_by"`

	// Password is the plaintext supplied on create or update. The service
	// hashes it into PasswordHash and clears it.
	Password string `db:"-"`

	Roles     []role.Role       `db:"-"`
	Addresses []address.Address `db:"-"`
	Phones    []phone.Phone     `db:"-"`
}

// AgeAt returns the number of whole years between birthDate and now. The
// year only counts once its anniversary has been reached, so a person born
// on 29 February turns a year older on 1 March in common years.
func AgeAt(birthDate, now time.Time) int {
	birthDate = birthDate.UTC()
	now = now.UTC()

	years := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		years--
	}
	return years
}
