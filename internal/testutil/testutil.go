// AngelaMos | 2026
// testutil.go

// Package testutil holds deterministic collaborators shared by service tests.
package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

// Now is the instant every fixed clock in the test suite reports.
var Now = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func Clock() core.FixedClock {
	return core.FixedClock{T: Now}
}

// Tx runs the function directly with a nil handle. Fakes ignore the handle
// in WithTx, so the work happens against the same in-memory state.
type Tx struct {
	Calls int
}

func (t *Tx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	t.Calls++
	return fn(nil)
}

// Hasher is a reversible stand-in for Argon2.
type Hasher struct{}

const hashPrefix = "hashed:"

func (Hasher) Hash(password string) (string, error) {
	return hashPrefix + password, nil
}

func (Hasher) Verify(password, encodedHash string) (bool, error) {
	return strings.TrimPrefix(encodedHash, hashPrefix) == password &&
		strings.HasPrefix(encodedHash, hashPrefix), nil
}

// BirthDate returns the date that lies the given years and days before Now.
func BirthDate(years, days int) time.Time {
	d := Now.AddDate(-years, 0, -days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
