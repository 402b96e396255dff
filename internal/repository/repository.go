// Package repository holds the SQL implementations behind the catalog,
// account and order operations.
package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrProductInUse   = errors.New("product is referenced by orders")
)

// money formats a decimal the way it is stored: fixed, two places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
