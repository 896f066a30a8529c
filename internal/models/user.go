package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered identity that owns sessions.
type User struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
}

// RateTable maps currency codes to exchange rates against a common base
// currency.
type RateTable struct {
	UpdatedAt time.Time                  `json:"updated_at"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Base      string                     `json:"base"`
}
