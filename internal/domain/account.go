package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeCurrent AccountType = "current"
	AccountTypeSavings AccountType = "savings"
)

// Account balances are mutated only by the transfer engine; the store
// enforces nothing beyond identity.
type Account struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Type       AccountType     `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"createdAt"`
}
