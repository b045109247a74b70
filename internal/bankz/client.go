// Package bankz integrates with Bank Z, the external banking partner. The
// partner is the source of truth for external account existence and for the
// transaction identifier on external transfer legs.
package bankz

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Token is an opaque bearer credential plus its absolute expiry. It is held
// only by the TokenSource and never persisted.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the token can still be presented at the given time.
func (t *Token) Valid(now time.Time) bool {
	return t != nil && t.ExpiresAt.After(now)
}

// Client is the partner bank contract consumed by the transfer engine.
type Client interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (*Token, error)
	GetBalance(ctx context.Context, accountID, token string) (decimal.Decimal, error)
	InitiateTransfer(ctx context.Context, fromAccountID, toAccountID, token string, amount decimal.Decimal) (string, error)
}
