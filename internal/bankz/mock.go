package bankz

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	mockClientID     = "mock-client-id"
	mockClientSecret = "mock-client-secret"

	tokenTTL = time.Hour
)

type mockAccount struct {
	AccountID string
	Balance   decimal.Decimal
}

// MockClient simulates Bank Z's API behind the Client interface: OAuth-style
// credential issuance, balance lookup and transfer initiation against a fixed
// set of partner accounts.
type MockClient struct {
	mu       sync.Mutex
	accounts map[string]mockAccount
	issued   *Token
	logger   *slog.Logger
}

func NewMockClient(logger *slog.Logger) *MockClient {
	return &MockClient{
		accounts: map[string]mockAccount{
			"bankz-acc-123": {AccountID: "bankz-acc-123", Balance: decimal.NewFromFloat(1000.0)},
			"bankz-acc-456": {AccountID: "bankz-acc-456", Balance: decimal.NewFromFloat(500.0)},
		},
		logger: logger,
	}
}

var _ Client = (*MockClient)(nil)

func (c *MockClient) Authenticate(ctx context.Context, clientID, clientSecret string) (*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if clientID != mockClientID || clientSecret != mockClientSecret {
		return nil, fmt.Errorf("invalid client credentials")
	}

	token := &Token{
		AccessToken: fmt.Sprintf("token-%d", time.Now().UnixNano()),
		ExpiresAt:   time.Now().Add(tokenTTL),
	}
	c.issued = token
	c.logger.Info("Issued new Bank Z token", "access_token", token.AccessToken)
	return token, nil
}

func (c *MockClient) validateToken(token string) error {
	if c.issued == nil || c.issued.AccessToken != token || !c.issued.Valid(time.Now()) {
		return fmt.Errorf("invalid or expired token")
	}
	return nil
}

func (c *MockClient) GetBalance(ctx context.Context, accountID, token string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validateToken(token); err != nil {
		return decimal.Zero, err
	}
	account, exists := c.accounts[accountID]
	if !exists {
		return decimal.Zero, fmt.Errorf("Bank Z account %s not found", accountID)
	}
	return account.Balance, nil
}

func (c *MockClient) InitiateTransfer(ctx context.Context, fromAccountID, toAccountID, token string, amount decimal.Decimal) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validateToken(token); err != nil {
		return "", err
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("amount must be positive")
	}

	// Only the destination has to be a Bank Z account.
	account, exists := c.accounts[toAccountID]
	if !exists {
		return "", fmt.Errorf("destination Bank Z account %s not found", toAccountID)
	}

	account.Balance = account.Balance.Add(amount)
	c.accounts[toAccountID] = account

	transactionID := fmt.Sprintf("bankz-tx-%d", time.Now().UnixNano())
	c.logger.Info("Bank Z transfer initiated",
		"from_account_id", fromAccountID,
		"to_account_id", toAccountID,
		"amount", amount,
		"transaction_id", transactionID)
	return transactionID, nil
}
