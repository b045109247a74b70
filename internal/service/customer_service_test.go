package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-banking/internal/domain"
	apperrors "partner-banking/internal/errors"
	"partner-banking/internal/store"
)

func TestCreateCustomerOnboarding(t *testing.T) {
	ledger := store.NewMemoryStore(discardLogger())
	svc := NewCustomerService(ledger, discardLogger())

	result, err := svc.CreateCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, result.CustomerID)
	require.NotEmpty(t, result.CurrentAccountID)
	require.NotEmpty(t, result.SavingsAccountID)

	customer, err := ledger.GetCustomer(result.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", customer.Name)

	current, err := ledger.GetAccount(result.CurrentAccountID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountTypeCurrent, current.Type)
	assert.True(t, current.Balance.IsZero())

	savings, err := ledger.GetAccount(result.SavingsAccountID)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountTypeSavings, savings.Type)
	assert.True(t, savings.Balance.Equal(decimal.NewFromInt(500)))

	// The signup bonus shows up as a ledger entry on the savings account.
	transactions, err := ledger.ListTransactionsByCustomer(result.CustomerID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, domain.TransactionTypeBonus, transactions[0].Type)
	assert.Equal(t, result.SavingsAccountID, transactions[0].AccountID)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, transactions[0].FromAccountID)
	assert.Empty(t, transactions[0].ToAccountID)
}

func TestCreateCustomerValidation(t *testing.T) {
	ledger := store.NewMemoryStore(discardLogger())
	svc := NewCustomerService(ledger, discardLogger())

	tests := []struct {
		name     string
		custName string
		email    string
	}{
		{"empty name", "", "ada@example.com"},
		{"numeric name", "Ada123", "ada@example.com"},
		{"empty email", "Ada Lovelace", ""},
		{"malformed email", "Ada Lovelace", "not-an-email"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(tc.custName, tc.email)
			assertCode(t, err, apperrors.InvalidInput)
		})
	}
}
