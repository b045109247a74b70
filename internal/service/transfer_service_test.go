package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-banking/internal/bankz"
	"partner-banking/internal/domain"
	apperrors "partner-banking/internal/errors"
	"partner-banking/internal/store"
)

const (
	customerID       = "cust-1"
	otherCustomerID  = "cust-2"
	currentAccountID = "acc-current"
	savingsAccountID = "acc-savings"
	otherAccountID   = "acc-other"
	partnerAccountID = "bankz-acc-123"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	service *TransferService
	store   *store.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := discardLogger()
	ledger := store.NewMemoryStore(logger)
	client := bankz.NewMockClient(logger)
	tokens := bankz.NewTokenSource(client, "mock-client-id", "mock-client-secret", logger)

	now := time.Now()
	require.NoError(t, ledger.PutCustomer(domain.Customer{ID: customerID, Name: "Ada Lovelace", Email: "ada@example.com"}))
	require.NoError(t, ledger.PutCustomer(domain.Customer{ID: otherCustomerID, Name: "Grace Hopper", Email: "grace@example.com"}))
	require.NoError(t, ledger.PutAccount(domain.Account{
		ID: currentAccountID, CustomerID: customerID, Type: domain.AccountTypeCurrent,
		Balance: decimal.RequireFromString("1000.00"), CreatedAt: now,
	}))
	require.NoError(t, ledger.PutAccount(domain.Account{
		ID: savingsAccountID, CustomerID: customerID, Type: domain.AccountTypeSavings,
		Balance: decimal.RequireFromString("500.00"), CreatedAt: now,
	}))
	require.NoError(t, ledger.PutAccount(domain.Account{
		ID: otherAccountID, CustomerID: otherCustomerID, Type: domain.AccountTypeSavings,
		Balance: decimal.RequireFromString("500.00"), CreatedAt: now,
	}))

	return &fixture{
		service: NewTransferService(ledger, client, tokens, 5*time.Second, logger),
		store:   ledger,
	}
}

func (f *fixture) transfer(t *testing.T, from, to, amount string) (*TransferResult, error) {
	t.Helper()
	return f.service.Transfer(context.Background(), &TransferRequest{
		CustomerID:    customerID,
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        decimal.RequireFromString(amount),
	})
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	account, err := f.store.GetAccount(accountID)
	require.NoError(t, err)
	return account.Balance
}

func (f *fixture) records(t *testing.T) []domain.Transaction {
	t.Helper()
	txs, err := f.store.ListTransactionsByCustomer(customerID)
	require.NoError(t, err)
	return txs
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		from   string
		to     string
		amount string
		code   apperrors.ErrorCode
	}{
		{"empty source", "", savingsAccountID, "10", apperrors.InvalidInput},
		{"empty destination", currentAccountID, "", "10", apperrors.InvalidInput},
		{"same account", currentAccountID, currentAccountID, "10", apperrors.InvalidInput},
		{"zero amount", currentAccountID, savingsAccountID, "0", apperrors.InvalidAmount},
		{"negative amount", currentAccountID, savingsAccountID, "-5", apperrors.InvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.transfer(t, tc.from, tc.to, tc.amount)
			assertCode(t, err, tc.code)
		})
	}

	// No transfer above touched the ledger.
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("1000.00")))
	assert.Empty(t, f.records(t))
}

func TestTransferUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Transfer(context.Background(), &TransferRequest{
		CustomerID:    "cust-missing",
		FromAccountID: currentAccountID,
		ToAccountID:   savingsAccountID,
		Amount:        decimal.NewFromInt(10),
	})
	assertCode(t, err, apperrors.CustomerNotFound)
}

func TestTransferSourceOwnership(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfer(t, "acc-missing", savingsAccountID, "10")
	assertCode(t, err, apperrors.AccountNotFound)

	_, err = f.transfer(t, otherAccountID, savingsAccountID, "10")
	assertCode(t, err, apperrors.OwnershipViolation)
}

func TestTransferCrossCustomerDestinationRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfer(t, currentAccountID, otherAccountID, "10")
	assertCode(t, err, apperrors.OwnershipViolation)
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, f.balance(t, otherAccountID).Equal(decimal.RequireFromString("500.00")))
}

func TestInternalTransferFeeAndInterest(t *testing.T) {
	f := newFixture(t)

	// current -> savings: 0.05% fee on the source, 0.5% interest at the
	// destination, three ledger legs sharing one timestamp.
	result, err := f.transfer(t, currentAccountID, savingsAccountID, "100")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.NotEmpty(t, result.TransactionID)

	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("899.95")),
		"source debited amount plus fee")
	assert.True(t, f.balance(t, savingsAccountID).Equal(decimal.RequireFromString("600.50")),
		"destination credited amount plus interest")

	records := f.records(t)
	require.Len(t, records, 3)

	principal, fee, interest := records[0], records[1], records[2]

	assert.Equal(t, domain.TransactionTypeTransfer, principal.Type)
	assert.Equal(t, result.TransactionID, principal.ID)
	assert.Equal(t, currentAccountID, principal.FromAccountID)
	assert.Equal(t, savingsAccountID, principal.ToAccountID)
	assert.True(t, principal.Amount.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, domain.TransactionTypeFee, fee.Type)
	assert.Equal(t, currentAccountID, fee.AccountID)
	assert.True(t, fee.Amount.Equal(decimal.RequireFromString("0.05")))
	assert.Empty(t, fee.FromAccountID)
	assert.Empty(t, fee.ToAccountID)

	assert.Equal(t, domain.TransactionTypeInterest, interest.Type)
	assert.Equal(t, savingsAccountID, interest.AccountID)
	assert.True(t, interest.Amount.Equal(decimal.RequireFromString("0.50")))
	assert.Empty(t, interest.FromAccountID)
	assert.Empty(t, interest.ToAccountID)

	assert.Equal(t, principal.CreatedAt, fee.CreatedAt)
	assert.Equal(t, principal.CreatedAt, interest.CreatedAt)
}

func TestFeeAndInterestThresholds(t *testing.T) {
	f := newFixture(t)

	// Raise the current balance so a 1000.00 transfer plus fee clears.
	require.NoError(t, f.store.PutAccount(domain.Account{
		ID: currentAccountID, CustomerID: customerID, Type: domain.AccountTypeCurrent,
		Balance: decimal.RequireFromString("2000.00"),
	}))

	_, err := f.transfer(t, currentAccountID, savingsAccountID, "1000.00")
	require.NoError(t, err)

	var feeAmount, interestAmount decimal.Decimal
	for _, tx := range f.records(t) {
		switch tx.Type {
		case domain.TransactionTypeFee:
			feeAmount = tx.Amount
		case domain.TransactionTypeInterest:
			interestAmount = tx.Amount
		}
	}
	assert.True(t, feeAmount.Equal(decimal.RequireFromString("0.50")), "fee was %s", feeAmount)
	assert.True(t, interestAmount.Equal(decimal.RequireFromString("5.00")), "interest was %s", interestAmount)
}

func TestSavingsToCurrentHasNoFeeOrInterest(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfer(t, savingsAccountID, currentAccountID, "400")
	require.NoError(t, err)

	assert.True(t, f.balance(t, savingsAccountID).Equal(decimal.RequireFromString("100.00")))
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("1400.00")))

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransactionTypeTransfer, records[0].Type)
}

func TestInsufficientFundsBoundary(t *testing.T) {
	f := newFixture(t)

	// 999.50 + 0.05% fee = 999.99975, just inside a 1000.00 balance.
	_, err := f.transfer(t, currentAccountID, savingsAccountID, "999.50")
	require.NoError(t, err)
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("0.00025")))
}

func TestInsufficientFundsLeavesLedgerUnchanged(t *testing.T) {
	f := newFixture(t)

	// 999.70 + fee exceeds the 1000.00 balance.
	_, err := f.transfer(t, currentAccountID, savingsAccountID, "999.70")
	assertCode(t, err, apperrors.InsufficientFunds)

	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, f.balance(t, savingsAccountID).Equal(decimal.RequireFromString("500.00")))
	assert.Empty(t, f.records(t))
}

func TestExternalTransfer(t *testing.T) {
	f := newFixture(t)

	result, err := f.transfer(t, currentAccountID, partnerAccountID, "250")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Contains(t, result.TransactionID, "bankz-tx-", "record keyed by the partner-issued id")

	// No fee on the external path.
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("750.00")))

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransactionTypePartner, records[0].Type)
	assert.Equal(t, result.TransactionID, records[0].ID)
	assert.Equal(t, currentAccountID, records[0].FromAccountID)
	assert.Equal(t, partnerAccountID, records[0].ToAccountID)
}

func TestExternalTransferInsufficientFunds(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfer(t, currentAccountID, partnerAccountID, "1000.01")
	assertCode(t, err, apperrors.InsufficientFunds)
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("1000.00")))
	assert.Empty(t, f.records(t))
}

func TestDestinationUnknownEverywhere(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfer(t, currentAccountID, "acc-nowhere", "10")
	assertCode(t, err, apperrors.AccountNotFound)
	assert.True(t, f.balance(t, currentAccountID).Equal(decimal.RequireFromString("1000.00")))
	assert.Empty(t, f.records(t))
}

func TestAuthFailureIsFatalAndMutatesNothing(t *testing.T) {
	logger := discardLogger()
	ledger := store.NewMemoryStore(logger)
	client := bankz.NewMockClient(logger)
	tokens := bankz.NewTokenSource(client, "bad-id", "bad-secret", logger)
	svc := NewTransferService(ledger, client, tokens, 5*time.Second, logger)

	require.NoError(t, ledger.PutCustomer(domain.Customer{ID: customerID, Name: "Ada Lovelace", Email: "ada@example.com"}))
	require.NoError(t, ledger.PutAccount(domain.Account{
		ID: currentAccountID, CustomerID: customerID, Type: domain.AccountTypeCurrent,
		Balance: decimal.RequireFromString("1000.00"),
	}))
	require.NoError(t, ledger.PutAccount(domain.Account{
		ID: savingsAccountID, CustomerID: customerID, Type: domain.AccountTypeSavings,
		Balance: decimal.RequireFromString("500.00"),
	}))

	_, err := svc.Transfer(context.Background(), &TransferRequest{
		CustomerID:    customerID,
		FromAccountID: currentAccountID,
		ToAccountID:   savingsAccountID,
		Amount:        decimal.NewFromInt(10),
	})
	assertCode(t, err, apperrors.AuthFailure)

	account, err := ledger.GetAccount(currentAccountID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("1000.00")))
}

func TestConcurrentTransfersConserveMoney(t *testing.T) {
	f := newFixture(t)

	// savings -> current carries neither fee nor interest, so the combined
	// balance must stay constant no matter how requests interleave, and the
	// savings balance must never go negative.
	initialTotal := f.balance(t, savingsAccountID).Add(f.balance(t, currentAccountID))

	const workers = 20
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.service.Transfer(context.Background(), &TransferRequest{
				CustomerID:    customerID,
				FromAccountID: savingsAccountID,
				ToAccountID:   currentAccountID,
				Amount:        decimal.NewFromInt(40),
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		assertCode(t, err, apperrors.InsufficientFunds)
	}

	savings := f.balance(t, savingsAccountID)
	current := f.balance(t, currentAccountID)

	// 500.00 funds at most 12 transfers of 40.
	assert.Equal(t, 12, successes)
	assert.False(t, savings.IsNegative())
	assert.True(t, savings.Add(current).Equal(initialTotal))
	assert.Len(t, f.records(t), successes)
}
