package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypePartner  TransactionType = "bankz_transfer"
	TransactionTypeFee      TransactionType = "fee"
	TransactionTypeInterest TransactionType = "interest"
	TransactionTypeBonus    TransactionType = "bonus"
)

// Transaction is an immutable ledger entry. Rows are only ever appended;
// fee, interest and bonus legs never carry counterpart account ids, which
// the constructors below enforce.
type Transaction struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"accountId"`
	CustomerID    string          `json:"customerId"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	FromAccountID string          `json:"fromAccountId,omitempty"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewTransferTransaction records the principal leg of an internal transfer.
func NewTransferTransaction(id, fromAccountID, toAccountID, customerID string, amount decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:            id,
		AccountID:     fromAccountID,
		CustomerID:    customerID,
		Type:          TransactionTypeTransfer,
		Amount:        amount,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		CreatedAt:     at,
	}
}

// NewPartnerTransaction records an external transfer, keyed by the
// partner-issued transaction id.
func NewPartnerTransaction(partnerTxID, fromAccountID, toAccountID, customerID string, amount decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:            partnerTxID,
		AccountID:     fromAccountID,
		CustomerID:    customerID,
		Type:          TransactionTypePartner,
		Amount:        amount,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		CreatedAt:     at,
	}
}

// NewFeeTransaction records the fee charged to the source account.
func NewFeeTransaction(id, accountID, customerID string, fee decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:         id,
		AccountID:  accountID,
		CustomerID: customerID,
		Type:       TransactionTypeFee,
		Amount:     fee,
		CreatedAt:  at,
	}
}

// NewInterestTransaction records interest credited to the destination account.
func NewInterestTransaction(id, accountID, customerID string, interest decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:         id,
		AccountID:  accountID,
		CustomerID: customerID,
		Type:       TransactionTypeInterest,
		Amount:     interest,
		CreatedAt:  at,
	}
}

// NewBonusTransaction records the onboarding bonus credited to a new account.
func NewBonusTransaction(id, accountID, customerID string, amount decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:         id,
		AccountID:  accountID,
		CustomerID: customerID,
		Type:       TransactionTypeBonus,
		Amount:     amount,
		CreatedAt:  at,
	}
}
