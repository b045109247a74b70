package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"partner-banking/internal/bankz"
	"partner-banking/internal/domain"
)

// QueryService is the read side: account and transaction listings plus the
// linked Bank Z balance view.
type QueryService struct {
	store          domain.LedgerStore
	partner        bankz.Client
	tokens         *bankz.TokenSource
	linkedAccounts []string
	timeout        time.Duration
	logger         *slog.Logger
}

func NewQueryService(
	store domain.LedgerStore,
	partner bankz.Client,
	tokens *bankz.TokenSource,
	linkedAccounts []string,
	timeout time.Duration,
	logger *slog.Logger,
) *QueryService {
	return &QueryService{
		store:          store,
		partner:        partner,
		tokens:         tokens,
		linkedAccounts: linkedAccounts,
		timeout:        timeout,
		logger:         logger,
	}
}

// ListAccounts returns every account the customer owns. A customer with no
// accounts yet gets an empty list, not an error.
func (s *QueryService) ListAccounts(customerID string) ([]domain.Account, error) {
	if _, err := s.store.GetCustomer(customerID); err != nil {
		return nil, err
	}
	return s.store.ListAccountsByCustomer(customerID)
}

type TransactionFilter struct {
	AccountID string
	Type      string
}

// ListTransactions returns the transactions of the customer's accounts,
// optionally narrowed by account id and transaction type.
func (s *QueryService) ListTransactions(customerID string, filter TransactionFilter) ([]domain.Transaction, error) {
	if _, err := s.store.GetCustomer(customerID); err != nil {
		return nil, err
	}

	all, err := s.store.ListTransactionsByCustomer(customerID)
	if err != nil {
		return nil, err
	}

	matched := []domain.Transaction{}
	for _, tx := range all {
		if filter.AccountID != "" && tx.AccountID != filter.AccountID {
			continue
		}
		if filter.Type != "" && tx.Type != domain.TransactionType(filter.Type) {
			continue
		}
		matched = append(matched, tx)
	}
	return matched, nil
}

type PartnerBalance struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListPartnerBalances fetches the balances of the linked Bank Z accounts.
// Accounts the partner rejects are skipped deliberately so one bad link does
// not hide the rest.
func (s *QueryService) ListPartnerBalances(ctx context.Context, customerID string) ([]PartnerBalance, error) {
	if _, err := s.store.GetCustomer(customerID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	balances := []PartnerBalance{}
	for _, accountID := range s.linkedAccounts {
		balance, err := s.partner.GetBalance(ctx, accountID, token)
		if err != nil {
			s.logger.Warn("Skipping Bank Z account in balance listing", "account_id", accountID, "error", err)
			continue
		}
		balances = append(balances, PartnerBalance{AccountID: accountID, Balance: balance})
	}
	return balances, nil
}
