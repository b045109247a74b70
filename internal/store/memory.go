package store

import (
	"log/slog"
	"sync"

	"partner-banking/internal/domain"
	"partner-banking/internal/errors"
)

// MemoryStore is a map-backed LedgerStore. A single RWMutex guards all three
// maps so that Apply is atomic with respect to every reader.
type MemoryStore struct {
	mu           sync.RWMutex
	customers    map[string]domain.Customer
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	txOrder      []string
	logger       *slog.Logger
}

func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		customers:    make(map[string]domain.Customer),
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		logger:       logger,
	}
}

var _ domain.LedgerStore = (*MemoryStore)(nil)

func (s *MemoryStore) GetCustomer(id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return nil, errors.ErrCustomerNotFound
	}
	return &customer, nil
}

func (s *MemoryStore) PutCustomer(customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers[customer.ID] = customer
	return nil
}

func (s *MemoryStore) GetAccount(id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return &account, nil
}

func (s *MemoryStore) PutAccount(account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = account
	return nil
}

// AppendTransaction adds a ledger entry. The ledger is append-only, so a
// duplicate id is rejected rather than overwritten.
func (s *MemoryStore) AppendTransaction(tx domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(tx)
}

func (s *MemoryStore) appendLocked(tx domain.Transaction) error {
	if _, exists := s.transactions[tx.ID]; exists {
		s.logger.Warn("Rejected duplicate transaction id", "transaction_id", tx.ID)
		return errors.ErrDuplicateRecord
	}
	s.transactions[tx.ID] = tx
	s.txOrder = append(s.txOrder, tx.ID)
	return nil
}

func (s *MemoryStore) ListAccountsByCustomer(customerID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := []domain.Account{}
	for _, account := range s.accounts {
		if account.CustomerID == customerID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// ListTransactionsByCustomer returns, in append order, every transaction
// owned by one of the customer's accounts.
func (s *MemoryStore) ListTransactionsByCustomer(customerID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[string]bool)
	for _, account := range s.accounts {
		if account.CustomerID == customerID {
			owned[account.ID] = true
		}
	}

	transactions := []domain.Transaction{}
	for _, id := range s.txOrder {
		tx := s.transactions[id]
		if owned[tx.AccountID] {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

// Apply commits the balance updates and ledger appends of one transfer under
// a single critical section. If any append is rejected the account updates
// are not applied either.
func (s *MemoryStore) Apply(accounts []domain.Account, txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		if _, exists := s.transactions[tx.ID]; exists {
			s.logger.Warn("Rejected duplicate transaction id", "transaction_id", tx.ID)
			return errors.ErrDuplicateRecord
		}
	}

	for _, account := range accounts {
		s.accounts[account.ID] = account
	}
	for _, tx := range txs {
		s.transactions[tx.ID] = tx
		s.txOrder = append(s.txOrder, tx.ID)
	}
	return nil
}
