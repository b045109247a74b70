package service

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"partner-banking/internal/domain"
	"partner-banking/internal/errors"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	signupBonus = decimal.NewFromInt(500)
)

type CustomerService struct {
	store  domain.LedgerStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewCustomerService(store domain.LedgerStore, logger *slog.Logger) *CustomerService {
	return &CustomerService{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

type OnboardingResult struct {
	CustomerID       string `json:"customerId"`
	CurrentAccountID string `json:"currentAccountId"`
	SavingsAccountID string `json:"savingsAccountId"`
}

// CreateCustomer onboards a customer with an empty current account and a
// savings account seeded with the signup bonus, recorded as a bonus ledger
// entry.
func (s *CustomerService) CreateCustomer(name, email string) (*OnboardingResult, error) {
	if err := validateCustomer(name, email); err != nil {
		return nil, err
	}

	now := s.now()
	customer := domain.Customer{ID: s.newID(), Name: name, Email: email}

	currentAccount := domain.Account{
		ID:         s.newID(),
		CustomerID: customer.ID,
		Type:       domain.AccountTypeCurrent,
		Balance:    decimal.Zero,
		CreatedAt:  now,
	}
	savingsAccount := domain.Account{
		ID:         s.newID(),
		CustomerID: customer.ID,
		Type:       domain.AccountTypeSavings,
		Balance:    signupBonus,
		CreatedAt:  now,
	}
	bonus := domain.NewBonusTransaction(s.newID(), savingsAccount.ID, customer.ID, signupBonus, now)

	if err := s.store.PutCustomer(customer); err != nil {
		return nil, err
	}
	if err := s.store.Apply([]domain.Account{currentAccount, savingsAccount}, []domain.Transaction{bonus}); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created",
		"customer_id", customer.ID,
		"current_account_id", currentAccount.ID,
		"savings_account_id", savingsAccount.ID)

	return &OnboardingResult{
		CustomerID:       customer.ID,
		CurrentAccountID: currentAccount.ID,
		SavingsAccountID: savingsAccount.ID,
	}, nil
}

func validateCustomer(name, email string) error {
	var problems []string
	if strings.TrimSpace(name) == "" {
		problems = append(problems, "name cannot be empty")
	} else if !nameRe.MatchString(name) {
		problems = append(problems, "name must contain only letters and spaces")
	}
	if strings.TrimSpace(email) == "" {
		problems = append(problems, "email cannot be empty")
	} else if !emailRe.MatchString(email) {
		problems = append(problems, "invalid email format")
	}
	if len(problems) > 0 {
		return errors.NewAppError(errors.InvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
