package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"partner-banking/internal/bankz"
	"partner-banking/internal/domain"
	"partner-banking/internal/errors"
)

var (
	// Fee charged when the source is a current account, and interest
	// credited when the destination is a savings account.
	currentAccountFeeRate = decimal.NewFromFloat(0.0005)
	savingsInterestRate   = decimal.NewFromFloat(0.005)
)

var transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "banking_transfers_total",
	Help: "Processed transfers by routing and outcome",
}, []string{"route", "status"})

type TransferService struct {
	store   domain.LedgerStore
	partner bankz.Client
	tokens  *bankz.TokenSource
	locks   *accountLocks
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func NewTransferService(
	store domain.LedgerStore,
	partner bankz.Client,
	tokens *bankz.TokenSource,
	timeout time.Duration,
	logger *slog.Logger,
) *TransferService {
	return &TransferService{
		store:   store,
		partner: partner,
		tokens:  tokens,
		locks:   newAccountLocks(),
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

type TransferRequest struct {
	CustomerID    string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

type TransferResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// Transfer moves money between the customer's source account and a
// destination that is either local or known to Bank Z. Every check runs
// before any write, so a failed transfer leaves the ledger untouched.
func (s *TransferService) Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error) {
	s.logger.Info("Processing transfer",
		"customer_id", req.CustomerID,
		"from_account_id", req.FromAccountID,
		"to_account_id", req.ToAccountID,
		"amount", req.Amount)

	if err := validateTransfer(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	fromAccount, err := s.store.GetAccount(req.FromAccountID)
	if err != nil {
		return nil, errors.NewAppErrorf(errors.AccountNotFound, "source account %s not found", req.FromAccountID)
	}
	if fromAccount.CustomerID != req.CustomerID {
		return nil, errors.NewAppError(errors.OwnershipViolation, "source account does not belong to the customer")
	}

	token, err := s.getToken(ctx)
	if err != nil {
		return nil, err
	}

	toAccount, err := s.store.GetAccount(req.ToAccountID)
	if err != nil {
		// Unknown locally: the destination may still be a Bank Z account.
		if err := s.resolvePartnerAccount(ctx, req.ToAccountID, token); err != nil {
			transfersTotal.WithLabelValues("external", "rejected").Inc()
			return nil, err
		}
		return s.transferExternal(ctx, req, token)
	}

	if toAccount.CustomerID != req.CustomerID {
		return nil, errors.NewAppError(errors.OwnershipViolation, "destination account does not belong to the customer")
	}

	return s.transferInternal(req)
}

func validateTransfer(req *TransferRequest) error {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return errors.NewAppError(errors.InvalidInput, "account ids cannot be empty")
	}
	if req.FromAccountID == req.ToAccountID {
		return errors.ErrSameAccount
	}
	if !req.Amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	return nil
}

func (s *TransferService) getToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.tokens.GetToken(ctx)
}

func (s *TransferService) resolvePartnerAccount(ctx context.Context, accountID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.partner.GetBalance(ctx, accountID, token); err != nil {
		s.logger.Warn("Destination unknown locally and at Bank Z", "to_account_id", accountID, "error", err)
		return errors.NewAppErrorf(errors.AccountNotFound, "destination account %s not found", accountID).WithDetails(err.Error())
	}
	return nil
}

// transferExternal debits the source and records the partner-issued
// transaction id. No fee applies on this path, and the debit happens only
// after the partner has accepted the transfer, so there is nothing to roll
// back on rejection.
func (s *TransferService) transferExternal(ctx context.Context, req *TransferRequest, token string) (*TransferResult, error) {
	release := s.locks.acquire(req.FromAccountID)
	defer release()

	fromAccount, err := s.store.GetAccount(req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if fromAccount.Balance.LessThan(req.Amount) {
		transfersTotal.WithLabelValues("external", "rejected").Inc()
		return nil, errors.ErrInsufficientFunds
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	partnerTxID, err := s.partner.InitiateTransfer(callCtx, req.FromAccountID, req.ToAccountID, token, req.Amount)
	if err != nil {
		s.logger.Warn("Bank Z rejected transfer", "to_account_id", req.ToAccountID, "error", err)
		transfersTotal.WithLabelValues("external", "rejected").Inc()
		return nil, errors.NewAppError(errors.PartnerRejected, err.Error())
	}

	fromAccount.Balance = fromAccount.Balance.Sub(req.Amount)
	record := domain.NewPartnerTransaction(partnerTxID, req.FromAccountID, req.ToAccountID, req.CustomerID, req.Amount, s.now())

	if err := s.store.Apply([]domain.Account{*fromAccount}, []domain.Transaction{record}); err != nil {
		return nil, err
	}

	s.logger.Info("Bank Z transfer successful", "transaction_id", partnerTxID)
	transfersTotal.WithLabelValues("external", "success").Inc()
	return &TransferResult{TransactionID: partnerTxID, Status: "success"}, nil
}

// transferInternal moves money between two local accounts, charging the
// current-account fee and crediting savings interest as separate ledger
// legs that share the principal's timestamp.
func (s *TransferService) transferInternal(req *TransferRequest) (*TransferResult, error) {
	release := s.locks.acquire(req.FromAccountID, req.ToAccountID)
	defer release()

	fromAccount, err := s.store.GetAccount(req.FromAccountID)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.store.GetAccount(req.ToAccountID)
	if err != nil {
		return nil, err
	}

	fee := decimal.Zero
	if fromAccount.Type == domain.AccountTypeCurrent {
		fee = req.Amount.Mul(currentAccountFeeRate)
	}

	totalDeduction := req.Amount.Add(fee)
	if fromAccount.Balance.LessThan(totalDeduction) {
		transfersTotal.WithLabelValues("internal", "rejected").Inc()
		return nil, errors.ErrInsufficientFunds
	}

	interest := decimal.Zero
	if toAccount.Type == domain.AccountTypeSavings {
		interest = req.Amount.Mul(savingsInterestRate)
	}

	fromAccount.Balance = fromAccount.Balance.Sub(totalDeduction)
	toAccount.Balance = toAccount.Balance.Add(req.Amount).Add(interest)

	now := s.now()
	principal := domain.NewTransferTransaction(s.newID(), req.FromAccountID, req.ToAccountID, req.CustomerID, req.Amount, now)
	records := []domain.Transaction{principal}
	if fee.IsPositive() {
		records = append(records, domain.NewFeeTransaction(s.newID(), req.FromAccountID, req.CustomerID, fee, now))
	}
	if interest.IsPositive() {
		records = append(records, domain.NewInterestTransaction(s.newID(), req.ToAccountID, req.CustomerID, interest, now))
	}

	if err := s.store.Apply([]domain.Account{*fromAccount, *toAccount}, records); err != nil {
		return nil, err
	}

	s.logger.Info("Internal transfer successful",
		"transaction_id", principal.ID,
		"fee", fee,
		"interest", interest)
	transfersTotal.WithLabelValues("internal", "success").Inc()
	return &TransferResult{TransactionID: principal.ID, Status: "success"}, nil
}
