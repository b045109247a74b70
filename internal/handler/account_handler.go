package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"partner-banking/internal/domain"
	"partner-banking/internal/service"
)

type AccountHandler struct {
	queryService *service.QueryService
}

func NewAccountHandler(queryService *service.QueryService) *AccountHandler {
	return &AccountHandler{
		queryService: queryService,
	}
}

type AccountListResponse struct {
	CustomerID string           `json:"customerId"`
	Accounts   []domain.Account `json:"accounts"`
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customer_id"]

	accounts, err := h.queryService.ListAccounts(customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountListResponse{
		CustomerID: customerID,
		Accounts:   accounts,
	})
}

type TransactionListResponse struct {
	CustomerID   string               `json:"customerId"`
	Transactions []domain.Transaction `json:"transactions"`
}

func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customer_id"]

	filter := service.TransactionFilter{
		AccountID: r.URL.Query().Get("accountId"),
		Type:      r.URL.Query().Get("type"),
	}

	transactions, err := h.queryService.ListTransactions(customerID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TransactionListResponse{
		CustomerID:   customerID,
		Transactions: transactions,
	})
}

type PartnerBalanceListResponse struct {
	CustomerID string                   `json:"customerId"`
	Balances   []service.PartnerBalance `json:"balances"`
}

func (h *AccountHandler) ListPartnerBalances(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customer_id"]

	balances, err := h.queryService.ListPartnerBalances(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PartnerBalanceListResponse{
		CustomerID: customerID,
		Balances:   balances,
	})
}
