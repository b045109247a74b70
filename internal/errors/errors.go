package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput       ErrorCode = "invalid_input"
	InvalidAmount      ErrorCode = "invalid_amount"
	CustomerNotFound   ErrorCode = "customer_not_found"
	AccountNotFound    ErrorCode = "account_not_found"
	OwnershipViolation ErrorCode = "ownership_violation"
	InsufficientFunds  ErrorCode = "insufficient_funds"
	AuthFailure        ErrorCode = "auth_failure"
	PartnerRejected    ErrorCode = "partner_rejected"
	InternalError      ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps an error code to the status the request layer reports.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, OwnershipViolation, InsufficientFunds, PartnerRejected:
		return http.StatusBadRequest
	case CustomerNotFound, AccountNotFound:
		return http.StatusNotFound
	case AuthFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrCustomerNotFound  = NewAppError(CustomerNotFound, "customer not found")
	ErrAccountNotFound   = NewAppError(AccountNotFound, "account not found")
	ErrInvalidAmount     = NewAppError(InvalidAmount, "amount must be positive")
	ErrInsufficientFunds = NewAppError(InsufficientFunds, "insufficient funds")
	ErrSameAccount       = NewAppError(InvalidInput, "cannot transfer to the same account")
	ErrAuthFailure       = NewAppError(AuthFailure, "failed to authenticate with Bank Z")
	ErrDuplicateRecord   = NewAppError(InternalError, "duplicate ledger record")
)
