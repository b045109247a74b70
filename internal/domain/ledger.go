package domain

// LedgerStore is the persistence contract consumed by the services. All
// operations are synchronous and consistent immediately after write.
type LedgerStore interface {
	GetCustomer(id string) (*Customer, error)
	PutCustomer(customer Customer) error
	GetAccount(id string) (*Account, error)
	PutAccount(account Account) error
	AppendTransaction(tx Transaction) error
	ListAccountsByCustomer(customerID string) ([]Account, error)
	ListTransactionsByCustomer(customerID string) ([]Transaction, error)

	// Apply commits the account updates and transaction appends of a single
	// transfer as one unit: readers observe either all of them or none.
	Apply(accounts []Account, txs []Transaction) error
}
