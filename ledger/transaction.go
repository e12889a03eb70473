package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/moneytree/ast"
)

// Transaction is an opaque balance contribution recorded on an account. How
// a balance is computed from transactions is the account's business; the
// hierarchy only guarantees that once a leaf publishes a balance, every
// ancestor's aggregate reflects it.
type Transaction struct {
	Date        *ast.Date
	Description string
	Amount      CashAmount
	Category    *Category
}

// NewTransaction creates a transaction. The date and a currency-bearing
// amount are required; the category is optional.
func NewTransaction(date *ast.Date, description string, amount CashAmount, category *Category) (*Transaction, error) {
	if date == nil {
		return nil, fmt.Errorf("transaction date is nil")
	}
	if amount.currency == nil {
		return nil, fmt.Errorf("transaction amount has no currency")
	}

	return &Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    category,
	}, nil
}

// String renders the transaction as "2024-01-05 -250.00 CZK groceries".
func (t *Transaction) String() string {
	if t.Description == "" {
		return fmt.Sprintf("%s %s", t.Date, t.Amount)
	}
	return fmt.Sprintf("%s %s %s", t.Date, t.Amount, t.Description)
}
