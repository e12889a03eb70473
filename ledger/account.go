package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// Account is a leaf of the account hierarchy: the only node kind whose
// balance originates from recorded transactions rather than from children.
// It publishes balance changes through the same protocol as containers, so
// aggregation treats leaves and internal nodes uniformly.
type Account struct {
	publisher

	name     string
	id       uuid.UUID
	parent   *AccountGroup
	currency *Currency

	transactions []*Transaction
	balance      *Balance
}

// NewAccount creates a standalone account denominated mainly in the given
// currency. Contributions in other currencies are still accepted and kept
// as distinct balance entries.
func NewAccount(name string, currency *Currency) (*Account, error) {
	if err := validateNodeName(name); err != nil {
		return nil, err
	}
	if currency == nil {
		return nil, fmt.Errorf("currency is nil")
	}

	return &Account{
		name:     name,
		id:       uuid.New(),
		currency: currency,
		balance:  NewBalance(),
	}, nil
}

// Name returns the account's name.
func (a *Account) Name() string { return a.name }

// ID returns the account's stable identity.
func (a *Account) ID() uuid.UUID { return a.id }

// RestoreID replaces the generated identity with a persisted one. Only the
// loader calls this, before the account is referenced anywhere.
func (a *Account) RestoreID(id uuid.UUID) { a.id = id }

// Currency returns the account's main currency.
func (a *Account) Currency() *Currency { return a.currency }

// Parent returns the owning group, or nil when standalone.
func (a *Account) Parent() *AccountGroup { return a.parent }

// Path returns the parent's path joined with the account's name.
func (a *Account) Path() string {
	if a.parent == nil {
		return a.name
	}
	return joinPath(a.parent.Path(), a.name)
}

// Balance returns the account's current per-currency balance. The returned
// balance must not be mutated by the caller.
func (a *Account) Balance() *Balance { return a.balance }

// Transactions returns the recorded transactions in recording order. The
// returned slice must not be mutated.
func (a *Account) Transactions() []*Transaction { return a.transactions }

// SetParent re-parents the account under a group, detaching it from its
// current group first. A nil parent leaves the account standalone.
func (a *Account) SetParent(parent *AccountGroup) error {
	return setGroupParent(a, parent)
}

// Record appends a transaction, recomputes the balance, and publishes. A
// categorized transaction also contributes its amount to the category.
func (a *Account) Record(t *Transaction) error {
	if t == nil {
		return fmt.Errorf("transaction is nil")
	}
	if t.Amount.currency == nil {
		return fmt.Errorf("transaction amount has no currency")
	}

	a.transactions = append(a.transactions, t)
	a.recompute()
	if t.Category != nil {
		t.Category.contribute(t.Amount)
	}
	return nil
}

// Remove deletes a previously recorded transaction, recomputes the balance,
// and publishes. The category contribution is reversed.
func (a *Account) Remove(t *Transaction) error {
	for i, existing := range a.transactions {
		if existing == t {
			a.transactions = append(a.transactions[:i], a.transactions[i+1:]...)
			a.recompute()
			if t.Category != nil {
				t.Category.contribute(t.Amount.Neg())
			}
			return nil
		}
	}
	return fmt.Errorf("transaction not recorded on account %s", a.Path())
}

// recompute rebuilds the per-currency balance from the recorded
// transactions and publishes unconditionally.
func (a *Account) recompute() {
	balance := NewBalance()
	for _, t := range a.transactions {
		balance.Add(t.Amount)
	}
	a.balance = balance
	a.publish()
}

func (a *Account) parentGroup() *AccountGroup     { return a.parent }
func (a *Account) setParentGroup(g *AccountGroup) { a.parent = g }
