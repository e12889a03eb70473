package ledger

import (
	"sort"
	"strings"
)

// Balance is a per-currency set of amounts: at most one entry per currency
// actually present among its contributors. Amounts of differing currencies
// stay distinct entries; nothing at this layer forces conversion to a base
// currency (that is a presentation concern).
//
// Entries are kept sorted by currency code for deterministic iteration and
// display.
type Balance struct {
	entries []CashAmount
}

// NewBalance creates an empty balance.
func NewBalance() *Balance {
	return &Balance{}
}

// Get returns the amount held in the given currency, or that currency's
// zero if absent.
func (b *Balance) Get(currency *Currency) CashAmount {
	for _, e := range b.entries {
		if e.currency.Equal(currency) {
			return e
		}
	}
	return currency.Zero()
}

// Add merges an amount into the balance, creating the currency entry if it
// is new.
func (b *Balance) Add(amount CashAmount) {
	for i, e := range b.entries {
		if e.currency.Equal(amount.currency) {
			b.entries[i] = CashAmount{value: e.value.Add(amount.value), currency: e.currency}
			return
		}
	}

	b.entries = append(b.entries, amount)
	sort.Slice(b.entries, func(i, j int) bool {
		return b.entries[i].currency.code < b.entries[j].currency.code
	})
}

// Merge adds every entry of another balance into this one.
func (b *Balance) Merge(other *Balance) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		b.Add(e)
	}
}

// Entries returns the entries sorted by currency code. The returned slice
// must not be mutated.
func (b *Balance) Entries() []CashAmount {
	return b.entries
}

// Currencies returns the currencies present, sorted by code.
func (b *Balance) Currencies() []*Currency {
	currencies := make([]*Currency, len(b.entries))
	for i, e := range b.entries {
		currencies[i] = e.currency
	}
	return currencies
}

// IsZero reports whether the balance is empty or all entries are zero.
func (b *Balance) IsZero() bool {
	for _, e := range b.entries {
		if !e.value.IsZero() {
			return false
		}
	}
	return true
}

// Copy creates a deep copy of this balance.
func (b *Balance) Copy() *Balance {
	if b == nil {
		return NewBalance()
	}
	entries := make([]CashAmount, len(b.entries))
	copy(entries, b.entries)
	return &Balance{entries: entries}
}

// Equal reports whether two balances hold the same amounts, applying
// CashAmount's zero-equality rule per currency entry.
func (b *Balance) Equal(other *Balance) bool {
	if other == nil {
		return b.IsZero()
	}
	for _, e := range b.entries {
		if !other.Get(e.currency).Equal(e) {
			return false
		}
	}
	for _, e := range other.entries {
		if !b.Get(e.currency).Equal(e) {
			return false
		}
	}
	return true
}

// ConvertTotal sums every entry converted into the target currency using the
// latest rates. Zero entries convert without consulting the graph.
func (b *Balance) ConvertTotal(target *Currency) (CashAmount, error) {
	total := target.Zero()
	for _, e := range b.entries {
		converted, err := e.Convert(target)
		if err != nil {
			return CashAmount{}, err
		}
		total, err = total.Add(converted)
		if err != nil {
			return CashAmount{}, err
		}
	}
	return total, nil
}

// String returns a human-readable representation like "150.00 USD, 80.00 EUR".
func (b *Balance) String() string {
	if len(b.entries) == 0 {
		return "(empty)"
	}

	parts := make([]string, len(b.entries))
	for i, e := range b.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
