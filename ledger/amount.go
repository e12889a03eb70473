package ledger

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/shopspring/decimal"
)

// CashAmount is an immutable pairing of an exact decimal magnitude and a
// currency. All arithmetic returns new values; the raw magnitude is never
// rounded in place, so repeated conversions stay numerically stable instead
// of compounding rounding error.
//
// Binary operations require identical currencies and return a
// CurrencyMismatchError otherwise, with one deliberate exception: equality
// treats a zero amount as currency-agnostic (see Equal).
type CashAmount struct {
	value    decimal.Decimal
	currency *Currency
}

// NewCashAmount pairs a decimal magnitude with a currency.
func NewCashAmount(value decimal.Decimal, currency *Currency) (CashAmount, error) {
	if currency == nil {
		return CashAmount{}, fmt.Errorf("currency is nil")
	}
	return CashAmount{value: value, currency: currency}, nil
}

// NewCashAmountFromString parses a decimal magnitude from its source string.
// Non-numeric and non-finite inputs are rejected by the decimal parser.
func NewCashAmountFromString(value string, currency *Currency) (CashAmount, error) {
	if currency == nil {
		return CashAmount{}, fmt.Errorf("currency is nil")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return CashAmount{}, fmt.Errorf("invalid amount value %q: %w", value, err)
	}
	return CashAmount{value: d, currency: currency}, nil
}

// MustNewCashAmount parses an amount and panics on error. Use only in tests.
func MustNewCashAmount(value string, currency *Currency) CashAmount {
	a, err := NewCashAmountFromString(value, currency)
	if err != nil {
		panic(err)
	}
	return a
}

// Currency returns the amount's currency.
func (a CashAmount) Currency() *Currency { return a.currency }

// Amount returns the raw, unrounded magnitude.
func (a CashAmount) Amount() decimal.Decimal { return a.value }

// IsZero reports whether the magnitude is zero.
func (a CashAmount) IsZero() bool { return a.value.IsZero() }

// IsPositive reports whether the magnitude is strictly positive.
func (a CashAmount) IsPositive() bool { return a.value.IsPositive() }

// IsNegative reports whether the magnitude is strictly negative.
func (a CashAmount) IsNegative() bool { return a.value.IsNegative() }

// Add returns the sum of two same-currency amounts.
func (a CashAmount) Add(other CashAmount) (CashAmount, error) {
	if !a.currency.Equal(other.currency) {
		return CashAmount{}, a.mismatch("add", other)
	}
	return CashAmount{value: a.value.Add(other.value), currency: a.currency}, nil
}

// Sub returns the difference of two same-currency amounts.
func (a CashAmount) Sub(other CashAmount) (CashAmount, error) {
	if !a.currency.Equal(other.currency) {
		return CashAmount{}, a.mismatch("subtract", other)
	}
	return CashAmount{value: a.value.Sub(other.value), currency: a.currency}, nil
}

// Neg returns the amount with its sign flipped, preserving the currency.
func (a CashAmount) Neg() CashAmount {
	return CashAmount{value: a.value.Neg(), currency: a.currency}
}

// Mul scales the amount by a dimensionless factor, preserving the currency.
func (a CashAmount) Mul(factor decimal.Decimal) CashAmount {
	return CashAmount{value: a.value.Mul(factor), currency: a.currency}
}

// Div returns the dimensionless ratio of two same-currency amounts.
func (a CashAmount) Div(other CashAmount) (decimal.Decimal, error) {
	if !a.currency.Equal(other.currency) {
		return decimal.Zero, a.mismatch("divide", other)
	}
	if other.value.IsZero() {
		return decimal.Zero, fmt.Errorf("division by zero amount")
	}
	return a.value.Div(other.value), nil
}

// Cmp compares two same-currency amounts: -1 if a < other, 0 if equal,
// +1 if a > other.
func (a CashAmount) Cmp(other CashAmount) (int, error) {
	if !a.currency.Equal(other.currency) {
		return 0, a.mismatch("compare", other)
	}
	return a.value.Cmp(other.value), nil
}

// Equal reports whether two amounts are equal. Unlike the other binary
// operations it never fails on a currency mismatch: a zero amount equals a
// zero amount in any other currency. An empty balance is an empty balance
// regardless of denomination; this is a deliberate business rule, not an
// oversight.
func (a CashAmount) Equal(other CashAmount) bool {
	if a.value.IsZero() && other.value.IsZero() {
		return true
	}
	return a.currency.Equal(other.currency) && a.value.Equal(other.value)
}

// Convert re-denominates the amount into the target currency using the
// latest rates. The amount is returned unchanged if already in the target
// currency; a zero amount converts to the target's zero without consulting
// the graph, so zero balances tolerate missing rate paths.
func (a CashAmount) Convert(target *Currency) (CashAmount, error) {
	return a.convert(target, nil)
}

// ConvertAt is Convert pinned to a calendar date; every rate on the
// conversion path must have a value for that exact date.
func (a CashAmount) ConvertAt(target *Currency, date *ast.Date) (CashAmount, error) {
	return a.convert(target, date)
}

func (a CashAmount) convert(target *Currency, date *ast.Date) (CashAmount, error) {
	if target == nil {
		return CashAmount{}, fmt.Errorf("target currency is nil")
	}
	if a.currency.Equal(target) {
		return a, nil
	}
	if a.value.IsZero() {
		return target.Zero(), nil
	}

	factor, err := a.currency.conversionFactor(target, date)
	if err != nil {
		return CashAmount{}, err
	}
	return CashAmount{value: a.value.Mul(factor), currency: target}, nil
}

// Rounded returns the magnitude rounded to the currency's display precision.
// A computed view: the stored raw magnitude is never mutated.
func (a CashAmount) Rounded() decimal.Decimal {
	return a.value.Round(a.currency.places)
}

// Normalized returns the magnitude with trailing fractional zeros stripped.
func (a CashAmount) Normalized() decimal.Decimal {
	s := a.value.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	d, _ := decimal.NewFromString(s)
	return d
}

// String renders the amount at display precision followed by the currency
// code, e.g. "230.00 CZK".
func (a CashAmount) String() string {
	return a.Rounded().StringFixed(a.currency.places) + " " + a.currency.code
}

func (a CashAmount) mismatch(op string, other CashAmount) error {
	return &CurrencyMismatchError{Operation: op, Left: a.currency.Code(), Right: other.currency.Code()}
}
