package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBalance_AddCreatesAndMerges(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	b := NewBalance()
	b.Add(MustNewCashAmount("100", usd))
	b.Add(MustNewCashAmount("50", usd))
	b.Add(MustNewCashAmount("20", eur))

	assert.True(t, b.Get(usd).Equal(MustNewCashAmount("150", usd)))
	assert.True(t, b.Get(eur).Equal(MustNewCashAmount("20", eur)))

	// Entries come back sorted by currency code.
	entries := b.Entries()
	assert.Equal(t, 2, len(entries))
	assert.Equal(t, "EUR", entries[0].Currency().Code())
	assert.Equal(t, "USD", entries[1].Currency().Code())
}

func TestBalance_GetMissingCurrencyIsZero(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	b := NewBalance()
	b.Add(MustNewCashAmount("100", usd))

	got := b.Get(eur)
	assert.True(t, got.IsZero())
	assert.True(t, got.Currency().Equal(eur))
}

func TestBalance_MergeAndCopy(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	a := NewBalance()
	a.Add(MustNewCashAmount("100", usd))

	other := NewBalance()
	other.Add(MustNewCashAmount("50", usd))
	other.Add(MustNewCashAmount("20", eur))

	a.Merge(other)
	assert.True(t, a.Get(usd).Equal(MustNewCashAmount("150", usd)))
	assert.True(t, a.Get(eur).Equal(MustNewCashAmount("20", eur)))

	// A copy is independent of the original.
	cp := a.Copy()
	cp.Add(MustNewCashAmount("1", usd))
	assert.True(t, a.Get(usd).Equal(MustNewCashAmount("150", usd)))
	assert.True(t, cp.Get(usd).Equal(MustNewCashAmount("151", usd)))
}

func TestBalance_Equal(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	a := NewBalance()
	a.Add(MustNewCashAmount("100", usd))

	b := NewBalance()
	b.Add(MustNewCashAmount("100", usd))
	assert.True(t, a.Equal(b))

	// A zero entry in another currency does not break equality.
	b.Add(eur.Zero())
	assert.True(t, a.Equal(b))

	b.Add(MustNewCashAmount("1", eur))
	assert.False(t, a.Equal(b))

	assert.True(t, NewBalance().Equal(nil))
}

func TestBalance_ConvertTotal(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, czk, "2024-01-01", "23")

	b := NewBalance()
	b.Add(MustNewCashAmount("10", usd))
	b.Add(MustNewCashAmount("70", czk))

	total, err := b.ConvertTotal(czk)
	assert.NoError(t, err)
	assert.True(t, total.Equal(MustNewCashAmount("300", czk)), "got %s", total)
}

func TestBalance_IsZeroAndString(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)

	b := NewBalance()
	assert.True(t, b.IsZero())
	assert.Equal(t, "(empty)", b.String())

	b.Add(MustNewCashAmount("0", usd))
	assert.True(t, b.IsZero())

	b.Add(MustNewCashAmount("1.5", usd))
	assert.False(t, b.IsZero())
	assert.Equal(t, "1.50 USD", b.String())
}
