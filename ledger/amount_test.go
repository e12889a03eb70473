package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/shopspring/decimal"
)

func TestCashAmount_ArithmeticSameCurrency(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)

	a := MustNewCashAmount("10.50", usd)
	b := MustNewCashAmount("4.50", usd)

	sum, err := a.Add(b)
	assert.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("15")), "got %s", sum)

	diff, err := a.Sub(b)
	assert.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.RequireFromString("6")), "got %s", diff)

	ratio, err := a.Div(b)
	assert.NoError(t, err)
	assert.True(t, ratio.Equal(decimal.RequireFromString("2.3333333333333333")), "got %s", ratio)

	cmp, err := a.Cmp(b)
	assert.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

func TestCashAmount_MismatchedCurrencies(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	a := MustNewCashAmount("10", usd)
	b := MustNewCashAmount("10", eur)

	_, err := a.Add(b)
	var mismatch *CurrencyMismatchError
	assert.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "add", mismatch.Operation)
	assert.Equal(t, "USD", mismatch.Left)
	assert.Equal(t, "EUR", mismatch.Right)

	_, err = a.Sub(b)
	assert.True(t, errors.As(err, &mismatch))
	_, err = a.Cmp(b)
	assert.True(t, errors.As(err, &mismatch))
	_, err = a.Div(b)
	assert.True(t, errors.As(err, &mismatch))
}

func TestCashAmount_ZeroEqualsAnyZero(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	// A zero amount is currency-agnostic in equality: an empty balance is
	// an empty balance regardless of denomination.
	assert.True(t, usd.Zero().Equal(eur.Zero()))
	assert.True(t, MustNewCashAmount("0.00", usd).Equal(MustNewCashAmount("0", eur)))

	// Non-zero amounts still require matching currencies.
	assert.False(t, MustNewCashAmount("1", usd).Equal(MustNewCashAmount("1", eur)))
	assert.True(t, MustNewCashAmount("1", usd).Equal(MustNewCashAmount("1.00", usd)))
}

func TestCashAmount_NegAndMulPreserveCurrency(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)

	a := MustNewCashAmount("10", usd)
	neg := a.Neg()
	assert.True(t, neg.Amount().Equal(decimal.RequireFromString("-10")))
	assert.True(t, neg.Currency().Equal(usd))

	scaled := a.Mul(decimal.RequireFromString("1.5"))
	assert.True(t, scaled.Amount().Equal(decimal.RequireFromString("15")))
	assert.True(t, scaled.Currency().Equal(usd))
}

func TestCashAmount_ConvertScenario(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	rate := mustRate(t, usd, czk, "2024-01-01", "23")

	converted, err := MustNewCashAmount("10", usd).Convert(czk)
	assert.NoError(t, err)
	assert.True(t, converted.Equal(MustNewCashAmount("230", czk)), "got %s", converted)

	// A newer rate point takes over once set.
	assert.NoError(t, rate.SetRate(ast.MustNewDate("2024-02-01"), decimal.RequireFromString("24")))

	converted, err = MustNewCashAmount("10", usd).Convert(czk)
	assert.NoError(t, err)
	assert.True(t, converted.Equal(MustNewCashAmount("240", czk)), "got %s", converted)
}

func TestCashAmount_ConvertShortcuts(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	// Converting to the own currency returns the amount unchanged.
	a := MustNewCashAmount("10", usd)
	same, err := a.Convert(usd)
	assert.NoError(t, err)
	assert.True(t, same.Equal(a))

	// A zero amount converts without a rate path existing at all.
	zero, err := usd.Zero().Convert(eur)
	assert.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Currency().Equal(eur))
}

func TestCashAmount_ConvertRoundTrips(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, czk, "2024-01-01", "23")

	there, err := MustNewCashAmount("10", usd).Convert(czk)
	assert.NoError(t, err)
	back, err := there.Convert(usd)
	assert.NoError(t, err)

	tolerance := decimal.RequireFromString("0.0000000001")
	assert.True(t, back.Amount().Sub(decimal.RequireFromString("10")).Abs().LessThan(tolerance),
		"round trip drifted to %s", back)
}

func TestCashAmount_ConvertNoPath(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)

	_, err := MustNewCashAmount("10", usd).Convert(eur)
	var notFound *ConversionNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCashAmount_RoundedAndNormalizedAreViews(t *testing.T) {
	czk := mustCurrency(t, "CZK", 2)

	a := MustNewCashAmount("10.2368", czk)
	assert.True(t, a.Rounded().Equal(decimal.RequireFromString("10.24")))
	// The raw magnitude stays untouched.
	assert.True(t, a.Amount().Equal(decimal.RequireFromString("10.2368")))

	b := MustNewCashAmount("10.2300", czk)
	assert.Equal(t, "10.23", b.Normalized().String())
	c := MustNewCashAmount("100", czk)
	assert.Equal(t, "100", c.Normalized().String())
}

func TestCashAmount_String(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	assert.Equal(t, "10.00 USD", MustNewCashAmount("10", usd).String())
	assert.Equal(t, "-0.50 USD", MustNewCashAmount("-0.5", usd).String())
}

func TestCashAmount_DivByZero(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)

	_, err := MustNewCashAmount("10", usd).Div(usd.Zero())
	assert.Error(t, err)
}

func TestNewCashAmountFromString_RejectsGarbage(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)

	for _, value := range []string{"", "abc", "NaN", "Inf", "1..2"} {
		_, err := NewCashAmountFromString(value, usd)
		assert.Error(t, err, "value %q should be rejected", value)
	}
}
