package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/shopspring/decimal"
)

func mustCurrency(t *testing.T, code string, places int32) *Currency {
	t.Helper()
	c, err := NewCurrency(code, places)
	assert.NoError(t, err)
	return c
}

func mustRate(t *testing.T, primary, secondary *Currency, points ...string) *ExchangeRate {
	t.Helper()
	r, err := NewExchangeRate(primary, secondary)
	assert.NoError(t, err)
	for i := 0; i+1 < len(points); i += 2 {
		assert.NoError(t, r.SetRate(ast.MustNewDate(points[i]), decimal.RequireFromString(points[i+1])))
	}
	return r
}

func TestNewCurrency_ValidatesCode(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"USD", true},
		{"usd", true}, // normalized to upper
		{"US", false},
		{"USDX", false},
		{"U5D", false},
		{"", false},
	}

	for _, tt := range tests {
		c, err := NewCurrency(tt.code, 2)
		if tt.ok {
			assert.NoError(t, err)
			assert.Equal(t, "USD", c.Code())
		} else {
			var codeErr *InvalidCurrencyCodeError
			assert.True(t, errors.As(err, &codeErr), "expected InvalidCurrencyCodeError for %q", tt.code)
		}
	}
}

func TestNewCurrency_RejectsNegativePrecision(t *testing.T) {
	_, err := NewCurrency("USD", -1)

	var precErr *InvalidPrecisionError
	assert.True(t, errors.As(err, &precErr))
	assert.Equal(t, int32(-1), precErr.Places)
}

func TestCurrency_EqualityIsCodeBased(t *testing.T) {
	a := mustCurrency(t, "USD", 2)
	b := mustCurrency(t, "USD", 4) // aliasing is tolerated
	c := mustCurrency(t, "EUR", 2)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestCurrency_AddExchangeRateRejectsUnrelated(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)
	czk := mustCurrency(t, "CZK", 2)

	rate := mustRate(t, usd, eur)

	err := czk.AddExchangeRate(rate)
	var relErr *UnrelatedRateError
	assert.True(t, errors.As(err, &relErr))
	assert.Equal(t, "CZK", relErr.Currency)
}

func TestConversionFactor_DirectRate(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, czk, "2024-01-01", "23")

	factor, err := usd.ConversionFactor(czk)
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.RequireFromString("23")), "got %s", factor)

	// The reverse direction divides by the rate.
	reverse, err := czk.ConversionFactor(usd)
	assert.NoError(t, err)
	assert.True(t, reverse.Equal(decimal.NewFromInt(1).Div(decimal.RequireFromString("23"))), "got %s", reverse)
}

func TestConversionFactor_ReciprocalConsistency(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, czk, "2024-01-01", "23")

	// Cache the forward direction first, then resolve the reverse: the
	// cached factor must be reused as its reciprocal.
	forward, err := usd.ConversionFactor(czk)
	assert.NoError(t, err)

	reverse, err := czk.ConversionFactor(usd)
	assert.NoError(t, err)
	assert.True(t, forward.Mul(reverse).Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.RequireFromString("0.0000000001")),
		"forward %s * reverse %s should be 1", forward, reverse)
}

func TestConversionFactor_MultiHopPathIndependence(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, eur, "2024-01-01", "0.9")
	mustRate(t, eur, czk, "2024-01-01", "25")

	ab, err := usd.ConversionFactor(eur)
	assert.NoError(t, err)
	bc, err := eur.ConversionFactor(czk)
	assert.NoError(t, err)
	ac, err := usd.ConversionFactor(czk)
	assert.NoError(t, err)

	assert.True(t, ac.Equal(ab.Mul(bc)), "A->C %s should equal A->B %s * B->C %s", ac, ab, bc)
}

func TestConversionFactor_CycleTerminates(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	eur := mustCurrency(t, "EUR", 2)
	czk := mustCurrency(t, "CZK", 2)
	gbp := mustCurrency(t, "GBP", 2)
	mustRate(t, usd, eur, "2024-01-01", "0.9")
	mustRate(t, eur, czk, "2024-01-01", "25")
	mustRate(t, czk, usd, "2024-01-01", "0.044")

	// The graph is cyclic; traversal must still terminate and find GBP
	// unreachable.
	_, err := usd.ConversionFactor(gbp)
	var notFound *ConversionNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "USD", notFound.From)
	assert.Equal(t, "GBP", notFound.To)
}

func TestConversionFactor_CacheInvalidatedByNewRate(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	rate := mustRate(t, usd, czk, "2024-01-01", "23")

	factor, err := usd.ConversionFactor(czk)
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.RequireFromString("23")))

	// A newer rate point must supersede the cached factor.
	assert.NoError(t, rate.SetRate(ast.MustNewDate("2024-02-01"), decimal.RequireFromString("24")))

	factor, err = usd.ConversionFactor(czk)
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.RequireFromString("24")), "got %s", factor)
}

func TestConversionFactor_RemoveRateDisconnects(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	rate := mustRate(t, usd, czk, "2024-01-01", "23")

	_, err := usd.ConversionFactor(czk)
	assert.NoError(t, err)

	rate.Delete()

	_, err = usd.ConversionFactor(czk)
	var notFound *ConversionNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestConversionFactorAt_RequiresExactDate(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, czk, "2024-01-01", "23", "2024-02-01", "24")

	factor, err := usd.ConversionFactorAt(czk, ast.MustNewDate("2024-01-01"))
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.RequireFromString("23")))

	// No rate was recorded for this exact date.
	_, err = usd.ConversionFactorAt(czk, ast.MustNewDate("2024-01-15"))
	var rateErr *RateNotFoundError
	assert.True(t, errors.As(err, &rateErr))
}

func TestConversionFactorAt_IgnoresDeadEndDateGaps(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	gbp := mustCurrency(t, "GBP", 2)
	eur := mustCurrency(t, "EUR", 2)
	czk := mustCurrency(t, "CZK", 2)

	// Dead-end edge probed first, with history on an older date only.
	mustRate(t, usd, gbp, "2023-01-01", "0.8")
	// Fully dated path USD -> EUR -> CZK.
	mustRate(t, usd, eur, "2024-01-01", "2")
	mustRate(t, eur, czk, "2024-01-01", "3")

	// The dead end must not fail the lookup; the path is chosen without
	// regard to dates and only its own edges are indexed by date.
	factor, err := usd.ConversionFactorAt(czk, ast.MustNewDate("2024-01-01"))
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.NewFromInt(6)), "got %s", factor)
}

func TestConversionFactorAt_NeverCached(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)
	czk := mustCurrency(t, "CZK", 2)
	mustRate(t, usd, czk, "2024-01-01", "23", "2024-02-01", "24")

	_, err := usd.ConversionFactorAt(czk, ast.MustNewDate("2024-01-01"))
	assert.NoError(t, err)

	// The dated lookup must not have populated the dateless cache.
	factor, err := usd.ConversionFactor(czk)
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.RequireFromString("24")), "got %s", factor)
}

func TestConversionFactor_SameCurrencyIsOne(t *testing.T) {
	usd := mustCurrency(t, "USD", 2)

	factor, err := usd.ConversionFactor(usd)
	assert.NoError(t, err)
	assert.True(t, factor.Equal(decimal.NewFromInt(1)))
}
