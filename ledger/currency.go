package ledger

import (
	"strings"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/shopspring/decimal"
)

// Currency is a node in the conversion graph: a 3-letter code, a display
// precision, and the exchange rates connecting it to directly reachable
// currencies.
//
// A correct system holds a single Currency instance per code (the Book
// enforces this), but equality is code-based so aliasing is tolerated.
//
// Currencies are not safe for concurrent use; the whole ledger core assumes
// exclusive single-threaded access.
type Currency struct {
	code   string
	places int32

	// rates maps the other endpoint's code to the exchange rate connecting
	// it to this currency. adjacency records insertion order so graph
	// traversal is deterministic within a process run.
	rates     map[string]*ExchangeRate
	adjacency []string

	// factors caches conversion factors for un-dated lookups, keyed by
	// target currency code. Dated lookups are never cached: the cache has
	// no date dimension.
	factors map[string]decimal.Decimal
}

// NewCurrency creates a currency from a 3-letter alphabetic code (case is
// normalized to upper) and a non-negative display precision.
func NewCurrency(code string, places int32) (*Currency, error) {
	code = strings.ToUpper(code)
	if !validCurrencyCode(code) {
		return nil, &InvalidCurrencyCodeError{Code: code}
	}
	if places < 0 {
		return nil, &InvalidPrecisionError{Code: code, Places: places}
	}

	return &Currency{
		code:    code,
		places:  places,
		rates:   make(map[string]*ExchangeRate),
		factors: make(map[string]decimal.Decimal),
	}, nil
}

func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Code returns the 3-letter currency code.
func (c *Currency) Code() string { return c.code }

// Places returns the display precision.
func (c *Currency) Places() int32 { return c.places }

// String returns the currency code.
func (c *Currency) String() string { return c.code }

// Equal reports whether two currencies share the same code. Nil-safe.
func (c *Currency) Equal(other *Currency) bool {
	return c != nil && other != nil && c.code == other.code
}

// Zero returns a zero amount denominated in this currency.
func (c *Currency) Zero() CashAmount {
	return CashAmount{value: decimal.Zero, currency: c}
}

// ExchangeRates returns the rates connecting this currency to its direct
// neighbors, in the order they were registered.
func (c *Currency) ExchangeRates() []*ExchangeRate {
	rates := make([]*ExchangeRate, 0, len(c.adjacency))
	for _, code := range c.adjacency {
		rates = append(rates, c.rates[code])
	}
	return rates
}

// AddExchangeRate registers a rate that has this currency as one of its
// endpoints, keyed by the other endpoint, and drops the factor cache.
// A rate not touching this currency is a relation error.
func (c *Currency) AddExchangeRate(rate *ExchangeRate) error {
	other := rate.Other(c)
	if other == nil {
		return &UnrelatedRateError{
			Currency:  c.code,
			Primary:   rate.primary.code,
			Secondary: rate.secondary.code,
		}
	}

	if _, ok := c.rates[other.code]; !ok {
		c.adjacency = append(c.adjacency, other.code)
	}
	c.rates[other.code] = rate
	c.invalidate()
	return nil
}

// RemoveExchangeRate deregisters a rate previously added with
// AddExchangeRate and drops the factor cache.
func (c *Currency) RemoveExchangeRate(rate *ExchangeRate) error {
	other := rate.Other(c)
	if other == nil {
		return &UnrelatedRateError{
			Currency:  c.code,
			Primary:   rate.primary.code,
			Secondary: rate.secondary.code,
		}
	}

	if c.rates[other.code] == rate {
		delete(c.rates, other.code)
		for i, code := range c.adjacency {
			if code == other.code {
				c.adjacency = append(c.adjacency[:i], c.adjacency[i+1:]...)
				break
			}
		}
	}
	c.invalidate()
	return nil
}

// invalidate drops every cached conversion factor. Called on any rate
// mutation touching this currency; factors are resolved lazily through the
// graph so clearing the two endpoint caches suffices.
func (c *Currency) invalidate() {
	clear(c.factors)
}

// ConversionFactor returns the factor such that
// amountInTarget = amountInSelf * factor, using the latest value of each
// rate on the path. Results are cached per target; a cached reverse factor
// is reused as its reciprocal to avoid recomputing from the other side.
func (c *Currency) ConversionFactor(target *Currency) (decimal.Decimal, error) {
	return c.conversionFactor(target, nil)
}

// ConversionFactorAt is ConversionFactor pinned to a calendar date. The path
// is chosen without regard to dates; every rate on the chosen path must then
// have a value recorded for that exact date, otherwise a RateNotFoundError is
// returned. Dated factors are never cached.
func (c *Currency) ConversionFactorAt(target *Currency, date *ast.Date) (decimal.Decimal, error) {
	return c.conversionFactor(target, date)
}

func (c *Currency) conversionFactor(target *Currency, date *ast.Date) (decimal.Decimal, error) {
	if c.Equal(target) {
		return decimal.NewFromInt(1), nil
	}

	if date == nil {
		if factor, ok := c.factors[target.code]; ok {
			return factor, nil
		}
		if reverse, ok := target.factors[c.code]; ok {
			return decimal.NewFromInt(1).Div(reverse), nil
		}
	}

	path, ok := c.findPath(target.code, map[string]bool{})
	if !ok {
		return decimal.Zero, &ConversionNotFoundError{From: c.code, To: target.code}
	}

	// Compose the factor along the path: multiply when leaving a rate's
	// primary endpoint, divide when leaving its secondary.
	factor := decimal.NewFromInt(1)
	current := c
	for _, rate := range path {
		var value decimal.Decimal
		if date == nil {
			// findPath only walks edges with a non-empty history.
			value, _ = rate.Latest()
		} else {
			v, err := rate.RateAt(date)
			if err != nil {
				return decimal.Zero, err
			}
			value = v
		}

		if rate.primary.code == current.code {
			factor = factor.Mul(value)
			current = rate.secondary
		} else {
			factor = factor.Div(value)
			current = rate.primary
		}
	}

	if date == nil {
		c.factors[target.code] = factor
	}
	return factor, nil
}

// findPath resolves the chain of exchange rates connecting this currency to
// targetCode, depth-first in adjacency insertion order. Path selection is
// date-agnostic: any edge with a recorded history is usable, and dated value
// lookup happens only on the chosen path, so a dead-end edge missing a date
// never fails a lookup that another path can satisfy. Visited currencies are
// excluded from further expansion so traversal terminates on cyclic graphs.
func (c *Currency) findPath(targetCode string, visited map[string]bool) ([]*ExchangeRate, bool) {
	visited[c.code] = true

	for _, code := range c.adjacency {
		if visited[code] {
			continue
		}
		rate := c.rates[code]
		if len(rate.points) == 0 {
			// Empty history, the edge is unusable.
			continue
		}

		if code == targetCode {
			return []*ExchangeRate{rate}, true
		}

		if tail, ok := rate.Other(c).findPath(targetCode, visited); ok {
			return append([]*ExchangeRate{rate}, tail...), true
		}
	}

	return nil, false
}
