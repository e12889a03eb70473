package ledger

import (
	"fmt"
	"sort"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/shopspring/decimal"
)

// ExchangeRate is an edge in the conversion graph: an unordered pair of
// distinct currencies with a dated history of conversion multipliers,
// meaning 1 unit of the primary currency equals the rate in units of the
// secondary.
//
// Construction registers the rate into both endpoint currencies' adjacency
// maps; Delete deregisters it symmetrically. Every history mutation drops
// the conversion-factor cache of both endpoints.
type ExchangeRate struct {
	primary   *Currency
	secondary *Currency

	// points holds the rate history sorted by date ascending.
	points []RatePoint
}

// RatePoint is a single dated value in an exchange rate's history.
type RatePoint struct {
	Date  *ast.Date
	Value decimal.Decimal
}

// NewExchangeRate creates a rate between two distinct currencies and
// registers it into both endpoints' adjacency maps.
func NewExchangeRate(primary, secondary *Currency) (*ExchangeRate, error) {
	if primary == nil || secondary == nil {
		return nil, fmt.Errorf("exchange rate endpoint is nil")
	}
	if primary.Equal(secondary) {
		return nil, &SameCurrencyError{Code: primary.code}
	}

	r := &ExchangeRate{primary: primary, secondary: secondary}
	// Both endpoints are known to be related, registration cannot fail.
	_ = primary.AddExchangeRate(r)
	_ = secondary.AddExchangeRate(r)
	return r, nil
}

// Primary returns the primary endpoint.
func (r *ExchangeRate) Primary() *Currency { return r.primary }

// Secondary returns the secondary endpoint.
func (r *ExchangeRate) Secondary() *Currency { return r.secondary }

// Other returns the endpoint opposite to the given currency, or nil if the
// currency is not an endpoint of this rate.
func (r *ExchangeRate) Other(c *Currency) *Currency {
	switch {
	case c == nil:
		return nil
	case r.primary.Equal(c):
		return r.secondary
	case r.secondary.Equal(c):
		return r.primary
	default:
		return nil
	}
}

// String returns the rate's currency pair as "USD/CZK".
func (r *ExchangeRate) String() string {
	return r.primary.code + "/" + r.secondary.code
}

// SetRate records the rate value for a date, replacing any existing value
// for that date. The value must be strictly positive.
func (r *ExchangeRate) SetRate(date *ast.Date, value decimal.Decimal) error {
	if date == nil {
		return fmt.Errorf("rate date is nil")
	}
	if !value.IsPositive() {
		return &InvalidRateError{Primary: r.primary.code, Secondary: r.secondary.code, Value: value}
	}

	i := r.searchDate(date)
	if i < len(r.points) && r.points[i].Date.Equal(date.Time) {
		r.points[i].Value = value
	} else {
		r.points = append(r.points, RatePoint{})
		copy(r.points[i+1:], r.points[i:])
		r.points[i] = RatePoint{Date: date, Value: value}
	}

	r.invalidate()
	return nil
}

// DeleteRate removes the value recorded for a date.
func (r *ExchangeRate) DeleteRate(date *ast.Date) error {
	if date == nil {
		return fmt.Errorf("rate date is nil")
	}

	i := r.searchDate(date)
	if i >= len(r.points) || !r.points[i].Date.Equal(date.Time) {
		return &RateNotFoundError{Primary: r.primary.code, Secondary: r.secondary.code, Date: date}
	}

	r.points = append(r.points[:i], r.points[i+1:]...)
	r.invalidate()
	return nil
}

// Latest returns the value at the most recent date, or false if the history
// is empty.
func (r *ExchangeRate) Latest() (decimal.Decimal, bool) {
	if len(r.points) == 0 {
		return decimal.Zero, false
	}
	return r.points[len(r.points)-1].Value, true
}

// LatestDate returns the most recent date in the history, or nil if empty.
func (r *ExchangeRate) LatestDate() *ast.Date {
	if len(r.points) == 0 {
		return nil
	}
	return r.points[len(r.points)-1].Date
}

// RateAt returns the value recorded for the exact date, or a
// RateNotFoundError if none exists.
func (r *ExchangeRate) RateAt(date *ast.Date) (decimal.Decimal, error) {
	i := r.searchDate(date)
	if i >= len(r.points) || !r.points[i].Date.Equal(date.Time) {
		return decimal.Zero, &RateNotFoundError{Primary: r.primary.code, Secondary: r.secondary.code, Date: date}
	}
	return r.points[i].Value, nil
}

// Points returns a copy of the rate history in chronological order.
func (r *ExchangeRate) Points() []RatePoint {
	points := make([]RatePoint, len(r.points))
	copy(points, r.points)
	return points
}

// Delete deregisters the rate from both endpoint currencies, dropping their
// factor caches. The rate must not be used afterwards.
func (r *ExchangeRate) Delete() {
	_ = r.primary.RemoveExchangeRate(r)
	_ = r.secondary.RemoveExchangeRate(r)
}

// searchDate returns the insertion index for date in the sorted history.
func (r *ExchangeRate) searchDate(date *ast.Date) int {
	return sort.Search(len(r.points), func(i int) bool {
		return !r.points[i].Date.Before(date.Time)
	})
}

// invalidate drops the factor cache of both endpoints. Factors are resolved
// lazily through the graph, so clearing the endpoints is sufficient even for
// currencies that cached a multi-hop factor through this edge.
func (r *ExchangeRate) invalidate() {
	r.primary.invalidate()
	r.secondary.invalidate()
}
