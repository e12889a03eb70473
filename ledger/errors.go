package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/shopspring/decimal"
)

// Error types for ledger operations. Every mutator validates before touching
// state, so a returned error means nothing was applied.

// InvalidCurrencyCodeError is returned when a currency code is not exactly
// three ASCII letters.
type InvalidCurrencyCodeError struct {
	Code string
}

func (e *InvalidCurrencyCodeError) Error() string {
	return fmt.Sprintf("invalid currency code %q: must be 3 letters", e.Code)
}

// InvalidPrecisionError is returned when a currency is created with a
// negative number of display places.
type InvalidPrecisionError struct {
	Code   string
	Places int32
}

func (e *InvalidPrecisionError) Error() string {
	return fmt.Sprintf("invalid precision %d for currency %s: must be non-negative", e.Places, e.Code)
}

// DuplicateCurrencyError is returned when registering a currency code that
// already exists in the book. A correct system holds one Currency instance
// per code.
type DuplicateCurrencyError struct {
	Code string
}

func (e *DuplicateCurrencyError) Error() string {
	return fmt.Sprintf("currency %s is already registered", e.Code)
}

// UnknownCurrencyError is returned when an operation references a currency
// code that has not been registered.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %s", e.Code)
}

// CurrencyMismatchError is returned by binary CashAmount operations on
// amounts of differing currencies. It is a distinct type from the other
// validation errors so callers can catch it independently; note that
// equality of two zero amounts never raises it (see CashAmount.Equal).
type CurrencyMismatchError struct {
	Operation string
	Left      string // currency code of the left operand
	Right     string // currency code of the right operand
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("cannot %s amounts of different currencies: %s and %s", e.Operation, e.Left, e.Right)
}

// ConversionNotFoundError is returned when no path of exchange rates
// connects two currencies.
type ConversionNotFoundError struct {
	From string
	To   string
}

func (e *ConversionNotFoundError) Error() string {
	return fmt.Sprintf("no conversion path from %s to %s", e.From, e.To)
}

// RateNotFoundError is returned when an exchange rate has no value for the
// requested date.
type RateNotFoundError struct {
	Primary   string
	Secondary string
	Date      *ast.Date
}

func (e *RateNotFoundError) Error() string {
	if e.Date == nil {
		return fmt.Sprintf("no rate recorded for %s/%s", e.Primary, e.Secondary)
	}
	return fmt.Sprintf("no rate recorded for %s/%s on %s", e.Primary, e.Secondary, e.Date)
}

// UnrelatedRateError is returned when an exchange rate is added to or
// removed from a currency that is not one of its endpoints.
type UnrelatedRateError struct {
	Currency  string
	Primary   string
	Secondary string
}

func (e *UnrelatedRateError) Error() string {
	return fmt.Sprintf("exchange rate %s/%s does not reference currency %s", e.Primary, e.Secondary, e.Currency)
}

// SameCurrencyError is returned when both endpoints of an exchange rate are
// the same currency.
type SameCurrencyError struct {
	Code string
}

func (e *SameCurrencyError) Error() string {
	return fmt.Sprintf("exchange rate endpoints must differ, got %s twice", e.Code)
}

// InvalidRateError is returned when a rate value is not strictly positive.
type InvalidRateError struct {
	Primary   string
	Secondary string
	Value     decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid rate %s for %s/%s: must be positive", e.Value, e.Primary, e.Secondary)
}

// DuplicateRateError is returned when registering an exchange rate for a
// currency pair that already has one.
type DuplicateRateError struct {
	Primary   string
	Secondary string
}

func (e *DuplicateRateError) Error() string {
	return fmt.Sprintf("exchange rate %s/%s is already registered", e.Primary, e.Secondary)
}

// InvalidNameError is returned when a hierarchy node name violates the
// naming rules.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// InvalidParentError is returned when a node is assigned a parent it cannot
// be attached to.
type InvalidParentError struct {
	Node   string // path of the node being re-parented
	Parent string // path of the rejected parent
	Reason string
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("cannot attach %q under %q: %s", e.Node, e.Parent, e.Reason)
}

// CategoryTypeMismatchError is returned when a category is assigned a parent
// of a different category type.
type CategoryTypeMismatchError struct {
	Child      string
	Parent     string
	ChildType  CategoryType
	ParentType CategoryType
}

func (e *CategoryTypeMismatchError) Error() string {
	return fmt.Sprintf("category %q is %s but parent %q is %s", e.Child, e.ChildType, e.Parent, e.ParentType)
}

// ChildNotFoundError is returned by indexing operations when the given node
// is not a current child of the container.
type ChildNotFoundError struct {
	Parent string
	Child  string
}

func (e *ChildNotFoundError) Error() string {
	return fmt.Sprintf("%q is not a child of %q", e.Child, e.Parent)
}

// InvalidIndexError is returned when a sibling index is negative or beyond
// the current number of children.
type InvalidIndexError struct {
	Index int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid child index %d", e.Index)
}
