// Package formatter writes an ast.Snapshot back out as canonical book file
// text: one directive per line, normalized spacing, and transaction amounts
// right-aligned so their currency codes line up in a column.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/moneytree/ast"
)

const (
	// DefaultCurrencyColumn is the default column the currency code of a
	// transaction amount starts at (0 = derive from content).
	DefaultCurrencyColumn = 0

	// MinimumSpacing is the minimum number of spaces between a
	// transaction's account path and its amount.
	MinimumSpacing = 2
)

// Formatter formats snapshots into canonical book file text.
type Formatter struct {
	// CurrencyColumn fixes the 0-based column where amount currency codes
	// start. When 0 the column is derived from the widest transaction line.
	CurrencyColumn int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithCurrencyColumn fixes the currency alignment column.
func WithCurrencyColumn(column int) Option {
	return func(f *Formatter) {
		f.CurrencyColumn = column
	}
}

// New creates a formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{CurrencyColumn: DefaultCurrencyColumn}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format writes the snapshot as canonical book file text. Directives keep
// their source order; one blank line separates directive kinds when the kind
// changes.
func (f *Formatter) Format(w io.Writer, snapshot *ast.Snapshot) error {
	column := f.CurrencyColumn
	if column == 0 {
		column = f.deriveCurrencyColumn(snapshot)
	}

	var lastKind string
	for i, directive := range snapshot.Directives {
		kind := directiveKind(directive)
		if i > 0 && kind != lastKind {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		lastKind = kind

		if _, err := io.WriteString(w, f.formatDirective(directive, column)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) formatDirective(directive ast.Directive, column int) string {
	switch d := directive.(type) {
	case *ast.CurrencyDecl:
		return fmt.Sprintf("currency %s %d", d.Code, d.Places)

	case *ast.RateDecl:
		return fmt.Sprintf("rate %s %s %s %s", d.Primary, d.Secondary, d.Date, d.Value)

	case *ast.GroupDecl:
		return appendID(fmt.Sprintf("group %d %s", d.Index, QuotePath(d.Path)), d.ID)

	case *ast.AccountDecl:
		return appendID(fmt.Sprintf("account %d %s %s", d.Index, QuotePath(d.Path), d.Currency), d.ID)

	case *ast.CategoryDecl:
		return appendID(fmt.Sprintf("category %d %s %s", d.Index, d.Type, QuotePath(d.Path)), d.ID)

	case *ast.TransactionDecl:
		prefix := fmt.Sprintf("txn %s %s", d.Date, QuotePath(d.Account))
		line := alignAmount(prefix, d.Amount, d.Currency, column)
		if d.Category != "" {
			line += " " + QuotePath(d.Category)
		}
		if d.Description != "" {
			line += " " + QuoteString(d.Description)
		}
		return line

	default:
		return ""
	}
}

// deriveCurrencyColumn finds the column at which every transaction's
// currency code can start, given right-aligned amounts.
func (f *Formatter) deriveCurrencyColumn(snapshot *ast.Snapshot) int {
	column := 0
	for _, directive := range snapshot.Directives {
		d, ok := directive.(*ast.TransactionDecl)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("txn %s %s", d.Date, QuotePath(d.Account))
		width := runewidth.StringWidth(prefix) + MinimumSpacing + runewidth.StringWidth(d.Amount) + 1
		if width > column {
			column = width
		}
	}
	return column
}

// alignAmount pads between prefix and amount so the currency code starts at
// the target column.
func alignAmount(prefix, amount, currency string, column int) string {
	padding := column - 1 - runewidth.StringWidth(prefix) - runewidth.StringWidth(amount)
	if padding < MinimumSpacing {
		padding = MinimumSpacing
	}
	return prefix + strings.Repeat(" ", padding) + amount + " " + currency
}

func appendID(line, id string) string {
	if id == "" {
		return line
	}
	return line + " id:" + id
}

func directiveKind(directive ast.Directive) string {
	switch directive.(type) {
	case *ast.CurrencyDecl:
		return "currency"
	case *ast.RateDecl:
		return "rate"
	case *ast.GroupDecl, *ast.AccountDecl, *ast.CategoryDecl:
		return "node"
	case *ast.TransactionDecl:
		return "txn"
	default:
		return ""
	}
}
