// Package ast defines the directive types produced by parsing a book file.
//
// A book file is the line-oriented snapshot format for a moneytree ledger:
// currency declarations, exchange-rate points, hierarchy nodes (account
// groups, accounts, categories) with their persisted sibling positions and
// identities, and recorded transactions. The parser package produces a
// Snapshot; the loader package replays it into a live ledger.Book.
package ast

// Snapshot is the parsed content of a book file, in source order.
type Snapshot struct {
	Directives []Directive
}

// Directive is implemented by every book file directive.
type Directive interface {
	// Pos returns the directive's position in the source file.
	Pos() Position

	directive()
}

// CurrencyDecl declares a currency with its display precision.
//
//	currency USD 2
type CurrencyDecl struct {
	Code   string // 3-letter uppercase code
	Places int    // display precision, >= 0

	Position Position
}

// RateDecl sets one point of an exchange rate's dated history. The value is
// kept as the source string so the loader controls decimal conversion.
//
//	rate USD CZK 2024-01-01 23.00
type RateDecl struct {
	Primary   string
	Secondary string
	Date      *Date
	Value     string

	Position Position
}

// GroupDecl declares an account group at a path with a sibling position.
//
//	group 0 Bank id:9f3c1a0e-...
type GroupDecl struct {
	Index int    // sibling position under the parent
	Path  string // full slash-separated path; parent must already exist
	ID    string // optional persisted UUID

	Position Position
}

// AccountDecl declares a leaf account under an existing group.
//
//	account 0 Bank/Checking USD id:55ef...
type AccountDecl struct {
	Index    int
	Path     string
	Currency string // main currency code
	ID       string

	Position Position
}

// CategoryDecl declares a category node. Type is one of "income", "expense"
// or "dual"; child categories must repeat their parent's type.
//
//	category 0 expense Food id:3c2d...
type CategoryDecl struct {
	Index int
	Type  string
	Path  string
	ID    string

	Position Position
}

// TransactionDecl records an opaque balance contribution on an account,
// optionally attributed to a category.
//
//	txn 2024-01-05 Bank/Checking -250.00 CZK Food "groceries"
type TransactionDecl struct {
	Date        *Date
	Account     string // account path
	Amount      string // decimal source string
	Currency    string
	Category    string // category path, empty if uncategorized
	Description string

	Position Position
}

func (d *CurrencyDecl) Pos() Position    { return d.Position }
func (d *RateDecl) Pos() Position        { return d.Position }
func (d *GroupDecl) Pos() Position       { return d.Position }
func (d *AccountDecl) Pos() Position     { return d.Position }
func (d *CategoryDecl) Pos() Position    { return d.Position }
func (d *TransactionDecl) Pos() Position { return d.Position }

func (d *CurrencyDecl) directive()    {}
func (d *RateDecl) directive()        {}
func (d *GroupDecl) directive()       {}
func (d *AccountDecl) directive()     {}
func (d *CategoryDecl) directive()    {}
func (d *TransactionDecl) directive() {}
