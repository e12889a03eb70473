// Package loader reads book files into a live ledger.Book.
//
// Loading replays the snapshot in dependency order regardless of the order
// directives appear in the file: currencies first, then exchange rates, then
// hierarchy nodes sorted parents-before-children and by their persisted
// sibling position, then transactions. Attaching the nodes in that order
// re-derives each parent's sibling index map and rewires the
// balance-aggregation listeners, so the final replay of transactions leaves
// every aggregate consistent with the leaves.
package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/robinvdvleuten/moneytree/ledger"
	"github.com/robinvdvleuten/moneytree/parser"
	"github.com/robinvdvleuten/moneytree/telemetry"
)

// Loader builds ledger books from book files.
type Loader struct{}

// New creates a new Loader.
func New() *Loader {
	return &Loader{}
}

// LoadError wraps a ledger error with the position of the directive that
// caused it.
type LoadError struct {
	Pos ast.Position
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Pos.Filename, e.Pos.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// GetPosition returns the position of the offending directive.
func (e *LoadError) GetPosition() ast.Position { return e.Pos }

// Load reads and parses a book file, then builds the book from it.
func (l *Loader) Load(ctx context.Context, filename string) (*ledger.Book, *ast.Snapshot, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, source)
}

// LoadBytes parses book file source and builds the book from it.
func (l *Loader) LoadBytes(ctx context.Context, filename string, source []byte) (*ledger.Book, *ast.Snapshot, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("load %s", filename))
	defer timer.End()

	parseTimer := timer.Child("parse")
	snapshot, err := parser.Parse(filename, source)
	parseTimer.End()
	if err != nil {
		return nil, nil, err
	}

	buildTimer := timer.Child("build")
	book, err := l.Build(snapshot)
	buildTimer.End()
	if err != nil {
		return nil, nil, err
	}
	return book, snapshot, nil
}

// Build replays a snapshot into a new book.
func (l *Loader) Build(snapshot *ast.Snapshot) (*ledger.Book, error) {
	b := &builder{
		book:   ledger.New(),
		groups: make(map[string]*ledger.AccountGroup),
	}
	return b.build(snapshot)
}

type builder struct {
	book *ledger.Book

	// groups indexes loaded groups by path for parent resolution.
	groups map[string]*ledger.AccountGroup
}

func (b *builder) build(snapshot *ast.Snapshot) (*ledger.Book, error) {
	var rates []*ast.RateDecl
	var nodes []ast.Directive
	var txns []*ast.TransactionDecl

	// First pass: currencies immediately, everything else bucketed.
	for _, directive := range snapshot.Directives {
		switch d := directive.(type) {
		case *ast.CurrencyDecl:
			if _, err := b.book.AddCurrency(d.Code, int32(d.Places)); err != nil {
				return nil, &LoadError{Pos: d.Position, Err: err}
			}
		case *ast.RateDecl:
			rates = append(rates, d)
		case *ast.GroupDecl, *ast.AccountDecl, *ast.CategoryDecl:
			nodes = append(nodes, directive)
		case *ast.TransactionDecl:
			txns = append(txns, d)
		}
	}

	for _, d := range rates {
		if err := b.applyRate(d); err != nil {
			return nil, err
		}
	}

	// Parents before children, siblings by persisted position: appending
	// in this order reconstructs every sibling index map exactly.
	slices.SortStableFunc(nodes, func(a, b ast.Directive) int {
		if d := pathDepth(nodePath(a)) - pathDepth(nodePath(b)); d != 0 {
			return d
		}
		return nodeIndex(a) - nodeIndex(b)
	})
	for _, directive := range nodes {
		if err := b.applyNode(directive); err != nil {
			return nil, err
		}
	}

	for _, d := range txns {
		if err := b.applyTransaction(d); err != nil {
			return nil, err
		}
	}

	return b.book, nil
}

func (b *builder) applyRate(d *ast.RateDecl) error {
	rate, ok := b.book.ExchangeRate(d.Primary, d.Secondary)
	if !ok {
		var err error
		rate, err = b.book.AddExchangeRate(d.Primary, d.Secondary)
		if err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
	}

	value, err := decimal.NewFromString(d.Value)
	if err != nil {
		return &LoadError{Pos: d.Position, Err: fmt.Errorf("invalid rate value %q: %w", d.Value, err)}
	}
	if err := rate.SetRate(d.Date, value); err != nil {
		return &LoadError{Pos: d.Position, Err: err}
	}
	return nil
}

func (b *builder) applyNode(directive ast.Directive) error {
	switch d := directive.(type) {
	case *ast.GroupDecl:
		parent, name, err := b.parentGroup(d.Path, d.Position)
		if err != nil {
			return err
		}
		group, err := ledger.NewAccountGroup(name)
		if err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		if err := restoreID(d.ID, d.Position, group.RestoreID); err != nil {
			return err
		}
		if err := group.SetParent(parent); err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		b.book.AddGroup(group)
		b.groups[d.Path] = group

	case *ast.AccountDecl:
		parent, name, err := b.parentGroup(d.Path, d.Position)
		if err != nil {
			return err
		}
		currency, ok := b.book.Currency(d.Currency)
		if !ok {
			return &LoadError{Pos: d.Position, Err: fmt.Errorf("unknown currency %s", d.Currency)}
		}
		account, err := ledger.NewAccount(name, currency)
		if err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		if err := restoreID(d.ID, d.Position, account.RestoreID); err != nil {
			return err
		}
		if err := account.SetParent(parent); err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		b.book.AddAccount(account)

	case *ast.CategoryDecl:
		typ, err := ledger.ParseCategoryType(d.Type)
		if err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		parentPath, name := splitPath(d.Path)
		var parent *ledger.Category
		if parentPath != "" {
			// Same-named roots may exist across category types; resolve the
			// parent within the declared type.
			p, ok := b.book.CategoryOfType(parentPath, typ)
			if !ok {
				return &LoadError{Pos: d.Position, Err: fmt.Errorf("unknown parent category %s", parentPath)}
			}
			parent = p
		}
		category, err := ledger.NewCategory(name, typ)
		if err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		if err := restoreID(d.ID, d.Position, category.RestoreID); err != nil {
			return err
		}
		if err := category.SetParent(parent); err != nil {
			return &LoadError{Pos: d.Position, Err: err}
		}
		b.book.AddCategory(category)
	}
	return nil
}

func (b *builder) applyTransaction(d *ast.TransactionDecl) error {
	account, ok := b.book.Account(d.Account)
	if !ok {
		return &LoadError{Pos: d.Position, Err: fmt.Errorf("unknown account %s", d.Account)}
	}
	currency, ok := b.book.Currency(d.Currency)
	if !ok {
		return &LoadError{Pos: d.Position, Err: fmt.Errorf("unknown currency %s", d.Currency)}
	}

	var category *ledger.Category
	if d.Category != "" {
		c, ok := b.book.Category(d.Category)
		if !ok {
			return &LoadError{Pos: d.Position, Err: fmt.Errorf("unknown category %s", d.Category)}
		}
		category = c
	}

	amount, err := ledger.NewCashAmountFromString(d.Amount, currency)
	if err != nil {
		return &LoadError{Pos: d.Position, Err: err}
	}
	txn, err := ledger.NewTransaction(d.Date, d.Description, amount, category)
	if err != nil {
		return &LoadError{Pos: d.Position, Err: err}
	}
	if err := account.Record(txn); err != nil {
		return &LoadError{Pos: d.Position, Err: err}
	}
	return nil
}

// parentGroup resolves the parent of a node path against the groups loaded
// so far. A single-segment path is a root (nil parent).
func (b *builder) parentGroup(path string, pos ast.Position) (*ledger.AccountGroup, string, error) {
	parentPath, name := splitPath(path)
	if parentPath == "" {
		return nil, name, nil
	}
	parent, ok := b.groups[parentPath]
	if !ok {
		return nil, "", &LoadError{Pos: pos, Err: fmt.Errorf("unknown parent group %s", parentPath)}
	}
	return parent, name, nil
}

func restoreID(id string, pos ast.Position, restore func(uuid.UUID)) error {
	if id == "" {
		return nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return &LoadError{Pos: pos, Err: fmt.Errorf("invalid id %q: %w", id, err)}
	}
	restore(parsed)
	return nil
}

func splitPath(path string) (parent, name string) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i], path[i+1:]
		}
	}
	return "", path
}

func pathDepth(path string) int {
	depth := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			depth++
		}
	}
	return depth
}

func nodePath(directive ast.Directive) string {
	switch d := directive.(type) {
	case *ast.GroupDecl:
		return d.Path
	case *ast.AccountDecl:
		return d.Path
	case *ast.CategoryDecl:
		return d.Path
	}
	return ""
}

func nodeIndex(directive ast.Directive) int {
	switch d := directive.(type) {
	case *ast.GroupDecl:
		return d.Index
	case *ast.AccountDecl:
		return d.Index
	case *ast.CategoryDecl:
		return d.Index
	}
	return 0
}
