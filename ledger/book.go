package ledger

import (
	"strings"
)

// Book is the in-memory registry of a whole ledger: currencies (one instance
// per code), exchange rates, and the account and category hierarchies. It is
// the object the loader builds from a book file and the single source of
// truth the CLI and web server query.
//
// A Book is not safe for concurrent use.
type Book struct {
	currencies    map[string]*Currency
	currencyOrder []string
	rates         []*ExchangeRate

	groups     []*AccountGroup
	accounts   []*Account
	categories []*Category
}

// New creates an empty book.
func New() *Book {
	return &Book{
		currencies: make(map[string]*Currency),
	}
}

// AddCurrency registers a new currency. Registering a code twice is an
// error: the book guarantees a single Currency instance per code.
func (b *Book) AddCurrency(code string, places int32) (*Currency, error) {
	code = strings.ToUpper(code)
	if _, ok := b.currencies[code]; ok {
		return nil, &DuplicateCurrencyError{Code: code}
	}

	c, err := NewCurrency(code, places)
	if err != nil {
		return nil, err
	}
	b.currencies[c.Code()] = c
	b.currencyOrder = append(b.currencyOrder, c.Code())
	return c, nil
}

// Currency returns the registered currency for a code.
func (b *Book) Currency(code string) (*Currency, bool) {
	c, ok := b.currencies[strings.ToUpper(code)]
	return c, ok
}

// Currencies returns the registered currencies in registration order.
func (b *Book) Currencies() []*Currency {
	currencies := make([]*Currency, len(b.currencyOrder))
	for i, code := range b.currencyOrder {
		currencies[i] = b.currencies[code]
	}
	return currencies
}

// AddExchangeRate creates and registers a rate between two registered
// currencies. The pair is unordered: a USD/CZK rate rules out a second
// CZK/USD one.
func (b *Book) AddExchangeRate(primary, secondary string) (*ExchangeRate, error) {
	p, ok := b.Currency(primary)
	if !ok {
		return nil, &UnknownCurrencyError{Code: strings.ToUpper(primary)}
	}
	s, ok := b.Currency(secondary)
	if !ok {
		return nil, &UnknownCurrencyError{Code: strings.ToUpper(secondary)}
	}

	if _, ok := b.ExchangeRate(primary, secondary); ok {
		return nil, &DuplicateRateError{Primary: p.Code(), Secondary: s.Code()}
	}

	r, err := NewExchangeRate(p, s)
	if err != nil {
		return nil, err
	}
	b.rates = append(b.rates, r)
	return r, nil
}

// ExchangeRate returns the rate connecting two currency codes, in either
// endpoint order.
func (b *Book) ExchangeRate(a, c string) (*ExchangeRate, bool) {
	a, c = strings.ToUpper(a), strings.ToUpper(c)
	for _, r := range b.rates {
		if (r.primary.code == a && r.secondary.code == c) ||
			(r.primary.code == c && r.secondary.code == a) {
			return r, true
		}
	}
	return nil, false
}

// ExchangeRates returns all registered rates in registration order.
func (b *Book) ExchangeRates() []*ExchangeRate {
	return b.rates
}

// RemoveExchangeRate deregisters a rate from the book and from both of its
// endpoint currencies.
func (b *Book) RemoveExchangeRate(rate *ExchangeRate) {
	for i, r := range b.rates {
		if r == rate {
			b.rates = append(b.rates[:i], b.rates[i+1:]...)
			break
		}
	}
	rate.Delete()
}

// AddGroup registers an account group so it is reachable by path lookup.
func (b *Book) AddGroup(g *AccountGroup) {
	b.groups = append(b.groups, g)
}

// AddAccount registers an account so it is reachable by path lookup.
func (b *Book) AddAccount(a *Account) {
	b.accounts = append(b.accounts, a)
}

// AddCategory registers a category so it is reachable by path lookup.
func (b *Book) AddCategory(c *Category) {
	b.categories = append(b.categories, c)
}

// RootGroups returns the registered groups without a parent, in registration
// order.
func (b *Book) RootGroups() []*AccountGroup {
	var roots []*AccountGroup
	for _, g := range b.groups {
		if g.parent == nil {
			roots = append(roots, g)
		}
	}
	return roots
}

// RootCategories returns the registered parentless categories of a type, in
// registration order.
func (b *Book) RootCategories(typ CategoryType) []*Category {
	var roots []*Category
	for _, c := range b.categories {
		if c.parent == nil && c.typ == typ {
			roots = append(roots, c)
		}
	}
	return roots
}

// Groups returns every registered group.
func (b *Book) Groups() []*AccountGroup { return b.groups }

// Accounts returns every registered account.
func (b *Book) Accounts() []*Account { return b.accounts }

// Categories returns every registered category.
func (b *Book) Categories() []*Category { return b.categories }

// Group finds a registered group by its current path.
func (b *Book) Group(path string) (*AccountGroup, bool) {
	for _, g := range b.groups {
		if g.Path() == path {
			return g, true
		}
	}
	return nil, false
}

// Account finds a registered account by its current path.
func (b *Book) Account(path string) (*Account, bool) {
	for _, a := range b.accounts {
		if a.Path() == path {
			return a, true
		}
	}
	return nil, false
}

// Category finds a registered category by its current path.
func (b *Book) Category(path string) (*Category, bool) {
	for _, c := range b.categories {
		if c.Path() == path {
			return c, true
		}
	}
	return nil, false
}

// CategoryOfType finds a registered category by its current path within one
// category type. Types partition the category hierarchy, so same-named roots
// can exist across types and a path-only lookup cannot tell them apart.
func (b *Book) CategoryOfType(path string, typ CategoryType) (*Category, bool) {
	for _, c := range b.categories {
		if c.typ == typ && c.Path() == path {
			return c, true
		}
	}
	return nil, false
}
