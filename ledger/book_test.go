package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBook_CurrencyRegistry(t *testing.T) {
	b := New()

	usd, err := b.AddCurrency("usd", 2)
	assert.NoError(t, err)
	assert.Equal(t, "USD", usd.Code())

	_, err = b.AddCurrency("USD", 2)
	var dup *DuplicateCurrencyError
	assert.True(t, errors.As(err, &dup))

	got, ok := b.Currency("usd")
	assert.True(t, ok)
	assert.True(t, got == usd)

	_, ok = b.Currency("EUR")
	assert.False(t, ok)

	_, err = b.AddCurrency("EUR", 2)
	assert.NoError(t, err)
	codes := make([]string, 0, 2)
	for _, c := range b.Currencies() {
		codes = append(codes, c.Code())
	}
	assert.Equal(t, []string{"USD", "EUR"}, codes)
}

func TestBook_ExchangeRateRegistry(t *testing.T) {
	b := New()
	_, err := b.AddCurrency("USD", 2)
	assert.NoError(t, err)
	_, err = b.AddCurrency("CZK", 2)
	assert.NoError(t, err)

	_, err = b.AddExchangeRate("USD", "EUR")
	var unknown *UnknownCurrencyError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "EUR", unknown.Code)

	rate, err := b.AddExchangeRate("USD", "CZK")
	assert.NoError(t, err)

	// The pair is unordered, either endpoint order resolves and collides.
	got, ok := b.ExchangeRate("czk", "usd")
	assert.True(t, ok)
	assert.True(t, got == rate)

	_, err = b.AddExchangeRate("CZK", "USD")
	var dup *DuplicateRateError
	assert.True(t, errors.As(err, &dup))

	b.RemoveExchangeRate(rate)
	_, ok = b.ExchangeRate("USD", "CZK")
	assert.False(t, ok)
	usd, _ := b.Currency("USD")
	assert.Equal(t, 0, len(usd.ExchangeRates()))
}

func TestBook_PathLookups(t *testing.T) {
	b := New()
	usd, err := b.AddCurrency("USD", 2)
	assert.NoError(t, err)

	bank := mustGroup(t, "Bank")
	savings := mustGroup(t, "Savings")
	assert.NoError(t, savings.SetParent(bank))
	checking := mustAccount(t, "Checking", usd)
	assert.NoError(t, checking.SetParent(bank))
	food := mustCategory(t, "Food", CategoryTypeExpense)

	b.AddGroup(bank)
	b.AddGroup(savings)
	b.AddAccount(checking)
	b.AddCategory(food)

	g, ok := b.Group("Bank/Savings")
	assert.True(t, ok)
	assert.True(t, g == savings)

	a, ok := b.Account("Bank/Checking")
	assert.True(t, ok)
	assert.True(t, a == checking)

	c, ok := b.Category("Food")
	assert.True(t, ok)
	assert.True(t, c == food)

	_, ok = b.Group("Bank/Checking")
	assert.False(t, ok)

	// Lookup follows the current ancestry after a move.
	archive := mustGroup(t, "Archive")
	b.AddGroup(archive)
	assert.NoError(t, savings.SetParent(archive))
	_, ok = b.Group("Bank/Savings")
	assert.False(t, ok)
	g, ok = b.Group("Archive/Savings")
	assert.True(t, ok)
	assert.True(t, g == savings)
}

func TestBook_CategoryOfType(t *testing.T) {
	b := New()

	incomeFood := mustCategory(t, "Food", CategoryTypeIncome)
	expenseFood := mustCategory(t, "Food", CategoryTypeExpense)
	b.AddCategory(incomeFood)
	b.AddCategory(expenseFood)

	// Path-only lookup cannot tell same-named roots apart; the typed lookup
	// resolves within one category tree.
	c, ok := b.CategoryOfType("Food", CategoryTypeExpense)
	assert.True(t, ok)
	assert.True(t, c == expenseFood)

	c, ok = b.CategoryOfType("Food", CategoryTypeIncome)
	assert.True(t, ok)
	assert.True(t, c == incomeFood)

	_, ok = b.CategoryOfType("Food", CategoryTypeDualPurpose)
	assert.False(t, ok)
}

func TestBook_RootViews(t *testing.T) {
	b := New()

	bank := mustGroup(t, "Bank")
	savings := mustGroup(t, "Savings")
	assert.NoError(t, savings.SetParent(bank))
	b.AddGroup(bank)
	b.AddGroup(savings)

	roots := b.RootGroups()
	assert.Equal(t, 1, len(roots))
	assert.True(t, roots[0] == bank)

	food := mustCategory(t, "Food", CategoryTypeExpense)
	salary := mustCategory(t, "Salary", CategoryTypeIncome)
	b.AddCategory(food)
	b.AddCategory(salary)

	expense := b.RootCategories(CategoryTypeExpense)
	assert.Equal(t, 1, len(expense))
	assert.True(t, expense[0] == food)
	assert.Equal(t, 0, len(b.RootCategories(CategoryTypeDualPurpose)))
}
