package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/moneytree/ast"
)

func TestParse_FullBook(t *testing.T) {
	source := `; example book
currency USD 2
currency CZK 2
rate USD CZK 2024-01-01 23.00

group 0 Bank id:9f3c1a0e-0000-4000-8000-1234567890ab
account 0 Bank/Checking USD
category 0 expense Food

txn 2024-01-05 Bank/Checking -250.00 CZK Food "groceries"
txn 2024-01-06 Bank/Checking 100 USD
`

	snapshot, err := Parse("example.book", []byte(source))
	assert.NoError(t, err)
	assert.Equal(t, 8, len(snapshot.Directives))

	currency, ok := snapshot.Directives[0].(*ast.CurrencyDecl)
	assert.True(t, ok)
	assert.Equal(t, "USD", currency.Code)
	assert.Equal(t, 2, currency.Places)
	assert.Equal(t, 2, currency.Pos().Line)

	rate, ok := snapshot.Directives[2].(*ast.RateDecl)
	assert.True(t, ok)
	assert.Equal(t, "USD", rate.Primary)
	assert.Equal(t, "CZK", rate.Secondary)
	assert.Equal(t, "2024-01-01", rate.Date.String())
	assert.Equal(t, "23.00", rate.Value)

	group, ok := snapshot.Directives[3].(*ast.GroupDecl)
	assert.True(t, ok)
	assert.Equal(t, 0, group.Index)
	assert.Equal(t, "Bank", group.Path)
	assert.Equal(t, "9f3c1a0e-0000-4000-8000-1234567890ab", group.ID)

	account, ok := snapshot.Directives[4].(*ast.AccountDecl)
	assert.True(t, ok)
	assert.Equal(t, "Bank/Checking", account.Path)
	assert.Equal(t, "USD", account.Currency)
	assert.Equal(t, "", account.ID)

	category, ok := snapshot.Directives[5].(*ast.CategoryDecl)
	assert.True(t, ok)
	assert.Equal(t, "expense", category.Type)
	assert.Equal(t, "Food", category.Path)

	txn, ok := snapshot.Directives[6].(*ast.TransactionDecl)
	assert.True(t, ok)
	assert.Equal(t, "Bank/Checking", txn.Account)
	assert.Equal(t, "-250.00", txn.Amount)
	assert.Equal(t, "CZK", txn.Currency)
	assert.Equal(t, "Food", txn.Category)
	assert.Equal(t, "groceries", txn.Description)

	bare, ok := snapshot.Directives[7].(*ast.TransactionDecl)
	assert.True(t, ok)
	assert.Equal(t, "", bare.Category)
	assert.Equal(t, "", bare.Description)
}

func TestParse_QuotedPaths(t *testing.T) {
	snapshot, err := ParseBytes([]byte("group 0 \"Joint savings\"\n"))
	assert.NoError(t, err)

	group := snapshot.Directives[0].(*ast.GroupDecl)
	assert.Equal(t, "Joint savings", group.Path)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unknown keyword", "frobnicate USD 2\n"},
		{"missing precision", "currency USD\n"},
		{"bad date", "rate USD CZK 2024-13-40 23\n"},
		{"trailing garbage", "currency USD 2 extra\n"},
		{"missing rate value", "rate USD CZK 2024-01-01\n"},
		{"txn without currency", "txn 2024-01-05 Checking -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.book", []byte(tt.source))
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, "bad.book", parseErr.Pos.Filename)
		})
	}
}

func TestParse_ErrorReportsLine(t *testing.T) {
	source := "currency USD 2\ncurrency EUR\n"

	_, err := ParseBytes([]byte(source))
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Pos.Line)
}

func TestParse_EmptyInput(t *testing.T) {
	snapshot, err := ParseBytes(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(snapshot.Directives))

	snapshot, err = ParseBytes([]byte("\n; nothing here\n\n"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(snapshot.Directives))
}
