package formatter

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/moneytree/parser"
)

func format(t *testing.T, source string, opts ...Option) string {
	t.Helper()
	snapshot, err := parser.ParseBytes([]byte(source))
	assert.NoError(t, err)

	var sb strings.Builder
	assert.NoError(t, New(opts...).Format(&sb, snapshot))
	return sb.String()
}

func TestFormat_NormalizesSpacing(t *testing.T) {
	got := format(t, "currency   USD    2\nrate  USD CZK   2024-01-01   23.00\n")

	assert.Equal(t, "currency USD 2\n\nrate USD CZK 2024-01-01 23.00\n", got)
}

func TestFormat_AlignsTransactionAmounts(t *testing.T) {
	source := "txn 2024-01-05 Bank/Checking -250.00 CZK\ntxn 2024-01-06 Cash 4.50 USD\n"

	got := format(t, source)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, 2, len(lines))

	// Both currency codes start at the same column.
	assert.Equal(t, strings.Index(lines[0], "CZK"), strings.Index(lines[1], "USD"))
	// Amounts are right-aligned against the currency column.
	assert.True(t, strings.HasSuffix(lines[0], "-250.00 CZK"), "got %q", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "4.50 USD"), "got %q", lines[1])
}

func TestFormat_FixedCurrencyColumn(t *testing.T) {
	got := format(t, "txn 2024-01-05 Cash -1 USD\n", WithCurrencyColumn(40))

	line := strings.TrimRight(got, "\n")
	assert.Equal(t, 40, strings.Index(line, "USD"))
}

func TestFormat_RoundTripsThroughParser(t *testing.T) {
	source := `currency USD 2
currency CZK 2
rate USD CZK 2024-01-01 23.00
group 0 Bank id:9f3c1a0e-0000-4000-8000-1234567890ab
account 0 Bank/Checking USD
category 0 expense Food
txn 2024-01-05 Bank/Checking -250.00 CZK Food "groceries"
`

	once := format(t, source)
	// Formatting its own output changes nothing.
	assert.Equal(t, once, format(t, once))

	// And the output still parses to the same number of directives.
	snapshot, err := parser.ParseBytes([]byte(once))
	assert.NoError(t, err)
	assert.Equal(t, 7, len(snapshot.Directives))
}

func TestFormat_QuotesPathsWithSpaces(t *testing.T) {
	got := format(t, "group 0 \"Joint savings\"\n")

	assert.Equal(t, "group 0 \"Joint savings\"\n", got)
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"plain"`, QuoteString("plain"))
	assert.Equal(t, `"say \"hi\""`, QuoteString(`say "hi"`))
	assert.Equal(t, `"back\\slash"`, QuoteString(`back\slash`))
}
