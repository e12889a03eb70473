package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/term"

	"github.com/robinvdvleuten/moneytree/loader"
	"github.com/robinvdvleuten/moneytree/output"
)

const testBook = `currency USD 2
currency CZK 2

rate USD CZK 2024-01-01 23.00

group 0 Bank
group 0 Bank/Savings
account 1 Bank/Checking USD

category 0 expense Food

txn 2024-01-05 Bank/Checking -250.00 USD Food "groceries"
txn 2024-01-06 Bank/Checking 1000.00 USD "salary"
`

func writeTestBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.book")
	assert.NoError(t, os.WriteFile(path, []byte(testBook), 0o644))
	return path
}

func TestFileOrStdin_File(t *testing.T) {
	path := writeTestBook(t)

	f := &FileOrStdin{Filename: path}

	content, err := f.GetSourceContent()
	assert.NoError(t, err)
	assert.Equal(t, testBook, string(content))

	abs := f.GetAbsoluteFilename()
	assert.True(t, filepath.IsAbs(abs))
	assert.True(t, strings.HasSuffix(abs, "main.book"))
}

func TestFileOrStdin_Stdin(t *testing.T) {
	f := &FileOrStdin{Filename: "<stdin>", Contents: []byte(testBook)}

	content, err := f.GetSourceContent()
	assert.NoError(t, err)
	assert.Equal(t, testBook, string(content))

	assert.Equal(t, "<stdin>", f.GetAbsoluteFilename())
}

func TestFileOrStdin_LoadBook(t *testing.T) {
	path := writeTestBook(t)

	f := &FileOrStdin{Filename: path}
	book, snapshot, err := f.LoadBook(context.Background(), loader.New())
	assert.NoError(t, err)
	assert.NotZero(t, snapshot)

	_, ok := book.Account("Bank/Checking")
	assert.True(t, ok)
}

func TestBalancePrinter_Tree(t *testing.T) {
	f := &FileOrStdin{Filename: "<stdin>", Contents: []byte(testBook)}
	book, _, err := f.LoadBook(context.Background(), loader.New())
	assert.NoError(t, err)

	var sb strings.Builder
	p := &balancePrinter{w: &sb, styles: output.NewStyles(&sb)}
	for _, group := range book.RootGroups() {
		p.printGroupChild(group, "", true, true)
	}
	out := sb.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "Bank"), "got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "├─ Savings"), "got %q", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "└─ Checking"), "got %q", lines[2])

	assert.Contains(t, lines[0], "750.00 USD")
	assert.Contains(t, lines[1], "(empty)")
	assert.Contains(t, lines[2], "750.00 USD")
}

func TestBalancePrinter_ConvertedTotal(t *testing.T) {
	f := &FileOrStdin{Filename: "<stdin>", Contents: []byte(testBook)}
	book, _, err := f.LoadBook(context.Background(), loader.New())
	assert.NoError(t, err)

	czk, ok := book.Currency("CZK")
	assert.True(t, ok)

	var sb strings.Builder
	p := &balancePrinter{w: &sb, styles: output.NewStyles(&sb), target: czk}
	for _, group := range book.RootGroups() {
		p.printGroupChild(group, "", true, true)
	}

	assert.Contains(t, sb.String(), "(= 17250.00 CZK)")
}

func TestIsTerminalGuard(t *testing.T) {
	// In test environments stdin is typically not a terminal; promptYesNo
	// must then refuse without blocking on input.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}

	// Headless stdin is often /dev/null, a char device; the guard must not
	// be fooled by the mode bits.
	assert.False(t, isTerminal())

	confirmed, err := promptYesNo(nil, "proceed?")
	assert.NoError(t, err)
	assert.False(t, confirmed)
}
