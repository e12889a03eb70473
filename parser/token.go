package parser

import "github.com/robinvdvleuten/moneytree/ast"

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	NEWLINE

	// Keywords - directive types
	CURRENCY // currency
	RATE     // rate
	GROUP    // group
	ACCOUNT  // account
	CATEGORY // category
	TXN      // txn

	// Literals
	DATE   // YYYY-MM-DD
	NUMBER // 123.45 or -123.45
	STRING // "quoted string"
	IDENT  // USD, expense
	PATH   // Bank/Checking
	ID     // id:9f3c1a0e-...
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",

	CURRENCY: "currency",
	RATE:     "rate",
	GROUP:    "group",
	ACCOUNT:  "account",
	CATEGORY: "category",
	TXN:      "txn",

	DATE:   "DATE",
	NUMBER: "NUMBER",
	STRING: "STRING",
	IDENT:  "IDENT",
	PATH:   "PATH",
	ID:     "ID",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"currency": CURRENCY,
	"rate":     RATE,
	"group":    GROUP,
	"account":  ACCOUNT,
	"category": CATEGORY,
	"txn":      TXN,
}

// Token is a single lexeme with its position in the source.
type Token struct {
	Type  TokenType
	Value string // literal value; for STRING the unquoted text, for ID the part after "id:"
	Pos   ast.Position
}

// String returns a compact representation for diagnostics.
func (t Token) String() string {
	if t.Value == "" {
		return t.Type.String()
	}
	return t.Type.String() + "(" + t.Value + ")"
}
