// Package parser turns book file source into an ast.Snapshot.
//
// The format is line-oriented: every non-blank line is one directive,
// comments run from ';' to the end of the line. Parsing is a single pass
// over the token stream produced by the Lexer, with no backtracking.
package parser

import (
	"fmt"
	"strconv"

	"github.com/robinvdvleuten/moneytree/ast"
)

// Parse parses book file source, reporting errors against the given
// filename.
func Parse(filename string, source []byte) (*ast.Snapshot, error) {
	p := &parser{
		source: source,
		tokens: NewLexer(source, filename).ScanAll(),
	}
	return p.parse()
}

// ParseBytes parses book file source without a filename.
func ParseBytes(source []byte) (*ast.Snapshot, error) {
	return Parse("", source)
}

type parser struct {
	source []byte
	tokens []Token
	pos    int
}

func (p *parser) parse() (*ast.Snapshot, error) {
	snapshot := &ast.Snapshot{}

	for {
		tok := p.peek()
		switch tok.Type {
		case EOF:
			return snapshot, nil
		case NEWLINE:
			p.next()
			continue
		}

		directive, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		snapshot.Directives = append(snapshot.Directives, directive)

		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseDirective() (ast.Directive, error) {
	tok := p.next()
	switch tok.Type {
	case CURRENCY:
		return p.parseCurrency(tok)
	case RATE:
		return p.parseRate(tok)
	case GROUP:
		return p.parseGroup(tok)
	case ACCOUNT:
		return p.parseAccount(tok)
	case CATEGORY:
		return p.parseCategory(tok)
	case TXN:
		return p.parseTransaction(tok)
	default:
		return nil, p.errorf(tok, "expected a directive keyword, got %s", tok)
	}
}

// currency USD 2
func (p *parser) parseCurrency(kw Token) (ast.Directive, error) {
	code, err := p.expect(IDENT, "currency code")
	if err != nil {
		return nil, err
	}
	places, err := p.expectInt("display precision")
	if err != nil {
		return nil, err
	}

	return &ast.CurrencyDecl{Code: code.Value, Places: places, Position: kw.Pos}, nil
}

// rate USD CZK 2024-01-01 23.00
func (p *parser) parseRate(kw Token) (ast.Directive, error) {
	primary, err := p.expect(IDENT, "primary currency code")
	if err != nil {
		return nil, err
	}
	secondary, err := p.expect(IDENT, "secondary currency code")
	if err != nil {
		return nil, err
	}
	date, err := p.expectDate()
	if err != nil {
		return nil, err
	}
	value, err := p.expect(NUMBER, "rate value")
	if err != nil {
		return nil, err
	}

	return &ast.RateDecl{
		Primary:   primary.Value,
		Secondary: secondary.Value,
		Date:      date,
		Value:     value.Value,
		Position:  kw.Pos,
	}, nil
}

// group 0 Bank id:9f3c...
func (p *parser) parseGroup(kw Token) (ast.Directive, error) {
	index, err := p.expectInt("sibling index")
	if err != nil {
		return nil, err
	}
	path, err := p.expectPath("group path")
	if err != nil {
		return nil, err
	}
	id := p.acceptID()

	return &ast.GroupDecl{Index: index, Path: path, ID: id, Position: kw.Pos}, nil
}

// account 0 Bank/Checking USD id:55ef...
func (p *parser) parseAccount(kw Token) (ast.Directive, error) {
	index, err := p.expectInt("sibling index")
	if err != nil {
		return nil, err
	}
	path, err := p.expectPath("account path")
	if err != nil {
		return nil, err
	}
	currency, err := p.expect(IDENT, "account currency code")
	if err != nil {
		return nil, err
	}
	id := p.acceptID()

	return &ast.AccountDecl{
		Index:    index,
		Path:     path,
		Currency: currency.Value,
		ID:       id,
		Position: kw.Pos,
	}, nil
}

// category 0 expense Food id:3c2d...
func (p *parser) parseCategory(kw Token) (ast.Directive, error) {
	index, err := p.expectInt("sibling index")
	if err != nil {
		return nil, err
	}
	typ, err := p.expect(IDENT, "category type")
	if err != nil {
		return nil, err
	}
	path, err := p.expectPath("category path")
	if err != nil {
		return nil, err
	}
	id := p.acceptID()

	return &ast.CategoryDecl{
		Index:    index,
		Type:     typ.Value,
		Path:     path,
		ID:       id,
		Position: kw.Pos,
	}, nil
}

// txn 2024-01-05 Bank/Checking -250.00 CZK Food "groceries"
func (p *parser) parseTransaction(kw Token) (ast.Directive, error) {
	date, err := p.expectDate()
	if err != nil {
		return nil, err
	}
	account, err := p.expectPath("account path")
	if err != nil {
		return nil, err
	}
	amount, err := p.expect(NUMBER, "amount")
	if err != nil {
		return nil, err
	}
	currency, err := p.expect(IDENT, "currency code")
	if err != nil {
		return nil, err
	}

	decl := &ast.TransactionDecl{
		Date:     date,
		Account:  account,
		Amount:   amount.Value,
		Currency: currency.Value,
		Position: kw.Pos,
	}

	// Optional category path, then optional quoted description.
	if tok := p.peek(); tok.Type == PATH || tok.Type == IDENT {
		decl.Category = p.next().Value
	}
	if tok := p.peek(); tok.Type == STRING {
		decl.Description = p.next().Value
	}

	return decl, nil
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ TokenType, what string) (Token, error) {
	tok := p.next()
	if tok.Type != typ {
		return Token{}, p.errorf(tok, "expected %s, got %s", what, tok)
	}
	return tok, nil
}

// expectPath accepts a slash-separated path, a bare name, or a quoted string
// (for names containing spaces).
func (p *parser) expectPath(what string) (string, error) {
	tok := p.next()
	switch tok.Type {
	case PATH, IDENT, STRING:
		return tok.Value, nil
	default:
		return "", p.errorf(tok, "expected %s, got %s", what, tok)
	}
}

func (p *parser) expectInt(what string) (int, error) {
	tok, err := p.expect(NUMBER, what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok.Value)
	if err != nil {
		return 0, p.errorf(tok, "invalid %s %q", what, tok.Value)
	}
	return n, nil
}

func (p *parser) expectDate() (*ast.Date, error) {
	tok, err := p.expect(DATE, "date")
	if err != nil {
		return nil, err
	}
	date, err := ast.NewDate(tok.Value)
	if err != nil {
		return nil, p.errorf(tok, "%s", err)
	}
	return date, nil
}

// acceptID consumes an optional id:... token.
func (p *parser) acceptID() string {
	if p.peek().Type == ID {
		return p.next().Value
	}
	return ""
}

func (p *parser) expectEndOfLine() error {
	tok := p.next()
	if tok.Type != NEWLINE && tok.Type != EOF {
		return p.errorf(tok, "unexpected %s at end of directive", tok)
	}
	return nil
}

func (p *parser) errorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     tok.Pos,
		Message: fmt.Sprintf(format, args...),
		Source:  p.source,
	}
}
