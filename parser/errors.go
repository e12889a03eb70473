package parser

import (
	"fmt"

	"github.com/robinvdvleuten/moneytree/ast"
)

// ParseError represents a syntax error in a book file.
type ParseError struct {
	Pos     ast.Position
	Message string
	// Source holds the full input, so error formatters can render the
	// offending line with a caret.
	Source []byte
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns the error's source position.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}
