// Package errors provides error formatting for book file and ledger errors.
// It separates presentation from domain logic, so the same errors can be
// rendered as plain text for the CLI or as structured JSON for the web
// server.
//
// Domain-specific error types stay in their own packages (ledger, parser,
// loader); this package only inspects them through small interfaces.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/robinvdvleuten/moneytree/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// positioned is implemented by errors that know where in a book file they
// originated (parse and load errors).
type positioned interface {
	GetPosition() ast.Position
	Error() string
}

// TextFormatter formats errors for command-line output, rendering the
// offending source line with a caret when the source is available.
type TextFormatter struct {
	source []byte
}

// TextFormatterOption configures a TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the book file source used for error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.source = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error, with source context when available.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(*parser.ParseError); ok {
		source := tf.source
		if source == nil {
			source = e.Source
		}
		if source != nil {
			return tf.formatWithSourceContext(e.Pos, e.Error(), source)
		}
	}

	if e, ok := err.(positioned); ok {
		if tf.source != nil {
			return tf.formatWithSourceContext(e.GetPosition(), e.Error(), tf.source)
		}
	}

	return err.Error()
}

// FormatAll formats multiple errors, separated by blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// formatWithSourceContext renders the error message followed by the source
// lines around the error position, with a caret under the error column:
//
//	main.book:3: unexpected token "USD"
//
//	   currency USD 2
//	   rate USD 2024-01-01 23.00
//	            ^
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message string, source []byte) string {
	var buf bytes.Buffer

	buf.WriteString(message)
	buf.WriteString("\n\n")

	lines := strings.Split(string(source), "\n")

	// Two lines of context before the error line, one after.
	startLine := pos.Line - 3
	endLine := pos.Line + 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(lines) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(lines[i])
		buf.WriteByte('\n')

		// pos.Line is 1-based, i is 0-based.
		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			for j := 0; j < pos.Column-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString("^\n")
		}
	}

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Position *PositionJSON `json:"position,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as an indented JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs, for
// embedding into larger JSON responses.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	return errJSON
}
