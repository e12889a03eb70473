package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/moneytree/parser"
)

// DoctorCmd provides doctor utilities for debugging book files.
type DoctorCmd struct {
	Lex  LexCmd  `cmd:"" help:"Show lexical tokens from a book file."`
	Dump DumpCmd `cmd:"" help:"Dump the parsed directives of a book file."`
}

// LexCmd shows lexical tokens from a book file.
type LexCmd struct {
	File FileOrStdin `help:"Book file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	tokens := parser.NewLexer(content, cmd.File.Filename).ScanAll()

	for _, token := range tokens {
		if token.Type == parser.EOF {
			continue
		}

		_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %d:%d    %q\n",
			token.Type.String(),
			token.Pos.Line,
			token.Pos.Column,
			token.Value)
	}

	return nil
}

// DumpCmd dumps the parsed directives of a book file.
type DumpCmd struct {
	File FileOrStdin `help:"Book file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	snapshot, err := parser.Parse(cmd.File.GetAbsoluteFilename(), content)
	if err != nil {
		renderer := NewErrorRenderer(content)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		return NewCommandError(1)
	}

	for _, directive := range snapshot.Directives {
		_, _ = fmt.Fprintln(ctx.Stdout, repr.String(directive, repr.Indent("  ")))
	}

	return nil
}
