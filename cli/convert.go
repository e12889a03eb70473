package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/moneytree/ast"
	"github.com/robinvdvleuten/moneytree/ledger"
	"github.com/robinvdvleuten/moneytree/loader"
	"github.com/robinvdvleuten/moneytree/telemetry"
)

type ConvertCmd struct {
	Amount string      `help:"Amount to convert, e.g. 250.00." arg:""`
	From   string      `help:"Source currency code." arg:""`
	To     string      `help:"Target currency code." arg:""`
	File   FileOrStdin `help:"Book file providing currencies and rates (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Date   string      `help:"Convert using the rates of this exact date (YYYY-MM-DD) instead of the latest ones."`
}

func (cmd *ConvertCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	book, _, err := cmd.File.LoadBook(runCtx, loader.New())
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		return NewCommandError(1)
	}

	from, ok := book.Currency(cmd.From)
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("unknown currency %s", strings.ToUpper(cmd.From)))
		return NewCommandError(1)
	}
	to, ok := book.Currency(cmd.To)
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("unknown currency %s", strings.ToUpper(cmd.To)))
		return NewCommandError(1)
	}

	amount, err := ledger.NewCashAmountFromString(cmd.Amount, from)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	var converted ledger.CashAmount
	if cmd.Date != "" {
		date, err := ast.NewDate(cmd.Date)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return NewCommandError(1)
		}
		converted, err = amount.ConvertAt(to, date)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return NewCommandError(1)
		}
	} else {
		converted, err = amount.Convert(to)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return NewCommandError(1)
		}
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%s = %s\n", amount, converted)
	return nil
}
