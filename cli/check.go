package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/moneytree/loader"
	"github.com/robinvdvleuten/moneytree/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Book file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		defer reportTelemetry()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	book, snapshot, err := cmd.File.LoadBook(runCtx, loader.New())
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "check failed")

		reportTelemetry()
		return NewCommandError(1)
	}

	transactions := 0
	for _, a := range book.Accounts() {
		transactions += len(a.Transactions())
	}

	printSuccess(ctx.Stdout, fmt.Sprintf(
		"Check passed: %d directives, %d currencies, %d accounts, %d categories, %d transactions",
		len(snapshot.Directives),
		len(book.Currencies()),
		len(book.Accounts()),
		len(book.Categories()),
		transactions,
	))

	return nil
}
