package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/moneytree/formatter"
	"github.com/robinvdvleuten/moneytree/parser"
	"github.com/robinvdvleuten/moneytree/telemetry"
)

type FmtCmd struct {
	File           FileOrStdin `help:"Book file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	CurrencyColumn int         `help:"Column for currency alignment (auto-calculated from content if 0)." default:"0"`
	Write          bool        `help:"Rewrite the file in place instead of printing to stdout." short:"w"`
}

func (cmd *FmtCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	timer := telemetry.FromContext(runCtx).Start(fmt.Sprintf("fmt %s", cmd.File.Filename))
	defer timer.End()

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	snapshot, err := parser.Parse(cmd.File.GetAbsoluteFilename(), sourceContent)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprint(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	var opts []formatter.Option
	if cmd.CurrencyColumn > 0 {
		opts = append(opts, formatter.WithCurrencyColumn(cmd.CurrencyColumn))
	}
	f := formatter.New(opts...)

	var buf bytes.Buffer
	if err := f.Format(&buf, snapshot); err != nil {
		return err
	}

	if !cmd.Write {
		_, _ = ctx.Stdout.Write(buf.Bytes())
		return nil
	}

	if cmd.File.Filename == "<stdin>" {
		return fmt.Errorf("cannot write in place when reading from stdin")
	}

	if bytes.Equal(buf.Bytes(), sourceContent) {
		printInfof(ctx.Stdout, "%s already formatted", pathStyle.Render(cmd.File.Filename))
		return nil
	}

	confirmed, err := promptYesNo(ctx, fmt.Sprintf("Rewrite %q in place?", cmd.File.Filename))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		return fmt.Errorf("aborted")
	}

	if err := os.WriteFile(cmd.File.Filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File.Filename, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", pathStyle.Render(cmd.File.Filename)))
	return nil
}
