package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/moneytree/ledger"
	"github.com/robinvdvleuten/moneytree/loader"
	"github.com/robinvdvleuten/moneytree/output"
	"github.com/robinvdvleuten/moneytree/telemetry"
)

type BalancesCmd struct {
	File       FileOrStdin `help:"Book file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Convert    string      `help:"Also show every balance converted into this currency." placeholder:"CCY"`
	Categories bool        `help:"Show the category hierarchies as well." short:"c"`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	var target *ledger.Currency
	if cmd.Convert != "" {
		c, ok := book.Currency(cmd.Convert)
		if !ok {
			printError(ctx.Stderr, fmt.Sprintf("unknown currency %s", strings.ToUpper(cmd.Convert)))
			return NewCommandError(1)
		}
		target = c
	}

	p := &balancePrinter{w: ctx.Stdout, styles: output.NewStyles(ctx.Stdout), target: target}

	for _, group := range book.RootGroups() {
		p.printGroupChild(group, "", true, true)
	}

	if cmd.Categories {
		for _, typ := range []ledger.CategoryType{
			ledger.CategoryTypeIncome,
			ledger.CategoryTypeExpense,
			ledger.CategoryTypeDualPurpose,
		} {
			roots := book.RootCategories(typ)
			if len(roots) == 0 {
				continue
			}
			_, _ = fmt.Fprintf(ctx.Stdout, "\n%s\n", p.styles.Keyword(typ.String()))
			for _, category := range roots {
				p.printCategory(category, "", true, true)
			}
		}
	}

	return nil
}

// balancePrinter renders hierarchy trees with per-currency balances,
// optionally followed by a converted total per node.
type balancePrinter struct {
	w      io.Writer
	styles *output.Styles
	target *ledger.Currency
}

func (p *balancePrinter) printGroupChild(node ledger.GroupChild, prefix string, last, root bool) {
	p.printLine(node.Name(), node.Balance(), prefix, last, root)

	group, ok := node.(*ledger.AccountGroup)
	if !ok {
		return
	}
	childPrefix := childPrefix(prefix, last, root)
	children := group.Children()
	for i, child := range children {
		p.printGroupChild(child, childPrefix, i == len(children)-1, false)
	}
}

func (p *balancePrinter) printCategory(category *ledger.Category, prefix string, last, root bool) {
	p.printLine(category.Name(), category.Balance(), prefix, last, root)

	childPrefix := childPrefix(prefix, last, root)
	children := category.Children()
	for i, child := range children {
		p.printCategory(child, childPrefix, i == len(children)-1, false)
	}
}

func (p *balancePrinter) printLine(name string, balance *ledger.Balance, prefix string, last, root bool) {
	branch := ""
	if !root {
		branch = "├─ "
		if last {
			branch = "└─ "
		}
	}

	rendered := p.styles.Dim("(empty)")
	if entries := balance.Entries(); len(entries) > 0 {
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = p.styles.Amount(e.String(), e.IsNegative())
		}
		rendered = strings.Join(parts, ", ")
	}

	_, _ = fmt.Fprintf(p.w, "%s%s%s  %s", prefix, branch, p.styles.Path(name), rendered)

	if p.target != nil {
		if total, err := balance.ConvertTotal(p.target); err == nil {
			_, _ = fmt.Fprintf(p.w, "  (= %s)", p.styles.Amount(total.String(), total.IsNegative()))
		}
	}
	_, _ = fmt.Fprintln(p.w)
}

func childPrefix(prefix string, last, root bool) string {
	if root {
		return prefix
	}
	if last {
		return prefix + "   "
	}
	return prefix + "│  "
}
