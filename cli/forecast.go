package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/funance/funance/forecast"
	"github.com/funance/funance/telemetry"
)

type ForecastCmd struct {
	File    FileOrStdin `help:"Forecast document (use '-' for stdin, defaults to the config directory)." arg:"" optional:""`
	Account string      `help:"Only project this account." short:"a"`
	Start   string      `help:"First projected date (YYYY-MM-DD, defaults to tomorrow)."`
	End     string      `help:"Last projected date (YYYY-MM-DD, defaults to one year out)."`
	CSV     string      `help:"Write the projection as CSV to this file instead of a table." name:"csv"`
}

func (cmd *ForecastCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	doc, err := cmd.File.LoadDocument()
	if err != nil {
		return err
	}

	start, end, err := parseWindow(cmd.Start, cmd.End)
	if err != nil {
		return err
	}

	projector, err := forecast.FromSpec(runCtx, doc, start, end)
	if err != nil {
		return err
	}

	var series []forecast.AccountSeries
	if cmd.Account != "" {
		s, err := projector.Series(cmd.Account)
		if err != nil {
			return err
		}
		series = append(series, s)
	} else {
		for _, account := range projector.Accounts().All() {
			s, err := projector.Series(account.ID)
			if err != nil {
				return err
			}
			series = append(series, s)
		}
	}

	if cmd.CSV != "" {
		if err := writeSeriesCSV(cmd.CSV, series); err != nil {
			return err
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Wrote %s", pathStyle.Render(cmd.CSV)))
		return nil
	}

	for i, s := range series {
		if i > 0 {
			_, _ = fmt.Fprintln(ctx.Stdout)
		}
		printSeriesTable(ctx, s)
	}

	return nil
}

// parseWindow resolves the projection window from the optional flags,
// falling back to the default one-year window starting tomorrow.
func parseWindow(startFlag, endFlag string) (forecast.Date, forecast.Date, error) {
	start, end := forecast.DefaultWindow(time.Now())

	if startFlag != "" {
		parsed, err := forecast.NewDate(startFlag)
		if err != nil {
			return forecast.Date{}, forecast.Date{}, fmt.Errorf("invalid --start: %w", err)
		}
		start = parsed
	}
	if endFlag != "" {
		parsed, err := forecast.NewDate(endFlag)
		if err != nil {
			return forecast.Date{}, forecast.Date{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = parsed
	}
	if end.Compare(start) < 0 {
		return forecast.Date{}, forecast.Date{}, fmt.Errorf("--end %s is before --start %s", end, start)
	}

	return start, end, nil
}

// printSeriesTable renders one account's projection as an aligned table,
// truncating descriptions to the terminal width.
func printSeriesTable(ctx *kong.Context, s forecast.AccountSeries) {
	termWidth := 120
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		termWidth = w
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%s (%s)\n", headerStyle.Render(s.Name), s.AccountID)

	const dateWidth = 10
	const amountWidth = 12
	const balanceWidth = 12
	descWidth := termWidth - dateWidth - amountWidth - balanceWidth - 6
	if descWidth < 16 {
		descWidth = 16
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%-*s  %*s  %*s  %s\n",
		dateWidth, "date", amountWidth, "amount", balanceWidth, "balance", "description")

	for _, row := range s.Series {
		amount := row.Amount.StringFixed(2)
		balance := row.Balance.StringFixed(2)
		if row.Balance.IsNegative() {
			// Styled strings embed escape codes, so pad by hand.
			pad := balanceWidth - len(balance)
			if pad < 0 {
				pad = 0
			}
			balance = strings.Repeat(" ", pad) + negStyle.Render(balance)
			_, _ = fmt.Fprintf(ctx.Stdout, "%-*s  %*s  %s  %s\n",
				dateWidth, row.Date, amountWidth, amount, balance,
				truncateDescription(row.Description, descWidth))
			continue
		}

		_, _ = fmt.Fprintf(ctx.Stdout, "%-*s  %*s  %*s  %s\n",
			dateWidth, row.Date, amountWidth, amount, balanceWidth, balance,
			truncateDescription(row.Description, descWidth))
	}
}

// truncateDescription flattens the <br>-joined fragments to one line and
// truncates it to the given display width.
func truncateDescription(description string, width int) string {
	flat := strings.ReplaceAll(description, "<br>", "; ")
	return runewidth.Truncate(flat, width, "…")
}

// writeSeriesCSV exports the projection with one row per (account, date).
func writeSeriesCSV(path string, series []forecast.AccountSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"account_id", "date", "amount", "balance", "description"}); err != nil {
		return err
	}

	for _, s := range series {
		for _, row := range s.Series {
			record := []string{
				s.AccountID,
				row.Date.String(),
				row.Amount.StringFixed(2),
				row.Balance.StringFixed(2),
				strings.ReplaceAll(row.Description, "<br>", "; "),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
