package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/funance/funance/invest"
)

// InvestCmd groups the portfolio reports over brokerage export files.
type InvestCmd struct {
	Allocation AllocationCmd `cmd:"" help:"Cost-basis allocation report with gains per (account, ticker)."`
	Holdings   HoldingsCmd   `cmd:"" help:"Allocation report over quantity-only holdings exports."`
}

// AllocationCmd reads brokerage.csv from the export directory and joins it
// against current prices.
type AllocationCmd struct {
	ExportDir string `help:"Directory holding brokerage export files." arg:"" optional:""`
	Prices    string `help:"Local ticker,price CSV (overrides the sheet URL from the environment)."`
}

func (cmd *AllocationCmd) Run(ctx *kong.Context, globals *Globals) error {
	exportDir, err := resolveExportDir(cmd.ExportDir)
	if err != nil {
		return err
	}

	rows, err := invest.ReadCostBasisDir(exportDir)
	if err != nil {
		return err
	}

	prices, err := loadPrices(cmd.Prices)
	if err != nil {
		return err
	}

	report, err := invest.AllocationReport(rows, prices)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%-20s %-8s %10s %12s %12s %12s %8s %7s\n",
		"account", "ticker", "shares", "cost", "value", "gain", "gain%", "alloc%")
	for _, row := range report {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-20s %-8s %10s %12s %12s %12s %7s%% %6s%%\n",
			row.AccountName, row.Ticker,
			row.NumShares.StringFixed(4),
			row.TotalCost.StringFixed(2),
			row.CurrentValue.StringFixed(2),
			row.Gain.StringFixed(2),
			row.GainPct.StringFixed(1),
			row.AllocationPct.StringFixed(1))
	}

	return nil
}

// HoldingsCmd reads holdings.*.csv exports and reports current value and
// allocation per (account, symbol).
type HoldingsCmd struct {
	ExportDir string `help:"Directory holding brokerage export files." arg:"" optional:""`
	Prices    string `help:"Local ticker,price CSV (overrides the sheet URL from the environment)."`
}

func (cmd *HoldingsCmd) Run(ctx *kong.Context, globals *Globals) error {
	exportDir, err := resolveExportDir(cmd.ExportDir)
	if err != nil {
		return err
	}

	rows, err := invest.ReadHoldingsDir(exportDir)
	if err != nil {
		return err
	}

	prices, err := loadPrices(cmd.Prices)
	if err != nil {
		return err
	}

	report, err := invest.HoldingsAllocation(rows, prices)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "%-20s %-8s %10s %12s %12s %7s\n",
		"account", "symbol", "quantity", "price", "value", "alloc%")
	for _, row := range report {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-20s %-8s %10s %12s %12s %6s%%\n",
			row.Account, row.Symbol,
			row.Quantity.StringFixed(4),
			row.CurrentPrice.StringFixed(2),
			row.CurrentValue.StringFixed(2),
			row.AllocationPct.StringFixed(1))
	}

	return nil
}

// resolveExportDir falls back to <config dir>/exports when no directory
// argument was given.
func resolveExportDir(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}

// loadPrices reads prices from a local CSV when given, otherwise fetches
// the sheet named by the environment. The config directory's .env is
// loaded first so the URL can live next to the document.
func loadPrices(pricesFile string) (map[string]decimal.Decimal, error) {
	if pricesFile != "" {
		f, err := os.Open(pricesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open prices file: %w", err)
		}
		defer f.Close()
		return invest.ReadPrices(f)
	}

	if dir, err := ConfigDir(); err == nil {
		// Missing .env is fine, the URL may come from the real environment.
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}

	url := os.Getenv(invest.PricesURLEnv)
	if url == "" {
		return nil, fmt.Errorf("no prices source: pass --prices or set %s", invest.PricesURLEnv)
	}
	return invest.FetchPrices(url)
}
