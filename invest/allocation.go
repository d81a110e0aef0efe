// Package invest builds allocation reports from brokerage cost-basis and
// holdings exports. It sits alongside the forecast engine: no recurrence
// or scheduling, just table enrichment of exported rows with current
// prices, gains and per-account allocation percentages.
package invest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// PriceNotFoundError is returned when any ticker in a report has no
// resolvable current price.
type PriceNotFoundError struct {
	Tickers []string
}

func (e *PriceNotFoundError) Error() string {
	return fmt.Sprintf("found nulls in current_price: %s", strings.Join(e.Tickers, ", "))
}

// CostBasisRow is one lot from a brokerage cost-basis export.
type CostBasisRow struct {
	AccountName string
	Ticker      string
	NumShares   decimal.Decimal
	TotalCost   decimal.Decimal
}

// AllocationRow is one (account, ticker) aggregate enriched with the
// current price.
type AllocationRow struct {
	AccountName   string
	Ticker        string
	NumShares     decimal.Decimal
	TotalCost     decimal.Decimal
	CurrentPrice  decimal.Decimal
	CurrentValue  decimal.Decimal
	Gain          decimal.Decimal
	GainPct       decimal.Decimal
	AllocationPct decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// AllocationReport aggregates cost-basis rows by (account, ticker) and
// enriches each aggregate with current value, gain, gain percentage and
// the allocation percentage within its account. Rows are ordered by
// account name then ticker.
//
// Every ticker must resolve to a price; missing prices fail the whole
// report with a PriceNotFoundError naming them.
func AllocationReport(rows []CostBasisRow, prices map[string]decimal.Decimal) ([]AllocationRow, error) {
	type key struct{ account, ticker string }

	aggregates := make(map[key]*AllocationRow)
	var order []key
	for _, row := range rows {
		k := key{row.AccountName, row.Ticker}
		agg, ok := aggregates[k]
		if !ok {
			agg = &AllocationRow{AccountName: row.AccountName, Ticker: row.Ticker}
			aggregates[k] = agg
			order = append(order, k)
		}
		agg.NumShares = agg.NumShares.Add(row.NumShares)
		agg.TotalCost = agg.TotalCost.Add(row.TotalCost)
	}
	slices.SortFunc(order, func(a, b key) int {
		if c := strings.Compare(a.account, b.account); c != 0 {
			return c
		}
		return strings.Compare(a.ticker, b.ticker)
	})

	var missing []string
	accountTotals := make(map[string]decimal.Decimal)
	for _, k := range order {
		agg := aggregates[k]
		price, ok := prices[agg.Ticker]
		if !ok {
			missing = append(missing, agg.Ticker)
			continue
		}
		agg.CurrentPrice = price
		agg.CurrentValue = price.Mul(agg.NumShares)
		agg.Gain = agg.CurrentValue.Sub(agg.TotalCost)
		if !agg.TotalCost.IsZero() {
			agg.GainPct = agg.Gain.Div(agg.TotalCost).Mul(oneHundred)
		}
		accountTotals[agg.AccountName] = accountTotals[agg.AccountName].Add(agg.CurrentValue)
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &PriceNotFoundError{Tickers: slices.Compact(missing)}
	}

	report := make([]AllocationRow, 0, len(order))
	for _, k := range order {
		agg := aggregates[k]
		if total := accountTotals[agg.AccountName]; !total.IsZero() {
			agg.AllocationPct = agg.CurrentValue.Div(total).Mul(oneHundred)
		}
		report = append(report, *agg)
	}
	return report, nil
}

// HoldingRow is one position from a holdings export.
type HoldingRow struct {
	Account  string
	Symbol   string
	Quantity decimal.Decimal
}

// HoldingAllocationRow is one (account, symbol) aggregate with its current
// value and allocation percentage.
type HoldingAllocationRow struct {
	Account       string
	Symbol        string
	Quantity      decimal.Decimal
	CurrentPrice  decimal.Decimal
	CurrentValue  decimal.Decimal
	AllocationPct decimal.Decimal
}

// HoldingsAllocation is the quantity-only variant of AllocationReport for
// holdings exports that carry no cost basis.
func HoldingsAllocation(rows []HoldingRow, prices map[string]decimal.Decimal) ([]HoldingAllocationRow, error) {
	costRows := make([]CostBasisRow, len(rows))
	for i, row := range rows {
		costRows[i] = CostBasisRow{AccountName: row.Account, Ticker: row.Symbol, NumShares: row.Quantity}
	}
	report, err := AllocationReport(costRows, prices)
	if err != nil {
		return nil, err
	}

	out := make([]HoldingAllocationRow, len(report))
	for i, row := range report {
		out[i] = HoldingAllocationRow{
			Account:       row.AccountName,
			Symbol:        row.Ticker,
			Quantity:      row.NumShares,
			CurrentPrice:  row.CurrentPrice,
			CurrentValue:  row.CurrentValue,
			AllocationPct: row.AllocationPct,
		}
	}
	return out, nil
}
