package invest

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func costBasis(account, ticker string, shares, cost float64) CostBasisRow {
	return CostBasisRow{
		AccountName: account,
		Ticker:      ticker,
		NumShares:   decimal.NewFromFloat(shares),
		TotalCost:   decimal.NewFromFloat(cost),
	}
}

func testPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"VTI":  decimal.NewFromInt(200),
		"VXUS": decimal.NewFromInt(50),
	}
}

func TestAllocationReport(t *testing.T) {
	rows := []CostBasisRow{
		// Two lots of the same position aggregate.
		costBasis("ira", "VTI", 10, 1500),
		costBasis("ira", "VTI", 5, 900),
		costBasis("ira", "VXUS", 20, 1100),
		costBasis("brokerage", "VTI", 2, 380),
	}

	report, err := AllocationReport(rows, testPrices())
	assert.NoError(t, err)
	assert.Equal(t, 3, len(report))

	// Ordered by account name then ticker.
	assert.Equal(t, "brokerage", report[0].AccountName)
	assert.Equal(t, "ira", report[1].AccountName)
	assert.Equal(t, "VTI", report[1].Ticker)
	assert.Equal(t, "VXUS", report[2].Ticker)

	vti := report[1]
	assert.Equal(t, "15", vti.NumShares.String())
	assert.Equal(t, "2400", vti.TotalCost.String())
	assert.Equal(t, "3000", vti.CurrentValue.String())
	assert.Equal(t, "600", vti.Gain.String())
	assert.Equal(t, "25", vti.GainPct.String())

	// ira totals 3000 + 1000 = 4000.
	assert.Equal(t, "75", vti.AllocationPct.String())
	assert.Equal(t, "25", report[2].AllocationPct.String())

	// Allocation is computed within each account.
	assert.Equal(t, "100", report[0].AllocationPct.String())
}

func TestAllocationReport_MissingPrices(t *testing.T) {
	rows := []CostBasisRow{
		costBasis("ira", "ZZZT", 1, 100),
		costBasis("ira", "AAAX", 1, 100),
		costBasis("brokerage", "ZZZT", 1, 100),
	}

	_, err := AllocationReport(rows, testPrices())
	var missing *PriceNotFoundError
	assert.True(t, errors.As(err, &missing))
	// Missing tickers are reported once each, sorted.
	assert.Equal(t, []string{"AAAX", "ZZZT"}, missing.Tickers)
	assert.Equal(t, "found nulls in current_price: AAAX, ZZZT", err.Error())
}

func TestAllocationReport_ZeroCostBasis(t *testing.T) {
	rows := []CostBasisRow{
		// Employer grant lots can carry a zero cost basis.
		costBasis("ira", "VTI", 3, 0),
	}

	report, err := AllocationReport(rows, testPrices())
	assert.NoError(t, err)
	assert.Equal(t, "600", report[0].CurrentValue.String())
	assert.Equal(t, "0", report[0].GainPct.String())
}

func TestHoldingsAllocation(t *testing.T) {
	rows := []HoldingRow{
		{Account: "ira", Symbol: "VTI", Quantity: decimal.NewFromInt(10)},
		{Account: "ira", Symbol: "VXUS", Quantity: decimal.NewFromInt(40)},
	}

	report, err := HoldingsAllocation(rows, testPrices())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(report))

	assert.Equal(t, "2000", report[0].CurrentValue.String())
	assert.Equal(t, "50", report[0].AllocationPct.String())
	assert.Equal(t, "50", report[1].AllocationPct.String())
}

func TestHoldingsAllocation_MissingPrice(t *testing.T) {
	rows := []HoldingRow{
		{Account: "ira", Symbol: "MISSING", Quantity: decimal.NewFromInt(1)},
	}

	_, err := HoldingsAllocation(rows, testPrices())
	var missing *PriceNotFoundError
	assert.True(t, errors.As(err, &missing))
}
