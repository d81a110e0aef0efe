package cli

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/funance/funance/forecast"
)

func TestParseWindow(t *testing.T) {
	start, end, err := parseWindow("2022-01-01", "2022-06-30")
	assert.NoError(t, err)
	assert.Equal(t, "2022-01-01", start.String())
	assert.Equal(t, "2022-06-30", end.String())

	// Defaults produce a forward-looking one year window.
	start, end, err = parseWindow("", "")
	assert.NoError(t, err)
	assert.True(t, end.Compare(start) > 0)

	_, _, err = parseWindow("2022-06-30", "2022-01-01")
	assert.Error(t, err)

	_, _, err = parseWindow("yesterday", "")
	assert.Error(t, err)
}

func TestTruncateDescription(t *testing.T) {
	flat := truncateDescription("$-100.00: Gas<br>$-250.00: Groceries", 80)
	assert.Equal(t, "$-100.00: Gas; $-250.00: Groceries", flat)

	short := truncateDescription("$-100.00: Gas<br>$-250.00: Groceries", 20)
	assert.True(t, strings.HasSuffix(short, "…"))
}

func TestWriteSeriesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.csv")

	series := []forecast.AccountSeries{{
		AccountID: "checking",
		Name:      "Checking",
		Series: []forecast.GroupedRow{{
			Date:        forecast.MustDate("2022-01-01"),
			Amount:      decimal.NewFromInt(-1900),
			Balance:     decimal.NewFromInt(600),
			Description: "$-1500.00: Rent<br>$-400.00: Card Payment",
		}},
	}}

	assert.NoError(t, writeSeriesCSV(path, series))

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(records))
	assert.Equal(t, []string{"account_id", "date", "amount", "balance", "description"}, records[0])
	assert.Equal(t, []string{"checking", "2022-01-01", "-1900.00", "600.00", "$-1500.00: Rent; $-400.00: Card Payment"}, records[1])
}

func TestConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("FUNANCE_DIR", "/tmp/funance-test")

	dir, err := ConfigDir()
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/funance-test", dir)

	path, err := DefaultDocumentPath()
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/funance-test", "forecast.toml"), path)
}

func TestFileOrStdin_LoadDocumentDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FUNANCE_DIR", dir)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "forecast.toml"), []byte(`
[forecast.accounts.checking]
type = "checking"
name = "Checking"
balance = 100.0
`), 0600))

	var f FileOrStdin
	doc, err := f.LoadDocument()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Forecast.Accounts))
}
