package invest

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// PricesURLEnv names the environment variable holding the ticker-price
// sheet URL used when no local prices file is given.
const PricesURLEnv = "GOOGLE_SHEETS_PRICES_URL"

// ReadCostBasis parses a brokerage cost-basis CSV export. The header row
// must contain account_name, ticker, num_shares and total_cost; other
// columns (date_acquired, cost_per_share, term) are ignored.
func ReadCostBasis(r io.Reader) ([]CostBasisRow, error) {
	records, header, err := readTable(r)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header, "account_name", "ticker", "num_shares", "total_cost")
	if err != nil {
		return nil, err
	}

	rows := make([]CostBasisRow, 0, len(records))
	for _, record := range records {
		shares, err := decimal.NewFromString(record[cols["num_shares"]])
		if err != nil {
			return nil, fmt.Errorf("invalid num_shares %q: %w", record[cols["num_shares"]], err)
		}
		cost, err := decimal.NewFromString(record[cols["total_cost"]])
		if err != nil {
			return nil, fmt.Errorf("invalid total_cost %q: %w", record[cols["total_cost"]], err)
		}
		rows = append(rows, CostBasisRow{
			AccountName: record[cols["account_name"]],
			Ticker:      record[cols["ticker"]],
			NumShares:   shares,
			TotalCost:   cost,
		})
	}
	return rows, nil
}

// ReadCostBasisDir reads the brokerage.csv export from an export
// directory.
func ReadCostBasisDir(exportDir string) ([]CostBasisRow, error) {
	f, err := os.Open(filepath.Join(exportDir, "brokerage.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCostBasis(f)
}

// ReadHoldings parses one holdings CSV export with account, symbol and
// quantity columns.
func ReadHoldings(r io.Reader) ([]HoldingRow, error) {
	records, header, err := readTable(r)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header, "account", "symbol", "quantity")
	if err != nil {
		return nil, err
	}

	rows := make([]HoldingRow, 0, len(records))
	for _, record := range records {
		quantity, err := decimal.NewFromString(record[cols["quantity"]])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", record[cols["quantity"]], err)
		}
		rows = append(rows, HoldingRow{
			Account:  record[cols["account"]],
			Symbol:   record[cols["symbol"]],
			Quantity: quantity,
		})
	}
	return rows, nil
}

// ReadHoldingsDir merges every holdings.*.csv export in a directory.
func ReadHoldingsDir(exportDir string) ([]HoldingRow, error) {
	matches, err := filepath.Glob(filepath.Join(exportDir, "holdings.*.csv"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no holdings.*.csv exports in %s", exportDir)
	}

	var rows []HoldingRow
	for _, match := range matches {
		f, err := os.Open(match)
		if err != nil {
			return nil, err
		}
		fileRows, err := ReadHoldings(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", match, err)
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// ReadPrices parses a ticker,price CSV into a price map.
func ReadPrices(r io.Reader) (map[string]decimal.Decimal, error) {
	records, header, err := readTable(r)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(header, "ticker", "price")
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(records))
	for _, record := range records {
		price, err := decimal.NewFromString(record[cols["price"]])
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", record[cols["price"]], err)
		}
		prices[record[cols["ticker"]]] = price
	}
	return prices, nil
}

// FetchPrices downloads the price sheet CSV from a sheet URL. A Google
// Sheets sharing URL is rewritten to its CSV export form.
func FetchPrices(url string) (map[string]decimal.Decimal, error) {
	url = strings.Replace(url, "/edit?usp=sharing", "/export?format=csv", 1)

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices from %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load prices from %s: %s", url, resp.Status)
	}
	return ReadPrices(resp.Body)
}

// readTable reads a CSV with a header row, returning records and header.
func readTable(r io.Reader) ([][]string, []string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv input")
	}
	return records[1:], records[0], nil
}

// columnIndex resolves required header names to column positions.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column: %s", name)
		}
	}
	return index, nil
}
