// Package spec defines the declarative forecast document and its TOML
// loading. The document describes accounts, their recurring scheduled
// transactions, an optional emergency fund, and chart groupings; the
// forecast engine turns it plus an evaluation window into balance series.
//
// The document is read once per forecast invocation; nothing is written
// back.
package spec

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// File is the root of the forecast document.
type File struct {
	Forecast Forecast `toml:"forecast"`
	Charts   []Chart  `toml:"charts"`
}

// Forecast holds the account declarations and the optional emergency fund.
type Forecast struct {
	Accounts      map[string]*Account `toml:"accounts"`
	EmergencyFund *EmergencyFund      `toml:"emergency_fund"`
}

// Account declares one account. Type is one of checking, savings, invest,
// loan, cc; the stmt_* fields and pmt_plan apply to cc accounts only.
type Account struct {
	Type         string   `toml:"type"`
	Name         string   `toml:"name"`
	Balance      float64  `toml:"balance"`
	StmtBalance  float64  `toml:"stmt_balance"`
	StmtCloseDOM int      `toml:"stmt_close_dom"`
	PmtPlan      *PmtPlan `toml:"pmt_plan"`

	ScheduledTransactions map[string]*ScheduledTransaction `toml:"scheduled_transactions"`
}

// PmtPlan describes a credit card payment plan whose interest-saving
// sub-balance is isolated by differencing against a reference account.
type PmtPlan struct {
	RefAccountID          string  `toml:"ref_account_id"`
	InterestSavingBalance float64 `toml:"interest_saving_balance"`
}

// ScheduledTransaction declares a recurring transaction template.
// Amount and CCBalance are mutually exclusive: a fixed amount produces
// plain transactions, a cc_balance reference produces dynamic ones whose
// amount is derived from the referenced account's statement balance.
type ScheduledTransaction struct {
	Name      string     `toml:"name"`
	Amount    *float64   `toml:"amount"`
	CCBalance *CCBalance `toml:"cc_balance"`
	Type      string     `toml:"type"`
	DateSpec  DateSpec   `toml:"date_spec"`
	Transfer  *Transfer  `toml:"transfer"`
}

// CCBalance references the credit card account a dynamic amount is
// computed from.
type CCBalance struct {
	AccountID string `toml:"account_id"`
}

// DateSpec declares a recurrence rule. An empty end_date means the rule
// recurs indefinitely and is bounded by the query window.
type DateSpec struct {
	StartDate  string `toml:"start_date"`
	EndDate    string `toml:"end_date"`
	Frequency  string `toml:"frequency"`
	Interval   int    `toml:"interval"`
	DayOfWeek  string `toml:"day_of_week"`
	DayOfMonth int    `toml:"day_of_month"`
}

// Transfer declares the counterpart of a transfer transaction.
type Transfer struct {
	Direction string `toml:"direction"`
	AccountID string `toml:"account_id"`
}

// EmergencyFund declares the runway report inputs.
type EmergencyFund struct {
	RunwayGoalMos             float64      `toml:"runway_goal_mos"`
	MonthlySpendingAssumption float64      `toml:"monthly_spending_assumption"`
	Sources                   []FundSource `toml:"sources"`
}

// FundSource is one named pool of funds counted toward the runway.
type FundSource struct {
	Name  string  `toml:"name"`
	Value float64 `toml:"value"`
}

// Chart groups accounts into one rendered chart. The rendering layer is a
// downstream collaborator; the engine only resolves the account series.
type Chart struct {
	Name       string   `toml:"name"`
	Type       string   `toml:"type"`
	AccountIDs []string `toml:"account_ids"`
}

// Parse decodes and validates a forecast document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse forecast document: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses a forecast document from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the document's shape. Value-level validation (account
// types, frequencies, transfer directions) happens when the forecast is
// built; here only structural rules are enforced.
func (f *File) Validate() error {
	if len(f.Forecast.Accounts) == 0 {
		return fmt.Errorf("forecast document declares no accounts")
	}
	for accountID, account := range f.Forecast.Accounts {
		if account.Name == "" {
			return fmt.Errorf("account %s: name is required", accountID)
		}
		for transactionID, st := range account.ScheduledTransactions {
			if st.Amount != nil && st.CCBalance != nil {
				return fmt.Errorf("scheduled transaction %s.%s: amount and cc_balance are mutually exclusive", accountID, transactionID)
			}
			if st.Amount == nil && st.CCBalance == nil {
				return fmt.Errorf("scheduled transaction %s.%s: one of amount or cc_balance is required", accountID, transactionID)
			}
			if st.DateSpec.StartDate == "" {
				return fmt.Errorf("scheduled transaction %s.%s: date_spec.start_date is required", accountID, transactionID)
			}
		}
	}
	for _, chart := range f.Charts {
		for _, accountID := range chart.AccountIDs {
			if _, ok := f.Forecast.Accounts[accountID]; !ok {
				return fmt.Errorf("chart %q references unknown account: %s", chart.Name, accountID)
			}
		}
	}
	return nil
}
