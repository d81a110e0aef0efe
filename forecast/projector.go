// Package forecast implements the personal-finance forecast projection
// engine: recurrence rules expand into dated transactions, scheduled
// transactions materialize as plain or dynamic entries, and a registry of
// accounts resolves dynamic credit-card payments in global date order to
// produce per-account running-balance series.
//
// A forecast run is call-once: the Projector builds an isolated registry
// from the document and an evaluation window, mutates it while resolving,
// and is read-only afterwards. Nothing is shared between runs and nothing
// is persisted; callers rebuild on every invocation.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/funance/funance/spec"
	"github.com/funance/funance/telemetry"
)

// AccountSeries is the per-account output consumed by the charting layer:
// the display name plus the date-ordered grouped balance rows.
type AccountSeries struct {
	AccountID string
	Name      string
	Series    []GroupedRow
}

// ChartSeries resolves one chart grouping from the document into the
// series of every account it references.
type ChartSeries struct {
	Name     string
	Type     string
	Accounts []AccountSeries
}

// Projector is the forecast facade: it owns the account registry built
// from a document and an evaluation window, and answers per-account
// queries against the resolved state.
type Projector struct {
	Start Date
	End   Date

	doc      *spec.File
	accounts *Accounts
}

// DefaultWindow returns the conventional evaluation window: tomorrow
// through one year later.
func DefaultWindow(now time.Time) (Date, Date) {
	start := Date{Time: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}.AddDays(1)
	end := Date{Time: start.AddDate(1, 0, 0)}
	return start, end
}

// FromSpec builds the forecast for a document and window: accounts are
// created, every scheduled transaction expanded over its recurrence dates,
// plain transactions applied, and dynamic transactions resolved in date
// order.
func FromSpec(ctx context.Context, doc *spec.File, start, end Date) (*Projector, error) {
	buildTimer := telemetry.StartTimer(ctx, fmt.Sprintf("forecast.build %s..%s", start, end))
	defer buildTimer.End()

	accounts, err := buildAccounts(&doc.Forecast, start)
	if err != nil {
		return nil, err
	}

	expandTimer := buildTimer.Child("forecast.expand")
	expansion, err := expandScheduled(&doc.Forecast, start, end)
	expandTimer.End()
	if err != nil {
		return nil, err
	}

	if err := accounts.ApplyScheduledTransactions(ctx, expansion); err != nil {
		return nil, err
	}

	return &Projector{Start: start, End: end, doc: doc, accounts: accounts}, nil
}

// GetAccount returns an account by id.
func (p *Projector) GetAccount(accountID string) (*Account, error) {
	return p.accounts.Get(accountID)
}

// Accounts returns the underlying registry.
func (p *Projector) Accounts() *Accounts {
	return p.accounts
}

// Series returns the charting output for one account.
func (p *Projector) Series(accountID string) (AccountSeries, error) {
	account, err := p.accounts.Get(accountID)
	if err != nil {
		return AccountSeries{}, err
	}
	return AccountSeries{
		AccountID: accountID,
		Name:      account.Name,
		Series:    account.RunningBalanceGrouped(),
	}, nil
}

// Charts resolves every chart grouping declared in the document.
func (p *Projector) Charts() ([]ChartSeries, error) {
	charts := make([]ChartSeries, 0, len(p.doc.Charts))
	for _, chart := range p.doc.Charts {
		cs := ChartSeries{Name: chart.Name, Type: chart.Type}
		for _, accountID := range chart.AccountIDs {
			series, err := p.Series(accountID)
			if err != nil {
				return nil, err
			}
			cs.Accounts = append(cs.Accounts, series)
		}
		charts = append(charts, cs)
	}
	return charts, nil
}

// Runway returns the emergency-fund runway report, or nil when the
// document declares no emergency fund.
func (p *Projector) Runway() (*RunwayReport, error) {
	if p.doc.Forecast.EmergencyFund == nil {
		return nil, nil
	}
	return NewRunwayReport(p.doc.Forecast.EmergencyFund)
}

// buildAccounts maps the document's account declarations to registry
// accounts. Every account starts at the window start with its declared
// opening balance. The factory fails closed on unrecognized type tags.
func buildAccounts(fc *spec.Forecast, start Date) (*Accounts, error) {
	accounts := NewAccounts()
	for _, accountID := range sortedKeys(fc.Accounts) {
		as := fc.Accounts[accountID]
		account, err := newAccountFromSpec(accountID, as, start)
		if err != nil {
			return nil, err
		}
		accounts.Add(account)
	}
	return accounts, nil
}

func newAccountFromSpec(accountID string, as *spec.Account, start Date) (*Account, error) {
	accountType := ParseAccountType(as.Type)
	balance := decimal.NewFromFloat(as.Balance)

	switch accountType {
	case AccountTypeCreditCard:
		cc := &CreditCardDetails{
			StmtBalance:  decimal.NewFromFloat(as.StmtBalance),
			StmtCloseDOM: as.StmtCloseDOM,
		}
		if cc.StmtCloseDOM < 1 || cc.StmtCloseDOM > 31 {
			return nil, fmt.Errorf("account %s: stmt_close_dom must be 1-31: %d", accountID, cc.StmtCloseDOM)
		}
		if as.PmtPlan != nil {
			cc.PmtPlan = &PaymentPlan{
				RefAccountID:          as.PmtPlan.RefAccountID,
				InterestSavingBalance: decimal.NewFromFloat(as.PmtPlan.InterestSavingBalance),
			}
		}
		return NewAccount(accountID, as.Name, accountType, start, balance, cc), nil
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvest, AccountTypeLoan:
		return NewAccount(accountID, as.Name, accountType, start, balance, nil), nil
	default:
		return nil, &InvalidAccountTypeError{AccountID: accountID, Type: as.Type}
	}
}

// expandScheduled expands every scheduled transaction across all accounts
// and partitions the results into plain and dynamic sets.
func expandScheduled(fc *spec.Forecast, start, end Date) (*ScheduledTransactions, error) {
	out := &ScheduledTransactions{}
	for _, accountID := range sortedKeys(fc.Accounts) {
		as := fc.Accounts[accountID]
		for _, transactionID := range sortedKeys(as.ScheduledTransactions) {
			st, err := newScheduledFromSpec(accountID, transactionID, as.ScheduledTransactions[transactionID])
			if err != nil {
				return nil, err
			}
			expansion, err := st.GenerateTransactions(start, end)
			if err != nil {
				return nil, fmt.Errorf("scheduled transaction %s.%s: %w", accountID, transactionID, err)
			}
			out.merge(expansion)
		}
	}
	return out, nil
}

func newScheduledFromSpec(accountID, transactionID string, ss *spec.ScheduledTransaction) (*ScheduledTransaction, error) {
	ttype, err := ParseTransactionType(ss.Type)
	if err != nil {
		return nil, fmt.Errorf("scheduled transaction %s.%s: %w", accountID, transactionID, err)
	}

	dateSpec, err := newDateSpecFromSpec(ss.DateSpec)
	if err != nil {
		return nil, fmt.Errorf("scheduled transaction %s.%s: %w", accountID, transactionID, err)
	}

	st := &ScheduledTransaction{
		TransactionID: transactionID,
		AccountID:     accountID,
		Name:          ss.Name,
		Type:          ttype,
		DateSpec:      dateSpec,
	}
	if ss.Amount != nil {
		amount := decimal.NewFromFloat(*ss.Amount)
		st.Amount = &amount
	} else {
		st.CCBalanceAccountID = ss.CCBalance.AccountID
	}
	if ss.Transfer != nil {
		st.Transfer = &Transfer{
			Direction: TransferDirection(ss.Transfer.Direction),
			AccountID: ss.Transfer.AccountID,
		}
	}
	return st, nil
}

func newDateSpecFromSpec(ds spec.DateSpec) (DateSpec, error) {
	start, err := NewDate(ds.StartDate)
	if err != nil {
		return DateSpec{}, err
	}

	frequency, err := ParseFrequency(ds.Frequency)
	if err != nil {
		return DateSpec{}, err
	}

	out := DateSpec{
		Start:      start,
		Frequency:  frequency,
		Interval:   ds.Interval,
		DayOfMonth: ds.DayOfMonth,
	}
	if ds.EndDate != "" {
		end, err := NewDate(ds.EndDate)
		if err != nil {
			return DateSpec{}, err
		}
		out.End = &end
	}
	if ds.DayOfWeek != "" {
		weekday, err := ParseWeekday(ds.DayOfWeek)
		if err != nil {
			return DateSpec{}, err
		}
		out.DayOfWeek = weekday
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
