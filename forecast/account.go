package forecast

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AccountType represents the type of account declared in the document.
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeChecking
	AccountTypeSavings
	AccountTypeInvest
	AccountTypeLoan
	AccountTypeCreditCard
)

// String returns the document representation of the account type.
func (t AccountType) String() string {
	switch t {
	case AccountTypeChecking:
		return "checking"
	case AccountTypeSavings:
		return "savings"
	case AccountTypeInvest:
		return "invest"
	case AccountTypeLoan:
		return "loan"
	case AccountTypeCreditCard:
		return "cc"
	default:
		return "unknown"
	}
}

// ParseAccountType maps a document type string to an AccountType.
func ParseAccountType(value string) AccountType {
	switch value {
	case "checking":
		return AccountTypeChecking
	case "savings":
		return AccountTypeSavings
	case "invest":
		return AccountTypeInvest
	case "loan":
		return AccountTypeLoan
	case "cc":
		return AccountTypeCreditCard
	default:
		return AccountTypeUnknown
	}
}

// PaymentPlan is an alternate dynamic-balance computation mode isolating
// an "interest-saving" sub-balance by differencing against a reference
// account.
type PaymentPlan struct {
	RefAccountID          string
	InterestSavingBalance decimal.Decimal
}

// CreditCardDetails carries the credit-card-specific payload of an
// account: the declared statement balance, the statement closing
// day-of-month, and an optional payment plan.
type CreditCardDetails struct {
	StmtBalance  decimal.Decimal
	StmtCloseDOM int
	PmtPlan      *PaymentPlan
}

// BalanceRow is one transaction with the running balance after it.
type BalanceRow struct {
	Transaction
	Balance decimal.Decimal
}

// GroupedRow merges all transactions sharing a date into one row: amounts
// sum, and an "$amount: name" fragment per contributing transaction is
// joined with <br> into the description charted downstream.
type GroupedRow struct {
	Date        Date
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Description string
}

// Account owns the transaction list of one declared account and answers
// running-balance and point-in-time balance queries over it. Transactions
// are append-only; insertion order is irrelevant because every read
// re-sorts by (date, name).
//
// The sorted table and grouped running balance are computed lazily and
// cached; any append invalidates the cache.
type Account struct {
	ID             string
	Name           string
	Type           AccountType
	StartDate      Date
	OpeningBalance decimal.Decimal

	// CreditCard is non-nil only for cc accounts.
	CreditCard *CreditCardDetails

	transactions []Transaction

	dirty   bool
	sorted  []Transaction
	grouped []GroupedRow
}

// NewAccount creates an account with no transactions.
func NewAccount(id, name string, accountType AccountType, startDate Date, balance decimal.Decimal, cc *CreditCardDetails) *Account {
	return &Account{
		ID:             id,
		Name:           name,
		Type:           accountType,
		StartDate:      startDate,
		OpeningBalance: balance,
		CreditCard:     cc,
		dirty:          true,
	}
}

// AddTransaction appends a transaction to the account and invalidates the
// cached tables. A transaction targeting a different account id is a fatal
// input error.
func (a *Account) AddTransaction(t Transaction) error {
	if t.AccountID != a.ID {
		return &AccountMismatchError{AccountID: a.ID, TransactionAccountID: t.AccountID}
	}
	a.dirty = true
	a.transactions = append(a.transactions, t)
	return nil
}

// AddTransactions appends transactions in order.
func (a *Account) AddTransactions(transactions []Transaction) error {
	for _, t := range transactions {
		if err := a.AddTransaction(t); err != nil {
			return err
		}
	}
	return nil
}

// Transactions returns all added transactions sorted by (date, name)
// ascending. Ties on date and name keep insertion order.
func (a *Account) Transactions() []Transaction {
	a.refresh()
	return a.sorted
}

// RunningBalance returns the sorted transactions with a cumulative balance
// column equal to the opening balance plus the running sum of amounts.
func (a *Account) RunningBalance() []BalanceRow {
	a.refresh()
	rows := make([]BalanceRow, len(a.sorted))
	balance := a.OpeningBalance
	for i, t := range a.sorted {
		balance = balance.Add(t.Amount)
		rows[i] = BalanceRow{Transaction: t, Balance: balance}
	}
	return rows
}

// RunningBalanceGrouped returns the running balance with rows sharing a
// date merged into one. This is the representation charted downstream.
func (a *Account) RunningBalanceGrouped() []GroupedRow {
	a.refresh()
	return a.grouped
}

// Balance answers a point-in-time balance query: the running balance of
// the latest grouped row dated at or before asOf, or the opening balance
// when no transaction falls in that range. Querying before the account's
// start date is out of bounds.
func (a *Account) Balance(asOf Date) (decimal.Decimal, error) {
	if asOf.Time.Before(a.StartDate.Time) {
		return decimal.Decimal{}, &OutOfBoundsError{Date: asOf, StartDate: a.StartDate}
	}
	balance := a.OpeningBalance
	for _, row := range a.RunningBalanceGrouped() {
		if row.Date.Time.After(asOf.Time) {
			break
		}
		balance = row.Balance
	}
	return balance, nil
}

// refresh rebuilds the cached sorted and grouped tables when dirty.
func (a *Account) refresh() {
	if !a.dirty {
		return
	}

	a.sorted = slices.Clone(a.transactions)
	slices.SortStableFunc(a.sorted, func(x, y Transaction) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return strings.Compare(x.Name, y.Name)
	})

	a.grouped = a.grouped[:0]
	balance := a.OpeningBalance
	for i := 0; i < len(a.sorted); {
		j := i
		amount := decimal.Zero
		var fragments []string
		for ; j < len(a.sorted) && a.sorted[j].Date.Equal(a.sorted[i].Date.Time); j++ {
			t := a.sorted[j]
			amount = amount.Add(t.Amount)
			fragments = append(fragments, "$"+t.Amount.StringFixed(2)+": "+t.Name)
		}
		balance = balance.Add(amount)
		a.grouped = append(a.grouped, GroupedRow{
			Date:        a.sorted[i].Date,
			Amount:      amount,
			Balance:     balance,
			Description: strings.Join(fragments, "<br>"),
		})
		i = j
	}

	a.dirty = false
}
