package forecast

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/funance/funance/telemetry"
)

// Accounts holds all accounts of one forecast run, keyed by account id.
// A registry is built once per run, mutated while scheduled transactions
// are applied and dynamic transactions resolved, and read-only afterwards.
type Accounts struct {
	accounts map[string]*Account
}

// NewAccounts creates an empty registry.
func NewAccounts() *Accounts {
	return &Accounts{accounts: make(map[string]*Account)}
}

// Add registers an account under its id.
func (r *Accounts) Add(account *Account) {
	r.accounts[account.ID] = account
}

// Get returns the account with the given id.
func (r *Accounts) Get(accountID string) (*Account, error) {
	account, ok := r.accounts[accountID]
	if !ok {
		return nil, &AccountNotFoundError{AccountID: accountID}
	}
	return account, nil
}

// All returns every account ordered by id.
func (r *Accounts) All() []*Account {
	ids := maps.Keys(r.accounts)
	slices.Sort(ids)
	accounts := make([]*Account, len(ids))
	for i, id := range ids {
		accounts[i] = r.accounts[id]
	}
	return accounts
}

// AddTransactions routes each transaction to its target account.
func (r *Accounts) AddTransactions(transactions []Transaction) error {
	for _, t := range transactions {
		account, err := r.Get(t.AccountID)
		if err != nil {
			return err
		}
		if err := account.AddTransaction(t); err != nil {
			return err
		}
	}
	return nil
}

// ApplyScheduledTransactions applies an expansion to the registry.
//
// Plain transactions are applied first; their relative order does not
// affect correctness because balances are cumulative sums over dates.
//
// Dynamic transactions are then sorted by date ascending across ALL
// accounts and resolved in that order. The global ordering is the
// correctness invariant: an exchange reads balances of other accounts, so
// an earlier-dated dynamic transaction must be resolved and applied before
// a later one is resolved, or the later one would read stale state.
//
// There is no cycle guard: a dynamic reference that depends (directly or
// transitively) on its own effects at an earlier-or-equal date is an input
// error and produces stale reads, though the single pass over the sorted
// list always terminates.
func (r *Accounts) ApplyScheduledTransactions(ctx context.Context, st *ScheduledTransactions) error {
	applyTimer := telemetry.StartTimer(ctx, fmt.Sprintf("forecast.apply (%d plain)", len(st.Plain)))
	if err := r.AddTransactions(st.Plain); err != nil {
		applyTimer.End()
		return err
	}
	applyTimer.End()

	resolveTimer := telemetry.StartTimer(ctx, fmt.Sprintf("forecast.resolve (%d dynamic)", len(st.Dynamic)))
	defer resolveTimer.End()

	dynamic := slices.Clone(st.Dynamic)
	slices.SortStableFunc(dynamic, func(a, b DynamicTransaction) int {
		return a.Date.Compare(b.Date)
	})

	for _, dt := range dynamic {
		transactions, err := r.Exchange(dt)
		if err != nil {
			return err
		}
		if err := r.AddTransactions(transactions); err != nil {
			return err
		}
	}
	return nil
}

// Exchange resolves a dynamic transaction against the current state of
// its referenced credit-card account, producing the concrete plain
// transactions to apply.
//
// The balance snapshot is taken as of the statement close date one cycle
// back: the transaction's date minus one month, with the day replaced by
// the card's statement closing day-of-month (both steps clamp to month
// length).
//
//   - first occurrence (index 0): the payment plan's interest-saving
//     balance when a plan exists, else the card's declared statement
//     balance
//   - later occurrences, no plan: the card's running balance at the close
//     date
//   - later occurrences with a plan: the card's balance minus the plan's
//     reference-account balance at the same close date, isolating the
//     interest-saving portion
func (r *Accounts) Exchange(dt DynamicTransaction) ([]Transaction, error) {
	account, err := r.Get(dt.Ref.AccountID)
	if err != nil {
		return nil, err
	}
	cc := account.CreditCard
	if cc == nil {
		return nil, &NotCreditCardError{AccountID: account.ID}
	}

	closeDate := withDay(addMonths(dt.Date, -1), cc.StmtCloseDOM)

	var balance decimal.Decimal
	switch {
	case dt.Ref.Index == 0 && cc.PmtPlan != nil:
		balance = cc.PmtPlan.InterestSavingBalance
	case dt.Ref.Index == 0:
		balance = cc.StmtBalance
	case cc.PmtPlan != nil:
		mainBalance, err := account.Balance(closeDate)
		if err != nil {
			return nil, err
		}
		refAccount, err := r.Get(cc.PmtPlan.RefAccountID)
		if err != nil {
			return nil, err
		}
		refBalance, err := refAccount.Balance(closeDate)
		if err != nil {
			return nil, err
		}
		balance = mainBalance.Sub(refBalance)
	default:
		balance, err = account.Balance(closeDate)
		if err != nil {
			return nil, err
		}
	}

	return materializePlain(dt.TransactionID, dt.AccountID, dt.Name, dt.Type, dt.Date, balance, dt.Transfer)
}
