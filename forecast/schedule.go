package forecast

import (
	"github.com/shopspring/decimal"
)

// ScheduledTransaction is the declarative unit read from the forecast
// document: a recurring transaction template that expands into zero or
// more concrete transactions for a query window.
//
// Exactly one of Amount and CCBalanceAccountID is set. A fixed Amount
// expands into plain transactions; a credit-card balance reference expands
// into dynamic transactions that are resolved later against the referenced
// account's state.
type ScheduledTransaction struct {
	TransactionID      string
	AccountID          string
	Name               string
	Amount             *decimal.Decimal
	CCBalanceAccountID string
	Type               TransactionType
	DateSpec           DateSpec
	Transfer           *Transfer
}

// ScheduledTransactions partitions expanded transactions into the plain
// set (immediately applicable) and the dynamic set (requiring resolution).
type ScheduledTransactions struct {
	Plain   []Transaction
	Dynamic []DynamicTransaction
}

// GenerateTransactions expands the template across its recurrence dates
// within [queryStart, queryEnd]. Each date is paired with its 0-based
// occurrence index; the index travels with dynamic transactions so the
// resolver can distinguish the first occurrence from subsequent ones.
//
// The expansion may produce transactions targeting accounts other than the
// declaring one (the far side of a transfer).
func (s *ScheduledTransaction) GenerateTransactions(queryStart, queryEnd Date) (*ScheduledTransactions, error) {
	dates, err := s.DateSpec.GenerateDates(queryStart, queryEnd)
	if err != nil {
		return nil, err
	}

	out := &ScheduledTransactions{}
	for i, d := range dates {
		if s.Amount == nil {
			out.Dynamic = append(out.Dynamic, DynamicTransaction{
				TransactionID: s.TransactionID,
				AccountID:     s.AccountID,
				Date:          d,
				Name:          s.Name,
				Type:          s.Type,
				Ref:           CCBalanceRef{AccountID: s.CCBalanceAccountID, Index: i},
				Transfer:      s.Transfer,
			})
			continue
		}

		plain, err := materializePlain(s.TransactionID, s.AccountID, s.Name, s.Type, d, *s.Amount, s.Transfer)
		if err != nil {
			return nil, err
		}
		out.Plain = append(out.Plain, plain...)
	}
	return out, nil
}

// merge appends another expansion's transactions to this one.
func (st *ScheduledTransactions) merge(other *ScheduledTransactions) {
	st.Plain = append(st.Plain, other.Plain...)
	st.Dynamic = append(st.Dynamic, other.Dynamic...)
}
