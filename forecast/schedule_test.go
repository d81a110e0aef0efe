package forecast

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func fixedAmount(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestScheduledTransaction_GenerateTransactionsExpense(t *testing.T) {
	st := &ScheduledTransaction{
		TransactionID: "rent",
		AccountID:     "checking",
		Name:          "Rent",
		Amount:        fixedAmount(1500),
		Type:          TypeExpense,
		DateSpec: DateSpec{
			Start:      MustDate("2022-01-01"),
			Frequency:  FrequencyMonthly,
			Interval:   1,
			DayOfMonth: 1,
		},
	}

	out, err := st.GenerateTransactions(MustDate("2022-01-01"), MustDate("2022-03-31"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Dynamic))
	assert.Equal(t, 3, len(out.Plain))

	for _, tr := range out.Plain {
		assert.Equal(t, "checking", tr.AccountID)
		assert.Equal(t, TypeExpense, tr.Type)
		// Expenses debit regardless of the declared sign.
		assert.Equal(t, "-1500", tr.Amount.String())
	}
	assert.Equal(t, "2022-01-01", out.Plain[0].Date.String())
	assert.Equal(t, "2022-03-01", out.Plain[2].Date.String())
}

func TestScheduledTransaction_GenerateTransactionsIncome(t *testing.T) {
	st := &ScheduledTransaction{
		TransactionID: "paycheck",
		AccountID:     "checking",
		Name:          "Paycheck",
		Amount:        fixedAmount(-2500), // sign in the document is ignored
		Type:          TypeIncome,
		DateSpec: DateSpec{
			Start:     MustDate("2022-01-14"),
			Frequency: FrequencyWeekly,
			Interval:  2,
			DayOfWeek: Friday,
		},
	}

	out, err := st.GenerateTransactions(MustDate("2022-01-01"), MustDate("2022-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Plain))
	assert.Equal(t, "2500", out.Plain[0].Amount.String())
	assert.Equal(t, "2500", out.Plain[1].Amount.String())
}

func TestScheduledTransaction_GenerateTransactionsTransfer(t *testing.T) {
	st := &ScheduledTransaction{
		TransactionID: "to_savings",
		AccountID:     "checking",
		Name:          "To Savings",
		Amount:        fixedAmount(500),
		Type:          TypeTransfer,
		Transfer:      &Transfer{Direction: DirectionTo, AccountID: "savings"},
		DateSpec: DateSpec{
			Start:      MustDate("2022-01-01"),
			Frequency:  FrequencyMonthly,
			Interval:   1,
			DayOfMonth: 1,
		},
	}

	out, err := st.GenerateTransactions(MustDate("2022-01-01"), MustDate("2022-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Plain))

	debit, credit := out.Plain[0], out.Plain[1]
	assert.Equal(t, "checking", debit.AccountID)
	assert.Equal(t, "-500", debit.Amount.String())
	assert.Equal(t, "savings", credit.AccountID)
	assert.Equal(t, "500", credit.Amount.String())
	assert.Equal(t, debit.TransactionID, credit.TransactionID)
	assert.Equal(t, 0, debit.Date.Compare(credit.Date))
}

func TestScheduledTransaction_GenerateTransactionsTransferFrom(t *testing.T) {
	st := &ScheduledTransaction{
		TransactionID: "from_brokerage",
		AccountID:     "checking",
		Name:          "Dividend Sweep",
		Amount:        fixedAmount(120),
		Type:          TypeTransfer,
		Transfer:      &Transfer{Direction: DirectionFrom, AccountID: "brokerage"},
		DateSpec: DateSpec{
			Start:     MustDate("2022-01-03"),
			End:       ptr(MustDate("2022-01-03")),
			Frequency: FrequencyDaily,
			Interval:  1,
		},
	}

	out, err := st.GenerateTransactions(MustDate("2022-01-01"), MustDate("2022-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Plain))

	// "from" reverses the roles: the declaring account receives.
	assert.Equal(t, "brokerage", out.Plain[0].AccountID)
	assert.Equal(t, "-120", out.Plain[0].Amount.String())
	assert.Equal(t, "checking", out.Plain[1].AccountID)
	assert.Equal(t, "120", out.Plain[1].Amount.String())
}

func TestScheduledTransaction_GenerateTransactionsInvalidDirection(t *testing.T) {
	st := &ScheduledTransaction{
		TransactionID: "bad",
		AccountID:     "checking",
		Name:          "Bad Transfer",
		Amount:        fixedAmount(10),
		Type:          TypeTransfer,
		Transfer:      &Transfer{Direction: TransferDirection("sideways"), AccountID: "savings"},
		DateSpec: DateSpec{
			Start:     MustDate("2022-01-01"),
			Frequency: FrequencyDaily,
			Interval:  1,
		},
	}

	_, err := st.GenerateTransactions(MustDate("2022-01-01"), MustDate("2022-01-02"))
	var dirErr *InvalidTransferDirectionError
	assert.True(t, errors.As(err, &dirErr))
	assert.Equal(t, "sideways", dirErr.Direction)
}

func TestScheduledTransaction_GenerateTransactionsDynamic(t *testing.T) {
	st := &ScheduledTransaction{
		TransactionID:      "cc_pmt",
		AccountID:          "checking",
		Name:               "Card Payment",
		CCBalanceAccountID: "credit_card",
		Type:               TypeTransfer,
		Transfer:           &Transfer{Direction: DirectionTo, AccountID: "credit_card"},
		DateSpec: DateSpec{
			Start:      MustDate("2022-01-01"),
			Frequency:  FrequencyMonthly,
			Interval:   1,
			DayOfMonth: 1,
		},
	}

	out, err := st.GenerateTransactions(MustDate("2022-01-01"), MustDate("2022-03-31"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Plain))
	assert.Equal(t, 3, len(out.Dynamic))

	for i, dt := range out.Dynamic {
		assert.Equal(t, "credit_card", dt.Ref.AccountID)
		// The occurrence index distinguishes the first payment from
		// subsequent ones at resolution time.
		assert.Equal(t, i, dt.Ref.Index)
	}
}
