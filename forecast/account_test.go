package forecast

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func testAccount(t *testing.T) *Account {
	t.Helper()
	return NewAccount("checking", "Checking", AccountTypeChecking, MustDate("2022-01-01"), decimal.NewFromInt(1000), nil)
}

func expense(id, accountID, date, name string, amount float64) Transaction {
	return Transaction{
		TransactionID: id,
		AccountID:     accountID,
		Date:          MustDate(date),
		Amount:        decimal.NewFromFloat(amount),
		Name:          name,
		Type:          TypeExpense,
	}
}

func TestAccount_TransactionsSorted(t *testing.T) {
	account := testAccount(t)

	assert.NoError(t, account.AddTransaction(expense("b", "checking", "2022-01-10", "B", -50)))
	assert.NoError(t, account.AddTransaction(expense("a", "checking", "2022-01-05", "A", -25)))
	assert.NoError(t, account.AddTransaction(expense("c", "checking", "2022-01-10", "A", -10)))

	transactions := account.Transactions()
	assert.Equal(t, 3, len(transactions))
	assert.Equal(t, "2022-01-05", transactions[0].Date.String())
	// Same date orders by name.
	assert.Equal(t, "A", transactions[1].Name)
	assert.Equal(t, "B", transactions[2].Name)
}

func TestAccount_AddTransactionMismatch(t *testing.T) {
	account := testAccount(t)

	err := account.AddTransaction(expense("x", "savings", "2022-01-05", "X", -25))
	var mismatch *AccountMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestAccount_RunningBalance(t *testing.T) {
	account := testAccount(t)

	assert.NoError(t, account.AddTransaction(expense("a", "checking", "2022-01-05", "Groceries", -250)))
	assert.NoError(t, account.AddTransaction(expense("b", "checking", "2022-01-10", "Utilities", -250)))

	rows := account.RunningBalance()
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, "750", rows[0].Balance.String())
	assert.Equal(t, "500", rows[1].Balance.String())
}

func TestAccount_RunningBalanceGrouped(t *testing.T) {
	account := testAccount(t)

	assert.NoError(t, account.AddTransaction(expense("a", "checking", "2022-01-05", "Groceries", -250)))
	assert.NoError(t, account.AddTransaction(expense("b", "checking", "2022-01-05", "Gas", -100)))
	assert.NoError(t, account.AddTransaction(expense("c", "checking", "2022-01-10", "Utilities", -150)))

	rows := account.RunningBalanceGrouped()
	assert.Equal(t, 2, len(rows))

	// Same-date transactions collapse into one row with summed amount and
	// a combined description.
	assert.Equal(t, "2022-01-05", rows[0].Date.String())
	assert.Equal(t, "-350", rows[0].Amount.String())
	assert.Equal(t, "650", rows[0].Balance.String())
	assert.Equal(t, "$-100.00: Gas<br>$-250.00: Groceries", rows[0].Description)

	assert.Equal(t, "500", rows[1].Balance.String())
}

func TestAccount_Balance(t *testing.T) {
	account := testAccount(t)

	assert.NoError(t, account.AddTransaction(expense("a", "checking", "2022-01-05", "Groceries", -250)))
	assert.NoError(t, account.AddTransaction(expense("b", "checking", "2022-01-10", "Utilities", -250)))

	// Before any transaction the opening balance holds.
	balance, err := account.Balance(MustDate("2022-01-02"))
	assert.NoError(t, err)
	assert.Equal(t, "1000", balance.String())

	// Between transactions only the earlier one counts.
	balance, err = account.Balance(MustDate("2022-01-07"))
	assert.NoError(t, err)
	assert.Equal(t, "750", balance.String())

	balance, err = account.Balance(MustDate("2022-12-31"))
	assert.NoError(t, err)
	assert.Equal(t, "500", balance.String())
}

func TestAccount_BalanceOutOfBounds(t *testing.T) {
	account := testAccount(t)

	_, err := account.Balance(MustDate("2021-12-31"))
	var oob *OutOfBoundsError
	assert.True(t, errors.As(err, &oob))
	assert.Equal(t, "date 2021-12-31 before start_date of the account: 2022-01-01", err.Error())
}

func TestAccount_CacheInvalidation(t *testing.T) {
	account := testAccount(t)

	assert.NoError(t, account.AddTransaction(expense("a", "checking", "2022-01-05", "Groceries", -250)))

	balance, err := account.Balance(MustDate("2022-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, "750", balance.String())

	// A later append must be reflected by subsequent queries.
	assert.NoError(t, account.AddTransaction(expense("b", "checking", "2022-01-18", "Utilities", -250)))

	balance, err = account.Balance(MustDate("2022-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, "500", balance.String())
}

func TestParseAccountType(t *testing.T) {
	assert.Equal(t, AccountTypeCreditCard, ParseAccountType("cc"))
	assert.Equal(t, AccountTypeChecking, ParseAccountType("checking"))
	assert.Equal(t, AccountTypeUnknown, ParseAccountType("brokerage"))
}
