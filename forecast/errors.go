package forecast

import "fmt"

// Error types for forecast construction and balance queries. All of them
// represent input or programmer errors: they are raised synchronously at
// the point of detection and propagate uncaught to the top-level caller.

// InvalidAccountTypeError is returned when the document declares an
// account type outside the fixed set.
type InvalidAccountTypeError struct {
	AccountID string
	Type      string
}

func (e *InvalidAccountTypeError) Error() string {
	return fmt.Sprintf("account type not found: %s (account %s)", e.Type, e.AccountID)
}

// AccountNotFoundError is returned when any reference (transaction target,
// transfer counterpart, dynamic reference, balance query) names an unknown
// account id.
type AccountNotFoundError struct {
	AccountID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.AccountID)
}

// OutOfBoundsError is returned when a balance is queried for a date before
// the account's start date. It is fatal for that call only; the caller may
// recover and decide.
type OutOfBoundsError struct {
	Date      Date
	StartDate Date
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("date %s before start_date of the account: %s", e.Date, e.StartDate)
}

// InvalidTransferDirectionError is returned when a transfer declares a
// direction other than "to" or "from".
type InvalidTransferDirectionError struct {
	Direction string
}

func (e *InvalidTransferDirectionError) Error() string {
	return fmt.Sprintf(`transfer direction must be one of "to", "from". Received: %s`, e.Direction)
}

// AccountMismatchError is returned when a transaction is appended to an
// account whose id differs from the transaction's target.
type AccountMismatchError struct {
	AccountID            string
	TransactionAccountID string
}

func (e *AccountMismatchError) Error() string {
	return fmt.Sprintf("expected account id: %s received: %s", e.AccountID, e.TransactionAccountID)
}

// NotCreditCardError is returned when a dynamic transaction references an
// account that carries no credit-card details.
type NotCreditCardError struct {
	AccountID string
}

func (e *NotCreditCardError) Error() string {
	return fmt.Sprintf("dynamic reference requires a credit card account: %s", e.AccountID)
}
