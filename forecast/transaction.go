package forecast

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction as income, expense or transfer.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// ParseTransactionType maps a document type string to a TransactionType,
// failing closed on unrecognized values.
func ParseTransactionType(value string) (TransactionType, error) {
	switch TransactionType(value) {
	case TypeIncome, TypeExpense, TypeTransfer:
		return TransactionType(value), nil
	default:
		return "", fmt.Errorf("transaction type must be one of income, expense, transfer: %s", value)
	}
}

// TransferDirection tells whether the declaring account sends ("to") or
// receives ("from") a transfer.
type TransferDirection string

const (
	DirectionTo   TransferDirection = "to"
	DirectionFrom TransferDirection = "from"
)

// Transfer names the counterpart account of a transfer and the direction
// relative to the declaring account.
type Transfer struct {
	Direction TransferDirection
	AccountID string
}

// Transaction is an immutable, concrete ledger entry. Amount is signed:
// positive credits the account, negative debits it.
type Transaction struct {
	TransactionID string
	AccountID     string
	Date          Date
	Amount        decimal.Decimal
	Name          string
	Type          TransactionType
}

// CCBalanceRef references a credit-card account whose balance will supply
// a dynamic transaction's amount at resolution time. Index is the 0-based
// occurrence of the owning scheduled transaction within its expansion and
// selects initial-vs-subsequent resolution behavior.
type CCBalanceRef struct {
	AccountID string
	Index     int
}

// DynamicTransaction is a transaction whose amount is not yet known: it
// carries a CCBalanceRef instead of a number and resolves to concrete
// Transactions only when exchanged against the current state of the
// referenced account. The unresolved and resolved representations are
// deliberately separate types.
type DynamicTransaction struct {
	TransactionID string
	AccountID     string
	Date          Date
	Name          string
	Type          TransactionType
	Ref           CCBalanceRef
	Transfer      *Transfer
}

// materializePlain turns a known amount into one or two concrete
// transactions according to the transaction type:
//
//   - transfer: a debit on the sending account and an equal-magnitude
//     credit on the receiving account, sharing id, name and date
//   - income: a single credit (amount forced positive)
//   - expense: a single debit (amount forced negative)
func materializePlain(transactionID, accountID, name string, ttype TransactionType, date Date, amount decimal.Decimal, transfer *Transfer) ([]Transaction, error) {
	switch ttype {
	case TypeTransfer:
		return materializeTransfer(transactionID, accountID, name, date, amount, transfer)
	case TypeIncome:
		return []Transaction{{
			TransactionID: transactionID,
			AccountID:     accountID,
			Date:          date,
			Amount:        amount.Abs(),
			Name:          name,
			Type:          ttype,
		}}, nil
	case TypeExpense:
		return []Transaction{{
			TransactionID: transactionID,
			AccountID:     accountID,
			Date:          date,
			Amount:        amount.Abs().Neg(),
			Name:          name,
			Type:          ttype,
		}}, nil
	default:
		return nil, fmt.Errorf("transaction type must be one of income, expense, transfer: %s", ttype)
	}
}

func materializeTransfer(transactionID, accountID, name string, date Date, amount decimal.Decimal, transfer *Transfer) ([]Transaction, error) {
	if transfer == nil {
		return nil, fmt.Errorf("transfer transaction %s is missing its transfer target", transactionID)
	}

	var sendingID, receivingID string
	switch transfer.Direction {
	case DirectionTo:
		sendingID = accountID
		receivingID = transfer.AccountID
	case DirectionFrom:
		sendingID = transfer.AccountID
		receivingID = accountID
	default:
		return nil, &InvalidTransferDirectionError{Direction: string(transfer.Direction)}
	}

	return []Transaction{
		// Debit the sending account.
		{
			TransactionID: transactionID,
			AccountID:     sendingID,
			Date:          date,
			Amount:        amount.Abs().Neg(),
			Name:          name,
			Type:          TypeTransfer,
		},
		// Credit the receiving account.
		{
			TransactionID: transactionID,
			AccountID:     receivingID,
			Date:          date,
			Amount:        amount.Abs(),
			Name:          name,
			Type:          TypeTransfer,
		},
	}, nil
}
