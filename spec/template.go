package spec

// Starter is the document written by `funance init`: a small but complete
// example with a checking account, savings transfers and a credit card
// paid off dynamically each month.
const Starter = `# funance forecast document
#
# Accounts, recurring scheduled transactions and chart groupings. Dates
# are ISO (YYYY-MM-DD); an omitted end_date recurs indefinitely.

[forecast.accounts.checking]
type = "checking"
name = "Checking"
balance = 2500.0

[forecast.accounts.checking.scheduled_transactions.paycheck]
name = "Paycheck"
amount = 2500.0
type = "income"

[forecast.accounts.checking.scheduled_transactions.paycheck.date_spec]
start_date = "2022-01-14"
frequency = "weekly"
interval = 2
day_of_week = "fri"

[forecast.accounts.checking.scheduled_transactions.rent]
name = "Rent"
amount = 1500.0
type = "expense"

[forecast.accounts.checking.scheduled_transactions.rent.date_spec]
start_date = "2022-01-01"
frequency = "monthly"
interval = 1
day_of_month = 1

[forecast.accounts.checking.scheduled_transactions.savings]
name = "Savings"
amount = 500.0
type = "transfer"

[forecast.accounts.checking.scheduled_transactions.savings.date_spec]
start_date = "2022-01-14"
frequency = "weekly"
interval = 2
day_of_week = "fri"

[forecast.accounts.checking.scheduled_transactions.savings.transfer]
direction = "to"
account_id = "savings"

[forecast.accounts.checking.scheduled_transactions.cc_pmt]
name = "Credit Card Pmt"
type = "transfer"

[forecast.accounts.checking.scheduled_transactions.cc_pmt.cc_balance]
account_id = "credit_card"

[forecast.accounts.checking.scheduled_transactions.cc_pmt.date_spec]
start_date = "2022-01-01"
frequency = "monthly"
interval = 1
day_of_month = 1

[forecast.accounts.checking.scheduled_transactions.cc_pmt.transfer]
direction = "to"
account_id = "credit_card"

[forecast.accounts.savings]
type = "savings"
name = "Savings"
balance = 10000.0

[forecast.accounts.credit_card]
type = "cc"
name = "Credit Card"
balance = -400.0
stmt_balance = -400.0
stmt_close_dom = 20

[forecast.accounts.credit_card.scheduled_transactions.groceries]
name = "Groceries"
amount = 750.0
type = "expense"

[forecast.accounts.credit_card.scheduled_transactions.groceries.date_spec]
start_date = "2022-01-15"
frequency = "monthly"
interval = 1
day_of_month = 15

[forecast.emergency_fund]
runway_goal_mos = 6.0
monthly_spending_assumption = 5000.0

[[forecast.emergency_fund.sources]]
name = "Savings"
value = 10000.0

[[charts]]
name = "Cash"
type = "forecast"
account_ids = ["checking", "savings"]

[[charts]]
name = "Debt"
type = "forecast"
account_ids = ["credit_card"]
`
