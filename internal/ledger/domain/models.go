package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance for the debit == credit invariant. Any
// residual above it means the transaction may not be submitted.
var Epsilon = decimal.New(1, -4) // 0.0001

// Line is one debit or credit posting against a GL account. Exactly
// one of Debit/Credit is non-zero. Amount carries the sign convention
// downstream consumers branch on: debits are positive, credits are the
// negative of their credit value (Amount == Debit - Credit).
type Line struct {
	AccountID   int64           `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	ReferenceID int64           `json:"reference_id"`
	TranDate    time.Time       `json:"tran_date"`
}

// DebitLine builds a debit posting with the positive signed amount.
func DebitLine(accountID int64, amount decimal.Decimal, memo string, referenceID int64, tranDate time.Time) Line {
	amount = amount.Round(2)
	return Line{
		AccountID:   accountID,
		Debit:       amount,
		Credit:      decimal.Zero,
		Amount:      amount,
		Memo:        memo,
		ReferenceID: referenceID,
		TranDate:    tranDate,
	}
}

// CreditLine builds a credit posting with the negative signed amount.
func CreditLine(accountID int64, amount decimal.Decimal, memo string, referenceID int64, tranDate time.Time) Line {
	amount = amount.Round(2)
	return Line{
		AccountID:   accountID,
		Debit:       decimal.Zero,
		Credit:      amount,
		Amount:      amount.Neg(),
		Memo:        memo,
		ReferenceID: referenceID,
		TranDate:    tranDate,
	}
}

// Transaction is one balanced set of lines plus the header the
// submission service expects.
type Transaction struct {
	DocNo        string          `json:"doc_no"`
	TranDate     time.Time       `json:"tran_date"`
	CurrencyCode string          `json:"currency_code"`
	TranValue    decimal.Decimal `json:"tran_value"`
	Remarks      string          `json:"remarks"`
	Lines        []Line          `json:"lines"`
}

// Charge is one revenue or tax component waiting to become a credit
// line. Components without a usable account are skipped by the
// builder, not rejected.
type Charge struct {
	Name      string
	Amount    decimal.Decimal
	AccountID int64
}

func DebitTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

func CreditTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Credit)
	}
	return total
}

// ValidateBalanced enforces the fundamental invariant: debit and
// credit totals agree within Epsilon. A violation after the balance
// pass is a programming error, never expected user input.
func ValidateBalanced(lines []Line) error {
	if len(lines) == 0 {
		return ErrEmptyTransaction
	}
	diff := DebitTotal(lines).Sub(CreditTotal(lines)).Abs()
	if diff.GreaterThan(Epsilon) {
		return ErrUnbalanced
	}
	return nil
}
