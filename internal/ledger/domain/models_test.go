package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineSignConvention(t *testing.T) {
	now := time.Now().UTC()

	debit := DebitLine(7, dec("126.50"), "Room charge", 1001, now)
	assert.True(t, debit.Debit.Equal(dec("126.50")))
	assert.True(t, debit.Credit.IsZero())
	assert.True(t, debit.Amount.Equal(dec("126.50")))

	credit := CreditLine(50, dec("10.00"), "Service Charge", 1001, now)
	assert.True(t, credit.Credit.Equal(dec("10.00")))
	assert.True(t, credit.Debit.IsZero())
	assert.True(t, credit.Amount.Equal(dec("-10.00")))

	// Amount == Debit - Credit on both sides.
	assert.True(t, debit.Amount.Equal(debit.Debit.Sub(debit.Credit)))
	assert.True(t, credit.Amount.Equal(credit.Debit.Sub(credit.Credit)))
}

func TestValidateBalanced(t *testing.T) {
	now := time.Now().UTC()

	balanced := []Line{
		DebitLine(1, dec("100.00"), "", 0, now),
		CreditLine(2, dec("100.00"), "", 0, now),
	}
	assert.NoError(t, ValidateBalanced(balanced))

	unbalanced := []Line{
		DebitLine(1, dec("100.00"), "", 0, now),
		CreditLine(2, dec("99.00"), "", 0, now),
	}
	assert.ErrorIs(t, ValidateBalanced(unbalanced), ErrUnbalanced)

	assert.ErrorIs(t, ValidateBalanced(nil), ErrEmptyTransaction)
}

func TestValidateBalanced_WithinEpsilon(t *testing.T) {
	now := time.Now().UTC()

	lines := []Line{
		DebitLine(1, dec("100.00"), "", 0, now),
		CreditLine(2, dec("100.00"), "", 0, now),
	}
	// A residual at exactly the epsilon is still acceptable.
	lines[0].Debit = lines[0].Debit.Add(dec("0.0001"))
	assert.NoError(t, ValidateBalanced(lines))
}
