package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stayware/foliopost/internal/glclient"
)

// Request moves an amount from one folio to another through the
// clearing account. Both reference ids and all three accounts are
// required; the amount must be positive.
type Request struct {
	SourceReferenceID int64           `json:"source_reference_id"`
	TargetReferenceID int64           `json:"target_reference_id"`
	Amount            decimal.Decimal `json:"amount"`
	ClearingAccountID int64           `json:"clearing_account_id"`
	SourceAccountID   int64           `json:"source_account_id"`
	TargetAccountID   int64           `json:"target_account_id"`
	CurrencyCode      string          `json:"currency_code"`
	Remarks           string          `json:"remarks"`
}

func (r Request) Validate() error {
	if r.SourceReferenceID <= 0 || r.TargetReferenceID <= 0 {
		return ErrInvalidReference
	}
	if r.SourceReferenceID == r.TargetReferenceID {
		return ErrSameReference
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.ClearingAccountID <= 0 || r.SourceAccountID <= 0 || r.TargetAccountID <= 0 {
		return ErrInvalidAccount
	}
	if r.CurrencyCode == "" {
		return ErrInvalidCurrency
	}
	return nil
}

// Result carries the acknowledgments for both legs. It is only
// returned complete when both legs posted.
type Result struct {
	LegA glclient.Ack `json:"leg_a"`
	LegB glclient.Ack `json:"leg_b"`
}

// PartialError reports a transfer whose first leg posted and whose
// second leg did not. The clearing account holds the amount until
// someone reconciles it, so this state must never look like a clean
// failure.
type PartialError struct {
	LegA glclient.Ack
	Err  error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("transfer partially completed: leg A posted as %s, leg B failed: %v", e.LegA.DocNo, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

type Service interface {
	Transfer(ctx context.Context, req Request) (Result, error)
}
