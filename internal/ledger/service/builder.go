package service

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	"github.com/stayware/foliopost/internal/taxcalc"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type BuilderParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
}

// Builder turns charge breakdowns into signed, balanced ledger lines.
// All methods are pure with respect to their inputs; the only state is
// the doc number generator used by Finalize.
type Builder struct {
	log   *zap.Logger
	genID *snowflake.Node
}

func NewBuilder(p BuilderParam) *Builder {
	return &Builder{
		log:   p.Log.Named("ledger.builder"),
		genID: p.GenID,
	}
}

// ChargesFromCalculation flattens a ladder result into builder
// charges: the base amount against the revenue account, then one
// charge per tax line against its configured tax account.
func ChargesFromCalculation(res taxcalc.Result, revenueName string, revenueAccountID int64) []ledgerdomain.Charge {
	charges := make([]ledgerdomain.Charge, 0, len(res.Lines)+1)
	charges = append(charges, ledgerdomain.Charge{
		Name:      revenueName,
		Amount:    res.Base,
		AccountID: revenueAccountID,
	})
	for _, line := range res.Lines {
		charges = append(charges, ledgerdomain.Charge{
			Name:      line.Name,
			Amount:    line.Amount,
			AccountID: line.AccountID,
		})
	}
	return charges
}

// BuildLines emits one credit line per charge with a positive amount
// and a known account, plus a single debit on the control account
// sized to the credit total. Charges without a usable account are
// skipped without blocking the rest; callers that need full coverage
// compare the line total against the intended grand total afterward.
func (b *Builder) BuildLines(
	charges []ledgerdomain.Charge,
	controlAccountID int64,
	referenceID int64,
	tranDate time.Time,
) ([]ledgerdomain.Line, error) {
	if controlAccountID <= 0 {
		return nil, ledgerdomain.ErrMissingControlAcc
	}

	lines := make([]ledgerdomain.Line, 0, len(charges)+1)
	creditTotal := decimal.Zero

	for _, charge := range charges {
		if !charge.Amount.IsPositive() {
			continue
		}
		if charge.AccountID <= 0 {
			b.log.Debug("charge skipped: no account mapping",
				zap.String("charge", charge.Name),
				zap.String("amount", charge.Amount.StringFixed(2)),
			)
			continue
		}
		line := ledgerdomain.CreditLine(charge.AccountID, charge.Amount, charge.Name, referenceID, tranDate)
		creditTotal = creditTotal.Add(line.Credit)
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, nil
	}

	debit := ledgerdomain.DebitLine(controlAccountID, creditTotal, "Guest ledger", referenceID, tranDate)
	return append([]ledgerdomain.Line{debit}, lines...), nil
}

// Balance appends at most one compensating line on the balancing
// account so that debit and credit totals agree. The direction is
// whichever reduces the residual to zero. Without a resolved
// balancing account the lines are returned unchanged, so an
// imbalanced set is rejected by Finalize instead of posted against
// account 0.
func (b *Builder) Balance(
	lines []ledgerdomain.Line,
	balancingAccountID int64,
	referenceID int64,
	tranDate time.Time,
) []ledgerdomain.Line {
	if len(lines) == 0 {
		return lines
	}

	diff := ledgerdomain.DebitTotal(lines).Sub(ledgerdomain.CreditTotal(lines))
	if diff.Abs().LessThanOrEqual(ledgerdomain.Epsilon) {
		return lines
	}

	if balancingAccountID <= 0 {
		b.log.Warn("no balancing account resolved, residual left for rejection",
			zap.String("residual", diff.StringFixed(4)),
		)
		return lines
	}

	b.log.Warn("ledger lines required balancing",
		zap.String("residual", diff.StringFixed(4)),
		zap.Int64("balancing_account_id", balancingAccountID),
	)

	if diff.IsPositive() {
		return append(lines, ledgerdomain.CreditLine(balancingAccountID, diff, "Balancing", referenceID, tranDate))
	}
	return append(lines, ledgerdomain.DebitLine(balancingAccountID, diff.Neg(), "Balancing", referenceID, tranDate))
}

// Finalize wraps balanced lines into a submittable transaction. Empty
// or zero-value line sets are rejected here rather than at the remote
// service.
func (b *Builder) Finalize(
	lines []ledgerdomain.Line,
	currencyCode string,
	remarks string,
	tranDate time.Time,
) (*ledgerdomain.Transaction, error) {
	if len(lines) == 0 {
		return nil, ledgerdomain.ErrEmptyTransaction
	}
	if currencyCode == "" {
		return nil, ledgerdomain.ErrInvalidCurrency
	}
	if err := ledgerdomain.ValidateBalanced(lines); err != nil {
		return nil, err
	}

	debitTotal := ledgerdomain.DebitTotal(lines)
	creditTotal := ledgerdomain.CreditTotal(lines)
	tranValue := debitTotal
	if creditTotal.GreaterThan(debitTotal) {
		tranValue = creditTotal
	}
	tranValue = tranValue.Abs().Round(2)
	if tranValue.IsZero() {
		return nil, ledgerdomain.ErrZeroValue
	}

	return &ledgerdomain.Transaction{
		DocNo:        fmt.Sprintf("GL-%s", b.genID.Generate()),
		TranDate:     tranDate,
		CurrencyCode: currencyCode,
		TranValue:    tranValue,
		Remarks:      remarks,
		Lines:        lines,
	}, nil
}
