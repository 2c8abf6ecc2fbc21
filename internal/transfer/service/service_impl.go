package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stayware/foliopost/internal/clock"
	"github.com/stayware/foliopost/internal/glclient"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	ledgerservice "github.com/stayware/foliopost/internal/ledger/service"
	"github.com/stayware/foliopost/internal/observability/metrics"
	transferdomain "github.com/stayware/foliopost/internal/transfer/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Builder   *ledgerservice.Builder
	Submitter glclient.Submitter
	Clock     clock.Clock
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	log       *zap.Logger
	builder   *ledgerservice.Builder
	submitter glclient.Submitter
	clock     clock.Clock
	metrics   *metrics.Metrics
}

func NewService(p ServiceParam) transferdomain.Service {
	return &service{
		log:       p.Log.Named("transfer.service"),
		builder:   p.Builder,
		submitter: p.Submitter,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

// Transfer moves the amount through the clearing account in two
// strictly sequential legs. Leg B only starts after leg A is
// confirmed; a leg B failure leaves the clearing account holding the
// amount and is surfaced as a PartialError, never a clean failure.
func (s *service) Transfer(ctx context.Context, req transferdomain.Request) (transferdomain.Result, error) {
	if err := req.Validate(); err != nil {
		return transferdomain.Result{}, err
	}

	ctx, span := otel.Tracer("foliopost/transfer").Start(ctx, "transfer.execute")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("transfer.source_reference_id", req.SourceReferenceID),
		attribute.Int64("transfer.target_reference_id", req.TargetReferenceID),
		attribute.String("transfer.amount", req.Amount.StringFixed(2)),
	)

	now := s.clock.Now()
	remarks := req.Remarks
	if remarks == "" {
		remarks = "Folio transfer"
	}

	legA, err := s.buildLegA(req, remarks, now)
	if err != nil {
		return transferdomain.Result{}, err
	}
	legB, err := s.buildLegB(req, remarks, now)
	if err != nil {
		return transferdomain.Result{}, err
	}

	ackA, err := s.submitter.Submit(ctx, legA)
	if err != nil {
		s.metrics.RecordTransferLeg(ctx, "a", "failure")
		s.log.Warn("transfer leg A failed, nothing posted",
			zap.Int64("source_reference_id", req.SourceReferenceID),
			zap.Error(err),
		)
		return transferdomain.Result{}, err
	}
	s.metrics.RecordTransferLeg(ctx, "a", "success")

	ackB, err := s.submitter.Submit(ctx, legB)
	if err != nil {
		s.metrics.RecordTransferLeg(ctx, "b", "failure")
		s.log.Error("transfer leg B failed after leg A posted, clearing account needs reconciliation",
			zap.String("leg_a_doc_no", ackA.DocNo),
			zap.Int64("clearing_account_id", req.ClearingAccountID),
			zap.String("amount", req.Amount.StringFixed(2)),
			zap.Error(err),
		)
		return transferdomain.Result{LegA: ackA}, &transferdomain.PartialError{LegA: ackA, Err: err}
	}
	s.metrics.RecordTransferLeg(ctx, "b", "success")

	return transferdomain.Result{LegA: ackA, LegB: ackB}, nil
}

// buildLegA debits the clearing account and credits the source folio
// account, every line tagged with the source reference.
func (s *service) buildLegA(req transferdomain.Request, remarks string, now time.Time) (*ledgerdomain.Transaction, error) {
	memo := fmt.Sprintf("Transfer to folio %d", req.TargetReferenceID)
	lines := []ledgerdomain.Line{
		ledgerdomain.DebitLine(req.ClearingAccountID, req.Amount, memo, req.SourceReferenceID, now),
		ledgerdomain.CreditLine(req.SourceAccountID, req.Amount, memo, req.SourceReferenceID, now),
	}
	return s.builder.Finalize(lines, req.CurrencyCode, remarks, now)
}

// buildLegB debits the target folio account and credits the clearing
// account, every line tagged with the target reference.
func (s *service) buildLegB(req transferdomain.Request, remarks string, now time.Time) (*ledgerdomain.Transaction, error) {
	memo := fmt.Sprintf("Transfer from folio %d", req.SourceReferenceID)
	lines := []ledgerdomain.Line{
		ledgerdomain.DebitLine(req.TargetAccountID, req.Amount, memo, req.TargetReferenceID, now),
		ledgerdomain.CreditLine(req.ClearingAccountID, req.Amount, memo, req.TargetReferenceID, now),
	}
	return s.builder.Finalize(lines, req.CurrencyCode, remarks, now)
}
