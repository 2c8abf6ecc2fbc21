package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stayware/foliopost/internal/clock"
	"github.com/stayware/foliopost/internal/glclient"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	"github.com/stayware/foliopost/internal/observability/metrics"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Submitter glclient.Submitter
	Repo      postingdomain.Repository
	Policy    postingdomain.PolicySource
	Clock     clock.Clock
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	submitter glclient.Submitter
	repo      postingdomain.Repository
	policy    postingdomain.PolicySource
	clock     clock.Clock
	metrics   *metrics.Metrics
}

func NewService(p ServiceParam) postingdomain.Service {
	return &service{
		log:       p.Log.Named("posting.service"),
		genID:     p.GenID,
		submitter: p.Submitter,
		repo:      p.Repo,
		policy:    p.Policy,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

// GroupPost applies one template to every target independently. The
// run never aborts early: a failed target is recorded and its siblings
// still get their attempt. Cancellation stops launching new
// submissions; clones already handed to the submitter run to their own
// deadline.
func (s *service) GroupPost(
	ctx context.Context,
	template *ledgerdomain.Transaction,
	targets []postingdomain.TargetRef,
) (postingdomain.GroupResult, error) {
	if template == nil {
		return postingdomain.GroupResult{}, postingdomain.ErrNilTemplate
	}
	if err := ledgerdomain.ValidateBalanced(template.Lines); err != nil {
		return postingdomain.GroupResult{}, err
	}
	if len(targets) == 0 {
		return postingdomain.GroupResult{}, postingdomain.ErrNoTargets
	}
	for _, target := range targets {
		if target.ReferenceID <= 0 {
			return postingdomain.GroupResult{}, postingdomain.ErrInvalidTarget
		}
	}

	ctx, span := otel.Tracer("foliopost/posting").Start(ctx, "posting.group_post")
	defer span.End()
	span.SetAttributes(attribute.Int("posting.targets", len(targets)))

	policy := s.policy.Current()
	timeout := time.Duration(policy.SubmitTimeoutSeconds) * time.Second

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result postingdomain.GroupResult
	)
	sem := make(chan struct{}, policy.MaxConcurrency)

	for _, target := range targets {
		acquired := false
		if ctx.Err() == nil {
			select {
			case sem <- struct{}{}:
				acquired = true
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			if acquired {
				<-sem
			}
			mu.Lock()
			result.Failed++
			result.Errors = append(result.Errors, postingdomain.TargetError{
				ReferenceID: target.ReferenceID,
				Label:       target.Label,
				Message:     "submission not attempted: " + err.Error(),
			})
			mu.Unlock()
			continue
		}

		clone := s.cloneForTarget(template, target.ReferenceID)
		wg.Add(1)
		go func(target postingdomain.TargetRef, clone *ledgerdomain.Transaction) {
			defer wg.Done()
			defer func() { <-sem }()

			// A clone already launched is allowed to finish even when
			// the caller cancels the group: there is no retraction for
			// a transaction the remote service may already have
			// accepted.
			submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			defer cancel()

			ack, err := s.submitter.Submit(submitCtx, clone)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, postingdomain.TargetError{
					ReferenceID: target.ReferenceID,
					Label:       target.Label,
					Message:     err.Error(),
				})
				s.metrics.RecordPosting(submitCtx, "failure")
				s.log.Warn("target submission failed",
					zap.Int64("reference_id", target.ReferenceID),
					zap.String("doc_no", clone.DocNo),
					zap.Error(err),
				)
				return
			}
			result.Succeeded++
			result.Acks = append(result.Acks, postingdomain.TargetAck{
				ReferenceID: target.ReferenceID,
				DocNo:       ack.DocNo,
				PostedID:    ack.PostedID,
			})
			s.metrics.RecordPosting(submitCtx, "success")
			s.metrics.RecordLedgerLines(submitCtx, len(clone.Lines))
		}(target, clone)
	}

	wg.Wait()

	span.SetAttributes(
		attribute.Int("posting.succeeded", result.Succeeded),
		attribute.Int("posting.failed", result.Failed),
	)
	s.persistRun(ctx, template, len(targets), result)

	return result, nil
}

// cloneForTarget re-tags every line with the target reference and
// issues a fresh document number. Clones share nothing mutable with
// each other or with the template.
func (s *service) cloneForTarget(template *ledgerdomain.Transaction, referenceID int64) *ledgerdomain.Transaction {
	lines := make([]ledgerdomain.Line, len(template.Lines))
	copy(lines, template.Lines)
	for i := range lines {
		lines[i].ReferenceID = referenceID
	}
	return &ledgerdomain.Transaction{
		DocNo:        fmt.Sprintf("GL-%s", s.genID.Generate()),
		TranDate:     template.TranDate,
		CurrencyCode: template.CurrencyCode,
		TranValue:    template.TranValue,
		Remarks:      template.Remarks,
		Lines:        lines,
	}
}

// persistRun writes the audit row. A storage failure here must not
// fail a run whose submissions already happened.
func (s *service) persistRun(
	ctx context.Context,
	template *ledgerdomain.Transaction,
	targets int,
	result postingdomain.GroupResult,
) {
	errorsJSON := datatypes.JSON("[]")
	if len(result.Errors) > 0 {
		if raw, err := json.Marshal(result.Errors); err == nil {
			errorsJSON = datatypes.JSON(raw)
		}
	}

	run := &postingdomain.PostingRun{
		ID:           s.genID.Generate(),
		TemplateDoc:  template.DocNo,
		CurrencyCode: template.CurrencyCode,
		TranValue:    template.TranValue.StringFixed(2),
		Targets:      targets,
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		Errors:       errorsJSON,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.repo.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.log.Error("posting run audit write failed", zap.Error(err))
	}
}
