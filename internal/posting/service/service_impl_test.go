package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stayware/foliopost/internal/clock"
	"github.com/stayware/foliopost/internal/config"
	"github.com/stayware/foliopost/internal/glclient"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticPolicy struct {
	policy config.PostingPolicy
}

func (s staticPolicy) Current() config.PostingPolicy {
	return s.policy
}

type fakeSubmitter struct {
	mu       sync.Mutex
	seen     []*ledgerdomain.Transaction
	failRefs map[int64]error
}

func (f *fakeSubmitter) Submit(_ context.Context, tran *ledgerdomain.Transaction) (glclient.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, tran)
	if len(tran.Lines) > 0 {
		if err, ok := f.failRefs[tran.Lines[0].ReferenceID]; ok {
			return glclient.Ack{}, err
		}
	}
	return glclient.Ack{DocNo: tran.DocNo, PostedID: int64(len(f.seen)), Status: "posted"}, nil
}

type fakeRepo struct {
	mu   sync.Mutex
	runs []*postingdomain.PostingRun
}

func (f *fakeRepo) SaveRun(_ context.Context, run *postingdomain.PostingRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRepo) ListRuns(context.Context, int) ([]postingdomain.PostingRun, error) {
	return nil, nil
}

var testRunStamp = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func testPolicy() config.PostingPolicy {
	return config.PostingPolicy{
		MaxConcurrency:       4,
		SubmitTimeoutSeconds: 5,
	}
}

func newTestService(t *testing.T, submitter glclient.Submitter, repo postingdomain.Repository, policy config.PostingPolicy) postingdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(ServiceParam{
		Log:       zap.NewNop(),
		GenID:     node,
		Submitter: submitter,
		Repo:      repo,
		Policy:    staticPolicy{policy: policy},
		Clock:     clock.NewFakeClock(testRunStamp),
	})
}

func balancedTemplate(t *testing.T) *ledgerdomain.Transaction {
	t.Helper()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	lines := []ledgerdomain.Line{
		ledgerdomain.DebitLine(12, decimal.RequireFromString("126.50"), "Guest ledger", 0, now),
		ledgerdomain.CreditLine(7, decimal.RequireFromString("100.00"), "Room revenue", 0, now),
		ledgerdomain.CreditLine(50, decimal.RequireFromString("10.00"), "Service Charge", 0, now),
		ledgerdomain.CreditLine(51, decimal.RequireFromString("16.50"), "VAT", 0, now),
	}
	return &ledgerdomain.Transaction{
		DocNo:        "GL-template",
		TranDate:     now,
		CurrencyCode: "USD",
		TranValue:    decimal.RequireFromString("126.50"),
		Remarks:      "group room charge",
		Lines:        lines,
	}
}

func TestGroupPostAppliesTemplateToEveryTarget(t *testing.T) {
	submitter := &fakeSubmitter{}
	repo := &fakeRepo{}
	svc := newTestService(t, submitter, repo, testPolicy())

	targets := []postingdomain.TargetRef{
		{ReferenceID: 101, Label: "room 101"},
		{ReferenceID: 102, Label: "room 102"},
		{ReferenceID: 103, Label: "room 103"},
	}
	result, err := svc.GroupPost(context.Background(), balancedTemplate(t), targets)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, result.Acks, 3)
	assert.Empty(t, result.Errors)

	require.Len(t, submitter.seen, 3)
	docNos := map[string]bool{}
	refs := map[int64]bool{}
	for _, tran := range submitter.seen {
		assert.NotEqual(t, "GL-template", tran.DocNo)
		docNos[tran.DocNo] = true
		for _, line := range tran.Lines {
			refs[line.ReferenceID] = true
			assert.Equal(t, tran.Lines[0].ReferenceID, line.ReferenceID)
		}
		require.NoError(t, ledgerdomain.ValidateBalanced(tran.Lines))
	}
	assert.Len(t, docNos, 3, "every clone gets its own document number")
	assert.Equal(t, map[int64]bool{101: true, 102: true, 103: true}, refs)

	require.Len(t, repo.runs, 1)
	assert.Equal(t, 3, repo.runs[0].Targets)
	assert.Equal(t, 3, repo.runs[0].Succeeded)
	assert.True(t, repo.runs[0].CreatedAt.Equal(testRunStamp), "audit row stamped from the injected clock")
}

type slowSubmitter struct {
	fakeSubmitter
	slowRefs map[int64]struct{}
}

func (f *slowSubmitter) Submit(ctx context.Context, tran *ledgerdomain.Transaction) (glclient.Ack, error) {
	if len(tran.Lines) > 0 {
		if _, ok := f.slowRefs[tran.Lines[0].ReferenceID]; ok {
			<-ctx.Done()
			return glclient.Ack{}, ctx.Err()
		}
	}
	return f.fakeSubmitter.Submit(ctx, tran)
}

func TestGroupPostSlowTargetTimesOutAlone(t *testing.T) {
	submitter := &slowSubmitter{slowRefs: map[int64]struct{}{102: {}}}
	repo := &fakeRepo{}
	policy := testPolicy()
	policy.SubmitTimeoutSeconds = 1
	svc := newTestService(t, submitter, repo, policy)

	targets := []postingdomain.TargetRef{
		{ReferenceID: 101},
		{ReferenceID: 102, Label: "room 102"},
		{ReferenceID: 103},
	}
	result, err := svc.GroupPost(context.Background(), balancedTemplate(t), targets)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(102), result.Errors[0].ReferenceID)
	assert.Equal(t, "room 102", result.Errors[0].Label)
	assert.Contains(t, result.Errors[0].Message, context.DeadlineExceeded.Error())

	require.Len(t, repo.runs, 1)
	assert.Equal(t, 1, repo.runs[0].Failed)
	assert.Equal(t, 2, repo.runs[0].Succeeded)
}

func TestGroupPostDoesNotAbortOnSingleFailure(t *testing.T) {
	submitter := &fakeSubmitter{failRefs: map[int64]error{
		102: &glclient.RemoteError{StatusCode: 422, Message: "account closed"},
	}}
	repo := &fakeRepo{}
	svc := newTestService(t, submitter, repo, testPolicy())

	targets := []postingdomain.TargetRef{
		{ReferenceID: 101},
		{ReferenceID: 102},
		{ReferenceID: 103},
	}
	result, err := svc.GroupPost(context.Background(), balancedTemplate(t), targets)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(102), result.Errors[0].ReferenceID)
	assert.Contains(t, result.Errors[0].Message, "account closed")
	assert.Len(t, submitter.seen, 3, "siblings of a failed target still get their attempt")

	require.Len(t, repo.runs, 1)
	assert.Equal(t, 1, repo.runs[0].Failed)
	assert.Contains(t, string(repo.runs[0].Errors), "account closed")
}

func TestGroupPostCancelledBeforeLaunch(t *testing.T) {
	submitter := &fakeSubmitter{}
	repo := &fakeRepo{}
	svc := newTestService(t, submitter, repo, testPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []postingdomain.TargetRef{{ReferenceID: 101}, {ReferenceID: 102}}
	result, err := svc.GroupPost(ctx, balancedTemplate(t), targets)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Empty(t, submitter.seen, "no submission launched after cancellation")
	for _, targetErr := range result.Errors {
		assert.Contains(t, targetErr.Message, "not attempted")
	}
}

func TestGroupPostValidation(t *testing.T) {
	svc := newTestService(t, &fakeSubmitter{}, &fakeRepo{}, testPolicy())
	targets := []postingdomain.TargetRef{{ReferenceID: 101}}

	_, err := svc.GroupPost(context.Background(), nil, targets)
	assert.ErrorIs(t, err, postingdomain.ErrNilTemplate)

	unbalanced := balancedTemplate(t)
	unbalanced.Lines = unbalanced.Lines[:2]
	_, err = svc.GroupPost(context.Background(), unbalanced, targets)
	assert.ErrorIs(t, err, ledgerdomain.ErrUnbalanced)

	_, err = svc.GroupPost(context.Background(), balancedTemplate(t), nil)
	assert.ErrorIs(t, err, postingdomain.ErrNoTargets)

	_, err = svc.GroupPost(context.Background(), balancedTemplate(t), []postingdomain.TargetRef{{ReferenceID: 0}})
	assert.ErrorIs(t, err, postingdomain.ErrInvalidTarget)
}

func TestGroupPostLeavesTemplateUntouched(t *testing.T) {
	submitter := &fakeSubmitter{}
	svc := newTestService(t, submitter, &fakeRepo{}, testPolicy())

	template := balancedTemplate(t)
	_, err := svc.GroupPost(context.Background(), template, []postingdomain.TargetRef{{ReferenceID: 900}})
	require.NoError(t, err)

	assert.Equal(t, "GL-template", template.DocNo)
	for _, line := range template.Lines {
		assert.Equal(t, int64(0), line.ReferenceID)
	}
}

func TestGroupPostAuditWriteFailureDoesNotFailRun(t *testing.T) {
	svc := newTestService(t, &fakeSubmitter{}, failingRepo{}, testPolicy())

	result, err := svc.GroupPost(context.Background(), balancedTemplate(t), []postingdomain.TargetRef{{ReferenceID: 101}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

type failingRepo struct{}

func (failingRepo) SaveRun(context.Context, *postingdomain.PostingRun) error {
	return errors.New("disk full")
}

func (failingRepo) ListRuns(context.Context, int) ([]postingdomain.PostingRun, error) {
	return nil, errors.New("disk full")
}
