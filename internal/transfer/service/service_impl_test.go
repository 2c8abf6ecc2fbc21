package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stayware/foliopost/internal/clock"
	"github.com/stayware/foliopost/internal/glclient"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	ledgerservice "github.com/stayware/foliopost/internal/ledger/service"
	transferdomain "github.com/stayware/foliopost/internal/transfer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedSubmitter struct {
	seen    []*ledgerdomain.Transaction
	failAt  int
	failErr error
}

func (f *scriptedSubmitter) Submit(_ context.Context, tran *ledgerdomain.Transaction) (glclient.Ack, error) {
	call := len(f.seen)
	f.seen = append(f.seen, tran)
	if f.failErr != nil && call == f.failAt {
		return glclient.Ack{}, f.failErr
	}
	return glclient.Ack{DocNo: tran.DocNo, PostedID: int64(call + 1), Status: "posted"}, nil
}

func newTestService(t *testing.T, submitter glclient.Submitter) transferdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	builder := ledgerservice.NewBuilder(ledgerservice.BuilderParam{
		Log:   zap.NewNop(),
		GenID: node,
	})
	return NewService(ServiceParam{
		Log:       zap.NewNop(),
		Builder:   builder,
		Submitter: submitter,
		Clock:     clock.NewFakeClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)),
	})
}

func validRequest() transferdomain.Request {
	return transferdomain.Request{
		SourceReferenceID: 1001,
		TargetReferenceID: 2002,
		Amount:            decimal.RequireFromString("50.00"),
		ClearingAccountID: 77,
		SourceAccountID:   11,
		TargetAccountID:   22,
		CurrencyCode:      "USD",
	}
}

func lineFor(t *testing.T, tran *ledgerdomain.Transaction, accountID int64) ledgerdomain.Line {
	t.Helper()
	for _, line := range tran.Lines {
		if line.AccountID == accountID {
			return line
		}
	}
	t.Fatalf("no line for account %d", accountID)
	return ledgerdomain.Line{}
}

func TestTransferBuildsBothLegs(t *testing.T) {
	submitter := &scriptedSubmitter{}
	svc := newTestService(t, submitter)

	result, err := svc.Transfer(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, submitter.seen, 2)

	legA, legB := submitter.seen[0], submitter.seen[1]

	clearingDebit := lineFor(t, legA, 77)
	sourceCredit := lineFor(t, legA, 11)
	assert.True(t, clearingDebit.Debit.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, sourceCredit.Credit.Equal(decimal.RequireFromString("50.00")))
	for _, line := range legA.Lines {
		assert.Equal(t, int64(1001), line.ReferenceID)
	}
	require.NoError(t, ledgerdomain.ValidateBalanced(legA.Lines))

	targetDebit := lineFor(t, legB, 22)
	clearingCredit := lineFor(t, legB, 77)
	assert.True(t, targetDebit.Debit.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, clearingCredit.Credit.Equal(decimal.RequireFromString("50.00")))
	for _, line := range legB.Lines {
		assert.Equal(t, int64(2002), line.ReferenceID)
	}
	require.NoError(t, ledgerdomain.ValidateBalanced(legB.Lines))

	// Combined effect nets the clearing account to zero.
	net := clearingDebit.Amount.Add(clearingCredit.Amount)
	assert.True(t, net.IsZero())

	assert.NotEmpty(t, result.LegA.DocNo)
	assert.NotEmpty(t, result.LegB.DocNo)
	assert.NotEqual(t, result.LegA.DocNo, result.LegB.DocNo)
	assert.True(t, legA.TranValue.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, legB.TranValue.Equal(decimal.RequireFromString("50.00")))
}

func TestTransferLegAFailureLeavesNothingPosted(t *testing.T) {
	submitter := &scriptedSubmitter{failAt: 0, failErr: &glclient.RemoteError{StatusCode: 503, Message: "unavailable"}}
	svc := newTestService(t, submitter)

	_, err := svc.Transfer(context.Background(), validRequest())
	require.Error(t, err)

	var partial *transferdomain.PartialError
	assert.False(t, errors.As(err, &partial), "a clean leg A failure is not a partial transfer")
	assert.Len(t, submitter.seen, 1, "leg B never attempted after leg A failed")
}

func TestTransferLegBFailureIsPartial(t *testing.T) {
	submitter := &scriptedSubmitter{failAt: 1, failErr: &glclient.RemoteError{StatusCode: 500, Message: "boom"}}
	svc := newTestService(t, submitter)

	result, err := svc.Transfer(context.Background(), validRequest())
	require.Error(t, err)

	var partial *transferdomain.PartialError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, result.LegA.DocNo, partial.LegA.DocNo)
	assert.NotEmpty(t, partial.LegA.DocNo)
	assert.Contains(t, partial.Error(), "partially completed")

	var remote *glclient.RemoteError
	assert.ErrorAs(t, err, &remote)
	assert.Len(t, submitter.seen, 2)
}

func TestTransferValidation(t *testing.T) {
	svc := newTestService(t, &scriptedSubmitter{})

	cases := []struct {
		name    string
		mutate  func(*transferdomain.Request)
		wantErr error
	}{
		{"zero amount", func(r *transferdomain.Request) { r.Amount = decimal.Zero }, transferdomain.ErrInvalidAmount},
		{"negative amount", func(r *transferdomain.Request) { r.Amount = decimal.RequireFromString("-5") }, transferdomain.ErrInvalidAmount},
		{"missing source reference", func(r *transferdomain.Request) { r.SourceReferenceID = 0 }, transferdomain.ErrInvalidReference},
		{"same reference", func(r *transferdomain.Request) { r.TargetReferenceID = r.SourceReferenceID }, transferdomain.ErrSameReference},
		{"missing clearing account", func(r *transferdomain.Request) { r.ClearingAccountID = 0 }, transferdomain.ErrInvalidAccount},
		{"missing currency", func(r *transferdomain.Request) { r.CurrencyCode = "" }, transferdomain.ErrInvalidCurrency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Transfer(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
