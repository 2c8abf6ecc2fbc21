package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
	"github.com/stayware/foliopost/internal/accountmap/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) accountmapdomain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountmapdomain.OutletAccountMap{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Repository: repository.NewRepositoryWithDB(db),
	})
}

func validUpsert() accountmapdomain.UpsertRequest {
	return accountmapdomain.UpsertRequest{
		HotelID:              1,
		OutletID:             3,
		RevenueAccountID:     7,
		GuestLedgerAccountID: 12,
		ClearingAccountID:    77,
		BalancingAccountID:   88,
	}
}

func TestUpsertThenGet(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Upsert(context.Background(), validUpsert())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(7), got.RevenueAccountID)
	assert.Equal(t, int64(12), got.GuestLedgerAccountID)
	assert.Equal(t, int64(77), got.ClearingAccountID)
	assert.Equal(t, int64(88), got.BalancingAccountID)
}

func TestUpsertUpdatesExistingRow(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Upsert(context.Background(), validUpsert())
	require.NoError(t, err)

	updated := validUpsert()
	updated.RevenueAccountID = 9
	second, err := svc.Upsert(context.Background(), updated)
	require.NoError(t, err)

	assert.Equal(t, created.ID, second.ID, "upsert keeps the existing row")
	got, err := svc.Get(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.RevenueAccountID)
}

func TestGetMissingMap(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 1, 99)
	assert.ErrorIs(t, err, accountmapdomain.ErrNotFound)
}

func TestUpsertValidation(t *testing.T) {
	svc := newTestService(t)

	req := validUpsert()
	req.HotelID = 0
	_, err := svc.Upsert(context.Background(), req)
	assert.ErrorIs(t, err, accountmapdomain.ErrInvalidHotel)

	req = validUpsert()
	req.OutletID = 0
	_, err = svc.Upsert(context.Background(), req)
	assert.ErrorIs(t, err, accountmapdomain.ErrInvalidOutlet)

	req = validUpsert()
	req.GuestLedgerAccountID = 0
	_, err = svc.Upsert(context.Background(), req)
	assert.ErrorIs(t, err, accountmapdomain.ErrInvalidAccount)
}
