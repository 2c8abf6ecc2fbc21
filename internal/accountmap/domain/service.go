package domain

import "context"

type UpsertRequest struct {
	HotelID              int64
	OutletID             int64
	RevenueAccountID     int64
	GuestLedgerAccountID int64
	ClearingAccountID    int64
	BalancingAccountID   int64
}

type Service interface {
	Get(ctx context.Context, hotelID, outletID int64) (*OutletAccountMap, error)
	Upsert(ctx context.Context, req UpsertRequest) (*OutletAccountMap, error)
}

type Repository interface {
	FindByOutlet(ctx context.Context, hotelID, outletID int64) (*OutletAccountMap, error)
	Save(ctx context.Context, m *OutletAccountMap) error
}
