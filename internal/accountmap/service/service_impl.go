package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
	"github.com/stayware/foliopost/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repository accountmapdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  accountmapdomain.Repository
}

func NewService(p ServiceParam) accountmapdomain.Service {
	return &Service{
		log:   p.Log.Named("accountmap.service"),
		genID: p.GenID,
		repo:  p.Repository,
	}
}

func (s *Service) Get(ctx context.Context, hotelID, outletID int64) (*accountmapdomain.OutletAccountMap, error) {
	if hotelID <= 0 {
		return nil, accountmapdomain.ErrInvalidHotel
	}
	if outletID <= 0 {
		return nil, accountmapdomain.ErrInvalidOutlet
	}

	m, err := s.repo.FindByOutlet(ctx, hotelID, outletID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, accountmapdomain.ErrNotFound
	}
	return m, nil
}

func (s *Service) Upsert(ctx context.Context, req accountmapdomain.UpsertRequest) (*accountmapdomain.OutletAccountMap, error) {
	if req.HotelID <= 0 {
		return nil, accountmapdomain.ErrInvalidHotel
	}
	if req.OutletID <= 0 {
		return nil, accountmapdomain.ErrInvalidOutlet
	}
	if req.RevenueAccountID <= 0 || req.GuestLedgerAccountID <= 0 ||
		req.ClearingAccountID <= 0 || req.BalancingAccountID <= 0 {
		return nil, accountmapdomain.ErrInvalidAccount
	}

	m, err := s.repo.FindByOutlet(ctx, req.HotelID, req.OutletID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &accountmapdomain.OutletAccountMap{
			ID:       s.genID.Generate(),
			HotelID:  req.HotelID,
			OutletID: req.OutletID,
		}
	}

	m.RevenueAccountID = req.RevenueAccountID
	m.GuestLedgerAccountID = req.GuestLedgerAccountID
	m.ClearingAccountID = req.ClearingAccountID
	m.BalancingAccountID = req.BalancingAccountID

	if err := s.repo.Save(ctx, m); err != nil {
		if !db.IsDuplicateKeyErr(err) {
			return nil, err
		}
		// Lost a create race on the hotel+outlet unique index; the
		// row that won gets this request's accounts instead.
		existing, lookupErr := s.repo.FindByOutlet(ctx, req.HotelID, req.OutletID)
		if lookupErr != nil || existing == nil {
			return nil, err
		}
		existing.RevenueAccountID = req.RevenueAccountID
		existing.GuestLedgerAccountID = req.GuestLedgerAccountID
		existing.ClearingAccountID = req.ClearingAccountID
		existing.BalancingAccountID = req.BalancingAccountID
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, err
		}
		m = existing
	}

	s.log.Info("account map saved",
		zap.Int64("hotel_id", m.HotelID),
		zap.Int64("outlet_id", m.OutletID),
	)
	return m, nil
}
