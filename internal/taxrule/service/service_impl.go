package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repository taxruledomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxruledomain.Repository
}

func NewService(p ServiceParam) taxruledomain.Service {
	return &Service{
		log:   p.Log.Named("taxrule.service"),
		genID: p.GenID,
		repo:  p.Repository,
	}
}

func (s *Service) RulesForOutlet(ctx context.Context, hotelID, outletID int64) ([]taxruledomain.Rule, error) {
	if hotelID <= 0 {
		return nil, taxruledomain.ErrInvalidHotel
	}
	if outletID <= 0 {
		return nil, taxruledomain.ErrInvalidOutlet
	}

	rows, err := s.repo.ListByOutlet(ctx, hotelID, outletID)
	if err != nil {
		return nil, err
	}
	return Normalize(rows), nil
}

func (s *Service) List(ctx context.Context, hotelID, outletID int64) ([]taxruledomain.TaxRuleRow, error) {
	if hotelID <= 0 {
		return nil, taxruledomain.ErrInvalidHotel
	}
	if outletID <= 0 {
		return nil, taxruledomain.ErrInvalidOutlet
	}
	return s.repo.ListByOutlet(ctx, hotelID, outletID)
}

func (s *Service) Create(ctx context.Context, req taxruledomain.CreateRequest) (*taxruledomain.TaxRuleRow, error) {
	if req.HotelID <= 0 {
		return nil, taxruledomain.ErrInvalidHotel
	}
	if req.OutletID <= 0 {
		return nil, taxruledomain.ErrInvalidOutlet
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, taxruledomain.ErrInvalidName
	}
	if req.Percentage != nil && *req.Percentage < 0 {
		return nil, taxruledomain.ErrInvalidPercentage
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	row := &taxruledomain.TaxRuleRow{
		ID:          s.genID.Generate(),
		HotelID:     req.HotelID,
		OutletID:    req.OutletID,
		Name:        name,
		CalcBasedOn: strings.TrimSpace(req.CalcBasedOn),
		Percentage:  req.Percentage,
		AccountID:   req.AccountID,
		IsEnabled:   enabled,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.log.Info("tax rule created",
		zap.String("tax_rule_id", row.ID.String()),
		zap.Int64("outlet_id", row.OutletID),
	)
	return row, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req taxruledomain.UpdateRequest) (*taxruledomain.TaxRuleRow, error) {
	if id == 0 {
		return nil, taxruledomain.ErrInvalidID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, taxruledomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, taxruledomain.ErrInvalidName
		}
		row.Name = name
	}
	if req.CalcBasedOn != nil {
		row.CalcBasedOn = strings.TrimSpace(*req.CalcBasedOn)
	}
	if req.Percentage != nil {
		if *req.Percentage < 0 {
			return nil, taxruledomain.ErrInvalidPercentage
		}
		row.Percentage = req.Percentage
	}
	if req.AccountID != nil {
		row.AccountID = req.AccountID
	}
	if req.IsEnabled != nil {
		row.IsEnabled = *req.IsEnabled
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if id == 0 {
		return taxruledomain.ErrInvalidID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return taxruledomain.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
