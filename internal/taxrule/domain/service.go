package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	HotelID     int64
	OutletID    int64
	Name        string
	CalcBasedOn string
	Percentage  *float64
	AccountID   *int64
	IsEnabled   *bool
}

type UpdateRequest struct {
	Name        *string
	CalcBasedOn *string
	Percentage  *float64
	AccountID   *int64
	IsEnabled   *bool
}

type Service interface {
	// RulesForOutlet fetches the outlet's enabled configuration rows
	// and normalizes them into an ordered, immutable ladder snapshot.
	RulesForOutlet(ctx context.Context, hotelID, outletID int64) ([]Rule, error)

	List(ctx context.Context, hotelID, outletID int64) ([]TaxRuleRow, error)
	Create(ctx context.Context, req CreateRequest) (*TaxRuleRow, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*TaxRuleRow, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
