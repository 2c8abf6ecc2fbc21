package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	ListByOutlet(ctx context.Context, hotelID, outletID int64) ([]TaxRuleRow, error)
	FindByID(ctx context.Context, id snowflake.ID) (*TaxRuleRow, error)
	Create(ctx context.Context, row *TaxRuleRow) error
	Update(ctx context.Context, row *TaxRuleRow) error
	Delete(ctx context.Context, id snowflake.ID) error
}
