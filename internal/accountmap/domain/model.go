package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OutletAccountMap declares which GL accounts an outlet posts against.
// The builder and the transfer orchestrator receive these explicitly;
// nothing in the core reads ambient configuration.
type OutletAccountMap struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	HotelID  int64        `gorm:"not null;uniqueIndex:ux_outlet_account_maps_scope,priority:1"`
	OutletID int64        `gorm:"not null;uniqueIndex:ux_outlet_account_maps_scope,priority:2"`

	RevenueAccountID     int64 `gorm:"column:revenue_account_id;not null"`
	GuestLedgerAccountID int64 `gorm:"column:guest_ledger_account_id;not null"`
	ClearingAccountID    int64 `gorm:"column:clearing_account_id;not null"`
	BalancingAccountID   int64 `gorm:"column:balancing_account_id;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (OutletAccountMap) TableName() string { return "outlet_account_maps" }
