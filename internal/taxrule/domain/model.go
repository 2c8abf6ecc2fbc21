package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Basis declares where a tax rule reads its input amount from.
// Level 0 is the original base amount; level N is the running
// subtotal recorded at the end of ladder level N-1.
type Basis struct {
	Level int
}

func BasisBase() Basis { return Basis{Level: 0} }

func BasisSubtotal(level int) Basis {
	if level < 1 {
		return BasisBase()
	}
	return Basis{Level: level}
}

func (b Basis) IsBase() bool { return b.Level == 0 }

// Rule is one normalized tax ladder entry. Rules are immutable once
// produced for a calculation run.
type Rule struct {
	Name       string
	Percentage decimal.Decimal
	Basis      Basis
	AccountID  int64
}

// TaxRuleRow is the raw, loosely-typed configuration record as stored
// per posting context (hotel + outlet). The calc_based_on label is
// free text ("Base", "Subtotal1", "SUB TOTAL 2", or blank) and is only
// interpreted by the normalizer.
type TaxRuleRow struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	HotelID     int64        `gorm:"not null;index:idx_tax_rule_rows_scope,priority:1"`
	OutletID    int64        `gorm:"not null;index:idx_tax_rule_rows_scope,priority:2"`
	Name        string       `gorm:"type:text;not null"`
	CalcBasedOn string       `gorm:"column:calc_based_on;type:text"`
	Percentage  *float64     `gorm:"type:numeric(10,4)"`
	AccountID   *int64       `gorm:"column:account_id"`
	IsEnabled   bool         `gorm:"column:is_enabled;not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TaxRuleRow) TableName() string { return "tax_rule_rows" }
