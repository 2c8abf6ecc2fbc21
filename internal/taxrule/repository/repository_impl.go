package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repositoryParam struct {
	fx.In

	DB *gorm.DB
}

type repository struct {
	db *gorm.DB
}

func NewRepository(p repositoryParam) taxruledomain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) ListByOutlet(ctx context.Context, hotelID, outletID int64) ([]taxruledomain.TaxRuleRow, error) {
	var rows []taxruledomain.TaxRuleRow
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND outlet_id = ?", hotelID, outletID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*taxruledomain.TaxRuleRow, error) {
	var row taxruledomain.TaxRuleRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, row *taxruledomain.TaxRuleRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Update(ctx context.Context, row *taxruledomain.TaxRuleRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&taxruledomain.TaxRuleRow{}).Error
}
