package repository

import (
	"context"
	"errors"

	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
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

func NewRepository(p repositoryParam) accountmapdomain.Repository {
	return &repository{db: p.DB}
}

// NewRepositoryWithDB builds the repository around an explicit handle.
func NewRepositoryWithDB(db *gorm.DB) accountmapdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByOutlet(ctx context.Context, hotelID, outletID int64) (*accountmapdomain.OutletAccountMap, error) {
	var m accountmapdomain.OutletAccountMap
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND outlet_id = ?", hotelID, outletID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) Save(ctx context.Context, m *accountmapdomain.OutletAccountMap) error {
	return r.db.WithContext(ctx).Save(m).Error
}
