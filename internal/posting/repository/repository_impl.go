package repository

import (
	"context"

	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
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

func NewRepository(p repositoryParam) postingdomain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) SaveRun(ctx context.Context, run *postingdomain.PostingRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) ListRuns(ctx context.Context, limit int) ([]postingdomain.PostingRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []postingdomain.PostingRun
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
