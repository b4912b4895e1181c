package repo

import (
	"context"

	"github.com/twquant/stock-sentinel/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SecurityRepo interface {
	Upsert(ctx context.Context, securities []entity.Security) error
	FindByCode(ctx context.Context, code string) (entity.Security, error)
	FindAll(ctx context.Context) ([]entity.Security, error)
}

type securityRepo struct {
	db *gorm.DB
}

func NewSecurityRepo(db *gorm.DB) SecurityRepo {
	return &securityRepo{
		db: db,
	}
}

func (r *securityRepo) Upsert(ctx context.Context, securities []entity.Security) error {
	if len(securities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "market", "updated_at"}),
	}).Create(&securities).Error
}

func (r *securityRepo) FindByCode(ctx context.Context, code string) (entity.Security, error) {
	var security entity.Security
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&security).Error
	if err != nil {
		return entity.Security{}, err
	}
	return security, nil
}

func (r *securityRepo) FindAll(ctx context.Context) ([]entity.Security, error) {
	var securities []entity.Security
	err := r.db.WithContext(ctx).Find(&securities).Error
	if err != nil {
		return nil, err
	}
	return securities, nil
}
