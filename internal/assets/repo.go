package assets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Repository defines persistence operations for fleet assets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAvailable(ctx context.Context) ([]models.Asset, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Asset, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an assets repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindAvailable(ctx context.Context) ([]models.Asset, error) {
	var records []models.Asset
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.AssetStatusAvailable).
		Order("registration_no ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []models.Asset
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
