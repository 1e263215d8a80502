package addresses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Repository defines persistence operations for customer addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCustomerAndKind(ctx context.Context, customerID uuid.UUID, kind enums.AddressKind) ([]models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an addresses repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCustomerAndKind(ctx context.Context, customerID uuid.UUID, kind enums.AddressKind) ([]models.Address, error) {
	var records []models.Address
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND kind = ?", customerID, kind).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var record models.Address
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}
