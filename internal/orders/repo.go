package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.FuelOrder) (*models.FuelOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FuelOrder, error) {
	var order models.FuelOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPlaced flips a pending order to placed. The status guard is in the
// UPDATE so a double verification cannot place twice.
func (r *repository) MarkPlaced(ctx context.Context, id uuid.UUID, placedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.FuelOrder{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPendingVerification).
		Updates(map[string]any{
			"status":    enums.OrderStatusPlaced,
			"placed_at": placedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pending verification")
	}
	return nil
}
