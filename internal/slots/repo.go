package slots

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

// Repository defines persistence operations for delivery time slots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveBetween(ctx context.Context, from, to time.Time) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error)
	IncrementBooked(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a slots repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveBetween(ctx context.Context, from, to time.Time) ([]models.TimeSlot, error) {
	var records []models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("slot_date >= ? AND slot_date < ? AND is_active = ?", from, to, true).
		Order("slot_date ASC, start_time ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error) {
	var record models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// IncrementBooked bumps booked_count with a capacity guard in the UPDATE
// itself, so two concurrent placements cannot overbook the window.
func (r *repository) IncrementBooked(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ? AND booked_count < capacity", id).
		UpdateColumn("booked_count", gorm.Expr("booked_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery slot is full")
	}
	return nil
}
