package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	pkgerrors "github.com/fuelflow/fuelops-backend/pkg/errors"
)

const bookingHorizonDays = 7

// Service exposes delivery slot reads for the order dashboard.
type Service interface {
	NextSevenDays(ctx context.Context, now time.Time) ([]DaySlots, error)
	GetBookable(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error)
}

type service struct {
	repo Repository
}

// NewService builds a slots service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("slots repository required")
	}
	return &service{repo: repo}, nil
}

// NextSevenDays returns the active windows for the coming week grouped by
// date. Days without windows are omitted.
func (s *service) NextSevenDays(ctx context.Context, now time.Time) ([]DaySlots, error) {
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, bookingHorizonDays)

	records, err := s.repo.FindActiveBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing delivery slots")
	}

	var days []DaySlots
	for _, record := range records {
		date := record.SlotDate.Format("2006-01-02")
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, DaySlots{Date: date})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, toSlotView(record))
	}
	return days, nil
}

// GetBookable loads a slot and rejects inactive or full windows.
func (s *service) GetBookable(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery slot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading delivery slot")
	}
	if !record.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery slot is no longer active")
	}
	if record.BookedCount >= record.Capacity {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery slot is full")
	}
	return record, nil
}
