package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a bounded delivery window on a given date with a maximum order
// capacity. BookedCount moves only at placement, never at draft creation.
type TimeSlot struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SlotDate    time.Time `gorm:"column:slot_date;type:date;not null;index"`
	StartTime   string    `gorm:"column:start_time;not null"`
	EndTime     string    `gorm:"column:end_time;not null"`
	Capacity    int       `gorm:"column:capacity;not null"`
	BookedCount int       `gorm:"column:booked_count;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
