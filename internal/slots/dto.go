package slots

import (
	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
)

// SlotView is a single bookable delivery window.
type SlotView struct {
	ID        uuid.UUID `json:"id"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Remaining int       `json:"remaining"`
}

// DaySlots groups the bookable windows for one calendar date.
type DaySlots struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

func toSlotView(m models.TimeSlot) SlotView {
	remaining := m.Capacity - m.BookedCount
	if remaining < 0 {
		remaining = 0
	}
	return SlotView{
		ID:        m.ID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Remaining: remaining,
	}
}
