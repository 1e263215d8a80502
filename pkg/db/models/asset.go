package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Asset is a bowser (fuel tanker) in the delivery fleet.
type Asset struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RegistrationNo string            `gorm:"column:registration_no;not null;uniqueIndex"`
	CapacityLitres int               `gorm:"column:capacity_litres;not null"`
	Status         enums.AssetStatus `gorm:"column:status;type:asset_status;not null;default:'available'"`
	ZoneID         *uuid.UUID        `gorm:"column:zone_id;type:uuid"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
