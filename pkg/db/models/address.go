package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Address stores shipping and billing addresses in one table, split by kind.
type Address struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Kind       enums.AddressKind `gorm:"column:kind;type:address_kind;not null"`
	Label      *string           `gorm:"column:label"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      *string           `gorm:"column:line2"`
	City       string            `gorm:"column:city;not null"`
	State      string            `gorm:"column:state;not null"`
	Pincode    string            `gorm:"column:pincode;not null"`
	Landmark   *string           `gorm:"column:landmark"`
	GSTIN      *string           `gorm:"column:gstin"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
