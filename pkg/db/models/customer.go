package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Customer represents an onboarded fuel buyer. Contact fields are denormalized
// onto the row because the order flow reads them without joins.
type Customer struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerCode     string                 `gorm:"column:customer_code;not null;uniqueIndex"`
	Name             string                 `gorm:"column:name;not null"`
	Email            string                 `gorm:"column:email;not null"`
	Phone            string                 `gorm:"column:phone;not null"`
	FirmType         enums.FirmType         `gorm:"column:firm_type;type:firm_type;not null"`
	OnboardingStatus enums.OnboardingStatus `gorm:"column:onboarding_status;type:onboarding_status;not null;default:'draft'"`
	ZoneID           uuid.UUID              `gorm:"column:zone_id;type:uuid;not null"`
	Pincode          string                 `gorm:"column:pincode;not null"`
	CreditLimit      decimal.Decimal        `gorm:"column:credit_limit;type:numeric(14,2);not null;default:0"`
	Wallet           *Wallet                `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Addresses        []Address              `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
