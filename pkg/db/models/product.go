package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a fuel SKU priced per litre and scoped to a zone.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ZoneID         uuid.UUID       `gorm:"column:zone_id;type:uuid;not null;index"`
	SKU            string          `gorm:"column:sku;not null"`
	Name           string          `gorm:"column:name;not null"`
	Unit           string          `gorm:"column:unit;not null;default:'litre'"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TaxRatePercent decimal.Decimal `gorm:"column:tax_rate_percent;type:numeric(5,2);not null"`
	MinQuantity    int             `gorm:"column:min_quantity;not null;default:1"`
	MaxQuantity    int             `gorm:"column:max_quantity;not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
