package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/fuelflow/fuelops-backend/pkg/db/types"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// FuelOrder is a delivery order created by the operations dashboard. It is born
// in pending_verification and becomes placed only after the customer confirms
// the placement OTP.
type FuelOrder struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       int64               `gorm:"column:order_number;autoIncrement;uniqueIndex"`
	CustomerID        uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	ProductID         uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Quantity          int                 `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TaxRatePercent    decimal.Decimal     `gorm:"column:tax_rate_percent;type:numeric(5,2);not null"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	ShippingAddressID uuid.UUID           `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID  uuid.UUID           `gorm:"column:billing_address_id;type:uuid;not null"`
	SlotID            uuid.UUID           `gorm:"column:slot_id;type:uuid;not null"`
	AssetIDs          dbtypes.UUIDArray   `gorm:"column:asset_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	Status            enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending_verification'"`
	PlacedAt          *time.Time          `gorm:"column:placed_at"`
	CanceledAt        *time.Time          `gorm:"column:canceled_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
