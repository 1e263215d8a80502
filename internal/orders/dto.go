package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// CreateInput carries a draft order from the dashboard.
type CreateInput struct {
	CustomerID        uuid.UUID
	ProductID         uuid.UUID
	Quantity          int
	PaymentMethod     enums.PaymentMethod
	ShippingAddressID uuid.UUID
	BillingAddressID  uuid.UUID
	SlotID            uuid.UUID
	AssetIDs          []uuid.UUID
}

// VerifyInput carries a placement code submission.
type VerifyInput struct {
	OrderID uuid.UUID
	Code    string
}

// View is the order shape returned to the dashboard.
type View struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   int64               `json:"orderNumber"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	Quantity      int                 `json:"quantity"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	PlacedAt      *time.Time          `json:"placedAt,omitempty"`
}

// ResendResult reports the cooldown applied to the fresh code.
type ResendResult struct {
	CooldownSeconds int `json:"cooldownSeconds"`
}

func toView(m models.FuelOrder) View {
	return View{
		ID:            m.ID,
		OrderNumber:   m.OrderNumber,
		Status:        m.Status,
		PaymentMethod: m.PaymentMethod,
		Quantity:      m.Quantity,
		TotalAmount:   m.TotalAmount,
		PlacedAt:      m.PlacedAt,
	}
}
