package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
)

// ProductView is the product shape served to the order dashboard.
type ProductView struct {
	ID             uuid.UUID       `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TaxRatePercent decimal.Decimal `json:"taxRatePercent"`
	MinQuantity    int             `json:"minQuantity"`
	MaxQuantity    int             `json:"maxQuantity"`
}

func toProductView(m models.Product) ProductView {
	return ProductView{
		ID:             m.ID,
		SKU:            m.SKU,
		Name:           m.Name,
		Unit:           m.Unit,
		UnitPrice:      m.UnitPrice,
		TaxRatePercent: m.TaxRatePercent,
		MinQuantity:    m.MinQuantity,
		MaxQuantity:    m.MaxQuantity,
	}
}
