package customers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// Summary is the customer shape returned to the order dashboard picker.
type Summary struct {
	ID           uuid.UUID       `json:"id"`
	CustomerCode string          `json:"customerCode"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	FirmType     enums.FirmType  `json:"firmType"`
	Pincode      string          `json:"pincode"`
	CreditLimit  decimal.Decimal `json:"creditLimit"`
}

func toSummary(m models.Customer) Summary {
	return Summary{
		ID:           m.ID,
		CustomerCode: m.CustomerCode,
		Name:         m.Name,
		Phone:        m.Phone,
		FirmType:     m.FirmType,
		Pincode:      m.Pincode,
		CreditLimit:  m.CreditLimit,
	}
}
