package addresses

import (
	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// View is the address shape served to the order dashboard.
type View struct {
	ID       uuid.UUID         `json:"id"`
	Kind     enums.AddressKind `json:"kind"`
	Line1    string            `json:"line1"`
	Line2    *string           `json:"line2,omitempty"`
	City     string            `json:"city"`
	State    string            `json:"state"`
	Pincode  string            `json:"pincode"`
	Landmark *string           `json:"landmark,omitempty"`
	GSTIN    *string           `json:"gstin,omitempty"`
}

// AddInput carries a new address for a customer.
type AddInput struct {
	CustomerID uuid.UUID
	Kind       enums.AddressKind
	Line1      string
	Line2      *string
	City       string
	State      string
	Pincode    string
	Landmark   *string
	GSTIN      *string
}

func toView(m models.Address) View {
	return View{
		ID:       m.ID,
		Kind:     m.Kind,
		Line1:    m.Line1,
		Line2:    m.Line2,
		City:     m.City,
		State:    m.State,
		Pincode:  m.Pincode,
		Landmark: m.Landmark,
		GSTIN:    m.GSTIN,
	}
}
