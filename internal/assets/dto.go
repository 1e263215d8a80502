package assets

import (
	"github.com/google/uuid"

	"github.com/fuelflow/fuelops-backend/pkg/db/models"
	"github.com/fuelflow/fuelops-backend/pkg/enums"
)

// View is the bowser shape served to the order dashboard.
type View struct {
	ID             uuid.UUID         `json:"id"`
	RegistrationNo string            `json:"registrationNo"`
	CapacityLitres int               `json:"capacityLitres"`
	Status         enums.AssetStatus `json:"status"`
}

func toView(m models.Asset) View {
	return View{
		ID:             m.ID,
		RegistrationNo: m.RegistrationNo,
		CapacityLitres: m.CapacityLitres,
		Status:         m.Status,
	}
}
