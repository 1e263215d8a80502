package enums

import "fmt"

// AssetStatus tracks whether a bowser can take new deliveries.
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "available"
	AssetStatusOnTrip      AssetStatus = "on_trip"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

var validAssetStatuses = []AssetStatus{
	AssetStatusAvailable,
	AssetStatusOnTrip,
	AssetStatusMaintenance,
	AssetStatusRetired,
}

func (a AssetStatus) String() string {
	return string(a)
}

func (a AssetStatus) IsValid() bool {
	for _, candidate := range validAssetStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssetStatus converts raw input into an AssetStatus.
func ParseAssetStatus(value string) (AssetStatus, error) {
	for _, candidate := range validAssetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset status %q", value)
}
