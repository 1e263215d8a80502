package enums

import "fmt"

// FirmType classifies a customer's legal business structure. It drives which
// KYC documents onboarding requires.
type FirmType string

const (
	FirmTypeProprietorship FirmType = "proprietorship"
	FirmTypePartnership    FirmType = "partnership"
	FirmTypePrivateLtd     FirmType = "private_ltd"
	FirmTypePublicLtd      FirmType = "public_ltd"
	FirmTypeLLP            FirmType = "llp"
)

var validFirmTypes = []FirmType{
	FirmTypeProprietorship,
	FirmTypePartnership,
	FirmTypePrivateLtd,
	FirmTypePublicLtd,
	FirmTypeLLP,
}

func (f FirmType) String() string {
	return string(f)
}

func (f FirmType) IsValid() bool {
	for _, candidate := range validFirmTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFirmType converts raw input into a FirmType.
func ParseFirmType(value string) (FirmType, error) {
	for _, candidate := range validFirmTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid firm type %q", value)
}
