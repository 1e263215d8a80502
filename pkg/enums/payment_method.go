package enums

import "fmt"

// PaymentMethod selects how a placed order settles. Wire values are camelCase
// because the dashboard submits them verbatim.
type PaymentMethod string

const (
	PaymentMethodCreditOnly      PaymentMethod = "creditOnly"
	PaymentMethodWalletAndCredit PaymentMethod = "walletAndCredit"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCreditOnly,
	PaymentMethodWalletAndCredit,
}

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
