package enums

import "fmt"

// OnboardingStatus tracks a customer's progress through KYC review.
type OnboardingStatus string

const (
	OnboardingStatusDraft     OnboardingStatus = "draft"
	OnboardingStatusSubmitted OnboardingStatus = "submitted"
	OnboardingStatusApproved  OnboardingStatus = "approved"
	OnboardingStatusRejected  OnboardingStatus = "rejected"
	OnboardingStatusSuspended OnboardingStatus = "suspended"
)

var validOnboardingStatuses = []OnboardingStatus{
	OnboardingStatusDraft,
	OnboardingStatusSubmitted,
	OnboardingStatusApproved,
	OnboardingStatusRejected,
	OnboardingStatusSuspended,
}

// String implements fmt.Stringer.
func (o OnboardingStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OnboardingStatus.
func (o OnboardingStatus) IsValid() bool {
	for _, candidate := range validOnboardingStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOnboardingStatus converts raw input into an OnboardingStatus.
func ParseOnboardingStatus(value string) (OnboardingStatus, error) {
	for _, candidate := range validOnboardingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid onboarding status %q", value)
}
