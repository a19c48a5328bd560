package enums

import "fmt"

// CheckoutStatus is the terminal state of a checkout run.
type CheckoutStatus string

const (
	CheckoutStatusSuccess        CheckoutStatus = "success"
	CheckoutStatusPartialFailure CheckoutStatus = "partial_failure"
)

var validCheckoutStatuses = []CheckoutStatus{
	CheckoutStatusSuccess,
	CheckoutStatusPartialFailure,
}

// String implements fmt.Stringer.
func (c CheckoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStatus.
func (c CheckoutStatus) IsValid() bool {
	for _, candidate := range validCheckoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutStatus converts raw input into a CheckoutStatus.
func ParseCheckoutStatus(value string) (CheckoutStatus, error) {
	for _, candidate := range validCheckoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout status %q", value)
}
