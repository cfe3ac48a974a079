package enums

import "fmt"

// PaymentStatus tracks the lifecycle of a payment against a repair process.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pendiente"
	PaymentStatusPaid     PaymentStatus = "pagado"
	PaymentStatusRejected PaymentStatus = "rechazado"
	PaymentStatusRefunded PaymentStatus = "reembolsado"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusRejected,
	PaymentStatusRefunded,
}

func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid checks whether the given value matches the canonical enum.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
