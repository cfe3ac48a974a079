package enums

import "fmt"

// QuotationStatus is the customer's decision on a quotation.
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "Pendiente"
	QuotationStatusAccepted QuotationStatus = "Aceptada"
	QuotationStatusRejected QuotationStatus = "Rechazada"
)

var validQuotationStatuses = []QuotationStatus{
	QuotationStatusPending,
	QuotationStatusAccepted,
	QuotationStatusRejected,
}

// String implements fmt.Stringer.
func (q QuotationStatus) String() string {
	return string(q)
}

// IsValid checks whether the given value matches the canonical enum.
func (q QuotationStatus) IsValid() bool {
	for _, candidate := range validQuotationStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuotationStatus converts raw input into a QuotationStatus.
func ParseQuotationStatus(value string) (QuotationStatus, error) {
	for _, candidate := range validQuotationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quotation status %q", value)
}
