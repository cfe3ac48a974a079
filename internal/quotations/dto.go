package quotations

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// QuotationDTO is the API shape of a quotation with its line items. Money
// values are rendered with two decimals.
type QuotationDTO struct {
	ID             uuid.UUID             `json:"id"`
	VehicleID      uuid.UUID             `json:"vehicle_id"`
	Status         enums.QuotationStatus `json:"status"`
	EstimatedTotal string                `json:"estimated_total"`
	FinalTotal     *string               `json:"final_total"`
	Description    *string               `json:"description,omitempty"`
	Version        int64                 `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	Items          []LineItemDTO         `json:"items"`
}

// LineItemDTO is one priced service of a quotation.
type LineItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"service_id"`
	Cost      string    `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(q *models.Quotation, items []models.QuotationLineItem) *QuotationDTO {
	if q == nil {
		return nil
	}
	dto := &QuotationDTO{
		ID:             q.ID,
		VehicleID:      q.VehicleID,
		Status:         q.Status,
		EstimatedTotal: q.EstimatedTotal.StringFixed(2),
		Description:    q.Description,
		Version:        q.Version,
		CreatedAt:      q.CreatedAt,
		Items:          make([]LineItemDTO, 0, len(items)),
	}
	if q.FinalTotal.Valid {
		final := q.FinalTotal.Decimal.StringFixed(2)
		dto.FinalTotal = &final
	}
	for _, item := range items {
		dto.Items = append(dto.Items, LineItemDTO{
			ID:        item.ID,
			ServiceID: item.ServiceID,
			Cost:      item.Cost.StringFixed(2),
			CreatedAt: item.CreatedAt,
		})
	}
	return dto
}
