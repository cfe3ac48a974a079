package payments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/types"
)

// RecordInput registers a payment against a repair process. Status defaults
// to pendiente.
type RecordInput struct {
	ProcessID uuid.UUID           `json:"process_id" validate:"required"`
	Amount    decimal.Decimal     `json:"amount"`
	Method    string              `json:"method" validate:"required,max=50"`
	Status    enums.PaymentStatus `json:"status"`
}

type PaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProcessID uuid.UUID           `json:"process_id"`
	Amount    string              `json:"amount"`
	Method    string              `json:"method"`
	Status    enums.PaymentStatus `json:"status"`
	PaidAt    time.Time           `json:"paid_at"`
}

func FromModel(p models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:        p.ID,
		ProcessID: p.ProcessID,
		Amount:    p.Amount.StringFixed(2),
		Method:    p.Method,
		Status:    p.Status,
		PaidAt:    p.PaidAt,
	}
}

type Service interface {
	Record(ctx context.Context, input RecordInput) (*PaymentDTO, error)
	ListByProcess(ctx context.Context, processID uuid.UUID) ([]PaymentDTO, error)
	Total(ctx context.Context, processID uuid.UUID) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*PaymentDTO, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "amount", "NotPositive", "amount must be greater than zero")
	}
	if err := types.CheckMoney("amount", input.Amount); err != nil {
		return nil, err
	}
	method := strings.TrimSpace(input.Method)
	if method == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "method", "Required", "payment method required")
	}
	if len(method) > 50 {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "method", "TooLong", "payment method too long")
	}
	if input.Status == "" {
		input.Status = enums.PaymentStatusPending
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "status", "InvalidChoice", "invalid payment status")
	}

	exists, err := s.repo.ProcessExists(ctx, input.ProcessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check process")
	}
	if !exists {
		return nil, pkgerrors.Field(pkgerrors.CodeNotFound, "process_id", "UnknownProcess", "process not found")
	}

	payment := models.Payment{
		ID:        uuid.New(),
		ProcessID: input.ProcessID,
		Amount:    input.Amount.Round(2),
		Method:    method,
		Status:    input.Status,
	}
	if err := s.repo.Create(ctx, &payment); err != nil {
		return nil, db.TranslateError(err, "record payment")
	}
	dto := FromModel(payment)
	return &dto, nil
}

func (s *service) ListByProcess(ctx context.Context, processID uuid.UUID) ([]PaymentDTO, error) {
	rows, err := s.repo.ListByProcess(ctx, processID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	out := make([]PaymentDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Total sums the pagado payments of a process.
func (s *service) Total(ctx context.Context, processID uuid.UUID) (decimal.Decimal, error) {
	rows, err := s.repo.ListByStatus(ctx, processID, enums.PaymentStatusPaid)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total.Round(2), nil
}
