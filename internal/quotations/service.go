package quotations

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/metrics"
	"github.com/blazetaller/taller-backend/pkg/types"
)

// Service maintains quotations. estimated_total is a write-time cache of the
// sum of line-item costs: every item mutation locks the quotation row, applies
// the change and recomputes the total inside one transaction.
type Service interface {
	Create(ctx context.Context, vehicleID uuid.UUID, description *string) (*QuotationDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*QuotationDTO, error)
	AddLineItem(ctx context.Context, quotationID, serviceID uuid.UUID, cost *decimal.Decimal) (*QuotationDTO, error)
	UpdateLineItemCost(ctx context.Context, quotationID, itemID uuid.UUID, cost decimal.Decimal) (*QuotationDTO, error)
	DeleteLineItem(ctx context.Context, quotationID, itemID uuid.UUID) (*QuotationDTO, error)
	RecomputeTotal(ctx context.Context, tx *gorm.DB, quotation *models.Quotation) error
	Decide(ctx context.Context, id uuid.UUID, decision enums.QuotationStatus, finalTotal *decimal.Decimal) (*QuotationDTO, error)
	PendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	ReconcileTotal(ctx context.Context, id uuid.UUID) (bool, error)
}

// ServiceParams packages the quotation service dependencies.
type ServiceParams struct {
	Repo    Repository
	Tx      db.TxRunner
	Metrics *metrics.DomainMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	tx      db.TxRunner
	metrics *metrics.DomainMetrics
	logg    *logger.Logger
}

// NewService wires the quotations service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "quotations repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

func (s *service) Create(ctx context.Context, vehicleID uuid.UUID, description *string) (*QuotationDTO, error) {
	if vehicleID == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "vehicle_id", "Required", "vehicle id required")
	}

	quotation := &models.Quotation{
		ID:             uuid.New(),
		VehicleID:      vehicleID,
		Status:         enums.QuotationStatusPending,
		EstimatedTotal: decimal.Zero,
		Description:    description,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		exists, err := repo.VehicleExists(ctx, vehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check vehicle")
		}
		if !exists {
			return pkgerrors.Field(pkgerrors.CodeNotFound, "vehicle_id", "UnknownVehicle", "vehicle not found")
		}
		if err := repo.Create(ctx, quotation); err != nil {
			return db.TranslateError(err, "create quotation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(quotation, nil), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*QuotationDTO, error) {
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, "quotation not found")
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line items")
	}
	return FromModel(quotation, items), nil
}

func validateCost(cost decimal.Decimal) error {
	return types.CheckMoney("cost", cost)
}

func (s *service) AddLineItem(ctx context.Context, quotationID, serviceID uuid.UUID, cost *decimal.Decimal) (*QuotationDTO, error) {
	if cost != nil {
		if err := validateCost(*cost); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, quotationID, metrics.TriggerItemAdded, func(repo Repository, _ *models.Quotation) error {
		priced, err := repo.FindService(ctx, serviceID)
		if err != nil {
			return db.TranslateError(err, "service not found")
		}
		itemCost := priced.Cost
		if cost != nil {
			itemCost = *cost
		}
		item := &models.QuotationLineItem{
			ID:          uuid.New(),
			QuotationID: quotationID,
			ServiceID:   priced.ID,
			Cost:        itemCost.Round(2),
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return db.TranslateError(err, "create line item")
		}
		return nil
	})
}

// findItem loads an item that must belong to quotationID.
func findItem(ctx context.Context, repo Repository, quotationID, itemID uuid.UUID) error {
	item, err := repo.FindItem(ctx, itemID)
	if err != nil {
		return db.TranslateError(err, "line item not found")
	}
	if item.QuotationID != quotationID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	return nil
}

func (s *service) UpdateLineItemCost(ctx context.Context, quotationID, itemID uuid.UUID, cost decimal.Decimal) (*QuotationDTO, error) {
	if err := validateCost(cost); err != nil {
		return nil, err
	}

	return s.mutate(ctx, quotationID, metrics.TriggerItemUpdated, func(repo Repository, _ *models.Quotation) error {
		if err := findItem(ctx, repo, quotationID, itemID); err != nil {
			return err
		}
		if err := repo.UpdateItemCost(ctx, itemID, cost.Round(2)); err != nil {
			return db.TranslateError(err, "update line item")
		}
		return nil
	})
}

func (s *service) DeleteLineItem(ctx context.Context, quotationID, itemID uuid.UUID) (*QuotationDTO, error) {
	return s.mutate(ctx, quotationID, metrics.TriggerItemDeleted, func(repo Repository, _ *models.Quotation) error {
		if err := findItem(ctx, repo, quotationID, itemID); err != nil {
			return err
		}
		deleted, err := repo.DeleteItem(ctx, itemID)
		if err != nil {
			return db.TranslateError(err, "delete line item")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil
	})
}

// mutate runs change under the quotation row lock and recomputes the total
// before the transaction commits.
func (s *service) mutate(ctx context.Context, quotationID uuid.UUID, trigger string, change func(repo Repository, quotation *models.Quotation) error) (*QuotationDTO, error) {
	var (
		quotation *models.Quotation
		items     []models.QuotationLineItem
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		quotation, err = repo.LockByID(ctx, quotationID)
		if err != nil {
			return db.TranslateError(err, "quotation not found")
		}
		if quotation.Status != enums.QuotationStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "line items can only change while the quotation is pending")
		}

		if err := change(repo, quotation); err != nil {
			return err
		}

		items, err = s.recompute(ctx, repo, quotation, trigger)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRecompute(trigger)
	logCtx := s.logg.WithQuotationID(ctx, quotation.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"trigger":         trigger,
		"estimated_total": quotation.EstimatedTotal.StringFixed(2),
		"items":           len(items),
	})
	s.logg.Info(logCtx, "quotation total recomputed")

	return FromModel(quotation, items), nil
}

// RecomputeTotal refreshes the cached total inside the caller's transaction.
// The caller is expected to hold the row lock from LockByID.
func (s *service) RecomputeTotal(ctx context.Context, tx *gorm.DB, quotation *models.Quotation) error {
	if quotation == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quotation required")
	}
	if _, err := s.recompute(ctx, s.repo.WithTx(tx), quotation, metrics.TriggerManual); err != nil {
		return err
	}
	s.metrics.IncRecompute(metrics.TriggerManual)
	return nil
}

func (s *service) PendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "limit", "NotPositive", "limit must be positive")
	}
	ids, err := s.repo.ListPendingIDs(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending quotations")
	}
	return ids, nil
}

// ReconcileTotal locks a pending quotation and rewrites estimated_total when
// it no longer matches its items. It reports whether a repair was written.
// Decided quotations are left alone.
func (s *service) ReconcileTotal(ctx context.Context, id uuid.UUID) (bool, error) {
	var (
		quotation *models.Quotation
		stale     decimal.Decimal
		repaired  bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		quotation, err = repo.LockByID(ctx, id)
		if err != nil {
			return db.TranslateError(err, "quotation not found")
		}
		if quotation.Status != enums.QuotationStatusPending {
			return nil
		}
		items, err := repo.ListItems(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line items")
		}
		if SumCosts(items).Equal(quotation.EstimatedTotal) {
			return nil
		}
		stale = quotation.EstimatedTotal
		if _, err := s.recompute(ctx, repo, quotation, metrics.TriggerManual); err != nil {
			return err
		}
		repaired = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if repaired {
		s.metrics.IncRecompute(metrics.TriggerManual)
		logCtx := s.logg.WithQuotationID(ctx, id.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"stale_total":     stale.StringFixed(2),
			"estimated_total": quotation.EstimatedTotal.StringFixed(2),
		})
		s.logg.Warn(logCtx, "quotation total drift repaired")
	}
	return repaired, nil
}

// recompute sums the current item costs and stores the total with a
// compare-and-swap on version. quotation is updated in place on success.
func (s *service) recompute(ctx context.Context, repo Repository, quotation *models.Quotation, trigger string) ([]models.QuotationLineItem, error) {
	items, err := repo.ListItems(ctx, quotation.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line items")
	}
	total := SumCosts(items)
	if total.GreaterThan(types.MaxMoney) {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "cost", "OutOfRange",
			"quotation total would exceed "+types.MaxMoney.StringFixed(2))
	}

	ok, err := repo.CompareAndSetTotal(ctx, quotation.ID, quotation.Version, total)
	if err != nil {
		if db.IsNumericOutOfRange(err) {
			return nil, db.TranslateError(err, "estimated total out of range")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store estimated total")
	}
	if !ok {
		s.metrics.IncRecomputeConflict(trigger)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quotation was modified concurrently").
			WithDetails(map[string]any{"quotation_id": quotation.ID, "version": quotation.Version})
	}

	quotation.EstimatedTotal = total
	quotation.Version++
	return items, nil
}

// SumCosts adds line-item costs exactly. An empty set sums to 0.00.
func SumCosts(items []models.QuotationLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Cost)
	}
	return total.Round(2)
}

// Decide moves a pending quotation to Aceptada or Rechazada. Acceptance fixes
// final_total to finalTotal, or to the estimated total when none is given.
func (s *service) Decide(ctx context.Context, id uuid.UUID, decision enums.QuotationStatus, finalTotal *decimal.Decimal) (*QuotationDTO, error) {
	if decision != enums.QuotationStatusAccepted && decision != enums.QuotationStatusRejected {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "decision", "InvalidChoice", "decision must be Aceptada or Rechazada")
	}
	if finalTotal != nil {
		if err := types.CheckMoney("final_total", *finalTotal); err != nil {
			return nil, err
		}
	}

	var (
		quotation *models.Quotation
		items     []models.QuotationLineItem
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		quotation, err = repo.LockByID(ctx, id)
		if err != nil {
			return db.TranslateError(err, "quotation not found")
		}
		if quotation.Status != enums.QuotationStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quotation already decided").
				WithDetails(map[string]any{"status": quotation.Status})
		}

		final := decimal.NullDecimal{}
		if decision == enums.QuotationStatusAccepted {
			final.Valid = true
			final.Decimal = quotation.EstimatedTotal
			if finalTotal != nil {
				final.Decimal = finalTotal.Round(2)
			}
		}

		ok, err := repo.CompareAndSetDecision(ctx, id, quotation.Version, decision, final)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store decision")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quotation was modified concurrently")
		}
		quotation.Status = decision
		quotation.FinalTotal = final
		quotation.Version++

		items, err = repo.ListItems(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list line items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(quotation, items), nil
}
