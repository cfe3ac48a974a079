package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/blazetaller/taller-backend/pkg/logger"
)

const defaultReconcileBatch = 200

type quotationReconciler interface {
	PendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	ReconcileTotal(ctx context.Context, id uuid.UUID) (bool, error)
}

type QuotationReconcileJobParams struct {
	Logger     *logger.Logger
	Quotations quotationReconciler
	BatchSize  int
}

// NewQuotationReconcileJob builds the job that re-derives estimated_total for
// pending quotations and repairs any that drifted from their line items.
func NewQuotationReconcileJob(params QuotationReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Quotations == nil {
		return nil, fmt.Errorf("quotations service required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReconcileBatch
	}
	return &quotationReconcileJob{
		logg:       params.Logger,
		quotations: params.Quotations,
		batch:      batch,
	}, nil
}

type quotationReconcileJob struct {
	logg       *logger.Logger
	quotations quotationReconciler
	batch      int
}

func (j *quotationReconcileJob) Name() string { return "quotation-total-reconcile" }

// Run checks one batch per cycle. A failure on one quotation is collected and
// the rest of the batch still runs.
func (j *quotationReconcileJob) Run(ctx context.Context) (int64, error) {
	ids, err := j.quotations.PendingIDs(ctx, j.batch)
	if err != nil {
		return 0, fmt.Errorf("list pending quotations: %w", err)
	}

	var (
		repaired int64
		errs     error
	)
	for _, id := range ids {
		fixed, err := j.quotations.ReconcileTotal(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("quotation %s: %w", id, err))
			continue
		}
		if fixed {
			repaired++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"checked":  len(ids),
		"repaired": repaired,
		"failed":   len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "quotation reconcile pass complete")
	return repaired, errs
}
