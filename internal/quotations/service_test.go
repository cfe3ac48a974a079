package quotations

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/dbtest"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/metrics"
)

type fixture struct {
	svc     Service
	conn    *gorm.DB
	vehicle *models.Vehicle
	reg     *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Tx:      db.Wrap(conn),
		Metrics: metrics.NewDomainMetrics(reg),
	})
	require.NoError(t, err)

	owner := dbtest.Owner(t, conn, "12345678-9")
	return fixture{
		svc:     svc,
		conn:    conn,
		vehicle: dbtest.Vehicle(t, conn, owner.ID, "AB1234"),
		reg:     reg,
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, trigger string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if hasLabel(metric, "trigger", trigger) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func moneyPtr(value string) *decimal.Decimal {
	d := money(value)
	return &d
}

func storedTotal(t *testing.T, conn *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var quotation models.Quotation
	require.NoError(t, conn.First(&quotation, "id = ?", id).Error)
	return quotation.EstimatedTotal
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)

	conn := dbtest.Open(t)
	_, err = NewService(ServiceParams{Repo: NewRepository(conn)})
	require.Error(t, err)
}

func TestCreateQuotationDefaults(t *testing.T) {
	f := newFixture(t)
	description := "Mantención 10.000 km"

	dto, err := f.svc.Create(context.Background(), f.vehicle.ID, &description)
	require.NoError(t, err)
	assert.Equal(t, enums.QuotationStatusPending, dto.Status)
	assert.Equal(t, "0.00", dto.EstimatedTotal)
	assert.Nil(t, dto.FinalTotal)
	assert.Equal(t, int64(0), dto.Version)
	assert.Empty(t, dto.Items)
}

func TestCreateQuotationUnknownVehicle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLineItemLifecycleKeepsTotalInSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oil := dbtest.Service(t, f.conn, "Cambio de aceite", "100.00")
	brakes := dbtest.Service(t, f.conn, "Frenos", "50.50")

	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	afterFirst, err := f.svc.AddLineItem(ctx, quotation.ID, oil.ID, moneyPtr("100.00"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", afterFirst.EstimatedTotal)

	afterSecond, err := f.svc.AddLineItem(ctx, quotation.ID, brakes.ID, moneyPtr("50.50"))
	require.NoError(t, err)
	assert.Equal(t, "150.50", afterSecond.EstimatedTotal)
	require.Len(t, afterSecond.Items, 2)

	afterDelete, err := f.svc.DeleteLineItem(ctx, quotation.ID, afterFirst.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "50.50", afterDelete.EstimatedTotal)

	afterLast, err := f.svc.DeleteLineItem(ctx, quotation.ID, afterDelete.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", afterLast.EstimatedTotal)
	assert.Empty(t, afterLast.Items)
	assert.Equal(t, int64(4), afterLast.Version)

	assert.True(t, storedTotal(t, f.conn, quotation.ID).IsZero())
	assert.Equal(t, 2.0, counterValue(t, f.reg, "quotation_total_recomputes_total", metrics.TriggerItemAdded))
	assert.Equal(t, 2.0, counterValue(t, f.reg, "quotation_total_recomputes_total", metrics.TriggerItemDeleted))
}

func TestAddLineItemSnapshotsServiceCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := dbtest.Service(t, f.conn, "Lavado", "15990.00")

	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	dto, err := f.svc.AddLineItem(ctx, quotation.ID, wash.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "15990.00", dto.EstimatedTotal)

	require.NoError(t, f.conn.Model(&models.Service{}).Where("id = ?", wash.ID).Update("cost", "20000.00").Error)
	got, err := f.svc.Get(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, "15990.00", got.Items[0].Cost)
}

func TestUpdateLineItemCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tires := dbtest.Service(t, f.conn, "Neumáticos", "80.00")

	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)
	added, err := f.svc.AddLineItem(ctx, quotation.ID, tires.ID, nil)
	require.NoError(t, err)

	updated, err := f.svc.UpdateLineItemCost(ctx, quotation.ID, added.Items[0].ID, money("95.25"))
	require.NoError(t, err)
	assert.Equal(t, "95.25", updated.EstimatedTotal)
	assert.Equal(t, "95.25", updated.Items[0].Cost)

	_, err = f.svc.UpdateLineItemCost(ctx, quotation.ID, added.Items[0].ID, money("-1"))
	require.Error(t, err)
	assert.Equal(t, "Negative", pkgerrors.As(err).Reason())
}

func TestLineItemErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oil := dbtest.Service(t, f.conn, "Cambio de aceite", "100.00")
	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	t.Run("negative cost", func(t *testing.T) {
		_, err := f.svc.AddLineItem(ctx, quotation.ID, oil.ID, moneyPtr("-0.01"))
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})
	t.Run("unknown quotation", func(t *testing.T) {
		_, err := f.svc.AddLineItem(ctx, uuid.New(), oil.ID, nil)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})
	t.Run("unknown service", func(t *testing.T) {
		_, err := f.svc.AddLineItem(ctx, quotation.ID, uuid.New(), nil)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})
	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.DeleteLineItem(ctx, quotation.ID, uuid.New())
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	})
	t.Run("item of another quotation", func(t *testing.T) {
		other, err := f.svc.Create(ctx, f.vehicle.ID, nil)
		require.NoError(t, err)
		other, err = f.svc.AddLineItem(ctx, other.ID, oil.ID, nil)
		require.NoError(t, err)

		_, err = f.svc.DeleteLineItem(ctx, quotation.ID, other.Items[0].ID)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
		assert.Equal(t, "100.00", storedTotal(t, f.conn, other.ID).StringFixed(2))
	})

	assert.True(t, storedTotal(t, f.conn, quotation.ID).IsZero())
}

// Random add/delete sequences must always leave estimated_total equal to
// the exact sum of the remaining item costs.
func TestTotalMatchesItemSumUnderRandomMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	svc := dbtest.Service(t, f.conn, "Diagnóstico", "10.00")

	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	expected := map[uuid.UUID]decimal.Decimal{}
	for step := 0; step < 40; step++ {
		var dto *QuotationDTO
		if len(expected) == 0 || rng.Intn(3) > 0 {
			cost := decimal.New(rng.Int63n(1_000_000), -2)
			dto, err = f.svc.AddLineItem(ctx, quotation.ID, svc.ID, &cost)
			require.NoError(t, err)
			for _, item := range dto.Items {
				if _, seen := expected[item.ID]; !seen {
					expected[item.ID] = cost
				}
			}
		} else {
			var victim uuid.UUID
			for id := range expected {
				victim = id
				break
			}
			dto, err = f.svc.DeleteLineItem(ctx, quotation.ID, victim)
			require.NoError(t, err)
			delete(expected, victim)
		}

		sum := decimal.Zero
		for _, cost := range expected {
			sum = sum.Add(cost)
		}
		require.Equal(t, sum.StringFixed(2), dto.EstimatedTotal, "step %d", step)
		require.Len(t, dto.Items, len(expected))
	}
}

func TestConcurrentAddLineItemKeepsTotalInSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	const callers = 10
	services := make([]*models.Service, callers)
	for i := range services {
		services[i] = dbtest.Service(t, f.conn, fmt.Sprintf("Servicio %d", i), "1.00")
	}

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.AddLineItem(ctx, quotation.ID, services[i].ID, nil)
		}()
	}
	wg.Wait()

	// Callers may lose a race, but a failed call must leave nothing behind.
	added := 0
	for _, err := range errs {
		if err == nil {
			added++
			continue
		}
		assert.NotNil(t, pkgerrors.As(err), "untyped error: %v", err)
	}
	assert.Positive(t, added)

	got, err := f.svc.Get(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, added)

	var items []models.QuotationLineItem
	require.NoError(t, f.conn.Where("quotation_id = ?", quotation.ID).Find(&items).Error)
	assert.True(t, SumCosts(items).Equal(storedTotal(t, f.conn, quotation.ID)),
		"total %s, items sum %s", storedTotal(t, f.conn, quotation.ID), SumCosts(items))
}

func TestTotalAboveColumnLimitIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := dbtest.Service(t, f.conn, "Motor completo", "60000000.00")
	body := dbtest.Service(t, f.conn, "Carrocería", "50000000.00")

	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.AddLineItem(ctx, quotation.ID, engine.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddLineItem(ctx, quotation.ID, body.ID, nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "OutOfRange", typed.Reason())

	got, err := f.svc.Get(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1, "rejected item must roll back")
	assert.Equal(t, "60000000.00", got.EstimatedTotal)

	_, err = f.svc.AddLineItem(ctx, quotation.ID, body.ID, moneyPtr("100000000"))
	assert.Equal(t, "OutOfRange", pkgerrors.As(err).Reason())

	_, err = f.svc.Decide(ctx, quotation.ID, enums.QuotationStatusAccepted, moneyPtr("1e9"))
	require.Error(t, err)
	assert.Equal(t, "OutOfRange", pkgerrors.As(err).Reason())
}

func TestRecomputeRejectsStaleVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	var stale models.Quotation
	require.NoError(t, f.conn.First(&stale, "id = ?", quotation.ID).Error)

	require.NoError(t, f.conn.Model(&models.Quotation{}).
		Where("id = ?", quotation.ID).
		Update("version", gorm.Expr("version + 1")).Error)

	err = f.svc.RecomputeTotal(ctx, f.conn, &stale)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Equal(t, 1.0, counterValue(t, f.reg, "quotation_total_recompute_conflicts_total", metrics.TriggerManual))
}

func TestRecomputeTotalRepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oil := dbtest.Service(t, f.conn, "Cambio de aceite", "100.00")
	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.AddLineItem(ctx, quotation.ID, oil.ID, nil)
	require.NoError(t, err)

	require.NoError(t, f.conn.Model(&models.Quotation{}).
		Where("id = ?", quotation.ID).
		Update("estimated_total", "1.00").Error)

	var current models.Quotation
	require.NoError(t, f.conn.First(&current, "id = ?", quotation.ID).Error)
	require.NoError(t, f.svc.RecomputeTotal(ctx, f.conn, &current))
	assert.Equal(t, "100.00", current.EstimatedTotal.StringFixed(2))
	assert.True(t, storedTotal(t, f.conn, quotation.ID).Equal(money("100.00")))
}

func TestReconcileTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oil := dbtest.Service(t, f.conn, "Cambio de aceite", "100.00")

	drifted, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.AddLineItem(ctx, drifted.ID, oil.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.conn.Model(&models.Quotation{}).
		Where("id = ?", drifted.ID).
		Update("estimated_total", "7.00").Error)

	clean, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)

	decided, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.Decide(ctx, decided.ID, enums.QuotationStatusRejected, nil)
	require.NoError(t, err)

	ids, err := f.svc.PendingIDs(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{drifted.ID, clean.ID}, ids)

	before := counterValue(t, f.reg, "quotation_total_recomputes_total", metrics.TriggerManual)

	repaired, err := f.svc.ReconcileTotal(ctx, drifted.ID)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.True(t, storedTotal(t, f.conn, drifted.ID).Equal(money("100.00")))

	repaired, err = f.svc.ReconcileTotal(ctx, drifted.ID)
	require.NoError(t, err)
	assert.False(t, repaired, "second pass finds nothing to repair")

	repaired, err = f.svc.ReconcileTotal(ctx, clean.ID)
	require.NoError(t, err)
	assert.False(t, repaired)

	repaired, err = f.svc.ReconcileTotal(ctx, decided.ID)
	require.NoError(t, err)
	assert.False(t, repaired)

	assert.Equal(t, before+1, counterValue(t, f.reg, "quotation_total_recomputes_total", metrics.TriggerManual))

	_, err = f.svc.ReconcileTotal(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.PendingIDs(ctx, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestReconcileTotalAfterServiceCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oil := dbtest.Service(t, f.conn, "Cambio de aceite", "100.00")
	tires := dbtest.Service(t, f.conn, "Neumáticos", "80.00")

	quotation, err := f.svc.Create(ctx, f.vehicle.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.AddLineItem(ctx, quotation.ID, oil.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.AddLineItem(ctx, quotation.ID, tires.ID, nil)
	require.NoError(t, err)
	require.True(t, storedTotal(t, f.conn, quotation.ID).Equal(money("180.00")))

	// Deleting a catalog service cascades to its line items in the store,
	// bypassing the service layer.
	require.NoError(t, f.conn.Where("service_id = ?", tires.ID).Delete(&models.QuotationLineItem{}).Error)
	require.NoError(t, f.conn.Delete(&models.Service{}, "id = ?", tires.ID).Error)
	require.True(t, storedTotal(t, f.conn, quotation.ID).Equal(money("180.00")))

	repaired, err := f.svc.ReconcileTotal(ctx, quotation.ID)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.True(t, storedTotal(t, f.conn, quotation.ID).Equal(money("100.00")))
}

func TestDecide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oil := dbtest.Service(t, f.conn, "Cambio de aceite", "100.00")

	newQuotation := func() *QuotationDTO {
		q, err := f.svc.Create(ctx, f.vehicle.ID, nil)
		require.NoError(t, err)
		q, err = f.svc.AddLineItem(ctx, q.ID, oil.ID, nil)
		require.NoError(t, err)
		return q
	}

	t.Run("accept defaults final total", func(t *testing.T) {
		q := newQuotation()
		decided, err := f.svc.Decide(ctx, q.ID, enums.QuotationStatusAccepted, nil)
		require.NoError(t, err)
		assert.Equal(t, enums.QuotationStatusAccepted, decided.Status)
		require.NotNil(t, decided.FinalTotal)
		assert.Equal(t, "100.00", *decided.FinalTotal)

		_, err = f.svc.AddLineItem(ctx, q.ID, oil.ID, nil)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	})

	t.Run("accept with negotiated total", func(t *testing.T) {
		q := newQuotation()
		decided, err := f.svc.Decide(ctx, q.ID, enums.QuotationStatusAccepted, moneyPtr("90"))
		require.NoError(t, err)
		assert.Equal(t, "90.00", *decided.FinalTotal)
		assert.Equal(t, "100.00", decided.EstimatedTotal)
	})

	t.Run("reject", func(t *testing.T) {
		q := newQuotation()
		decided, err := f.svc.Decide(ctx, q.ID, enums.QuotationStatusRejected, nil)
		require.NoError(t, err)
		assert.Nil(t, decided.FinalTotal)

		_, err = f.svc.Decide(ctx, q.ID, enums.QuotationStatusAccepted, nil)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		q := newQuotation()
		_, err := f.svc.Decide(ctx, q.ID, enums.QuotationStatusPending, nil)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})
}

func TestSumCosts(t *testing.T) {
	assert.Equal(t, "0.00", SumCosts(nil).StringFixed(2))
	items := []models.QuotationLineItem{{Cost: money("0.10")}, {Cost: money("0.20")}}
	assert.Equal(t, "0.30", SumCosts(items).StringFixed(2))
}
