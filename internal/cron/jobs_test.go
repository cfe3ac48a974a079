package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/blazetaller/taller-backend/pkg/logger"
)

type fakeReconciler struct {
	ids     []uuid.UUID
	listErr error
	drifted map[uuid.UUID]bool
	failing map[uuid.UUID]bool
	limit   int
	checked []uuid.UUID
}

func (f *fakeReconciler) PendingIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	f.limit = limit
	return f.ids, f.listErr
}

func (f *fakeReconciler) ReconcileTotal(_ context.Context, id uuid.UUID) (bool, error) {
	f.checked = append(f.checked, id)
	if f.failing[id] {
		return false, errors.New("locked")
	}
	return f.drifted[id], nil
}

func TestQuotationReconcileJobRepairsDrift(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	fake := &fakeReconciler{
		ids:     []uuid.UUID{a, b, c},
		drifted: map[uuid.UUID]bool{a: true, c: true},
	}
	job, err := NewQuotationReconcileJob(QuotationReconcileJobParams{Logger: logger.Nop(), Quotations: fake})
	require.NoError(t, err)
	assert.Equal(t, "quotation-total-reconcile", job.Name())

	repaired, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), repaired)
	assert.Equal(t, defaultReconcileBatch, fake.limit)
	assert.Equal(t, []uuid.UUID{a, b, c}, fake.checked)
}

func TestQuotationReconcileJobCollectsFailures(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	fake := &fakeReconciler{
		ids:     []uuid.UUID{a, b, c},
		drifted: map[uuid.UUID]bool{c: true},
		failing: map[uuid.UUID]bool{a: true, b: true},
	}
	job, err := NewQuotationReconcileJob(QuotationReconcileJobParams{Logger: logger.Nop(), Quotations: fake, BatchSize: 3})
	require.NoError(t, err)

	repaired, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, int64(1), repaired, "later quotations still run after a failure")
	assert.Equal(t, 3, fake.limit)
}

func TestQuotationReconcileJobListError(t *testing.T) {
	job, err := NewQuotationReconcileJob(QuotationReconcileJobParams{
		Logger:     logger.Nop(),
		Quotations: &fakeReconciler{listErr: errors.New("db down")},
	})
	require.NoError(t, err)
	_, err = job.Run(context.Background())
	assert.Error(t, err)
}

type fakeExpirer struct {
	maxAge    time.Duration
	cancelled int64
	err       error
}

func (f *fakeExpirer) ExpirePending(_ context.Context, maxAge time.Duration) (int64, error) {
	f.maxAge = maxAge
	return f.cancelled, f.err
}

func TestNotificationExpiryJob(t *testing.T) {
	fake := &fakeExpirer{cancelled: 4}
	job, err := NewNotificationExpiryJob(NotificationExpiryJobParams{Logger: logger.Nop(), Notifications: fake})
	require.NoError(t, err)
	assert.Equal(t, "notification-expiry", job.Name())

	cancelled, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), cancelled)
	assert.Equal(t, defaultNotificationMaxAge, fake.maxAge)

	failing, err := NewNotificationExpiryJob(NotificationExpiryJobParams{
		Logger:        logger.Nop(),
		Notifications: &fakeExpirer{err: errors.New("boom")},
		MaxAge:        time.Hour,
	})
	require.NoError(t, err)
	_, err = failing.Run(context.Background())
	assert.Error(t, err)
}

func TestJobConstructorsRequireDependencies(t *testing.T) {
	_, err := NewQuotationReconcileJob(QuotationReconcileJobParams{Quotations: &fakeReconciler{}})
	assert.Error(t, err)
	_, err = NewQuotationReconcileJob(QuotationReconcileJobParams{Logger: logger.Nop()})
	assert.Error(t, err)
	_, err = NewNotificationExpiryJob(NotificationExpiryJobParams{Logger: logger.Nop()})
	assert.Error(t, err)
}
