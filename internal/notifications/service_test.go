package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/dbtest"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	paginationpkg "github.com/blazetaller/taller-backend/pkg/pagination"
)

var base = time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

type stepClock struct{ next time.Time }

func (c *stepClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(time.Minute)
	return now
}

func newTestService(t *testing.T) (Service, *gorm.DB, *models.Process) {
	t.Helper()
	conn := dbtest.Open(t)
	owner := dbtest.Owner(t, conn, "12345678-9")
	vehicle := dbtest.Vehicle(t, conn, owner.ID, "AB1234")
	process := dbtest.Process(t, conn, dbtest.Worker(t, conn).ID, vehicle.ID)

	clock := &stepClock{next: base}
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), clock.Now)
	require.NoError(t, err)
	return svc, conn, process
}

func TestCreateLinksProcess(t *testing.T) {
	svc, conn, process := newTestService(t)

	created, err := svc.Create(context.Background(), CreateInput{
		ProcessID:   process.ID,
		Message:     "Su vehículo está listo",
		DeviceToken: "fcm-token",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.NotificationStatusPending, created.Status)

	var link models.ProcessNotification
	require.NoError(t, conn.First(&link, "notification_id = ?", created.ID).Error)
	assert.Equal(t, process.ID, link.ProcessID)

	_, err = svc.Create(context.Background(), CreateInput{ProcessID: uuid.New(), Message: "x", DeviceToken: "y"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListPaginatesWithoutGapsOrDuplicates(t *testing.T) {
	svc, _, process := newTestService(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		created, err := svc.Create(ctx, CreateInput{ProcessID: process.ID, Message: "avance", DeviceToken: "t"})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	var seen []uuid.UUID
	cursor := ""
	for page := 0; page < 5; page++ {
		result, err := svc.List(ctx, ListParams{ProcessID: process.ID, Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, item := range result.Items {
			seen = append(seen, item.ID)
		}
		if result.Cursor == "" {
			break
		}
		cursor = result.Cursor
	}

	require.Len(t, seen, 5)
	for i, id := range seen {
		assert.Equal(t, ids[len(ids)-1-i], id, "position %d", i)
	}
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _, process := newTestService(t)

	_, err := svc.List(context.Background(), ListParams{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.List(context.Background(), ListParams{ProcessID: process.ID, Cursor: "%%%"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStatusTransitions(t *testing.T) {
	svc, _, process := newTestService(t)
	ctx := context.Background()

	create := func() uuid.UUID {
		created, err := svc.Create(ctx, CreateInput{ProcessID: process.ID, Message: "hola", DeviceToken: "t"})
		require.NoError(t, err)
		return created.ID
	}

	id := create()
	sent, err := svc.MarkSent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enums.NotificationStatusSent, sent.Status)

	seen, err := svc.MarkSeen(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enums.NotificationStatusSeen, seen.Status)

	_, err = svc.Cancel(ctx, id)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	other := create()
	_, err = svc.MarkSeen(ctx, other)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	canceled, err := svc.Cancel(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, enums.NotificationStatusCanceled, canceled.Status)

	_, err = svc.MarkSent(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type failingRepository struct {
	Repository
}

func (failingRepository) List(context.Context, listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	return nil, nil, errors.New("boom")
}

func TestListWrapsRepositoryErrors(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(failingRepository{Repository: NewRepository(conn)}, db.Wrap(conn), nil)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), ListParams{ProcessID: uuid.New()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestExpirePendingCancelsOnlyStalePending(t *testing.T) {
	svc, conn, process := newTestService(t)
	ctx := context.Background()

	create := func() *NotificationDTO {
		created, err := svc.Create(ctx, CreateInput{ProcessID: process.ID, Message: "avance", DeviceToken: "t"})
		require.NoError(t, err)
		return created
	}
	stale := create()
	delivered := create()
	fresh := create()
	_, err := svc.MarkSent(ctx, delivered.ID)
	require.NoError(t, err)

	cancelled, err := svc.ExpirePending(ctx, 90*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	statusOf := func(id uuid.UUID) enums.NotificationStatus {
		var n models.Notification
		require.NoError(t, conn.First(&n, "id = ?", id).Error)
		return n.Status
	}
	assert.Equal(t, enums.NotificationStatusCanceled, statusOf(stale.ID))
	assert.Equal(t, enums.NotificationStatusSent, statusOf(delivered.ID))
	assert.Equal(t, enums.NotificationStatusPending, statusOf(fresh.ID))

	_, err = svc.ExpirePending(ctx, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
