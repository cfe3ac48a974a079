package vehicles

import (
	"context"
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
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo: NewRepository(conn),
		Tx:   db.Wrap(conn),
		Now:  func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, conn
}

func vehicleInput(ownerID uuid.UUID, plate string, year int) VehicleInput {
	return VehicleInput{
		Plate:            plate,
		Make:             "Nissan",
		Model:            "V16",
		Year:             year,
		Color:            "Blanco",
		Mileage:          120000,
		FuelType:         enums.FuelTypeGasoline,
		LastInspectionOn: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		OwnerID:          ownerID,
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestCreateVehicleScenario(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.Owner(t, conn, "12345678-9")
	ctx := context.Background()

	created, err := svc.Create(ctx, vehicleInput(owner.ID, "AB1234", 2020))
	require.NoError(t, err)
	assert.Equal(t, "AB1234", created.Plate)
	assert.Equal(t, enums.VehicleStatusAvailable, created.Status)
	assert.Equal(t, "2025-01-20", created.LastInspectionOn)

	_, err = svc.Create(ctx, vehicleInput(owner.ID, "AB12345", 2020))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidPlateFormat, pkgerrors.As(err).Reason())

	_, err = svc.Create(ctx, vehicleInput(owner.ID, "CD5678", 1800))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidYear, pkgerrors.As(err).Reason())

	var count int64
	require.NoError(t, conn.Model(&models.Vehicle{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateVehicleRejectsDuplicatePlate(t *testing.T) {
	svc, conn := newTestService(t)
	first := dbtest.Owner(t, conn, "12345678-9")
	second := dbtest.Owner(t, conn, "8765432-1")

	_, err := svc.Create(context.Background(), vehicleInput(first.ID, "BCDF12", 2018))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), vehicleInput(second.ID, "BCDF12", 2019))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestCreateVehicleRequiresOwner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), vehicleInput(uuid.New(), "AB1234", 2020))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateVehicleValidatesChoices(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.Owner(t, conn, "12345678-9")

	input := vehicleInput(owner.ID, "AB1234", 2020)
	input.FuelType = "electrico"
	_, err := svc.Create(context.Background(), input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = vehicleInput(owner.ID, "AB1234", 2020)
	input.Status = "vendido"
	_, err = svc.Create(context.Background(), input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateVehicleRevalidates(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.Owner(t, conn, "12345678-9")
	ctx := context.Background()

	created, err := svc.Create(ctx, vehicleInput(owner.ID, "AB1234", 2020))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, vehicleInput(owner.ID, "AB1234", 2026))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidYear, pkgerrors.As(err).Reason())

	_, err = svc.Update(ctx, created.ID, vehicleInput(owner.ID, "ab1234", 2020))
	require.Error(t, err)
	assert.Equal(t, ReasonInvalidPlateFormat, pkgerrors.As(err).Reason())

	input := vehicleInput(owner.ID, "WXYZ98", 2025)
	input.Mileage = 130500
	updated, err := svc.Update(ctx, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "WXYZ98", updated.Plate)
	assert.Equal(t, 130500, updated.Mileage)

	_, err = svc.Update(ctx, uuid.New(), input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSetStatus(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.Owner(t, conn, "12345678-9")
	vehicle := dbtest.Vehicle(t, conn, owner.ID, "AB1234")
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, vehicle.ID, enums.VehicleStatusInRepair))
	got, err := svc.Get(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.VehicleStatusInRepair, got.Status)

	assert.True(t, pkgerrors.IsCode(svc.SetStatus(ctx, vehicle.ID, "roto"), pkgerrors.CodeValidation))
	assert.True(t, pkgerrors.IsCode(svc.SetStatus(ctx, uuid.New(), enums.VehicleStatusAvailable), pkgerrors.CodeNotFound))
}
