package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

func create(t testing.TB, conn *gorm.DB, row any) {
	t.Helper()
	if err := conn.Create(row).Error; err != nil {
		t.Fatalf("create %T: %v", row, err)
	}
}

// UserWithProfile inserts a user and its profile with the given role.
func UserWithProfile(t testing.TB, conn *gorm.DB, role enums.Role) (*models.User, *models.Profile) {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@taller.test", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}
	create(t, conn, user)
	profile := &models.Profile{ID: uuid.New(), UserID: user.ID, Role: role}
	create(t, conn, profile)
	return user, profile
}

// Owner inserts a dueño user, profile and owner record. rut must be unique per database.
func Owner(t testing.TB, conn *gorm.DB, rut string) *models.Owner {
	t.Helper()
	user, profile := UserWithProfile(t, conn, enums.RoleOwner)
	owner := &models.Owner{
		ID:        uuid.New(),
		UserID:    user.ID,
		ProfileID: profile.ID,
		RUT:       rut,
		FirstName: "Rosa",
		LastName:  "Díaz",
		Phone:     "+56911112222",
		Address:   "Av. Matta 123",
	}
	create(t, conn, owner)
	return owner
}

// Vehicle inserts an available vehicle for the owner.
func Vehicle(t testing.TB, conn *gorm.DB, ownerID uuid.UUID, plate string) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		ID:               uuid.New(),
		Plate:            plate,
		Make:             "Toyota",
		Model:            "Yaris",
		Year:             2020,
		Color:            "Rojo",
		Mileage:          42000,
		FuelType:         enums.FuelTypeGasoline,
		LastInspectionOn: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:           enums.VehicleStatusAvailable,
		OwnerID:          ownerID,
	}
	create(t, conn, vehicle)
	return vehicle
}

// Service inserts a catalog service with the given cost.
func Service(t testing.TB, conn *gorm.DB, name, cost string) *models.Service {
	t.Helper()
	service := &models.Service{
		ID:               uuid.New(),
		Name:             name,
		Description:      name,
		Cost:             decimal.RequireFromString(cost),
		EstimatedMinutes: 60,
		Warranty:         "3 meses",
	}
	create(t, conn, service)
	return service
}

// Worker inserts a trabajador user, profile and available worker record.
func Worker(t testing.TB, conn *gorm.DB) *models.Worker {
	t.Helper()
	_, profile := UserWithProfile(t, conn, enums.RoleWorker)
	worker := &models.Worker{
		ID:        uuid.New(),
		ProfileID: profile.ID,
		StaffDetail: models.StaffDetail{
			RUT:          "11111111-1",
			FirstName:    "Pedro",
			LastName:     "Mecánico",
			Phone:        "+56933334444",
			Email:        "pedro@taller.test",
			Address:      "Calle 1",
			Availability: enums.AvailabilityAvailable,
			Status:       enums.StaffStatusActive,
			Assignment:   enums.StaffAssignmentMechanic,
		},
	}
	create(t, conn, worker)
	return worker
}

// Process inserts a started repair process.
func Process(t testing.TB, conn *gorm.DB, workerID, vehicleID uuid.UUID) *models.Process {
	t.Helper()
	process := &models.Process{
		ID:          uuid.New(),
		Phase:       enums.ProcessPhaseStarted,
		Status:      enums.ProcessStatusStarted,
		Priority:    enums.ProcessPriorityMedium,
		Description: "Cambio de aceite",
		StartedAt:   time.Now().UTC().Truncate(time.Second),
		WorkerID:    workerID,
		VehicleID:   vehicleID,
	}
	create(t, conn, process)
	return process
}
