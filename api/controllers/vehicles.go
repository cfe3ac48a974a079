package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/api/responses"
	"github.com/blazetaller/taller-backend/api/validators"
	"github.com/blazetaller/taller-backend/internal/vehicles"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
)

type vehicleRequest struct {
	Plate            string    `json:"plate" validate:"required"`
	Make             string    `json:"make" validate:"required,max=50"`
	Model            string    `json:"model" validate:"required,max=50"`
	Year             int       `json:"year"`
	Color            string    `json:"color" validate:"required,max=30"`
	Mileage          int       `json:"mileage" validate:"gte=0"`
	FuelType         string    `json:"fuel_type" validate:"required"`
	LastInspectionOn string    `json:"last_inspection_on" validate:"required"`
	Status           string    `json:"status"`
	OwnerID          uuid.UUID `json:"owner_id" validate:"required"`
}

func (req vehicleRequest) toInput() (vehicles.VehicleInput, error) {
	inspected, err := time.Parse(vehicles.DateLayout, req.LastInspectionOn)
	if err != nil {
		return vehicles.VehicleInput{}, pkgerrors.Field(pkgerrors.CodeValidation, "last_inspection_on", "InvalidDate", "last_inspection_on must be YYYY-MM-DD")
	}
	return vehicles.VehicleInput{
		Plate:            req.Plate,
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Color:            req.Color,
		Mileage:          req.Mileage,
		FuelType:         enums.FuelType(req.FuelType),
		LastInspectionOn: inspected,
		Status:           enums.VehicleStatus(req.Status),
		OwnerID:          req.OwnerID,
	}, nil
}

func decodeVehicle(r *http.Request) (vehicles.VehicleInput, error) {
	var body vehicleRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return vehicles.VehicleInput{}, err
	}
	return body.toInput()
}

func CreateVehicle(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable"))
			return
		}
		input, err := decodeVehicle(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

// UpdateVehicle replaces every writable field; the plate and year rules run again.
func UpdateVehicle(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable"))
			return
		}
		vehicleID, err := validators.URLParamUUID(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := decodeVehicle(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Update(r.Context(), vehicleID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

func GetVehicle(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicles service unavailable"))
			return
		}
		vehicleID, err := validators.URLParamUUID(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Get(r.Context(), vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}
