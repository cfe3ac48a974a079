package controllers

import (
	"net/http"

	"github.com/blazetaller/taller-backend/api/responses"
	"github.com/blazetaller/taller-backend/api/validators"
	"github.com/blazetaller/taller-backend/internal/owners"
	"github.com/blazetaller/taller-backend/internal/vehicles"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
)

func CreateOwner(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owners service unavailable"))
			return
		}

		var body owners.CreateOwnerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, owner)
	}
}

func GetOwner(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owners service unavailable"))
			return
		}
		ownerID, err := validators.URLParamUUID(r, "ownerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner, err := svc.Get(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, owner)
	}
}

// OwnerVehicles lists the vehicles registered to an owner.
func OwnerVehicles(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owners service unavailable"))
			return
		}
		ownerID, err := validators.URLParamUUID(r, "ownerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListVehicles(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]*vehicles.VehicleDTO, 0, len(rows))
		for i := range rows {
			out = append(out, vehicles.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func DeleteOwner(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owners service unavailable"))
			return
		}
		ownerID, err := validators.URLParamUUID(r, "ownerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), ownerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
