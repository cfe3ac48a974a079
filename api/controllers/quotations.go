package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blazetaller/taller-backend/api/responses"
	"github.com/blazetaller/taller-backend/api/validators"
	"github.com/blazetaller/taller-backend/internal/quotations"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
)

type createQuotationRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id" validate:"required"`
	Description *string   `json:"description"`
}

type addItemRequest struct {
	ServiceID uuid.UUID        `json:"service_id" validate:"required"`
	Cost      *decimal.Decimal `json:"cost"`
}

type updateItemRequest struct {
	Cost decimal.Decimal `json:"cost"`
}

type decisionRequest struct {
	Decision   string           `json:"decision" validate:"required,oneof=Aceptada Rechazada"`
	FinalTotal *decimal.Decimal `json:"final_total"`
}

func quotationsUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotations service unavailable"))
}

func CreateQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quotationsUnavailable(w, r, logg)
			return
		}

		var body createQuotationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body.VehicleID, body.Description)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func GetQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quotationsUnavailable(w, r, logg)
			return
		}
		quotationID, err := validators.URLParamUUID(r, "quotationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Get(r.Context(), quotationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotation)
	}
}

// AddQuotationItem prices a catalog service into the quotation. Without a
// cost the current catalog price is used.
func AddQuotationItem(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quotationsUnavailable(w, r, logg)
			return
		}
		quotationID, err := validators.URLParamUUID(r, "quotationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithQuotationID(r.Context(), quotationID.String())
		quotation, err := svc.AddLineItem(ctx, quotationID, body.ServiceID, body.Cost)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quotation)
	}
}

func UpdateQuotationItem(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quotationsUnavailable(w, r, logg)
			return
		}
		quotationID, err := validators.URLParamUUID(r, "quotationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.URLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.UpdateLineItemCost(r.Context(), quotationID, itemID, body.Cost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotation)
	}
}

func DeleteQuotationItem(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quotationsUnavailable(w, r, logg)
			return
		}
		quotationID, err := validators.URLParamUUID(r, "quotationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.URLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithQuotationID(r.Context(), quotationID.String())
		quotation, err := svc.DeleteLineItem(ctx, quotationID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotation)
	}
}

func DecideQuotation(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			quotationsUnavailable(w, r, logg)
			return
		}
		quotationID, err := validators.URLParamUUID(r, "quotationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body decisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quotation, err := svc.Decide(r.Context(), quotationID, enums.QuotationStatus(body.Decision), body.FinalTotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotation)
	}
}
