package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazetaller/taller-backend/internal/quotations"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/dbtest"
	"github.com/blazetaller/taller-backend/pkg/logger"
)

type quotationEnvelope struct {
	Data quotations.QuotationDTO `json:"data"`
}

func withParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeQuotation(t *testing.T, rec *httptest.ResponseRecorder) quotations.QuotationDTO {
	t.Helper()
	var envelope quotationEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func TestQuotationHandlersKeepTotalInSync(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := quotations.NewService(quotations.ServiceParams{
		Repo: quotations.NewRepository(conn),
		Tx:   db.Wrap(conn),
	})
	require.NoError(t, err)
	logg := logger.Nop()

	owner := dbtest.Owner(t, conn, "12345678-9")
	vehicle := dbtest.Vehicle(t, conn, owner.ID, "AB1234")
	oil := dbtest.Service(t, conn, "Cambio de aceite", "100.00")

	rec := httptest.NewRecorder()
	body := `{"vehicle_id":"` + vehicle.ID.String() + `"}`
	CreateQuotation(svc, logg)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeQuotation(t, rec)
	assert.Equal(t, "0.00", created.EstimatedTotal)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"service_id":"`+oil.ID.String()+`","cost":"150.50"}`))
	AddQuotationItem(svc, logg)(rec, withParams(req, map[string]string{"quotationId": created.ID.String()}))
	require.Equal(t, http.StatusCreated, rec.Code)
	withItem := decodeQuotation(t, rec)
	assert.Equal(t, "150.50", withItem.EstimatedTotal)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	DeleteQuotationItem(svc, logg)(rec, withParams(req, map[string]string{
		"quotationId": created.ID.String(),
		"itemId":      withItem.Items[0].ID.String(),
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.00", decodeQuotation(t, rec).EstimatedTotal)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"decision":"Aceptada"}`))
	DecideQuotation(svc, logg)(rec, withParams(req, map[string]string{"quotationId": created.ID.String()}))
	require.Equal(t, http.StatusOK, rec.Code)
	decided := decodeQuotation(t, rec)
	require.NotNil(t, decided.FinalTotal)
	assert.Equal(t, "0.00", *decided.FinalTotal)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"service_id":"`+oil.ID.String()+`"}`))
	AddQuotationItem(svc, logg)(rec, withParams(req, map[string]string{"quotationId": created.ID.String()}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuotationHandlersRejectBadInput(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := quotations.NewService(quotations.ServiceParams{
		Repo: quotations.NewRepository(conn),
		Tx:   db.Wrap(conn),
	})
	require.NoError(t, err)
	logg := logger.Nop()

	rec := httptest.NewRecorder()
	GetQuotation(svc, logg)(rec, withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"quotationId": "nope"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	GetQuotation(svc, logg)(rec, withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"quotationId": uuid.NewString()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"decision":"Quizás"}`))
	DecideQuotation(svc, logg)(rec, withParams(req, map[string]string{"quotationId": uuid.NewString()}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	CreateQuotation(nil, logg)(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
