package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

type sampleBody struct {
	Email string    `json:"email" validate:"required,email"`
	Owner uuid.UUID `json:"owner_id" validate:"required"`
	Kind  string    `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","kind":"c"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "is required", details["owner_id"])
	assert.Equal(t, "must be one of [a b]", details["kind"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"surprise":true}`))
	var body sampleBody
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &body), pkgerrors.CodeValidation))
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("vehicleId", id.String())
	routeCtx.URLParams.Add("itemId", "not-a-uuid")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	got, err := URLParamUUID(req, "vehicleId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = URLParamUUID(req, "itemId")
	require.Error(t, err)
	assert.Equal(t, "InvalidID", pkgerrors.As(err).Reason())
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err := ParseQueryInt(req, "limit", 25, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "OutOfRange", pkgerrors.As(err).Reason())

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	_, err = ParseQueryInt(req, "limit", 25, 1, 100)
	assert.Equal(t, "NotNumeric", pkgerrors.As(err).Reason())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":     ``,
		"truncated": `{"email":`,
		"syntax":    `{"email" "x"}`,
		"trailing":  `{"email":"a@b.cl","owner_id":"` + uuid.NewString() + `"} {}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			var body sampleBody
			assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &body), pkgerrors.CodeValidation))
		})
	}
}

func TestDecodeJSONBodyReportsWrongType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":42}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.Equal(t, "InvalidType", pkgerrors.As(err).Reason())
}
