package geocode

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardHandlerReturnsCoordinates(t *testing.T) {
	h := &Handler{Provider: Mock{}, ProviderName: "mock"}
	req := httptest.NewRequest(http.MethodGet, "/user/geocode?q=Koramangala+Bengaluru", nil)
	rec := httptest.NewRecorder()

	h.Forward(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data Location `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 12.9352, body.Data.Latitude, 1e-9)
	assert.InDelta(t, 77.6146, body.Data.Longitude, 1e-9)
}

func TestForwardHandlerMissingQuery(t *testing.T) {
	h := &Handler{Provider: Mock{}, ProviderName: "mock"}
	req := httptest.NewRequest(http.MethodGet, "/user/geocode", nil)
	rec := httptest.NewRecorder()

	h.Forward(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForwardHandlerNoResult(t *testing.T) {
	h := &Handler{Provider: Mock{}, ProviderName: "mock"}
	req := httptest.NewRequest(http.MethodGet, "/user/geocode?q=nowhere", nil)
	rec := httptest.NewRecorder()

	h.Forward(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReverseHandlerReturnsAddress(t *testing.T) {
	h := &Handler{Provider: Mock{}, ProviderName: "mock"}
	req := httptest.NewRequest(http.MethodGet, "/user/reverse-geocode?lat=12.9716&lon=77.5946", nil)
	rec := httptest.NewRecorder()

	h.Reverse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data Address `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bengaluru", body.Data.City)
	assert.NotEmpty(t, body.Data.PostalCode)
}

func TestReverseHandlerInvalidCoordinates(t *testing.T) {
	h := &Handler{Provider: Mock{}, ProviderName: "mock"}
	req := httptest.NewRequest(http.MethodGet, "/user/reverse-geocode?lat=abc", nil)
	rec := httptest.NewRecorder()

	h.Reverse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
