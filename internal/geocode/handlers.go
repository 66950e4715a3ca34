package geocode

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kiranahq/backend-kirana/internal/common"
	"github.com/kiranahq/backend-kirana/internal/obs"
)

// Handler proxies geocoding lookups for the storefront.
type Handler struct {
	Provider     Provider
	ProviderName string
}

// Forward handles GET /user/geocode?q=<address>.
func (h *Handler) Forward(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "query parameter q is required", nil)
		return
	}
	loc, err := h.Provider.Forward(r.Context(), query)
	h.record("forward", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, loc)
}

// Reverse handles GET /user/reverse-geocode?lat=&lon=.
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "lat and lon query parameters are required", nil)
		return
	}
	addr, err := h.Provider.Reverse(r.Context(), lat, lon)
	h.record("reverse", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, addr)
}

func (h *Handler) record(direction string, err error) {
	if obs.GeocodeLookupTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		if errors.Is(err, ErrNoResult) {
			result = "no_result"
		}
	}
	obs.GeocodeLookupTotal.WithLabelValues(h.ProviderName, direction, result).Inc()
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNoResult) {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "address could not be resolved", nil)
		return
	}
	common.JSONError(w, http.StatusBadGateway, "GEOCODER_UNAVAILABLE", "geocoding provider failed", nil)
}
