package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kiranahq/backend-kirana/internal/common"
)

// Handler exposes customer-facing delivery endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// QuoteRequest is the payload for POST /delivery/quote.
type QuoteRequest struct {
	CartID          string   `json:"cartId" validate:"required,uuid4"`
	Latitude        *float64 `json:"latitude" validate:"required"`
	Longitude       *float64 `json:"longitude" validate:"required"`
	AllowMultiStore bool     `json:"allowMultiStore"`
}

// Quote computes a delivery quote for a cart at the given coordinates.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "delivery service not configured", nil)
		return
	}
	var payload QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
	}
	res, err := h.Svc.QuoteCart(r.Context(), payload.CartID, payload.Latitude, payload.Longitude, payload.AllowMultiStore)
	if err != nil {
		WriteQuoteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, res)
}

// SettingsResponse is the payload for GET /user/delivery-settings.
type SettingsResponse struct {
	PricePerKm            float64         `json:"pricePerKm"`
	BaseCharge            float64         `json:"baseCharge"`
	FreeDeliveryThreshold float64         `json:"freeDeliveryThreshold"`
	StoreLocations        []StoreLocation `json:"storeLocations"`
}

// Settings returns the delivery pricing configuration together with the
// store locations so the storefront can run its own preview calculation.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "delivery service not configured", nil)
		return
	}
	settings, err := h.Svc.EffectiveSettings(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	stores, err := h.Svc.Stores(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, SettingsResponse{
		PricePerKm:            settings.PricePerKm,
		BaseCharge:            settings.BaseCharge,
		FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
		StoreLocations:        stores,
	})
}

// WriteQuoteError maps quote sentinel errors to their HTTP representations.
// Checkout reuses it since it recomputes the same quote server-side.
func WriteQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoDeliverableStore):
		common.JSONError(w, http.StatusUnprocessableEntity, "NO_DELIVERABLE_STORE", "no active store can deliver this order", nil)
	case errors.Is(err, ErrMultiStoreDeclined):
		common.JSONError(w, http.StatusConflict, "MULTI_STORE_CONFIRMATION_REQUIRED", "order requires delivery from two stores; confirm the extra charge to proceed", nil)
	case errors.Is(err, ErrUnresolvableAllocation):
		common.JSONError(w, http.StatusUnprocessableEntity, "UNRESOLVABLE_ALLOCATION", "cannot fulfill all items from available stores", nil)
	case errors.Is(err, ErrMissingCoordinates):
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "latitude and longitude are required", nil)
	default:
		common.WriteError(w, err)
	}
}
