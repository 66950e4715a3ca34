package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kiranahq/backend-kirana/internal/common"
)

type storeWriter interface {
	CreateStore(ctx context.Context, s StoreLocation) error
	UpdateStore(ctx context.Context, name string, s StoreLocation) (bool, error)
	DeleteStore(ctx context.Context, name string) (bool, error)
	ListStores(ctx context.Context) ([]StoreLocation, error)
	UpsertSettings(ctx context.Context, s Settings) error
}

// AdminHandler exposes back-office endpoints for store locations and
// delivery settings. Writes invalidate the quote cache.
type AdminHandler struct {
	Repo     storeWriter
	Cache    Cache
	Validate *validator.Validate
}

// StoreInput is the payload for creating or updating a store location.
type StoreInput struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	IsActive  bool     `json:"isActive"`
}

// SettingsInput is the payload for updating delivery settings.
type SettingsInput struct {
	PricePerKm            *float64 `json:"pricePerKm" validate:"required,gte=0"`
	BaseCharge            *float64 `json:"baseCharge" validate:"required,gte=0"`
	FreeDeliveryThreshold float64  `json:"freeDeliveryThreshold" validate:"gte=0"`
}

// ListStores returns every store for the back office, including inactive ones.
func (h *AdminHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Repo.ListStores(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, stores)
}

// CreateStore registers a new store location.
func (h *AdminHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeStore(w, r)
	if !ok {
		return
	}
	store := StoreLocation{Name: input.Name, Latitude: *input.Latitude, Longitude: *input.Longitude, IsActive: input.IsActive}
	if err := h.Repo.CreateStore(r.Context(), store); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, common.CodeConflict, "store name already exists", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	h.Cache.Invalidate(r.Context())
	common.JSONData(w, http.StatusCreated, store)
}

// UpdateStore updates a store identified by its name.
func (h *AdminHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	input, ok := h.decodeStore(w, r)
	if !ok {
		return
	}
	store := StoreLocation{Name: input.Name, Latitude: *input.Latitude, Longitude: *input.Longitude, IsActive: input.IsActive}
	updated, err := h.Repo.UpdateStore(r.Context(), name, store)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if !updated {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "store not found", nil)
		return
	}
	h.Cache.Invalidate(r.Context())
	common.JSONData(w, http.StatusOK, store)
}

// DeleteStore removes a store identified by its name.
func (h *AdminHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	deleted, err := h.Repo.DeleteStore(r.Context(), name)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if !deleted {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "store not found", nil)
		return
	}
	h.Cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings saves the delivery pricing configuration.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(input); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
	}
	settings := Settings{
		PricePerKm:            *input.PricePerKm,
		BaseCharge:            *input.BaseCharge,
		FreeDeliveryThreshold: input.FreeDeliveryThreshold,
	}
	if err := h.Repo.UpsertSettings(r.Context(), settings); err != nil {
		common.WriteError(w, err)
		return
	}
	h.Cache.Invalidate(r.Context())
	common.JSONData(w, http.StatusOK, settings)
}

func (h *AdminHandler) decodeStore(w http.ResponseWriter, r *http.Request) (StoreInput, bool) {
	var input StoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return StoreInput{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(input); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return StoreInput{}, false
		}
	}
	return input, true
}
