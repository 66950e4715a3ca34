package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiranahq/backend-kirana/internal/common"
)

// Handler exposes customer-facing order endpoints.
type Handler struct {
	Repo           *Repo
	DefaultPerPage int
	MaxPerPage     int
}

type orderPayload struct {
	ID            string          `json:"id"`
	Status        Status          `json:"status"`
	Currency      string          `json:"currency"`
	Subtotal      int64           `json:"subtotal"`
	ShippingPrice int64           `json:"shippingPrice"`
	DistanceKm    float64         `json:"distanceKm"`
	NearestStore  string          `json:"nearestStore"`
	Stores        []string        `json:"stores"`
	Total         int64           `json:"total"`
	Address       json.RawMessage `json:"address,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	Items         []itemPayload   `json:"items,omitempty"`
}

type itemPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Qty       int32  `json:"qty"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

func toPayload(o Order) orderPayload {
	return orderPayload{
		ID:            o.ID.String(),
		Status:        o.Status,
		Currency:      o.Currency,
		Subtotal:      o.Subtotal,
		ShippingPrice: o.ShippingPrice,
		DistanceKm:    o.DistanceKm,
		NearestStore:  o.NearestStore,
		Stores:        o.Stores,
		Total:         o.Total,
		Address:       o.Address,
		CreatedAt:     o.CreatedAt,
	}
}

// List handles GET /api/v1/orders for the authenticated user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, h.DefaultPerPage, h.MaxPerPage)
	total, err := h.Repo.CountByUser(r.Context(), userID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to count orders", nil)
		return
	}
	orders, err := h.Repo.ListByUser(r.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list orders", nil)
		return
	}
	payloads := make([]orderPayload, 0, len(orders))
	for _, o := range orders {
		payloads = append(payloads, toPayload(o))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       payloads,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// Get handles GET /api/v1/orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	o, ok := h.loadOwned(w, r, userID)
	if !ok {
		return
	}
	items, err := h.Repo.ListItems(r.Context(), o.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load order items", nil)
		return
	}
	payload := toPayload(o)
	payload.Items = make([]itemPayload, 0, len(items))
	for _, it := range items {
		payload.Items = append(payload.Items, itemPayload{
			ID:        it.ID.String(),
			ProductID: it.ProductID.String(),
			Title:     it.Title,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	common.JSONData(w, http.StatusOK, payload)
}

// Cancel handles POST /api/v1/orders/{id}/cancel. Only orders still in the
// placed state can be cancelled by the customer.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	o, ok := h.loadOwned(w, r, userID)
	if !ok {
		return
	}
	if o.Status != StatusPlaced {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "only placed orders can be cancelled", nil)
		return
	}
	updated, err := h.Repo.UpdateStatusIf(r.Context(), o.ID, StatusPlaced, StatusCancelled)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to cancel order", nil)
		return
	}
	if !updated {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "order already progressed", nil)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{"id": o.ID.String(), "status": StatusCancelled})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "invalid user identity", nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (Order, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid order id", nil)
		return Order{}, false
	}
	o, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "order not found", nil)
			return Order{}, false
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load order", nil)
		return Order{}, false
	}
	if o.UserID != userID {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "order not found", nil)
		return Order{}, false
	}
	return o, true
}
