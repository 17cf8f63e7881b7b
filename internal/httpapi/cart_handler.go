package httpapi

import (
	"errors"
	"net/http"

	"potosi-be/internal/cart"
	"potosi-be/internal/checkout"
	"potosi-be/internal/listing"
	"potosi-be/internal/logger"
	"potosi-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type cartHandler struct {
	carts cart.Service
}

type cartResponse struct {
	SessionID string          `json:"sessionId"`
	Items     []cart.Item     `json:"items"`
	Count     int             `json:"count"`
	Totals    checkout.Totals `json:"totals"`
}

type addItemRequest struct {
	ListingID string `json:"listingId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{
		SessionID: c.SessionID,
		Items:     items,
		Count:     c.Count(),
		Totals:    checkout.CalculateTotals(items),
	}
}

func (h *cartHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), transport.SessionID(r))
	if err != nil {
		writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *cartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ListingID == "" {
		writeError(w, "listingId is required", http.StatusBadRequest)
		return
	}

	c, err := h.carts.Add(r.Context(), transport.SessionID(r), req.ListingID, req.Quantity)
	if err != nil {
		writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCartResponse(c))
}

func (h *cartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), transport.SessionID(r), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *cartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Remove(r.Context(), transport.SessionID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *cartHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), transport.SessionID(r)); err != nil {
		writeCartError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrMissingSessionID):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cart.ErrCartItemNotFound), errors.Is(err, listing.ErrListingNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, listing.ErrListingUnavailable):
		writeError(w, err.Error(), http.StatusConflict)
	default:
		logger.FromCtx(r.Context()).Error("cart request failed", zap.Error(err))
		writeError(w, "failed to update cart", http.StatusInternalServerError)
	}
}
