package httpapi

import (
	"errors"
	"net/http"

	"potosi-be/internal/auth"
	"potosi-be/internal/logger"
	"potosi-be/internal/order"
	"potosi-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type orderHandler struct {
	orders order.Service
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"), requesterFrom(r))
	switch {
	// someone else's order is reported as missing
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrUnauthorized):
		writeError(w, order.ErrOrderNotFound.Error(), http.StatusNotFound)
	case err != nil:
		logger.FromCtx(r.Context()).Error("order lookup failed", zap.Error(err))
		writeError(w, "failed to load order", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, o)
	}
}

func requesterFrom(r *http.Request) order.Requester {
	return order.Requester{
		UserID:    auth.UserIDFrom(r.Context()),
		SessionID: transport.SessionID(r),
	}
}
