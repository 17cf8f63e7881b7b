package httpapi

import (
	"errors"
	"net/http"

	"potosi-be/internal/auth"
	"potosi-be/internal/checkout"
	"potosi-be/internal/logger"
	"potosi-be/internal/order"
	"potosi-be/internal/payment"
	"potosi-be/internal/transport"

	"go.uber.org/zap"
)

type checkoutHandler struct {
	checkout checkout.Service
	sessions payment.SessionCreator
	orders   order.Service
}

func (h *checkoutHandler) prefill(w http.ResponseWriter, r *http.Request) {
	form := h.checkout.Prefill(r.Context(), auth.UserIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, form)
}

func (h *checkoutHandler) submit(w http.ResponseWriter, r *http.Request) {
	var form checkout.FormState
	if !decodeJSON(w, r, &form) {
		return
	}

	att, err := h.checkout.Submit(r.Context(), checkout.SubmitInput{
		SessionID: transport.SessionID(r),
		UserID:    auth.UserIDFrom(r.Context()),
		Form:      form,
		Lang:      checkout.LangFromHeader(r.Header.Get("Accept-Language")),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSubmissionInProgress):
			writeError(w, err.Error(), http.StatusConflict)
		default:
			logger.FromCtx(r.Context()).Error("checkout submit failed", zap.Error(err))
			writeError(w, "checkout is temporarily unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	writeJSON(w, attemptStatus(att), att)
}

func attemptStatus(att *checkout.Attempt) int {
	switch att.ErrorKind {
	case checkout.ErrorKindValidation:
		return http.StatusUnprocessableEntity
	case checkout.ErrorKindPayment:
		return http.StatusBadGateway
	case checkout.ErrorKindPersistence, checkout.ErrorKindUnexpected:
		return http.StatusInternalServerError
	}
	if att.State == checkout.StateCompleted {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *checkoutHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req payment.SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// the stored customer email ends up on the hosted page, so only the
	// order's owner may open one
	if req.OrderID != "" {
		_, err := h.orders.GetOrder(r.Context(), req.OrderID, requesterFrom(r))
		switch {
		case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrUnauthorized):
			writeError(w, order.ErrOrderNotFound.Error(), http.StatusNotFound)
			return
		case err != nil:
			logger.FromCtx(r.Context()).Error("order lookup failed", zap.Error(err))
			writeError(w, "failed to load order", http.StatusInternalServerError)
			return
		}
	}

	sess, err := h.sessions.CreateSession(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSessionRequest):
			writeError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, order.ErrOrderNotFound):
			writeError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, payment.ErrOrderNotPayable):
			writeError(w, err.Error(), http.StatusConflict)
		default:
			logger.FromCtx(r.Context()).Error("create session failed", zap.Error(err))
			writeError(w, "failed to create payment session", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (h *checkoutHandler) confirmation(w http.ResponseWriter, r *http.Request) {
	c, err := h.checkout.Confirmation(r.Context(), transport.SessionID(r))
	switch {
	case errors.Is(err, checkout.ErrConfirmationNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case err != nil:
		logger.FromCtx(r.Context()).Error("confirmation lookup failed", zap.Error(err))
		writeError(w, "failed to load confirmation", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, c)
	}
}
