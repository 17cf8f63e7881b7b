package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"potosi-be/internal/logger"
	"potosi-be/internal/order"
	"potosi-be/internal/payment"

	"go.uber.org/zap"
)

const (
	SignatureHeader = "Stripe-Signature"
	maxBodyBytes    = 64 << 10

	eventSessionCompleted      = "checkout.session.completed"
	eventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	eventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
	eventSessionExpired        = "checkout.session.expired"
)

type OrderFinalizer interface {
	MarkPaid(ctx context.Context, orderID string) (*order.Order, error)
	MarkCanceled(ctx context.Context, orderID string) error
}

type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type Verifier interface {
	VerifySignature(header string, payload []byte) error
}

type Handler struct {
	orders   OrderFinalizer
	carts    CartClearer
	verifier Verifier
	events   payment.Repository
}

func NewWebhookHandler(orders OrderFinalizer, carts CartClearer, verifier Verifier, events payment.Repository) *Handler {
	return &Handler{
		orders:   orders,
		carts:    carts,
		verifier: verifier,
		events:   events,
	}
}

// PaymentWebhookHandler finalizes card orders from provider events. A 5xx
// response makes the provider redeliver the event.
func (h *Handler) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("layer", "webhook"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.verifier.VerifySignature(r.Header.Get(SignatureHeader), body); err != nil {
		log.Warn("webhook signature rejected", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := payment.ParseEvent(body)
	if err != nil {
		log.Warn("invalid webhook payload", zap.Error(err))
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("order_id", event.OrderID),
	)

	webhookID, processed, err := h.events.SaveWebhook(ctx, payment.ProviderStripe, event)
	if err != nil {
		log.Error("failed to record webhook", zap.Error(err))
		http.Error(w, "failed to record webhook", http.StatusInternalServerError)
		return
	}
	if processed {
		log.Info("webhook already processed")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.apply(ctx, event); err != nil {
		log.Error("failed to apply webhook", zap.Error(err))
		if mErr := h.events.MarkWebhookFailed(ctx, webhookID, err.Error()); mErr != nil {
			log.Error("failed to mark webhook failed", zap.Error(mErr))
		}
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	if err := h.events.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
	}

	log.Info("webhook processed")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) apply(ctx context.Context, event *payment.WebhookEvent) error {
	log := logger.FromCtx(ctx).With(zap.String("order_id", event.OrderID))

	if event.OrderID == "" {
		log.Warn("event carries no order reference, ignoring", zap.String("event_type", event.Type))
		return nil
	}
	if !order.ValidID(event.OrderID) {
		log.Warn("event carries a malformed order reference, ignoring", zap.String("event_type", event.Type))
		return nil
	}

	switch event.Type {
	case eventSessionCompleted:
		// delayed methods complete unpaid and settle with a later event
		if event.PaymentStatus != "paid" {
			log.Info("session completed without payment, waiting", zap.String("payment_status", event.PaymentStatus))
			return nil
		}
		return h.markPaid(ctx, event.OrderID)

	case eventAsyncPaymentSucceeded:
		return h.markPaid(ctx, event.OrderID)

	case eventSessionExpired, eventAsyncPaymentFailed:
		err := h.orders.MarkCanceled(ctx, event.OrderID)
		if errors.Is(err, order.ErrOrderNotPending) || errors.Is(err, order.ErrOrderNotFound) {
			return nil
		}
		return err

	default:
		return nil
	}
}

// markPaid also empties the cart the order came from, which the card path
// leaves untouched at submit time.
func (h *Handler) markPaid(ctx context.Context, orderID string) error {
	o, err := h.orders.MarkPaid(ctx, orderID)
	if errors.Is(err, order.ErrOrderNotPending) || errors.Is(err, order.ErrOrderNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if o.CartSessionID != "" {
		if err := h.carts.Clear(ctx, o.CartSessionID); err != nil {
			logger.FromCtx(ctx).Error("failed to clear cart after payment",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}
	return nil
}
