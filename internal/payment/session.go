package payment

import (
	"context"
	"fmt"

	"potosi-be/internal/logger"
	"potosi-be/internal/metrics"
	"potosi-be/internal/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderReader interface {
	GetByID(ctx context.Context, orderID string) (*order.Order, error)
}

// SessionService creates hosted checkout sessions in-process. Amounts are
// taken from the stored order, never from the request.
type SessionService struct {
	gateway Gateway
	orders  OrderReader
	metrics *metrics.Metrics
}

func NewSessionService(gateway Gateway, orders OrderReader, m *metrics.Metrics) *SessionService {
	return &SessionService{gateway: gateway, orders: orders, metrics: m}
}

func (s *SessionService) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateSession"),
		zap.String("order_id", req.OrderID),
	)

	if req.OrderID == "" {
		return nil, ErrInvalidSessionRequest
	}

	o, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		log.Warn("order lookup failed", zap.Error(err))
		return nil, err
	}
	if o.Status != order.StatusPending {
		log.Warn("order is not pending", zap.String("status", string(o.Status)))
		return nil, ErrOrderNotPayable
	}

	email := req.CustomerEmail
	if email == "" {
		email = o.CustomerEmail
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		OrderID:       o.ID,
		CustomerEmail: email,
		Currency:      defaultCurrency,
		LineItems:     orderLineItems(o),
	})
	if err != nil {
		s.metrics.PaymentSession(metrics.ResultFailed)
		log.Error("gateway failed to create session", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSessionRequestFailed, err)
	}
	if sess.ID == "" {
		s.metrics.PaymentSession(metrics.ResultFailed)
		return nil, ErrMissingSessionID
	}

	s.metrics.PaymentSession(metrics.ResultCreated)
	log.Info("payment session created", zap.String("session_id", sess.ID))
	return sess, nil
}

// orderLineItems charges the stored item prices, then shipping and tax as
// their own lines so the hosted page total matches the order total.
func orderLineItems(o *order.Order) []LineItem {
	items := make([]LineItem, 0, len(o.Items)+2)
	for _, it := range o.Items {
		items = append(items, LineItem{
			Name:       it.Name,
			UnitAmount: minorUnits(it.Price),
			Quantity:   it.Quantity,
		})
	}
	if o.ShippingFee.IsPositive() {
		items = append(items, LineItem{Name: "Envío", UnitAmount: minorUnits(o.ShippingFee), Quantity: 1})
	}
	if o.Tax.IsPositive() {
		items = append(items, LineItem{Name: "IVA (16%)", UnitAmount: minorUnits(o.Tax), Quantity: 1})
	}
	return items
}

func minorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
