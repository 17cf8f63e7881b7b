package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"potosi-be/internal/cart"
	"potosi-be/internal/logger"
	"potosi-be/internal/metrics"
	"potosi-be/internal/order"
	"potosi-be/internal/payment"
	"potosi-be/internal/user"

	"go.uber.org/zap"
)

// Carts is the part of the cart service checkout needs.
type Carts interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Orders writes the order and its items in one transaction.
type Orders interface {
	WithTx(ctx context.Context, fn func(tx order.Tx) error) error
	SetPaymentSession(ctx context.Context, orderID, paymentSessionID string) error
}

type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, orderID string, items []cart.Item, customerEmail string) (*payment.Redirect, error)
}

type Profiles interface {
	GetCheckoutProfile(ctx context.Context, userID string) (*user.CheckoutProfile, error)
}

type SubmitInput struct {
	SessionID string
	UserID    *string
	Form      FormState
	Lang      Lang
}

// Attempt is the outcome of one submission. OrderID is only set when the
// order was committed and the attempt succeeded.
type Attempt struct {
	SessionID string            `json:"sessionId"`
	State     State             `json:"state"`
	Errors    map[string]string `json:"errors,omitempty"`
	ErrorKind ErrorKind         `json:"errorKind,omitempty"`
	Message   string            `json:"message,omitempty"`
	OrderID   string            `json:"orderId,omitempty"`
	Redirect  *payment.Redirect `json:"redirect,omitempty"`
	Totals    *Totals           `json:"totals,omitempty"`
}

func (a *Attempt) fail(kind ErrorKind, msg string) *Attempt {
	a.State = StateFailed
	a.ErrorKind = kind
	a.Message = msg
	a.OrderID = ""
	a.Redirect = nil
	return a
}

type Service interface {
	Submit(ctx context.Context, in SubmitInput) (*Attempt, error)
	Prefill(ctx context.Context, userID *string) FormState
	Confirmation(ctx context.Context, sessionID string) (*Confirmation, error)
}

type service struct {
	carts         Carts
	orders        Orders
	payments      PaymentProcessor
	profiles      Profiles
	confirmations ConfirmationStore
	locker        Locker
	metrics       *metrics.Metrics
	now           func() time.Time
}

type Deps struct {
	Carts         Carts
	Orders        Orders
	Payments      PaymentProcessor
	Profiles      Profiles
	Confirmations ConfirmationStore
	Locker        Locker
	Metrics       *metrics.Metrics
}

func NewService(d Deps) Service {
	return &service{
		carts:         d.Carts,
		orders:        d.Orders,
		payments:      d.Payments,
		profiles:      d.Profiles,
		confirmations: d.Confirmations,
		locker:        d.Locker,
		metrics:       d.Metrics,
		now:           time.Now,
	}
}

// Submit validates the form, writes the order, then either finishes a cash
// order or prepares the payment redirect for a card order. Every failure
// leaves the attempt in a state the buyer can resubmit from.
func (s *service) Submit(ctx context.Context, in SubmitInput) (att *Attempt, err error) {
	if in.SessionID == "" {
		return nil, cart.ErrMissingSessionID
	}
	if in.Lang != LangEN {
		in.Lang = LangES
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.String("payment_method", in.Form.PaymentMethod),
	)

	release, ok, err := s.locker.Acquire(ctx, in.SessionID)
	if err != nil {
		log.Error("failed to acquire checkout lock", zap.Error(err))
		return nil, err
	}
	if !ok {
		log.Warn("duplicate checkout submission rejected")
		return nil, ErrSubmissionInProgress
	}
	defer release()

	start := s.now()
	att = &Attempt{SessionID: in.SessionID, State: StateIdle}

	defer func() {
		if r := recover(); r != nil {
			log.Error("checkout panicked",
				zap.Any("panic", r),
				zap.String("state", string(att.State)),
				zap.Stack("stack"),
			)
			att.fail(ErrorKindUnexpected, messages.orderFailed[in.Lang])
			err = nil
		}
		s.metrics.ObserveCheckout(outcome(att), s.now().Sub(start))
	}()

	return s.submit(ctx, log, in, att), nil
}

func (s *service) submit(ctx context.Context, log *zap.Logger, in SubmitInput, att *Attempt) *Attempt {
	// Idle -> Validating
	att.State = StateValidating
	if res := ValidateLang(in.Form, in.Lang); !res.IsValid {
		log.Info("checkout form invalid", zap.Int("fields", len(res.Errors)))
		att.State = StateIdle
		att.ErrorKind = ErrorKindValidation
		att.Errors = res.Errors
		att.Message = messages.reviewFields[in.Lang]
		return att
	}

	c, err := s.carts.Get(ctx, in.SessionID)
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return att.fail(ErrorKindPersistence, messages.orderFailed[in.Lang])
	}
	if c.IsEmpty() {
		att.State = StateIdle
		att.ErrorKind = ErrorKindValidation
		att.Errors = map[string]string{"cart": messages.cartEmpty[in.Lang]}
		att.Message = messages.cartEmpty[in.Lang]
		return att
	}

	totals := CalculateTotals(c.Items)
	att.Totals = &totals

	method := order.PaymentMethod(in.Form.PaymentMethod)
	o := &order.Order{
		UserID:          in.UserID,
		CartSessionID:   in.SessionID,
		Status:          order.StatusPending,
		PaymentMethod:   method,
		CustomerName:    in.Form.Name,
		CustomerEmail:   in.Form.Email,
		ShippingAddress: in.Form.ShippingAddress(),
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.ShippingFee,
		Tax:             totals.Tax,
		Total:           totals.Total,
	}

	err = s.orders.WithTx(ctx, func(tx order.Tx) error {
		att.State = StateCreatingOrder
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}

		att.State = StateCreatingOrderItems
		return tx.InsertOrderItems(ctx, o.ID, orderItems(c.Items))
	})
	if err != nil {
		// the transaction rolled back, so the order id would point at nothing
		log.Error("failed to persist order",
			zap.String("state", string(att.State)),
			zap.Error(err),
		)
		return att.fail(ErrorKindPersistence, messages.orderFailed[in.Lang])
	}

	log = log.With(zap.String("order_id", o.ID))
	log.Info("order created", zap.String("total", o.Total.StringFixed(2)))

	switch method {
	case order.PaymentMethodCash:
		return s.completeCash(ctx, log, in, att, o)
	default:
		return s.redirectToPayment(ctx, log, in, att, o, c.Items)
	}
}

func (s *service) completeCash(ctx context.Context, log *zap.Logger, in SubmitInput, att *Attempt, o *order.Order) *Attempt {
	if err := s.carts.Clear(ctx, in.SessionID); err != nil {
		log.Error("failed to clear cart after cash order", zap.Error(err))
	}

	conf := Confirmation{OrderID: o.ID, Total: o.Total, CreatedAt: o.CreatedAt}
	if conf.CreatedAt.IsZero() {
		conf.CreatedAt = s.now()
	}
	if err := s.confirmations.Save(ctx, in.SessionID, conf); err != nil {
		log.Error("failed to store confirmation", zap.Error(err))
	}

	att.State = StateCompleted
	att.OrderID = o.ID
	log.Info("cash checkout completed")
	return att
}

func (s *service) redirectToPayment(ctx context.Context, log *zap.Logger, in SubmitInput, att *Attempt, o *order.Order, items []cart.Item) *Attempt {
	att.State = StateRedirectingToPayment

	redirect, err := s.payments.ProcessPayment(ctx, o.ID, items, o.CustomerEmail)
	if err != nil {
		log.Error("payment redirect failed", zap.Error(err))
		return att.fail(ErrorKindPayment, messages.paymentFailed[in.Lang])
	}

	if err := s.orders.SetPaymentSession(ctx, o.ID, redirect.SessionID); err != nil {
		log.Warn("failed to store payment session on order", zap.Error(err))
	}

	att.OrderID = o.ID
	att.Redirect = redirect
	log.Info("redirecting to payment", zap.String("session_id", redirect.SessionID))
	return att
}

func orderItems(items []cart.Item) []order.Item {
	out := make([]order.Item, 0, len(items))
	for _, it := range items {
		out = append(out, order.Item{
			ListingID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}
	return out
}

// Prefill falls back to an empty form when the user has no stored profile.
func (s *service) Prefill(ctx context.Context, userID *string) FormState {
	if userID == nil {
		return Prefill(nil)
	}

	p, err := s.profiles.GetCheckoutProfile(ctx, *userID)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			logger.FromCtx(ctx).Warn("failed to load checkout profile", zap.Error(err))
		}
		return Prefill(nil)
	}
	return Prefill(p)
}

func (s *service) Confirmation(ctx context.Context, sessionID string) (*Confirmation, error) {
	if sessionID == "" {
		return nil, cart.ErrMissingSessionID
	}
	c, err := s.confirmations.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrConfirmationNotFound) {
		return nil, fmt.Errorf("failed to load confirmation: %w", err)
	}
	return c, err
}

func outcome(a *Attempt) string {
	switch {
	case a.State == StateCompleted:
		return metrics.OutcomeCompleted
	case a.State == StateRedirectingToPayment:
		return metrics.OutcomeRedirected
	case a.ErrorKind == ErrorKindValidation:
		return metrics.OutcomeValidation
	case a.ErrorKind == ErrorKindPersistence:
		return metrics.OutcomePersistence
	case a.ErrorKind == ErrorKindPayment:
		return metrics.OutcomePayment
	default:
		return metrics.OutcomeUnexpected
	}
}
