package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

const (
	stripeBaseURL      = "https://api.stripe.com"
	signatureTolerance = 5 * time.Minute
)

type stripeGateway struct {
	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string
	baseURL       string
	httpClient    *http.Client
	now           func() time.Time
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

func NewStripeGateway(cfg StripeConfig) Gateway {
	if cfg.SecretKey == "" {
		logger.L().Warn("stripe secret key is empty")
	}

	return &stripeGateway{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		baseURL:       stripeBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		now: time.Now,
	}
}

type stripeSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ----------------- Checkout Session -----------------

func (s *stripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", params.OrderID),
		zap.Int("line_items", len(params.LineItems)),
	)

	if s.secretKey == "" {
		return nil, ErrMissingSecretKey
	}

	currency := params.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", params.OrderID)
	form.Set("metadata[order_id]", params.OrderID)
	form.Set("success_url", s.successURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", s.cancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", "checkout-"+params.OrderID)

	log.Info("sending checkout session request to stripe")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("stripe request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var se stripeErrorResponse
		_ = json.Unmarshal(bodyBytes, &se)
		log.Error("stripe returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", se.Error.Type),
			zap.String("error_message", se.Error.Message),
		)
		return nil, fmt.Errorf("stripe error (%d): %s", resp.StatusCode, se.Error.Message)
	}

	var res stripeSessionResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("failed decoding stripe response", zap.Error(err))
		return nil, err
	}

	log.Info("stripe checkout session created", zap.String("session_id", res.ID))
	return &Session{ID: res.ID, URL: res.URL}, nil
}

// ----------------- Verify Signature -----------------

// VerifySignature checks a Stripe-Signature header ("t=<unix>,v1=<hex>")
// against the raw request body.
func (s *stripeGateway) VerifySignature(header string, payload []byte) error {
	if s.webhookSecret == "" {
		return ErrMissingWebhookSecret
	}
	if header == "" {
		return ErrMissingSignature
	}

	var (
		timestamp int64
		sigs      []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			sigs = append(sigs, value)
		}
	}
	if timestamp == 0 || len(sigs) == 0 {
		return ErrInvalidSignature
	}

	age := s.now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrSignatureExpired
	}

	expected := ComputeSignature(s.webhookSecret, timestamp, payload)
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// ComputeSignature returns the hex HMAC-SHA256 of "<timestamp>.<payload>".
func ComputeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ----------------- Events -----------------

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			ClientReferenceID string            `json:"client_reference_id"`
			PaymentStatus     string            `json:"payment_status"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent extracts the checkout session fields from a webhook body.
func ParseEvent(payload []byte) (*WebhookEvent, error) {
	var e stripeEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if e.ID == "" || e.Type == "" {
		return nil, ErrInvalidEvent
	}

	obj := e.Data.Object
	orderID := obj.ClientReferenceID
	if orderID == "" {
		orderID = obj.Metadata["order_id"]
	}

	return &WebhookEvent{
		ID:            e.ID,
		Type:          e.Type,
		SessionID:     obj.ID,
		OrderID:       orderID,
		PaymentStatus: obj.PaymentStatus,
		Payload:       json.RawMessage(payload),
	}, nil
}
