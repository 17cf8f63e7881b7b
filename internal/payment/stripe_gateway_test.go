package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestGateway() *stripeGateway {
	return NewStripeGateway(StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		SuccessURL:    "http://localhost:3000/checkout/success",
		CancelURL:     "http://localhost:3000/checkout",
	}).(*stripeGateway)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	params := CheckoutSessionParams{
		OrderID:       "ord-1",
		CustomerEmail: "ana@example.com",
		LineItems: []LineItem{
			{Name: "Queso de tuna", UnitAmount: 10000, Quantity: 2},
			{Name: "Envío", UnitAmount: 1000, Quantity: 1},
		},
	}

	t.Run("Success", func(t *testing.T) {
		gw := newTestGateway()
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://api.stripe.com/v1/checkout/sessions", req.URL.String())
			assert.Equal(t, "Bearer sk_test_123", req.Header.Get("Authorization"))
			assert.Equal(t, "checkout-ord-1", req.Header.Get("Idempotency-Key"))

			body, _ := io.ReadAll(req.Body)
			form, err := url.ParseQuery(string(body))
			require.NoError(t, err)
			assert.Equal(t, "payment", form.Get("mode"))
			assert.Equal(t, "ord-1", form.Get("client_reference_id"))
			assert.Equal(t, "ana@example.com", form.Get("customer_email"))
			assert.Equal(t, "mxn", form.Get("line_items[0][price_data][currency]"))
			assert.Equal(t, "10000", form.Get("line_items[0][price_data][unit_amount]"))
			assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
			assert.Equal(t, "Envío", form.Get("line_items[1][price_data][product_data][name]"))

			return jsonResponse(http.StatusOK, `{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`)
		})

		sess, err := gw.CreateCheckoutSession(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_1", sess.ID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)
	})

	t.Run("ProviderError", func(t *testing.T) {
		gw := newTestGateway()
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"Invalid currency"}}`)
		})

		_, err := gw.CreateCheckoutSession(context.Background(), params)
		assert.EqualError(t, err, "stripe error (400): Invalid currency")
	})

	t.Run("NetworkError", func(t *testing.T) {
		gw := newTestGateway()
		gw.httpClient.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		_, err := gw.CreateCheckoutSession(context.Background(), params)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("BadJSON", func(t *testing.T) {
		gw := newTestGateway()
		gw.httpClient.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{not json`)
		})

		_, err := gw.CreateCheckoutSession(context.Background(), params)
		assert.Error(t, err)
	})

	t.Run("MissingSecretKey", func(t *testing.T) {
		gw := NewStripeGateway(StripeConfig{}).(*stripeGateway)
		_, err := gw.CreateCheckoutSession(context.Background(), params)
		assert.ErrorIs(t, err, ErrMissingSecretKey)
	})
}

func TestStripeGateway_VerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Unix(1_700_000_000, 0)

	gw := newTestGateway()
	gw.now = func() time.Time { return now }

	header := func(ts int64, sig string) string {
		return fmt.Sprintf("t=%d,v1=%s", ts, sig)
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"Valid", header(now.Unix(), ComputeSignature("whsec_test", now.Unix(), payload)), nil},
		{"ValidAmongSeveral", fmt.Sprintf("t=%d,v1=deadbeef,v1=%s,v0=old", now.Unix(), ComputeSignature("whsec_test", now.Unix(), payload)), nil},
		{"WrongSecret", header(now.Unix(), ComputeSignature("other", now.Unix(), payload)), ErrInvalidSignature},
		{"Expired", header(now.Add(-10*time.Minute).Unix(), ComputeSignature("whsec_test", now.Add(-10*time.Minute).Unix(), payload)), ErrSignatureExpired},
		{"Missing", "", ErrMissingSignature},
		{"NoTimestamp", "v1=abc", ErrInvalidSignature},
		{"BadTimestamp", "t=abc,v1=abc", ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gw.VerifySignature(tt.header, payload)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("TamperedBody", func(t *testing.T) {
		h := header(now.Unix(), ComputeSignature("whsec_test", now.Unix(), payload))
		assert.ErrorIs(t, gw.VerifySignature(h, []byte(`{"id":"evt_2"}`)), ErrInvalidSignature)
	})

	t.Run("NoWebhookSecret", func(t *testing.T) {
		noSecret := NewStripeGateway(StripeConfig{SecretKey: "sk"}).(*stripeGateway)
		assert.ErrorIs(t, noSecret.VerifySignature("t=1,v1=a", payload), ErrMissingWebhookSecret)
	})
}

func TestParseEvent(t *testing.T) {
	t.Run("ClientReference", func(t *testing.T) {
		e, err := ParseEvent([]byte(`{
			"id": "evt_1",
			"type": "checkout.session.completed",
			"data": {"object": {"id": "cs_1", "client_reference_id": "ord-1", "payment_status": "paid"}}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "evt_1", e.ID)
		assert.Equal(t, "checkout.session.completed", e.Type)
		assert.Equal(t, "cs_1", e.SessionID)
		assert.Equal(t, "ord-1", e.OrderID)
		assert.Equal(t, "paid", e.PaymentStatus)
	})

	t.Run("MetadataFallback", func(t *testing.T) {
		e, err := ParseEvent([]byte(`{"id":"evt_2","type":"checkout.session.expired","data":{"object":{"id":"cs_2","metadata":{"order_id":"ord-2"}}}}`))
		require.NoError(t, err)
		assert.Equal(t, "ord-2", e.OrderID)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseEvent([]byte(`nope`))
		assert.ErrorIs(t, err, ErrInvalidEvent)

		_, err = ParseEvent([]byte(`{"type":"x"}`))
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})
}
