package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"potosi-be/internal/cart"
	"potosi-be/internal/logger"
	"potosi-be/internal/transport"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionClient_CreateSession(t *testing.T) {
	req := SessionRequest{
		OrderID:       "ord-1",
		Items:         []cart.Item{{ID: "lst-1", Name: "Queso de tuna", UnitPrice: decimal.NewFromInt(100), Quantity: 2}},
		CustomerEmail: "ana@example.com",
	}

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/checkout/create-session/", r.URL.Path)
			assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
			assert.Equal(t, "sess-7", r.Header.Get(transport.SessionHeader))

			var got SessionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "ord-1", got.OrderID)
			assert.Equal(t, "ana@example.com", got.CustomerEmail)
			require.Len(t, got.Items, 1)
			assert.Equal(t, 2, got.Items[0].Quantity)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sessionId":"cs_test_1"}`))
		}))
		defer srv.Close()

		client := NewSessionClient(srv.URL + "/api/checkout/create-session/")
		ctx := logger.WithRequestID(context.Background(), "req-42")
		ctx = logger.WithSessionID(ctx, "sess-7")

		sess, err := client.CreateSession(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_1", sess.ID)
	})

	t.Run("NoSessionID", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := NewSessionClient(srv.URL).CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrMissingSessionID)
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewSessionClient(srv.URL).CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrSessionRequestFailed)
		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("BadJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := NewSessionClient(srv.URL).CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrSessionRequestFailed)
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewSessionClient(url).CreateSession(context.Background(), req)
		assert.ErrorIs(t, err, ErrSessionRequestFailed)
	})
}
