package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSession(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := CartSession(false)(next)

	t.Run("Issues New Session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookie, cookies[0].Name)
		assert.Equal(t, seen, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, seen, w.Header().Get(SessionHeader))
	})

	t.Run("Reuses Cookie", func(t *testing.T) {
		sid := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, sid, seen)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Header Wins Over Cookie", func(t *testing.T) {
		fromHeader := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(SessionHeader, fromHeader)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: uuid.NewString()})

		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, fromHeader, seen)
	})

	t.Run("Rejects Malformed Id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(SessionHeader, "cart:../../etc")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEqual(t, "cart:../../etc", seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})
}
