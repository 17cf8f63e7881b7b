package transport

import (
	"net/http"
	"time"

	"potosi-be/internal/logger"

	"github.com/google/uuid"
)

const (
	SessionCookie = "cart_session"
	SessionHeader = "X-Cart-Session"

	sessionMaxAge = 7 * 24 * time.Hour
)

// CartSession makes sure every request carries a cart session id. The header
// wins over the cookie so non-browser clients can pick their own session; a
// fresh id is issued as a cookie when neither is present.
func CartSession(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := SessionIDFromRequest(r)
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(SessionHeader, sid)
			ctx := logger.WithSessionID(r.Context(), sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromRequest reads the id the client sent, without generating one.
func SessionIDFromRequest(r *http.Request) string {
	if sid := r.Header.Get(SessionHeader); validSessionID(sid) {
		return sid
	}
	if c, err := r.Cookie(SessionCookie); err == nil && validSessionID(c.Value) {
		return c.Value
	}
	return ""
}

// SessionID is the cart session of the current request.
func SessionID(r *http.Request) string {
	return logger.SessionIDFrom(r.Context())
}

func validSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
