package httpapi

import (
	"net/http"

	"potosi-be/internal/cart"
	"potosi-be/internal/checkout"
	"potosi-be/internal/listing"
	"potosi-be/internal/logger"
	"potosi-be/internal/metrics"
	"potosi-be/internal/middleware"
	"potosi-be/internal/order"
	"potosi-be/internal/payment"
	"potosi-be/internal/transport"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Listings listing.Service
	Carts    cart.Service
	Checkout checkout.Service
	Sessions payment.SessionCreator
	Orders   order.Service
	Webhook  http.HandlerFunc
	Metrics  *metrics.Metrics
	Limiter  *middleware.RateLimiter

	JWTSecret     string
	CORSOrigin    string
	SecureCookies bool
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS(d.CORSOrigin))

	r.Get("/health", health)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(d.JWTSecret))
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}

		// the provider calls this without a cart session
		r.Post("/webhooks/payment", d.Webhook)

		lh := &listingHandler{listings: d.Listings}
		r.Get("/listings", lh.search)
		r.Get("/listings/{id}", lh.get)

		r.Group(func(r chi.Router) {
			r.Use(transport.CartSession(d.SecureCookies))

			ch := &cartHandler{carts: d.Carts}
			r.Get("/cart", ch.get)
			r.Delete("/cart", ch.clear)
			r.Post("/cart/items", ch.addItem)
			r.Patch("/cart/items/{id}", ch.updateItem)
			r.Delete("/cart/items/{id}", ch.removeItem)

			co := &checkoutHandler{checkout: d.Checkout, sessions: d.Sessions, orders: d.Orders}
			r.Get("/checkout/prefill", co.prefill)
			r.Post("/checkout/", co.submit)
			r.Post("/checkout/create-session/", co.createSession)
			r.Get("/checkout/confirmation", co.confirmation)

			oh := &orderHandler{orders: d.Orders}
			r.Get("/orders/{id}", oh.get)
		})
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
