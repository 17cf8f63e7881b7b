package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"potosi-be/internal/cart"
	"potosi-be/internal/checkout"
	"potosi-be/internal/config"
	"potosi-be/internal/db"
	"potosi-be/internal/httpapi"
	"potosi-be/internal/listing"
	"potosi-be/internal/logger"
	"potosi-be/internal/metrics"
	"potosi-be/internal/middleware"
	"potosi-be/internal/order"
	"potosi-be/internal/payment"
	"potosi-be/internal/payment/webhook"
	"potosi-be/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := db.InitDB(cfg)
	defer database.Close()

	rdb, err := db.NewRedis(ctx, cfg)
	if err != nil {
		logger.L().Fatal("redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	limiter := middleware.NewRateLimiter()
	go limiter.Cleanup(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           setupRouter(cfg, database, rdb, limiter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("graceful shutdown failed", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, database *sql.DB, rdb *redis.Client, limiter *middleware.RateLimiter) http.Handler {
	m := metrics.New()

	listingRepo := listing.NewRepository(database)
	orderRepo := order.NewRepository(database)
	cartSvc := cart.NewService(cart.NewRedisStore(rdb), listingRepo)
	orderSvc := order.NewService(orderRepo)

	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
	})
	sessions := payment.NewSessionService(gateway, orderRepo, m)

	// checkout asks a separate session service when one is configured
	var creator payment.SessionCreator = sessions
	if cfg.CheckoutSessionEndpoint != "" {
		creator = payment.NewSessionClient(cfg.CheckoutSessionEndpoint)
	}

	checkoutSvc := checkout.NewService(checkout.Deps{
		Carts:         cartSvc,
		Orders:        orderRepo,
		Payments:      payment.NewRedirector(payment.NewClientLoader(payment.StripeJSURL), creator, cfg.StripePublishableKey),
		Profiles:      user.NewRepository(database),
		Confirmations: checkout.NewRedisConfirmationStore(rdb),
		Locker:        checkout.NewRedisLocker(rdb),
		Metrics:       m,
	})

	wh := webhook.NewWebhookHandler(orderSvc, cartSvc, gateway, payment.NewRepository(database))

	return httpapi.NewRouter(httpapi.Deps{
		Listings:      listing.NewService(listingRepo),
		Carts:         cartSvc,
		Checkout:      checkoutSvc,
		Sessions:      sessions,
		Orders:        orderSvc,
		Webhook:       wh.PaymentWebhookHandler,
		Metrics:       m,
		Limiter:       limiter,
		JWTSecret:     cfg.JWTSecret,
		CORSOrigin:    cfg.CORSOrigin,
		SecureCookies: cfg.AppEnv == "production",
	})
}
