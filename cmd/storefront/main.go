package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/griffinsgri4/coast-storefront/internal/backend"
	"github.com/griffinsgri4/coast-storefront/internal/cart"
	"github.com/griffinsgri4/coast-storefront/internal/checkout"
	"github.com/griffinsgri4/coast-storefront/internal/config"
	h "github.com/griffinsgri4/coast-storefront/internal/http"
	"github.com/griffinsgri4/coast-storefront/internal/logging"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	persist, cleanup := buildPersistence(cfg, logger)
	defer cleanup()

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	carts := cart.NewManager(persist, logger.Named("cart"))
	checkoutSvc := checkout.NewService(client, cfg.Pricing, logger.Named("checkout"))

	router := h.NewRouter(
		h.RouterConfig{
			SessionCookie:  cfg.Cart.SessionCookie,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		},
		h.NewCartHandler(carts, client, cfg.Pricing, logger.Named("http")),
		h.NewCheckoutHandler(carts, checkoutSvc, logger.Named("http")),
		h.NewOrderHandler(client, logger.Named("http")),
		h.NewProductHandler(client, logger.Named("http")),
		logger.Named("http"),
	)

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("storefront starting", zap.String("addr", cfg.App.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

// buildPersistence picks the cart's durable store: Redis when configured,
// otherwise the file store, otherwise memory only.
func buildPersistence(cfg *config.Config, logger *zap.Logger) (cart.Persistence, func()) {
	switch {
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		logger.Info("using redis cart persistence", zap.String("addr", cfg.Redis.Addr))
		return cart.NewRedisPersistence(client), func() { client.Close() }
	case cfg.Cart.StateDir != "":
		logger.Info("using file cart persistence", zap.String("dir", cfg.Cart.StateDir))
		return cart.NewFilePersistence(cfg.Cart.StateDir), func() {}
	default:
		logger.Warn("no cart persistence configured, carts are memory only")
		return cart.NewMemoryPersistence(), func() {}
	}
}
