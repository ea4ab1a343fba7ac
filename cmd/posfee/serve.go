package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grzegorzmaniak/posfee/cache"
	"github.com/grzegorzmaniak/posfee/config"
	"github.com/grzegorzmaniak/posfee/fee"
	"github.com/grzegorzmaniak/posfee/metrics"
	"github.com/grzegorzmaniak/posfee/routes"
	"github.com/grzegorzmaniak/posfee/session"
	"github.com/grzegorzmaniak/posfee/token"
	"github.com/grzegorzmaniak/posfee/validation"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = zap.L().Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c)
		},
	}
}

func serve(ctx context.Context, c *config.Config) error {
	gin.SetMode(c.Server.Mode)

	sessionKey, err := c.SessionKeyBytes()
	if err != nil {
		return err
	}

	cacheManager := cache.BuildManager(&cache.Config{
		Kind:                 c.Cache.Kind,
		RistrettoMaxCost:     c.Cache.Ristretto.MaxCost,
		RistrettoNumCounters: c.Cache.Ristretto.NumCounters,
		RistrettoBufferItems: c.Cache.Ristretto.BufferItems,
		DefaultExpiration:    c.SessionTTL(),
		RedisAddr:            c.Cache.Redis.Addr,
		RedisPassword:        c.Cache.Redis.Password,
		RedisDB:              c.Cache.Redis.DB,
	})
	defer func() { _ = cacheManager.Close() }()

	if err := cacheManager.Ping(ctx); err != nil {
		zap.L().Warn("Session cache is not reachable yet, requests will run without sessions", zap.Error(err))
	}

	orders := fee.NewMemoryOrders()
	if c.Checkout.OrdersFile != "" {
		data, err := os.ReadFile(c.Checkout.OrdersFile)
		if err != nil {
			return fmt.Errorf("failed to read orders: %w", err)
		}
		n, err := fee.LoadOrders(ctx, orders, data, c.Fee.TaxRate)
		if err != nil {
			return err
		}
		zap.L().Info("Orders loaded", zap.Int("count", n), zap.String("file", c.Checkout.OrdersFile))
	}

	if err := metrics.Register(nil); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	router := routes.NewRouter(routes.Dependencies{
		App: &routes.App{
			Fees:       fee.NewManager(orders, c.Fee.Percentage),
			GatewayID:  c.Fee.GatewayID,
			PathPrefix: c.Checkout.PathPrefix,
			AjaxURL:    c.Checkout.AjaxURL,
		},
		Sessions: &session.Manager{
			Cache: cacheManager,
			Key:   sessionKey,
			Cookie: session.CookieData{
				Name:     c.Session.CookieName,
				Path:     c.Session.Path,
				Domain:   c.Session.Domain,
				Secure:   c.CookieSecure(),
				HttpOnly: true,
				SameSite: c.SameSite(),
				TTL:      c.SessionTTL(),
			},
			KeyPrefix: c.Session.KeyPrefix,
		},
		Authenticator: token.New([]byte(c.Security.TokenSecret)),
		Validation:    validation.NewEngine(nil),
		Health: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return cacheManager.Ping(pingCtx)
		},
	})

	server := &http.Server{
		Addr:              c.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server listening", zap.String("addr", c.Server.Addr), zap.String("version", version))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	zap.L().Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
