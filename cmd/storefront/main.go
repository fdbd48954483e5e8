package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/checkout"
	"github.com/Son-2003/e-commerse-sub000/internal/config"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/geo"
	"github.com/Son-2003/e-commerse-sub000/internal/session"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
	"github.com/Son-2003/e-commerse-sub000/internal/web"
)

// sessionTokens defers the token source to the session manager, which is
// constructed after the client it feeds.
type sessionTokens struct {
	sessions *session.Manager
}

func (t *sessionTokens) AccessToken(ctx context.Context) string {
	if t.sessions == nil {
		return ""
	}
	return t.sessions.AccessToken(ctx)
}

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	newKV := kvFactory(ctx, cfg, logger)
	registry := web.NewRegistry(func(sessionID string) web.Handlers {
		return buildSession(ctx, cfg, newKV(sessionID))
	})

	router := web.NewRouter(registry, logger, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // the chat stream writes for as long as it lives
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.HTTPPort).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}
	logger.Info("server exited")
}

// buildSession wires one browser session's full state: its KV slots, its
// store, its checkout machine and both auth sessions.
func buildSession(ctx context.Context, cfg *config.Config, kv storage.KV) web.Handlers {
	tokens := &sessionTokens{}
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, tokens)

	sessions := session.NewManager(kv, api.NewAuthClient(client), domain.RoleCustomer)
	tokens.sessions = sessions
	sessions.Restore(ctx)

	adminTokens := &sessionTokens{}
	adminClient := client.WithTokens(adminTokens)
	adminSessions := session.NewManager(kv, api.NewAuthClient(adminClient), domain.RoleAdmin)
	adminTokens.sessions = adminSessions
	adminSessions.Restore(ctx)

	appStore := store.New(ctx, kv)
	appStore.Watch(ctx)

	orders := api.NewOrderClient(client)
	payments := api.NewPaymentClient(client)
	machine := checkout.NewMachine(appStore, kv, orders, payments, cfg.PaymentReturn, cfg.PaymentCancel)
	resolver := geo.NewResolver(api.NewGeoClient(client), 300*time.Millisecond)
	uploader := api.NewUploader(cfg.CDNUploadURL, cfg.UploadTimeout)

	return web.Handlers{
		Cart:      web.NewCartHandler(appStore, cfg.RequestTimeout),
		Products:  web.NewProductHandler(api.NewProductClient(client), appStore, cfg.RequestTimeout),
		Orders:    web.NewOrderHandler(orders, appStore, cfg.RequestTimeout),
		Checkout:  web.NewCheckoutHandler(machine, appStore, cfg.RequestTimeout),
		Address:   web.NewAddressHandler(resolver),
		Auth:      web.NewAuthHandler(sessions, cfg.RequestTimeout),
		AuthAdmin: web.NewAuthHandler(adminSessions, cfg.RequestTimeout),
		Feedback:  web.NewFeedbackHandler(api.NewFeedbackClient(client), uploader, appStore, cfg.RequestTimeout),
		Chat:      web.NewChatHandler(api.NewChatClient(client), appStore, 2*time.Second),
		Sessions:  sessions,
	}
}

// kvFactory picks the storage backend: redis when an address is configured,
// in-process memory otherwise. Cross-tab snapshot watching only works on
// the redis backend.
func kvFactory(ctx context.Context, cfg *config.Config, logger *logrus.Logger) func(sessionID string) storage.KV {
	if cfg.RedisAddr == "" {
		logger.Info("no REDIS_ADDR configured, state is in-process only")
		return func(string) storage.KV { return storage.NewMemoryKV() }
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable, falling back to in-process state")
		return func(string) storage.KV { return storage.NewMemoryKV() }
	}
	logger.WithField("addr", cfg.RedisAddr).Info("state persisted to redis")
	return func(sessionID string) storage.KV {
		return storage.NewRedisKV(client, sessionID)
	}
}
