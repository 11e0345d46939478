// Command server runs the heladeria inventory API.
//
//	@title						Heladeria Inventory API
//	@version					1.0
//	@description				Inventory, sales and access control for an ice-cream shop.
//	@BasePath					/
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						x-access-token
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heladeria/inventory-api/internal/api"
	"github.com/heladeria/inventory-api/internal/api/handler"
	"github.com/heladeria/inventory-api/internal/auth"
	"github.com/heladeria/inventory-api/internal/core/service"
	"github.com/heladeria/inventory-api/internal/infrastructure/config"
	mongodb "github.com/heladeria/inventory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/heladeria/inventory-api/internal/infrastructure/db/redis"
	"github.com/heladeria/inventory-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "heladeria-api",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "heladeria-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)
	ingredients := mongodb.NewIngredientRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, products, ingredients); err != nil {
		log.Fatal().Err(err).Msg("index setup failed")
	}

	tokens, err := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec setup failed")
	}

	authService := service.NewAuthService(users, redisdb.NewSessionStore(rdb), tokens, cfg.Auth.SessionTTL, logger.Component(log, "auth"))
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin failed")
	}
	inventoryService := service.NewInventoryService(products, ingredients, logger.Component(log, "inventory"))

	router := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Inventory: inventoryService,
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			MaxAge: authService.SessionTTL(),
		},
		Health: map[string]handler.DependencyCheck{
			"mongodb": mongodb.Ping(db),
			"redis":   redisdb.Ping(rdb),
		},
		Log: logger.Component(log, "http"),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("shutdown complete")
}
