package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"sales-manager/internal/core/config"
	"sales-manager/internal/core/httpclient"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/server"
	"sales-manager/internal/core/store"
	authadapter "sales-manager/internal/features/auth/adapters"
	authhandler "sales-manager/internal/features/auth/handler"
	orderadapter "sales-manager/internal/features/orders/adapters"
	orderhandler "sales-manager/internal/features/orders/handler"
	"sales-manager/internal/features/sessions"

	"go.uber.org/zap"
)

// @title Sales Manager API
// @version 1.0
// @description Orders and items of a signed-in sales user, exposed as per-session screen states.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the document store and run Health Check
	docStore, err := store.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer docStore.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = docStore.Ping(pingCtx)
	cancel()
	if err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Shared gateway dependencies, built once per process
	accounts := authadapter.NewStoreAccountRegistry(docStore, cfg.Auth.BcryptCost)
	limiter := authadapter.NewLoginLimiter(cfg.Auth.LoginAttemptsPerMinute)
	verifier, err := authadapter.NewIDTokenVerifier(ctx,
		httpclient.NewClient(time.Duration(cfg.Auth.HTTPTimeoutSeconds)*time.Second),
		cfg.Auth.ClientID,
	)
	if err != nil {
		l.Fatal("Failed to create ID token verifier", zap.Error(err))
	}
	orders := orderadapter.NewStoreOrderGateway(docStore, nil)

	// Sessions own the per-client authenticator and orchestrators
	factory := sessions.NewFactory(accounts, verifier, limiter, orders)
	registry := sessions.NewRegistry(ctx, factory,
		cfg.Sessions.Capacity,
		time.Duration(cfg.Sessions.TTLMinutes)*time.Minute,
		nil,
	)
	defer registry.Close()

	authHdl := authhandler.NewAuthHandler(accounts, registry)
	orderHdl := orderhandler.NewOrderHandler()

	srv := server.New(cfg)
	srv.Health(docStore)

	// Register Routes
	auth := srv.App.Group("/auth")
	auth.Post("/accounts", authHdl.Register)
	auth.Post("/login", authHdl.Login)
	auth.Post("/federated", authHdl.SignInWithFederatedToken)
	auth.Post("/logout", registry.Middleware(), authHdl.Logout)

	api := srv.App.Group("/orders", registry.Middleware())
	api.Get("/", orderHdl.ListOrders)
	api.Post("/", orderHdl.CreateOrder)
	api.Delete("/:id", orderHdl.DeleteOrder)
	api.Get("/:id/items", orderHdl.ListItems)
	api.Post("/:id/items", orderHdl.CreateItem)
	api.Delete("/:id/items/:itemId", orderHdl.DeleteItem)

	screens := srv.App.Group("/screens", registry.Middleware())
	screens.Get("/orders", orderHdl.GetOrdersScreen)
	screens.Post("/orders/enter", orderHdl.EnterOrdersScreen)
	screens.Get("/orders/:id/items", orderHdl.GetItemsScreen)
	screens.Post("/orders/:id/items/enter", orderHdl.EnterItemsScreen)

	go func() {
		<-ctx.Done()
		l.Info("Shutdown signal received")
		if err := srv.Shutdown(10 * time.Second); err != nil {
			l.Error("Error during shutdown", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
	l.Info("Server stopped gracefully")
}
