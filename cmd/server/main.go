package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	accounts "github.com/goliatone/go-accounts"
)

func main() {
	accounts.LoadEnv()

	cfg := accounts.NewConfigFromEnv()
	if cfg.SigningKey == "" {
		log.Fatal("ACCOUNTS_SIGNING_KEY is required")
	}

	db, err := accounts.OpenDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := accounts.CreateSchema(context.Background(), db); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := accounts.NewTokenService(cfg, nil)
	provider := accounts.NewUserProvider(repo.Users())
	auther := accounts.NewAuthenticator(provider, tokens, cfg)
	register := accounts.NewRegisterUserHandler(repo)

	app := fiber.New(fiber.Config{
		AppName:      "accounts",
		ErrorHandler: accounts.NewErrorHandler(nil),
	})

	api := app.Group("/api/v1")

	api.Use(accounts.NewSessionFilter(accounts.SessionFilterConfig{
		Tokens:     tokens,
		Provider:   provider,
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
		Whitelist:  []string{"/api/v1/auth/*"},
	}))

	accounts.NewAuthController(auther, register, cfg).RegisterRoutes(api)

	protected := api.Group("", accounts.RequireAuthenticated(cfg.GetContextKey()))
	accounts.NewUserController(repo.Users(), register, cfg.GetContextKey()).RegisterRoutes(protected)
	accounts.NewAgencyController(repo.Agencies(), repo.Users()).RegisterRoutes(protected)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
