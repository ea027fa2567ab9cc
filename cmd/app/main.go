package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blog-backend/internal/auth"
	"blog-backend/internal/config"
	"blog-backend/internal/db"
	"blog-backend/internal/logs"
	"blog-backend/internal/posts"
	"blog-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logs.New(os.Stdout, cfg.IsDev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := db.Open(ctx, db.Config{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: cfg.MaxOpenConns,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer gateway.Close()
	logger.Info("connected", "driver", cfg.DBDriver)

	verifier := auth.NewVerifier(cfg.SignKey, cfg.TokenTTL)
	srv := server.New(cfg, posts.NewService(gateway), auth.NewAccounts(gateway, verifier), verifier, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}
