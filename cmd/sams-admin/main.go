package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/repository"
	"github.com/noah-isme/sams-api/internal/service"
	"github.com/noah-isme/sams-api/pkg/config"
	"github.com/noah-isme/sams-api/pkg/database"
	"github.com/noah-isme/sams-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// No token store: the admin tool never issues or revokes tokens.
	auth := service.NewAuthService(repository.NewUserRepository(db), nil, nil, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	})

	cli := &commandLine{
		accounts: auth,
		migrate:  func() error { return database.RunMigrations(db.DB, logr) },
		out:      os.Stdout,
	}
	if err := cli.run(context.Background(), os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logr.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
