package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/offline"
	"github.com/noah-isme/sams-api/pkg/client"
	"github.com/noah-isme/sams-api/pkg/storage"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("SAMS")
	v.AutomaticEnv()
	v.SetDefault("URL", "http://localhost:8080/api/v1")
	v.SetDefault("STATE_DIR", defaultStateDir())
	v.SetDefault("TIMEOUT", "15s")

	logr, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	state, err := storage.NewLocalStorage(v.GetString("STATE_DIR"))
	if err != nil {
		logr.Fatal("failed to prepare state directory", zap.Error(err))
	}
	session, err := client.LoadSession(state)
	if err != nil {
		logr.Fatal("failed to load session", zap.Error(err))
	}

	api := client.New(v.GetString("URL"), session, v.GetDuration("TIMEOUT"))
	cli := &commandLine{
		api:     api,
		cache:   offline.NewCache(state, logr),
		persist: func() error { return session.Persist(state) },
		logger:  logr,
		out:     os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logr.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".sams")
	}
	return filepath.Join(dir, "sams")
}
