// Package main - Entry point for the isofit HTTP server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"isofit/api"
	"isofit/core/engine"
	"isofit/internal/config"
	"isofit/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "Config file (JSON or YAML)")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	apiServer := api.NewServer(serverOptions(cfg))

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiServer))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("shutdown", zap.Error(err))
		}
	}()

	fmt.Printf("isofit server v%s (%s)\n", version, engine.Standard)
	fmt.Printf("   API: http://localhost%s/api\n", cfg.Server.Addr)
	if cfg.Server.MetricsEnabled {
		fmt.Printf("   Metrics: http://localhost%s/api/metrics\n", cfg.Server.Addr)
	}
	fmt.Println()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("server stopped", zap.Error(err))
	}
}

// serverOptions maps the loaded configuration onto the API server
func serverOptions(cfg *config.Config) api.Options {
	return api.Options{
		Version: version,
		Engine: engine.EngineConfig{
			DefaultLanguage: cfg.Engine.DefaultLanguage,
		},
		Workers: cfg.Server.Workers,
		Metrics: cfg.Server.MetricsEnabled,
		Logger:  logging.Named("api"),
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
