// Command sommelier runs the SOMMIA wine recommendation server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/carte"
	"github.com/sommia/sommelier/internal/cellar"
	"github.com/sommia/sommelier/internal/config"
	"github.com/sommia/sommelier/internal/event"
	"github.com/sommia/sommelier/internal/llm/ollama"
	"github.com/sommia/sommelier/internal/metrics"
	"github.com/sommia/sommelier/internal/registry"
	"github.com/sommia/sommelier/internal/server"
	"github.com/sommia/sommelier/internal/sommelier"
	"github.com/sommia/sommelier/internal/store"
	"github.com/sommia/sommelier/internal/version"
	"github.com/sommia/sommelier/pkg/plugin"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("SOMMIA sommelier server starting", zap.String("version", version.Short()))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := store.New(cfg.GetString("store.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	bus := event.NewBus(logger.Named("bus"))

	promRegistry := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(promRegistry); err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	unbindMetrics := m.BindBus(bus)
	defer unbindMetrics()

	reg := registry.New(logger)

	// Compile-time plugin composition. Order matters: the sommelier plugin
	// resolves its peers at Start, so providers register first.
	plugins := []plugin.Plugin{
		cellar.NewPlugin(),
		carte.NewPlugin(),
		ollama.NewPlugin(),
		sommelier.NewPlugin(),
	}
	for _, p := range plugins {
		if err := reg.Register(p); err != nil {
			logger.Fatal("failed to register plugin", zap.Error(err))
		}
	}

	reg.Bind(db, bus)

	if err := reg.InitAll(cfg); err != nil {
		logger.Fatal("failed to initialize plugins", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reg.StartAll(ctx); err != nil {
		logger.Fatal("failed to start plugins", zap.Error(err))
	}

	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	srv := server.New(addr, reg, promRegistry, logger.Named("http"))

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("SOMMIA sommelier server ready", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	reg.StopAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("SOMMIA sommelier server stopped")
}
