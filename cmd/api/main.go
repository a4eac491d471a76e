// Package main provides the entry point for the weeklydish planner API server
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/weeklydish/planner/internal/infrastructure/container"
	"go.uber.org/fx"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's
		fx.Supply(container.ConfigPath(*configPath)),
		container.Module,
	)
	if err := app.Err(); err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for a signal or a server failure
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		if sig.ExitCode != 0 {
			defer os.Exit(sig.ExitCode)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}
}
