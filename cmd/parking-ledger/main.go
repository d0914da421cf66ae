package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"parking-ledger/internal/config"
	"parking-ledger/internal/logging"
	"parking-ledger/internal/parking"
	"parking-ledger/internal/server"
)

var (
	mode = flag.String("mode", "cli", "Mode to run: cli, server, or both")
	port = flag.String("port", "", "Port for HTTP server (overrides APP_PORT)")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := parking.NewTelemetryProvider(ctx, parking.TelemetryConfig{
		ServiceName: cfg.OTelServiceName,
		Endpoint:    cfg.OTelEndpoint,
		Export:      cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// The menu owns the terminal in cli and both modes.
	logOut, closeLog, err := logging.OpenOutput(cfg.LogFile, *mode != "server")
	if err != nil {
		log.Fatalf("Failed to open log output: %v", err)
	}
	defer closeLog()
	logging.Init(cfg.OTelServiceName, cfg.Environment, cfg.LogLevel, logOut)

	ledger, err := parking.NewInstrumentedLedger(
		parking.NewLedger(cfg.Capacity, parking.WithRates(parking.NewRateTable(
			decimal.NewFromFloat(cfg.StandardRate),
			decimal.NewFromFloat(cfg.LightRate),
		))),
		telemetryProvider,
	)
	if err != nil {
		log.Fatalf("Failed to create parking ledger: %v", err)
	}

	logging.Info(ctx, "parking ledger ready",
		"mode", *mode,
		"capacity", cfg.Capacity,
		"report_file", cfg.ReportFile,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "cli":
		runCLI(ctx, cancel, cfg, ledger, telemetryProvider, sigChan)
	case "server":
		runServer(ctx, cancel, cfg, ledger, telemetryProvider, sigChan)
	case "both":
		runBoth(ctx, cancel, cfg, ledger, telemetryProvider, sigChan)
	default:
		log.Fatalf("Invalid mode: %s. Must be cli, server, or both", *mode)
	}
}

func newShell(cfg *config.Config, ledger *parking.InstrumentedLedger, telemetryProvider *parking.TelemetryProvider) *parking.Shell {
	return parking.NewShell(ledger, telemetryProvider, parking.ShellConfig{
		ReportFile:     cfg.ReportFile,
		CurrencySymbol: cfg.CurrencySymbol,
	}, os.Stdin, os.Stdout)
}

func newServer(cfg *config.Config, ledger *parking.InstrumentedLedger) *server.Server {
	return server.NewServer(cfg.Port, server.NewHandler(ledger, cfg.OTelServiceName, cfg.CurrencySymbol))
}

func runCLI(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, ledger *parking.InstrumentedLedger, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		logging.Info(ctx, "shutting down")
		cancel()
		os.Stdin.Close()
	}()

	newShell(cfg, ledger, telemetryProvider).Run(ctx)

	shutdownTelemetry(telemetryProvider)
}

func runServer(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, ledger *parking.InstrumentedLedger, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	srv := newServer(cfg, ledger)

	go func() {
		<-sigChan
		logging.Info(ctx, "received shutdown signal")
		shutdownServer(srv)
		cancel()
	}()

	logging.Info(ctx, "starting server mode", "address", srv.GetAddress())
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error(ctx, "server error", "error", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func runBoth(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, ledger *parking.InstrumentedLedger, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	srv := newServer(cfg, ledger)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan bool, 1)
	go func() {
		newShell(cfg, ledger, telemetryProvider).Run(ctx)
		cliDone <- true
	}()

	go func() {
		<-sigChan
		logging.Info(ctx, "received shutdown signal")
		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "server error", "error", err)
		}
	case <-cliDone:
		logging.Info(ctx, "CLI exited")
	case <-ctx.Done():
		logging.Info(ctx, "context cancelled")
	}

	shutdownServer(srv)
	shutdownTelemetry(telemetryProvider)
}

func shutdownServer(srv *server.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, "server shutdown error", "error", err)
	}
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
