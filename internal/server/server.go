package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parking-ledger/internal/logging"
	"parking-ledger/internal/parking"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

func NewServer(port string, handler *Handler) *Server {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(TracingMiddleware)
	r.Use(CORSMiddleware)

	registry := newRegistry(handler.ledger)

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api/ledger", func(r chi.Router) {
		r.Get("/status", handler.GetStatus)
		r.Get("/vehicles", handler.ListActive)
		r.Post("/vehicles", handler.AdmitVehicle)
		r.Get("/vehicles/{plate}", handler.GetVehicle)
		r.Post("/vehicles/{plate}/release", handler.ReleaseVehicle)
		r.Get("/report", handler.GetReport)
		r.Get("/report.txt", handler.GetReportText)
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}
}

// newRegistry exposes runtime collectors and live ledger occupancy for
// Prometheus scrapes.
func newRegistry(ledger *parking.InstrumentedLedger) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "parking_ledger_active_vehicles",
			Help: "Vehicles currently parked.",
		}, func() float64 {
			return float64(ledger.Status(context.Background()).Occupied)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "parking_ledger_capacity",
			Help: "Maximum number of vehicles that can be parked at once.",
		}, func() float64 {
			return float64(ledger.Status(context.Background()).Capacity)
		}),
	)
	return registry
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	logging.Info(context.Background(), "starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
