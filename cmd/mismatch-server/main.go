// Command mismatch-server provides a REST API for mismatch clustering.
//
// Usage:
//
//	mismatch-server [options]
//
// Options:
//
//	-port          Port to listen on (default: 8080)
//	-host          Host to bind to (default: localhost)
//	-max-length    Longest sequence accepted per side of an aligned pair (default: 3000)
//	-max-trials    Largest trial count accepted by /api/simulation/run (default: 1000)
//	-max-clusters  Most cluster counts accepted per simulation request (default: 16)
//	-log-level     debug, info, warn or error (default: info)
//	-log-format    text or json (default: text)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aria-lang/mismatch-go/api/handlers"
	"github.com/aria-lang/mismatch-go/api/middleware"
	"github.com/aria-lang/mismatch-go/internal/logging"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	maxLength := flag.Int("max-length", handlers.DefaultMaxLength, "Longest sequence accepted per side of an aligned pair")
	maxTrials := flag.Int("max-trials", handlers.DefaultMaxTrials, "Largest trial count accepted by /api/simulation/run")
	maxClusters := flag.Int("max-clusters", handlers.DefaultMaxClusterCounts, "Most cluster counts accepted per simulation request")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	logger, err := logging.New(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	handlers.Mount(r, handlers.Limits{
		MaxLength:        *maxLength,
		MaxTrials:        *maxTrials,
		MaxClusterCounts: *maxClusters,
	}, logger)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shut down", slog.String("error", err.Error()))
			os.Exit(1)
		}
		close(done)
	}()

	logger.Info("mismatch API server starting", slog.String("addr", "http://"+addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("could not listen", slog.String("addr", addr), slog.String("error", err.Error()))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
