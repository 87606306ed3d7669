// Command bioflow-server provides a REST API for BioFlow alignment.
//
// Usage:
//
//	bioflow-server [options]
//
// Options:
//
//	-port     Port to listen on (default: 8080)
//	-host     Host to bind to (default: localhost)
//	-timeout  Per-request timeout (default: 60s)
//	-debug    Log every progressive merge
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
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-request timeout")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(logger, *timeout),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: *timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			os.Exit(1)
		}
		close(done)
	}()

	logger.Info("server starting", "addr", "http://"+addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("listen failed", "addr", addr, "err", err)
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
