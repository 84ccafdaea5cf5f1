package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alertgraph/internal/handler"
	"alertgraph/internal/hub"
	"alertgraph/internal/service"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the alert graph API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

func (a *app) serve() error {
	logger := a.logger
	logger.Info("starting alertgraph server",
		zap.String("version", version),
		zap.String("config", a.source),
		zap.String("upstream", a.cfg.Upstream.BaseURL))

	upstream := a.client()
	graphs := a.graphService(upstream)

	// Initialize event bus
	eventBus := service.NewEventBus()
	sessions := service.NewSessions(graphs, eventBus)

	// Initialize SSE hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	sseHub := hub.New(logger, a.metrics)
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(hub.Message{Topic: event.SessionID, Event: string(event.Type), Data: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	router := handler.NewRouter(handler.Routes{
		View:     handler.NewViewHandler(graphs),
		Sessions: handler.NewSessionHandler(sessions, logger, 3*a.cfg.Upstream.Timeout.Duration()),
		Alerts:   handler.NewAlertsHandler(service.NewAlertService(upstream, logger), upstream, logger),
		Events:   sseHub,
		Metrics:  a.metrics,
	}, logger, a.cfg.Server.CORSOrigin)

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: a.cfg.Server.WriteTimeout.Duration(), // Zero keeps event streams open
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", a.cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down server")

	// Closing the hub ends event streams so Shutdown does not wait on them
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
