package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zyren-ai/zyren/internal/assistant"
	"github.com/zyren-ai/zyren/internal/logging"
	"github.com/zyren-ai/zyren/internal/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "listen port (default 8080, or $PORT)")
	cmd.Flags().String("public", "", "directory of the static web client")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("server.public_dir", cmd.Flags().Lookup("public"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	s := a.settings
	log := logging.New("server")

	if s.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         s.Sentry.DSN,
			Environment: s.Sentry.Environment,
			Release:     "zyren@" + buildVersion,
		})
		if err != nil {
			return fmt.Errorf("sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	var backend assistant.Backend = assistant.Offline{}
	if s.Gemini.APIKey != "" {
		gem, err := assistant.NewGemini(ctx, assistant.GeminiConfig{
			APIKey:            s.Gemini.APIKey,
			ChatModel:         s.Gemini.ChatModel,
			ImageModel:        s.Gemini.ImageModel,
			SystemInstruction: s.Gemini.SystemInstruction,
		})
		if err != nil {
			return err
		}
		defer gem.Close()
		backend = gem
	} else {
		log.Warn("server: gemini.api_key not set, chat and images will answer with fallbacks")
	}

	srv, err := newServer(s, m, backend)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Server.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// Hijacked websocket connections watch this context to close on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server: listening", "addr", httpSrv.Addr, "scheme", s.Predictor.Scheme, "shape", s.Predictor.Shape)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("server: shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
