package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/status"
)

// metricsHandler serves reg in the Prometheus text format
func metricsHandler(reg *status.Registry) (http.Handler, error) {
	promReg := prometheus.NewRegistry()
	if err := promReg.Register(status.NewCollector(reg)); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	return mux, nil
}

// serveMetrics listens on addr until ctx ends
func serveMetrics(ctx context.Context, addr string, reg *status.Registry, log zerolog.Logger) error {
	handler, err := metricsHandler(reg)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	})
	core.Go(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	log.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")
	return nil
}
