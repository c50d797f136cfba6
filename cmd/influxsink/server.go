package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/logging"
)

const readHeaderTimeout = 5 * time.Second

// healthCheck is one dependency reported on /healthz.
type healthCheck struct {
	name  string
	check func(context.Context) error
}

// newHTTPHandler serves /metrics from registry and /healthz from checks.
func newHTTPHandler(registry *prometheus.Registry, checks []healthCheck) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("GET /healthz", healthzHandler(checks))
	return mux
}

// healthzHandler answers 200 when every check passes. Otherwise it answers
// 503 with one "name: error" line per failing check.
func healthzHandler(checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		var failures strings.Builder
		for _, c := range checks {
			if err := c.check(r.Context()); err != nil {
				fmt.Fprintf(&failures, "%s: %v\n", c.name, err)
			}
		}
		if failures.Len() > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(failures.String()))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}

// startHTTPServer listens on addr and serves handler in the background.
// The returned server's Addr holds the bound address. A serve failure is
// logged.
func startHTTPServer(addr string, handler http.Handler, log *logging.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go serve(srv, ln, log)
	return srv, nil
}

// serve runs srv on ln until it is shut down. Any other exit is logged.
func serve(srv *http.Server, ln net.Listener, log *logging.Logger) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server stopped", "addr", srv.Addr, "error", err)
	}
}
