// Package pprofserver exposes the net/http/pprof handlers on a loopback-only
// listener so that profiling is never reachable from the outside.
package pprofserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
)

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	return mux
}

// Launch serves pprof at the ipv6 loopback address ::1 and the given port in a
// background goroutine. A failure to serve is logged but does not take the
// application down.
func Launch(ctx context.Context, port string, logger *slog.Logger) {
	addr := fmt.Sprintf("[::1]%s", port)
	srv := &http.Server{
		Addr:    addr,
		Handler: newServeMux(),
	}
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped", slog.Any("error", err))
		}
	}()
}
