// Command server runs the in-process stand-in of the remote API on a local
// port, so the CLI can be tried without the real backend. State lives in
// memory and is lost on exit.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/dashgate/internal/client/apitest"
	"github.com/dmitrijs2005/dashgate/internal/logging"
)

func main() {

	addr := flag.String("a", ":8001", "listen address")
	tokenTTL := flag.Duration("ttl", 30*time.Minute, "access token lifetime")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	logger := logging.New(logging.Config{Level: *level}, os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           apitest.New(apitest.WithLogger(logger), apitest.WithTokenTTL(*tokenTTL)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "stand-in API listening", "addr", *addr, "admin", apitest.DefaultAdminEmail)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "listen error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
	logger.Info(shutdownCtx, "server stopped")

}
