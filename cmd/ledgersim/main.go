// Command ledgersim runs the in-memory wallet service simulator used for
// local development of walletctl.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/barqchain/walletctl/internal/ledgersim"
	"github.com/barqchain/walletctl/internal/logging"
)

func main() {
	addr := flag.String("addr", defaultAddr(), "listen address")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.New(*level)
	srv := ledgersim.NewServer(logger)

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen(*addr)
	}()
	logger.Info("simulator listening", "addr", *addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("simulator exited cleanly")
}

func defaultAddr() string {
	if v := os.Getenv("LEDGERSIM_ADDR"); v != "" {
		return v
	}
	return ":8080"
}
