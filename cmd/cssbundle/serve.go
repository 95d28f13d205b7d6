package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssbundle/internal/host"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bundle with hot-reload events",
	Long: `Build once, then serve the output directory. Browsers connect to
/__reload for change events; a file watcher posts to
/__rebuild?changed=<path> to trigger incremental rebuilds.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:3333", "Listen address")
	serveCmd.Flags().Int("cache-size", 512, "Minify cache entries kept across rebuilds")
}

func runServe(_ *cobra.Command, _ []string) error {
	config, err := prepareHostConfig()
	if err != nil {
		return err
	}

	server := host.NewServer(config)
	if _, err := server.Rebuild(""); err != nil {
		// Keep serving: the next rebuild may fix it.
		config.Logger.Warn("initial build failed", "error", err)
	}

	addr := getStringWithFallback("addr", "serve.addr", "127.0.0.1:3333")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Info("serving", "addr", addr, "dir", config.OutDir)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
