package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/api"
	"github.com/khanhnv2901/site-checker/internal/application"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the website security checker as an HTTP API service",
	Long: `Serve POST /check (and POST /api/check) with body {"url": "..."}.
The response is the full security report. GET /health and GET /ready are
available for probes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config
		logger := appCtx.Logger

		container, err := application.NewContainer(cmd.Context(), cfg.applicationConfig(), logger)
		if err != nil {
			return err
		}

		server := api.NewServer(api.Config{
			Checker:     container.Orchestrator,
			AuthToken:   cfg.Server.AuthToken,
			Logger:      logger,
			CORSOrigins: cfg.Server.CORSOrigins,
		})

		httpServer := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			// A report takes up to one check timeout plus rendering.
			WriteTimeout: cfg.Checks.Timeout + 30*time.Second,
			IdleTimeout:  120 * time.Second,
		}

		listener, err := net.Listen("tcp", httpServer.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", httpServer.Addr, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("api_server_started",
			zap.String("addr", listener.Addr().String()),
			zap.Bool("reputation_enabled", container.Reputation.Enabled()),
			zap.Bool("auth_enabled", cfg.Server.AuthToken != ""),
		)
		return runServer(ctx, httpServer, listener, cfg.Server.ShutdownTimeout, cmd.OutOrStdout())
	},
}

// runServer serves on listener until ctx is done, then shuts down gracefully
// within shutdownTimeout.
func runServer(ctx context.Context, httpServer *http.Server, listener net.Listener, shutdownTimeout time.Duration, out io.Writer) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = consts.DefaultShutdownTimeout
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	fmt.Fprintf(out, "%s API server listening on %s\n", colorInfo("→"), listener.Addr())
	fmt.Fprintf(out, "%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))

	// Start server in a goroutine
	go func() {
		serverErrors <- httpServer.Serve(listener)
	}()

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		fmt.Fprintf(out, "\n%s Shutdown requested, draining in-flight checks...\n", colorInfo("→"))

		// Create context with timeout for shutdown
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		// Attempt graceful shutdown
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			if closeErr := httpServer.Close(); closeErr != nil {
				return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
			}
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}

		fmt.Fprintf(out, "%s Server shutdown complete\n", colorInfo("✓"))
	}

	return nil
}

func registerServeFlags(flags *pflag.FlagSet) {
	flags.String("addr", ":"+consts.DefaultListenPort, "Address for the API server (PORT env sets the port)")
	flags.String("auth-token", "", "Optional shared secret for check requests (X-Auth-Token)")
	flags.Duration("shutdown-timeout", consts.DefaultShutdownTimeout, "Graceful shutdown timeout")
	flags.StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
}

func init() {
	registerServeFlags(serveCmd.Flags())
}
