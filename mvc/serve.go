package mvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"myblog/app/config"
	"myblog/app/repositories"
	"myblog/app/routes"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var port int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			store, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			srv, err := newServer(cfg, store, log)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting blog server", slog.String("addr", ln.Addr().String()), slog.String("env", cfg.Env))
			return run(ctx, srv, ln, cfg.Server.ShutdownTimeout, log)
		},
	}

	c.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")
	return c
}

func newServer(cfg *config.Config, store *repositories.Store, log *slog.Logger) (*http.Server, error) {
	router, err := routes.SetupRoutes(routes.Options{
		DB:             store.DB(),
		Log:            log,
		LoginURL:       cfg.Auth.LoginURL,
		CookieName:     cfg.Auth.CookieName,
		CookieSecure:   cfg.Auth.CookieSecure,
		SessionTTL:     cfg.Auth.SessionTTL,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		ViewsDir:       cfg.Views.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}, nil
}

// run serves on ln until ctx is done, then gives in-flight requests up to
// timeout to finish.
func run(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", slog.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("server stopped")
	return nil
}
