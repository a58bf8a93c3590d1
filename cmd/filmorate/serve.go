package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/filmorate/internal/application/handlers"
	"github.com/ersonp/filmorate/internal/infrastructure/httpapi"
)

type serveFlags struct {
	addr       string
	seed       string
	seedFormat string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Starts the HTTP API over an empty in-memory catalog, optionally preloaded from a seed file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.addr, "addr", "a", "", "Listen address (overrides config)")
	cmd.Flags().StringVarP(&flags.seed, "seed", "s", "", "Seed file to load before serving (overrides config)")
	cmd.Flags().StringVarP(&flags.seedFormat, "format", "f", DefaultSeedFormat, "Seed file format (json, yaml, auto)")

	return cmd
}

func runServe(ctx context.Context, flags serveFlags) error {
	if !slices.Contains(validSeedFormats, flags.seedFormat) {
		return fmt.Errorf("invalid --format value %q (valid: %v)", flags.seedFormat, validSeedFormats)
	}

	return withDeps(func(d *Deps) error {
		cfg := d.Config
		if flags.addr != "" {
			cfg.HTTP.Addr = flags.addr
		}

		seedFile := flags.seed
		if seedFile == "" {
			seedFile = cfg.Seed.File
		}
		if seedFile != "" {
			if err := preload(ctx, d, seedFile, flags.seedFormat); err != nil {
				return err
			}
		}

		ln, err := net.Listen("tcp", cfg.HTTP.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.HTTP.Addr, err)
		}

		srv := &http.Server{
			Handler: httpapi.NewServer(httpapi.Options{
				Works:        d.Works,
				Participants: d.Participants,
				Metrics:      d.Metrics,
				Logger:       d.Logger,
				RateLimit:    cfg.HTTP.RateLimit,
			}),
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
		}

		return serve(ctx, srv, ln, cfg.HTTP.ShutdownTimeout, d.Logger)
	})
}

// preload loads a seed file into the catalog. Rejected records are logged
// and do not stop startup; the seed handler logs the summary.
func preload(ctx context.Context, d *Deps, path, format string) error {
	result, err := d.Seed.Handle(ctx, path, handlers.SeedOptions{Format: format})
	if err != nil {
		return fmt.Errorf("loading seed: %w", err)
	}

	for _, e := range result.Errors {
		d.Logger.WithField("seed", path).Warn(e.Error())
	}
	return nil
}

// serve runs srv on ln until ctx is done, then shuts it down within timeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log logrus.FieldLogger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", ln.Addr().String()).Info("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
