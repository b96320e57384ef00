package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"genbridge/internal/config"
	"genbridge/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr        string
		loadOnStart bool
		corsOrigins string
		rateLimit   float64
		loadWait    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (/call, /v1/*, /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("load-on-start") {
				cfg.LoadOnStart = loadOnStart
			}
			if cmd.Flags().Changed("cors-origins") {
				cfg.CORSEnabled = true
				cfg.CORSOrigins = splitCSV(corsOrigins)
			}
			if cmd.Flags().Changed("rate-limit") {
				cfg.RateLimitRPS = rateLimit
				cfg.RateLimitBurst = 0
				config.ApplyDefaults(&cfg)
			}

			httpapi.SetLogger(a.log)
			httpapi.SetDefaultLogLevel(cfg.LogLevel)
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
			httpapi.SetRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
			httpapi.SetBundleDir(cfg.BundleDir)
			httpapi.SetLoadWaitTimeout(loadWait)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			httpapi.SetBaseContext(ctx)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(a.adapter),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend).Str("bundle_dir", cfg.BundleDir).Msg("genbridge listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(sctx); err != nil {
					a.log.Warn().Err(err).Msg("graceful shutdown")
				}
				return nil
			})
			if cfg.LoadOnStart {
				g.Go(func() error {
					a.loadNow(gctx)
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().BoolVar(&loadOnStart, "load-on-start", false, "Load the model in the background at startup")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (enables CORS)")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "Per-client requests per second on API routes (0 disables)")
	cmd.Flags().DurationVar(&loadWait, "load-wait", 0, "Max time POST /v1/load waits for a load to finish (0 waits for the request lifetime)")
	return cmd
}
