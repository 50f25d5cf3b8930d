package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/musaed-ai/musaed/pkg/dnsserver"
	"github.com/musaed-ai/musaed/pkg/metrics"
	"github.com/musaed-ai/musaed/pkg/ratelimit"
	"github.com/musaed-ai/musaed/pkg/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		listen string
		dns    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat widget, JSON API and optional DNS front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if listen != "" {
				a.cfg.Listen = listen
			}
			if dns {
				a.cfg.DNS.Enabled = true
			}

			reg := metrics.NewRegistry()
			metrics.RegisterCache(reg, a.cache.Stats)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)

			httpSrv := server.New(a.cfg, a.assistant, a.code, a.cache, a.history, reg, a.log)
			g.Go(func() error { return httpSrv.ListenAndServe(ctx) })

			if a.cfg.DNS.Enabled {
				limiter := ratelimit.New(a.cfg.Server.RateLimit, a.cfg.Server.Burst)
				dnsSrv := dnsserver.New(a.cfg.DNS, a.assistant, a.history, limiter, a.log)
				g.Go(func() error { return dnsSrv.ListenAndServe(ctx) })
			}

			a.log.Info().Str("version", version).Str("config", *configPath).Msg("starting musaed")
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "override the HTTP listen address")
	cmd.Flags().BoolVar(&dns, "dns", false, "enable the DNS front-end")
	return cmd
}
