package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/bindui/internal/errors"
	"github.com/vango-dev/bindui/pkg/collection"
	"github.com/vango-dev/bindui/pkg/dom"
	"github.com/vango-dev/bindui/pkg/feed"
	"github.com/vango-dev/bindui/pkg/telemetry"
)

// followOptions are the follow flags that override bindui.json.
type followOptions struct {
	url         string
	seedURL     string
	route       string
	metricsAddr string
	print       bool
}

func followCmd(g *globals) *cobra.Command {
	var (
		flags collectionFlags
		opts  followOptions
	)

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Follow a WebSocket feed and keep a collection rendered",
		Long: `Seed a collection from a listing endpoint, then follow a WebSocket
feed and render every snapshot routed to it until interrupted.

Metrics are served on /metrics and readiness on /healthz at the
configured metrics address.

Examples:
  bindui follow -t rooms.html -i li.room --url ws://localhost:8080/ws
  bindui follow -t rooms.html -i li.room --seed-url http://localhost:8080/api/rooms --print`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runFollow(ctx, g, &flags, &opts, cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&opts.url, "url", "", "WebSocket feed URL (default from bindui.json)")
	cmd.Flags().StringVar(&opts.seedURL, "seed-url", "", "Listing URL fetched before following (default from bindui.json)")
	cmd.Flags().StringVar(&opts.route, "route", "", "Route to render (default from bindui.json)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Ops server address, \"off\" to disable (default from bindui.json)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "Print the container HTML after every change")
	return cmd
}

func runFollow(ctx context.Context, g *globals, flags *collectionFlags, opts *followOptions, out io.Writer) error {
	cfg := g.cfg
	if opts.url != "" {
		cfg.Feed.URL = opts.url
	}
	if opts.seedURL != "" {
		cfg.Feed.SeedURL = opts.seedURL
	}
	if opts.route != "" {
		cfg.Feed.Route = opts.route
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if cfg.Metrics.Addr == "off" {
		cfg.Metrics.Addr = ""
	}
	if cfg.Feed.URL == "" && cfg.Feed.SeedURL == "" {
		return errors.New("B032").
			WithDetail("No feed URL configured").
			WithSuggestion("Pass --url or set feed.url in bindui.json")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewMetrics(telemetry.WithRegisterer(reg))

	buildOpts := []collection.Option{
		collection.WithMetrics(metrics),
		collection.WithTracer(telemetry.Tracer(cfg.Name)),
	}
	var rec *collection.Reconciler
	if opts.print {
		buildOpts = append(buildOpts, collection.WithMutationSink(func(muts []dom.Mutation) {
			g.logger.Debug("collection changed", "mutations", len(muts), "first", muts[0].String())
			fmt.Fprintln(out, rec.Container().HTML())
		}))
	}
	_, rec, err := flags.build(g, buildOpts...)
	if err != nil {
		return err
	}

	var ready atomic.Bool
	if cfg.Metrics.Addr != "" {
		go serveOps(ctx, cfg.Metrics.Addr, newOpsRouter(reg, &ready), g.logger)
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = cfg.DialTimeout()
	f := feed.New(
		feed.WithLogger(g.logger),
		feed.WithMetrics(metrics),
		feed.WithDialer(&dialer),
	)
	f.Bind(cfg.Feed.Route, rec)

	if cfg.Feed.SeedURL != "" {
		if err := f.Seed(ctx, cfg.Feed.SeedURL, cfg.Feed.Route); err != nil {
			return err
		}
	}
	ready.Store(true)

	if cfg.Feed.URL != "" {
		if err := f.Follow(ctx, cfg.Feed.URL); err != nil && ctx.Err() == nil {
			return err
		}
	}

	if !opts.print {
		fmt.Fprintln(out, rec.Container().HTML())
	}
	g.logger.Info("follow finished", "route", cfg.Feed.Route, "entries", rec.Len())
	return nil
}
