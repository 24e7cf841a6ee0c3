package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	adapthttp "calories/internal/adapter/http"
	"calories/internal/app"
	"calories/internal/id"
	"calories/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			addr := v.GetString("addr")
			webDir := v.GetString("web-dir")

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			detach := metrics.New(reg).Attach(s.tracker)
			defer detach()

			s.tracker.Subscribe(func(ev app.Event) {
				s.logger.Debug("ledger event",
					"type", ev.Type, "kind", ev.Kind, "id", ev.Record.ID, "replay", ev.Replay,
					"total", ev.Snapshot.TotalCalories)
			})
			s.tracker.LoadItems()

			h := adapthttp.New(s.tracker, id.Default, s.logger).
				WithWebDir(webDir).
				WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).
				Handler()
			srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}

			errc := make(chan error, 1)
			go func() {
				s.logger.Info("listening", "addr", addr, "store", s.cfg.Store)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				s.logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("web-dir", "", "directory with a static front end to serve at /")
	return cmd
}
