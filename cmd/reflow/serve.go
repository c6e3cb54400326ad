package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reflow-dev/reflow/pkg/live"
	"github.com/reflow-dev/reflow/pkg/stores"
)

// demoState is the value streamed by the demo server.
type demoState struct {
	User  string     `json:"user"`
	Todos []demoTodo `json:"todos"`
}

type demoTodo struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		tick    time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo live server over a sample store",
		Long: `Run a WebSocket server streaming a sample todo store.

Connect any WebSocket client to ws://<addr>/live to receive JSON
snapshot frames; send patch frames to mutate the store. Every
connected client re-renders only when observed state changes.

The server also mutates the store itself on a timer, so snapshots
flow even without client patches. Prometheus metrics are exposed
on /metrics.

Examples:
  reflow serve
  reflow serve --addr=:9000 --tick=2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, tick, verbose)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().DurationVarP(&tick, "tick", "t", 5*time.Second, "Interval between server-side demo mutations (0 disables)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runServe(addr string, tick time.Duration, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store := stores.NewStore(demoState{
		User: "demo",
		Todos: []demoTodo{
			{Label: "connect a client", Done: false},
			{Label: "send a patch frame", Done: false},
		},
	})

	srv := live.NewServer(
		func() any {
			v, _ := stores.Get[demoState](store)
			return v
		},
		func(data json.RawMessage) error {
			var next demoState
			if err := json.Unmarshal(data, &next); err != nil {
				return err
			}
			store.Patch(next)
			return nil
		},
		live.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background mutation keeps the demo visibly live.
	if tick > 0 {
		go func() {
			ticker := time.NewTicker(tick)
			defer ticker.Stop()
			n := 0
			for {
				select {
				case <-ticker.C:
					n++
					stores.Update(store, func(s *demoState) {
						s.Todos = append(s.Todos, demoTodo{
							Label: fmt.Sprintf("tick %d", n),
							Done:  n%2 == 0,
						})
					})
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("session shutdown incomplete", "error", err)
	}
	return httpServer.Shutdown(shutdownCtx)
}
