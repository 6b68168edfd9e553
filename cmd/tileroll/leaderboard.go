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

	"github.com/vovakirdan/tileroll/internal/leaderboard"
	"github.com/vovakirdan/tileroll/internal/storage"
)

var flagHTTPAddr string

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Start a websocket leaderboard server",
	Long: `Serve the database's leaderboard table over a websocket at /ws.

Clients started with --leaderboard ws://<host>/ws submit their best scores
here and read back their best entry and rank.

Examples:
  tileroll leaderboard
  tileroll leaderboard --http :9090 --db ./board.db`,
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP listen address")
}

func runLeaderboard(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "tileroll-board")
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", leaderboard.NewServer(store, logger))

	srv := &http.Server{
		Addr:              flagHTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting leaderboard server", "address", flagHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case <-done:
	}

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
