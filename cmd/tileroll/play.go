package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/game"
	"github.com/vovakirdan/tileroll/internal/leaderboard"
	"github.com/vovakirdan/tileroll/internal/platform/tui"
	"github.com/vovakirdan/tileroll/internal/registry"
	"github.com/vovakirdan/tileroll/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play TileRoll",
	Long: `Start a session in the given mode (default: classic).

Controls:
  Left/A     - Hop to the left tile
  Right/D    - Hop to the right tile
  Enter      - Start a run / back to menu
  E          - Equip the highlighted cube (menu)
  B          - Buy the highlighted cube (menu)
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Slower hops, wider spacing between spikes
  normal - Config defaults
  hard   - Faster hops, spikes closer together
  fixed  - No progression with score

Examples:
  tileroll play
  tileroll play timed
  tileroll play --difficulty hard --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	modeID := "classic"
	if len(args) == 1 {
		modeID = args[0]
	}
	mode, err := registry.Create(modeID)
	if err != nil {
		return fmt.Errorf("%w (run 'tileroll modes' to list them)", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "tileroll")
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	board, closeBoard := newLeaderboard(cfg.Leaderboard, store, flagProfile)
	defer closeBoard()

	worker := leaderboard.NewWorker(leaderboard.WorkerConfigFor(cfg.Leaderboard), logger)
	worker.Start()
	// Stop flushes pending saves before the store closes.
	defer worker.Stop()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	session, err := game.NewSession(game.Options{
		Config:      cfg,
		Runtime:     rt,
		Mode:        mode,
		Store:       store.Profile(flagProfile),
		Leaderboard: board,
		Background:  worker,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info("session started", "mode", modeID, "profile", flagProfile)
	return tui.Run(session, rt)
}
