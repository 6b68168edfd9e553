// tileroll is an isometric arcade game for the terminal: roll a cube down a
// zig-zag staircase of tiles by swiping left or right.
//
// Usage:
//
//	tileroll play [mode]        - Play (classic or timed)
//	tileroll modes              - List play modes
//	tileroll scores             - Browse run history and the leaderboard
//	tileroll cubes              - List cube skins; select or buy one
//	tileroll serve              - Start SSH server for remote play
//	tileroll leaderboard        - Run a websocket leaderboard server
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible tracks
//	--db <path>           - Set database path (default: ~/.tileroll/tileroll.db)
//	--config <path>       - Custom YAML config
//	--profile <name>      - Player profile (default: local)
//	--leaderboard <url>   - "local" or a ws:// leaderboard endpoint
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/leaderboard"
	"github.com/vovakirdan/tileroll/internal/storage"
)

var (
	// Global flags
	flagFPS         int
	flagSeed        int64
	flagDBPath      string
	flagConfig      string
	flagDifficulty  string
	flagLogLevel    string
	flagProfile     string
	flagLeaderboard string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tileroll",
	Short: "TileRoll - roll a cube down an endless staircase",
	Long: `TileRoll is an isometric endless arcade game for the terminal.
Each swipe hops the cube one tile left or right down a zig-zag track.
Pick the wrong side and it falls; land on a spike and the run is over.

Available commands:
  play         - Start a run (classic or timed)
  modes        - Show all play modes
  scores       - Run history and leaderboard
  cubes        - Cube skins: list, select, buy
  serve        - Start SSH server for remote play
  leaderboard  - Start a websocket leaderboard server

Examples:
  tileroll play
  tileroll play timed --difficulty hard
  tileroll cubes select ocean
  tileroll serve --ssh :2222
  tileroll play --leaderboard ws://localhost:8080/ws`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tileroll/tileroll.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", storage.DefaultProfile, "Player profile name")
	rootCmd.PersistentFlags().StringVar(&flagLeaderboard, "leaderboard", "", `Leaderboard: "" (config), "off", "local", or ws://host/ws`)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(cubesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(leaderboardCmd)
}

// loadConfig reads the game config and applies the difficulty preset.
func loadConfig() (config.TileRollConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	}
	return cfg, cfg.Validate()
}

// newLogger creates the shared logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens ~/.tileroll/tileroll.log for appending so logs stay
// off the alternate screen.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".tileroll")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "tileroll.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// newLeaderboard resolves the --leaderboard flag, falling back to the
// config URL. The returned close function is never nil.
func newLeaderboard(cfg config.LeaderboardConfig, store *storage.Store, player string) (leaderboard.Service, func()) {
	target := flagLeaderboard
	if target == "" {
		target = cfg.URL
	}
	if cfg.Player != "" && player == storage.DefaultProfile {
		player = cfg.Player
	}

	switch target {
	case "", "off":
		return leaderboard.Offline{}, func() {}
	case "local":
		return leaderboard.Local{Board: store, Player: player}, func() {}
	}
	client := leaderboard.NewClient(target, player, cfg.Timeout())
	return client, func() {
		//nolint:errcheck // Best-effort close on exit
		client.Close()
	}
}
