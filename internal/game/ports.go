package game

import (
	"context"

	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/cubes"
)

// Persistence is the per-player key-value store.
// Calls may block; the session only makes them from Background tasks,
// apart from the initial load in NewSession.
type Persistence interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
	LoadSelectedCubeID() (string, bool, error)
	SaveSelectedCubeID(id string) error
	LoadCubelets() (int, error)
	SaveCubelets(n int) error
	LoadPurchased() ([]string, error)
	SavePurchased(ids []string) error
	RecordRun(r core.RunResult) error
	GamesPlayed() (int, error)
}

// Background runs slow work off the simulation goroutine.
// leaderboard.Worker implements it.
type Background interface {
	Post(name string, fn func(ctx context.Context) error)
}

// Snapshot is the published view of a session.
type Snapshot struct {
	State       State
	Mode        string
	Score       int
	HighScore   int
	Cubelets    int
	GamesPlayed int
	Rank        int // 0 when unknown
	TimeLeft    float64
	Timed       bool
	Moving      bool
	Cubes       []cubes.Cube
	Selected    cubes.Cube
}
