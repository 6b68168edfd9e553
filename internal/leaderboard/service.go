// Package leaderboard syncs the local high score with a leaderboard service.
//
// All calls run on a single background Worker so the simulation never blocks
// on the network or disk. Reconcile applies the max(local, remote) rule and
// pushes the larger value to whichever side had the smaller one.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrOffline is returned by the Offline service.
var ErrOffline = errors.New("leaderboard: offline")

// Service is a remote leaderboard for one player.
type Service interface {
	SubmitScore(ctx context.Context, score int) error
	LoadTopEntry(ctx context.Context) (int, bool, error)
	LoadRank(ctx context.Context) (int, bool, error)
}

// Board is a multi-player score table. storage.Store implements it.
type Board interface {
	Submit(player string, score int) (int, error)
	Best(player string) (int, bool, error)
	Rank(player string) (int, bool, error)
}

// HighScoreStore is the local side of a reconciliation.
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}

// Offline is a Service that is never reachable.
type Offline struct{}

func (Offline) SubmitScore(context.Context, int) error { return ErrOffline }

func (Offline) LoadTopEntry(context.Context) (int, bool, error) { return 0, false, ErrOffline }

func (Offline) LoadRank(context.Context) (int, bool, error) { return 0, false, ErrOffline }

// Local serves one player's view of an in-process Board.
type Local struct {
	Board  Board
	Player string
}

// SubmitScore implements Service.
func (l Local) SubmitScore(_ context.Context, score int) error {
	_, err := l.Board.Submit(l.Player, score)
	return err
}

// LoadTopEntry implements Service.
func (l Local) LoadTopEntry(context.Context) (int, bool, error) {
	return l.Board.Best(l.Player)
}

// LoadRank implements Service.
func (l Local) LoadRank(context.Context) (int, bool, error) {
	return l.Board.Rank(l.Player)
}

// Reconcile makes local and remote agree on the larger high score and
// returns it. If the remote cannot be read, the local value is returned
// along with the error.
func Reconcile(ctx context.Context, local HighScoreStore, remote Service) (int, error) {
	mine, err := local.LoadHighScore()
	if err != nil {
		return 0, fmt.Errorf("leaderboard: load local high score: %w", err)
	}

	theirs, found, err := remote.LoadTopEntry(ctx)
	if err != nil {
		return mine, fmt.Errorf("leaderboard: load remote entry: %w", err)
	}

	best := mine
	if found && theirs > best {
		best = theirs
	}

	if mine < best {
		if err := local.SaveHighScore(best); err != nil {
			return best, fmt.Errorf("leaderboard: save local high score: %w", err)
		}
	}
	if best > 0 && (!found || theirs < best) {
		if err := remote.SubmitScore(ctx, best); err != nil {
			return best, fmt.Errorf("leaderboard: submit score: %w", err)
		}
	}
	return best, nil
}
