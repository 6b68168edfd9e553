// Package game orchestrates a TileRoll session: the state machine, score,
// timer, and the wiring between track, physics, actor, contacts and input.
//
// A Session is driven from one goroutine. The host calls Step once per tick
// and issues commands between ticks. Slow work (persistence, leaderboard)
// is posted to a Background runner; its results come back through a mailbox
// that Step drains, so every mutation happens on the host goroutine.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tileroll/internal/actor"
	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/contact"
	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/cubes"
	"github.com/vovakirdan/tileroll/internal/input"
	"github.com/vovakirdan/tileroll/internal/leaderboard"
	"github.com/vovakirdan/tileroll/internal/physics"
	"github.com/vovakirdan/tileroll/internal/registry"
	"github.com/vovakirdan/tileroll/internal/track"
)

const mailboxSize = 64

// Options configures a Session.
type Options struct {
	Config      config.TileRollConfig
	Runtime     core.RuntimeConfig
	Mode        registry.Mode
	Store       Persistence
	Leaderboard leaderboard.Service // nil = offline
	Background  Background
	Logger      *log.Logger
}

// Session is one player's game.
type Session struct {
	cfg    config.TileRollConfig
	mode   registry.Mode
	logger *log.Logger

	store Persistence
	board leaderboard.Service
	bg    Background

	world      *physics.World
	track      *track.Generator
	cube       *actor.Cube
	resolver   *contact.Resolver
	gate       *input.Gate
	cubes      *cubes.Manager
	difficulty *config.DifficultyManager
	killFloor  *physics.Body

	state       State
	score       int
	highScore   int
	cubelets    int
	gamesPlayed int
	rank        int
	timeLeft    float64
	elapsed     float64
	ticks       int

	gracePending bool
	graceLeft    float64

	subs    map[int]func(Snapshot)
	nextSub int
	dirty   bool
	mailbox chan func()
}

// NewSession builds a session in the Menu state. It validates the
// configuration and loads the player's profile from opts.Store.
func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return nil, errors.New("game: nil persistence store")
	}
	if opts.Background == nil {
		return nil, errors.New("game: nil background runner")
	}
	if opts.Mode == nil {
		opts.Mode = Classic{}
	}
	if opts.Leaderboard == nil {
		opts.Leaderboard = leaderboard.Offline{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	seed := opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Session{
		cfg:        cfg,
		mode:       opts.Mode,
		logger:     opts.Logger,
		store:      opts.Store,
		board:      opts.Leaderboard,
		bg:         opts.Background,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		state:      Menu{},
		subs:       make(map[int]func(Snapshot)),
		mailbox:    make(chan func(), mailboxSize),
	}

	manager, err := cubes.NewManager(cfg.Cubes)
	if err != nil {
		return nil, err
	}
	s.cubes = manager

	s.world = physics.NewWorld(cfg.Physics)
	s.cube, err = actor.New(cfg.Player, cfg.Track.Step)
	if err != nil {
		return nil, err
	}
	s.world.SetActor(s.cube.Body())

	policy, err := track.NewHazardPolicy(cfg.Hazards, rng, s.spikeChance)
	if err != nil {
		return nil, err
	}
	s.track, err = track.New(cfg.Track, s.world, policy, rng)
	if err != nil {
		return nil, err
	}
	s.track.Seed()

	s.resolver = contact.NewResolver(contactHandler{s})
	s.world.OnContactBegin(s.resolver.Begin)
	s.gate = input.NewGate(s.cube)

	s.killFloor = physics.NewKillFloor(core.Vec3{}, 1)
	s.world.AddBody(s.killFloor)
	s.placeKillFloor(s.track.Tiles()[0])

	s.loadProfile()
	s.cube.UpdateModel(skinOf(s.cubes.Selected()))
	s.syncHighScore()

	return s, nil
}

// loadProfile reads persisted state. Failures leave defaults in place.
func (s *Session) loadProfile() {
	if hs, err := s.store.LoadHighScore(); err != nil {
		s.logger.Warn("load high score", "err", err)
	} else {
		s.highScore = hs
		s.cubes.SetHighScore(hs)
	}
	if n, err := s.store.LoadCubelets(); err != nil {
		s.logger.Warn("load cubelets", "err", err)
	} else {
		s.cubelets = n
	}
	if ids, err := s.store.LoadPurchased(); err != nil {
		s.logger.Warn("load purchased cubes", "err", err)
	} else {
		s.cubes.SetPurchased(ids)
	}
	if id, ok, err := s.store.LoadSelectedCubeID(); err != nil {
		s.logger.Warn("load selected cube", "err", err)
	} else if ok && !s.cubes.Restore(id) {
		s.logger.Warn("persisted cube unavailable, using default", "cube", id)
	}
	if n, err := s.store.GamesPlayed(); err != nil {
		s.logger.Warn("load games played", "err", err)
	} else {
		s.gamesPlayed = n
	}
}

func skinOf(c cubes.Cube) actor.Skin {
	return actor.Skin{Color: c.Color, Animation: c.Animation}
}

func (s *Session) spikeChance() float64 {
	return s.difficulty.SpikeChance(s.cfg.Hazards.Probability, s.cfg.Hazards.MaxChance, s.score, s.ticks)
}

// placeKillFloor moves the abyss sensor below the tile the cube last stood on.
func (s *Session) placeKillFloor(t *track.Tile) {
	width := 4 * float64(s.cfg.Track.Retention) * s.cfg.Track.Step
	top := t.Top()
	floor := physics.NewKillFloor(core.V3(top.X, top.Y-s.cfg.Track.AbyssDepth-0.5, top.Z), width)
	s.killFloor.Box = floor.Box
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Score returns the current run's score.
func (s *Session) Score() int {
	return s.score
}

// HighScore returns the best score known locally.
func (s *Session) HighScore() int {
	return s.highScore
}

// Mode returns the session's play mode.
func (s *Session) Mode() registry.Mode {
	return s.mode
}

// Tiles returns the retained tiles, oldest first.
func (s *Session) Tiles() []*track.Tile {
	return s.track.Tiles()
}

// Cube returns the player actor.
func (s *Session) Cube() *actor.Cube {
	return s.cube
}

// Subscribe registers fn for snapshots and calls it once immediately.
// The returned function removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	fn(s.Snapshot())
	return func() { delete(s.subs, id) }
}

// Snapshot returns the current published view.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:       s.state,
		Mode:        s.mode.ID(),
		Score:       s.score,
		HighScore:   s.highScore,
		Cubelets:    s.cubelets,
		GamesPlayed: s.gamesPlayed,
		Rank:        s.rank,
		TimeLeft:    s.timeLeft,
		Timed:       s.mode.TimeLimit(s.cfg) > 0,
		Moving:      s.cube.IsMoving(),
		Cubes:       s.cubes.Cubes(),
		Selected:    s.cubes.Selected(),
	}
}

func (s *Session) publish() {
	s.dirty = false
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// enqueue schedules fn to run on the host goroutine at the next Step.
// It is the only Session method safe to call from other goroutines.
func (s *Session) enqueue(fn func()) {
	select {
	case s.mailbox <- fn:
	default:
		s.logger.Warn("session mailbox full, dropping result")
	}
}

func (s *Session) drainMailbox() {
	for {
		select {
		case fn := <-s.mailbox:
			fn()
		default:
			return
		}
	}
}

// StartGame begins a run. It is a no-op unless the session is in Menu.
func (s *Session) StartGame() {
	if _, ok := s.state.(Menu); !ok {
		return
	}

	// The menu track is always fresh: seeded by NewSession or regenerated
	// by ReturnToMenu. Only the contact flags set while idling need clearing.
	s.resetRun(false)
	s.timeLeft = s.mode.TimeLimit(s.cfg)
	s.state = Playing{}
	s.gate.Unlock()

	s.logger.Debug("run started", "mode", s.mode.ID())
	s.publish()
}

// ReturnToMenu leaves a finished run. It is a no-op unless the session is Over.
func (s *Session) ReturnToMenu() {
	if _, ok := s.state.(Over); !ok {
		return
	}

	s.resetRun(true)
	s.state = Menu{}
	s.publish()
}

// resetRun restores the cube, track and per-run counters. With regenerate
// unset the existing tiles are kept and only their contact flags are cleared.
func (s *Session) resetRun(regenerate bool) {
	s.score = 0
	s.elapsed = 0
	s.ticks = 0
	s.timeLeft = 0
	s.gracePending = false

	s.gate.Lock()
	s.cube.Reset()
	s.cube.SetMoveDuration(s.cfg.Player.MoveDuration)
	if regenerate {
		s.track.Regenerate()
	} else {
		s.track.ResetContacts()
	}
	s.resolver.Reset()
	s.placeKillFloor(s.track.Tiles()[0])
}

// HandleSwipe forwards a swipe to the cube. It reports whether a hop started.
func (s *Session) HandleSwipe(dir core.Direction) bool {
	if _, ok := s.state.(Playing); !ok {
		return false
	}
	if !s.gate.Handle(dir) {
		return false
	}
	s.dirty = true
	return true
}

// SelectCube makes an unlocked cube current and persists the choice.
func (s *Session) SelectCube(id string) error {
	if err := s.cubes.Select(id); err != nil {
		return err
	}
	s.cube.UpdateModel(skinOf(s.cubes.Selected()))

	store := s.store
	s.bg.Post("save-selected-cube", func(context.Context) error {
		return store.SaveSelectedCubeID(id)
	})
	s.publish()
	return nil
}

// PurchaseCube spends cubelets to unlock a cube and persists the purchase.
func (s *Session) PurchaseCube(id string) error {
	remaining, err := s.cubes.Purchase(id, s.cubelets)
	if err != nil {
		return err
	}
	if remaining == s.cubelets {
		return nil
	}
	s.cubelets = remaining
	s.logger.Info("cube purchased", "cube", id, "cubelets", remaining)

	store := s.store
	purchased := s.cubes.Purchased()
	s.bg.Post("save-purchase", func(context.Context) error {
		if err := store.SavePurchased(purchased); err != nil {
			return err
		}
		return store.SaveCubelets(remaining)
	})
	s.publish()
	return nil
}

// Step advances the session by dt seconds.
func (s *Session) Step(dt float64) {
	s.drainMailbox()

	s.cube.Step(dt)
	s.world.Step(dt)
	s.stepGrace(dt)

	if _, ok := s.state.(Playing); ok {
		s.elapsed += dt
		s.ticks++
		if s.timeLeft > 0 {
			s.timeLeft -= dt
			s.dirty = true
			if s.timeLeft <= 0 {
				s.timeLeft = 0
				s.endRun(true, "timer")
			}
		}
	}

	if s.dirty {
		s.publish()
	}
}

// stepGrace applies the death impulse once the grace delay after a fall ends,
// unless the cube has already come to rest.
func (s *Session) stepGrace(dt float64) {
	if !s.gracePending {
		return
	}
	s.graceLeft -= dt
	if s.graceLeft > 0 {
		return
	}
	s.gracePending = false
	if s.cube.IsAtRest(s.cfg.Physics.RestSpeed) {
		return
	}
	s.cube.ApplyGameOverImpulse()
}

// tileLanded scores a landing and extends the track.
func (s *Session) tileLanded(t *track.Tile) {
	if _, ok := s.state.(Playing); !ok {
		return
	}
	s.score++
	s.cube.SnapTo(t.Top())
	s.track.Extend()
	s.cube.SetMoveDuration(s.difficulty.MoveDuration(s.cfg.Player.MoveDuration, s.score, s.ticks))
	s.placeKillFloor(t)
	s.dirty = true
}

// gameOver ends the run after a hazard or dead-zone contact.
func (s *Session) gameOver(cause contact.Cause) {
	if _, ok := s.state.(Playing); !ok {
		return
	}
	switch cause {
	case contact.CauseSpike:
		s.cube.Stop()
	case contact.CauseDeadZone:
		s.gracePending = true
		s.graceLeft = s.cfg.Contact.GameOverGrace
	}
	s.endRun(false, cause.String())
}

// endRun enters Over, awards cubelets and persists the run.
func (s *Session) endRun(timerExpired bool, cause string) {
	s.state = Over{TimerExpired: timerExpired}
	s.gate.Lock()
	s.gamesPlayed++
	s.cubelets += s.score * s.cfg.Rewards.CubeletsPerTile

	result := core.RunResult{
		ID:           uuid.New(),
		Mode:         s.mode.ID(),
		Score:        s.score,
		TimerExpired: timerExpired,
		Cause:        cause,
		Duration:     time.Duration(s.elapsed * float64(time.Second)),
	}
	s.logger.Info("run over", "mode", result.Mode, "score", s.score, "cause", cause)

	store := s.store
	cubelets := s.cubelets
	s.bg.Post("record-run", func(context.Context) error {
		if err := store.RecordRun(result); err != nil {
			return err
		}
		return store.SaveCubelets(cubelets)
	})

	if s.score > s.highScore {
		s.highScore = s.score
		s.cubes.SetHighScore(s.score)
		s.logger.Info("new high score", "score", s.score)
		s.saveHighScore(s.score)
	}

	s.publish()
}

// saveHighScore persists score locally, then reconciles with the leaderboard.
func (s *Session) saveHighScore(score int) {
	store, board := s.store, s.board
	s.bg.Post("save-high-score", func(ctx context.Context) error {
		if err := store.SaveHighScore(score); err != nil {
			return fmt.Errorf("save high score: %w", err)
		}
		return s.reconcile(ctx, store, board)
	})
}

// syncHighScore reconciles without a local write, used at startup.
func (s *Session) syncHighScore() {
	store, board := s.store, s.board
	s.bg.Post("sync-high-score", func(ctx context.Context) error {
		return s.reconcile(ctx, store, board)
	})
}

// reconcile runs on the background goroutine and reports back via enqueue.
func (s *Session) reconcile(ctx context.Context, store Persistence, board leaderboard.Service) error {
	best, err := leaderboard.Reconcile(ctx, store, board)
	if best > 0 {
		s.enqueue(func() { s.applyHighScore(best) })
	}
	if err != nil {
		return err
	}

	rank, ok, err := board.LoadRank(ctx)
	if err != nil {
		return fmt.Errorf("load rank: %w", err)
	}
	if ok {
		s.enqueue(func() {
			s.rank = rank
			s.dirty = true
		})
	}
	return nil
}

// applyHighScore adopts a reconciled high score if it is larger.
func (s *Session) applyHighScore(best int) {
	if best <= s.highScore {
		return
	}
	s.highScore = best
	s.cubes.SetHighScore(best)
	s.dirty = true
}

// contactHandler adapts Session to contact.Handler without exporting the hooks.
type contactHandler struct {
	s *Session
}

func (h contactHandler) TileLanded(t *track.Tile)     { h.s.tileLanded(t) }
func (h contactHandler) GameOver(cause contact.Cause) { h.s.gameOver(cause) }
