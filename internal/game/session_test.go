package game

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/cubes"
	"github.com/vovakirdan/tileroll/internal/leaderboard"
	"github.com/vovakirdan/tileroll/internal/registry"
	"github.com/vovakirdan/tileroll/internal/track"
)

const dt = 1.0 / 60.0

// memStore is an in-memory Persistence.
type memStore struct {
	highScore int
	selected  string
	hasSel    bool
	cubelets  int
	purchased []string
	runs      []core.RunResult
	failLoads bool
}

func (m *memStore) LoadHighScore() (int, error) {
	if m.failLoads {
		return 0, errors.New("disk gone")
	}
	return m.highScore, nil
}
func (m *memStore) SaveHighScore(s int) error { m.highScore = s; return nil }
func (m *memStore) LoadSelectedCubeID() (string, bool, error) {
	return m.selected, m.hasSel, nil
}
func (m *memStore) SaveSelectedCubeID(id string) error {
	m.selected, m.hasSel = id, true
	return nil
}
func (m *memStore) LoadCubelets() (int, error)       { return m.cubelets, nil }
func (m *memStore) SaveCubelets(n int) error         { m.cubelets = n; return nil }
func (m *memStore) LoadPurchased() ([]string, error) { return m.purchased, nil }
func (m *memStore) SavePurchased(ids []string) error { m.purchased = ids; return nil }
func (m *memStore) RecordRun(r core.RunResult) error { m.runs = append(m.runs, r); return nil }
func (m *memStore) GamesPlayed() (int, error)        { return len(m.runs), nil }

// queueBackground holds tasks until run is called.
type queueBackground struct {
	tasks []func(ctx context.Context) error
	names []string
}

func (q *queueBackground) Post(name string, fn func(ctx context.Context) error) {
	q.names = append(q.names, name)
	q.tasks = append(q.tasks, fn)
}

func (q *queueBackground) run() {
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		fn(context.Background()) //nolint:errcheck
	}
}

// memRemote is a single-player leaderboard.Service.
type memRemote struct {
	score int
	found bool
	rank  int
}

func (r *memRemote) SubmitScore(_ context.Context, s int) error {
	r.score, r.found = s, true
	return nil
}
func (r *memRemote) LoadTopEntry(context.Context) (int, bool, error) { return r.score, r.found, nil }
func (r *memRemote) LoadRank(context.Context) (int, bool, error)     { return r.rank, r.found, nil }

type fixture struct {
	s      *Session
	store  *memStore
	bg     *queueBackground
	remote *memRemote
}

func newFixture(t *testing.T, mode registry.Mode, mutate func(*config.TileRollConfig)) *fixture {
	t.Helper()
	cfg := config.DefaultTileRollConfig()
	cfg.Hazards.Policy = "none"
	if mutate != nil {
		mutate(&cfg)
	}

	f := &fixture{store: &memStore{}, bg: &queueBackground{}, remote: &memRemote{rank: 3}}
	s, err := NewSession(Options{
		Config:      cfg,
		Runtime:     core.RuntimeConfig{Seed: 42, TickRate: 60},
		Mode:        mode,
		Store:       f.store,
		Leaderboard: f.remote,
		Background:  f.bg,
	})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	f.s = s
	return f
}

func (f *fixture) steps(seconds float64) {
	n := int(seconds / dt)
	for i := 0; i < n; i++ {
		f.s.Step(dt)
	}
}

// start begins a run and lets the cube settle on the first tile.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	f.s.StartGame()
	f.steps(1)
	if !f.s.Cube().Body().Resting {
		t.Fatal("Cube did not settle on the first tile")
	}
}

// hop swipes toward the next tile (or away from it) and waits for the outcome.
func (f *fixture) hop(t *testing.T, correct bool) {
	t.Helper()
	next := f.nextTile()
	dir := next.Position.Direction()
	if !correct {
		if dir == core.DirLeft {
			dir = core.DirRight
		} else {
			dir = core.DirLeft
		}
	}
	if !f.s.HandleSwipe(dir) {
		t.Fatal("Swipe rejected")
	}
	f.steps(0.5)
}

// nextTile returns the first tile the cube has not landed on yet.
func (f *fixture) nextTile() *track.Tile {
	tiles := f.s.Tiles()
	for _, tile := range tiles {
		if !tile.ContactHandled {
			return tile
		}
	}
	return tiles[len(tiles)-1]
}

func TestInitialState(t *testing.T) {
	f := newFixture(t, Classic{}, nil)

	if _, ok := f.s.State().(Menu); !ok {
		t.Fatalf("Initial state %v, want menu", f.s.State())
	}
	if len(f.s.Tiles()) != 10 {
		t.Errorf("Expected 10 seeded tiles, got %d", len(f.s.Tiles()))
	}
	if f.s.HandleSwipe(core.DirRight) {
		t.Error("Swipes in the menu must be ignored")
	}
}

func TestStartGame(t *testing.T) {
	f := newFixture(t, Classic{}, nil)

	var last Snapshot
	f.s.Subscribe(func(s Snapshot) { last = s })

	f.s.StartGame()
	if _, ok := f.s.State().(Playing); !ok {
		t.Fatalf("State %v, want playing", f.s.State())
	}
	if _, ok := last.State.(Playing); !ok || last.Score != 0 {
		t.Errorf("Snapshot not published: %+v", last)
	}

	// Not from Playing
	f.s.StartGame()
	if _, ok := f.s.State().(Playing); !ok {
		t.Error("StartGame while playing changed state")
	}
}

func TestStartGameKeepsMenuTrackAndClearsContacts(t *testing.T) {
	f := newFixture(t, Classic{}, nil)

	// The cube settles on the first tile while idling in the menu.
	f.steps(1)
	before := f.s.Tiles()
	if !before[0].ContactHandled {
		t.Fatal("Expected the first tile to be handled after idling")
	}

	f.s.StartGame()
	after := f.s.Tiles()
	if len(after) != len(before) {
		t.Fatalf("Track length changed: %d -> %d", len(before), len(after))
	}
	for i := range after {
		if after[i] != before[i] {
			t.Errorf("Tile %d replaced on start", i)
		}
		if after[i].ContactHandled {
			t.Errorf("Tile %d still marked handled", i)
		}
	}

	f.steps(1)
	f.hop(t, true)
	if f.s.Score() != 1 {
		t.Errorf("Score %d after first hop, want 1", f.s.Score())
	}
}

func TestCorrectHopsScore(t *testing.T) {
	f := newFixture(t, Classic{}, nil)
	f.start(t)

	for i := 1; i <= 3; i++ {
		f.hop(t, true)
		if f.s.Score() != i {
			t.Fatalf("After hop %d score is %d", i, f.s.Score())
		}
	}

	if len(f.s.Tiles()) != 13 {
		t.Errorf("Expected 13 tiles after 3 landings, got %d", len(f.s.Tiles()))
	}
	if _, ok := f.s.State().(Playing); !ok {
		t.Errorf("State %v after correct hops", f.s.State())
	}
}

func TestRepeatedContactScoresOnce(t *testing.T) {
	f := newFixture(t, Classic{}, nil)
	f.start(t)
	f.hop(t, true)

	// Resting on the tile keeps the contact alive; further steps must not rescore.
	f.steps(2)
	if f.s.Score() != 1 {
		t.Errorf("Score %d after resting on a tile, want 1", f.s.Score())
	}
}

func TestWrongHopFallsIntoDeadZone(t *testing.T) {
	f := newFixture(t, Classic{}, nil)
	f.start(t)
	f.hop(t, true)

	before := f.s.Cube().Position().Y
	f.hop(t, false)
	f.steps(1)

	over, ok := f.s.State().(Over)
	if !ok || over.TimerExpired {
		t.Fatalf("State %v, want over without timer", f.s.State())
	}
	if f.s.Score() != 1 {
		t.Errorf("Score %d, want 1", f.s.Score())
	}
	if f.s.Cube().Position().Y >= before-2 {
		t.Error("Cube should keep falling after a dead-zone contact")
	}
	if f.s.gate.Open() {
		t.Error("Gate must stay closed after game over")
	}
}

func TestSpikeEndsRunAndLocksInput(t *testing.T) {
	f := newFixture(t, Classic{}, func(c *config.TileRollConfig) {
		c.Hazards.Policy = "periodic"
		c.Hazards.Period = 2
	})
	f.start(t)

	if f.s.Tiles()[2].Spike == nil {
		t.Fatal("Expected a spike beside tile 2")
	}

	f.hop(t, true)  // tile 1
	f.hop(t, false) // the spike beside tile 2

	over, ok := f.s.State().(Over)
	if !ok || over.TimerExpired {
		t.Fatalf("State %v, want over(false)", f.s.State())
	}
	if f.s.Score() != 1 {
		t.Errorf("Spike landing must not score, score %d", f.s.Score())
	}

	for i := 0; i < 10; i++ {
		f.steps(0.5)
		if f.s.HandleSwipe(core.DirLeft) || f.s.HandleSwipe(core.DirRight) {
			t.Fatal("Input accepted after a spike")
		}
	}
	if f.s.Cube().IsMoving() {
		t.Error("Cube moved after game over")
	}
}

func TestSpikesCanBeDodged(t *testing.T) {
	f := newFixture(t, Classic{}, func(c *config.TileRollConfig) {
		c.Hazards.Policy = "periodic"
		c.Hazards.Period = 2
	})
	f.start(t)

	for i := 1; i <= 6; i++ {
		next := f.nextTile()
		if next.Hazard {
			t.Fatalf("Tile %d on the path is a spike", next.Index)
		}
		if next.Index%2 == 0 && next.Spike == nil {
			t.Fatalf("Expected a spike beside tile %d", next.Index)
		}
		f.hop(t, true)
		if f.s.Score() != i {
			t.Fatalf("After hop %d score is %d", i, f.s.Score())
		}
	}
	if _, ok := f.s.State().(Playing); !ok {
		t.Errorf("State %v, want playing after dodging spikes", f.s.State())
	}
}

func TestTimedModeExpires(t *testing.T) {
	f := newFixture(t, Timed{}, func(c *config.TileRollConfig) {
		c.Modes.Timed.Seconds = 2
	})
	f.start(t)
	f.hop(t, true)

	f.steps(1)
	over, ok := f.s.State().(Over)
	if !ok || !over.TimerExpired {
		t.Fatalf("State %v, want over(time)", f.s.State())
	}
	if f.s.Score() != 1 {
		t.Errorf("Score %d, want 1", f.s.Score())
	}

	f.bg.run()
	if len(f.store.runs) != 1 || !f.store.runs[0].TimerExpired || f.store.runs[0].Mode != "timed" {
		t.Errorf("Unexpected recorded runs: %+v", f.store.runs)
	}
}

func TestHighScoreSavedAndSubmitted(t *testing.T) {
	f := newFixture(t, Classic{}, nil)
	f.bg.run() // startup sync with empty stores

	f.start(t)
	f.hop(t, true)
	f.hop(t, true)
	f.hop(t, false)
	f.steps(1)

	if f.s.HighScore() != 2 {
		t.Fatalf("High score %d, want 2", f.s.HighScore())
	}

	f.bg.run()
	f.s.Step(dt)

	if f.store.highScore != 2 {
		t.Errorf("Stored high score %d, want 2", f.store.highScore)
	}
	if f.remote.score != 2 {
		t.Errorf("Submitted score %d, want 2", f.remote.score)
	}
	if f.s.Snapshot().Rank != 3 {
		t.Errorf("Rank %d, want 3", f.s.Snapshot().Rank)
	}
	if f.store.cubelets != 2 || len(f.store.runs) != 1 {
		t.Errorf("Run not recorded: cubelets=%d runs=%d", f.store.cubelets, len(f.store.runs))
	}
}

func TestLowerScoreKeepsHighScore(t *testing.T) {
	f := newFixture(t, Classic{}, nil)
	f.store.highScore = 100
	f.s.loadProfile()

	f.start(t)
	f.hop(t, false)
	f.steps(1)

	if f.s.HighScore() != 100 {
		t.Errorf("High score %d, want 100", f.s.HighScore())
	}
	for _, name := range f.bg.names {
		if name == "save-high-score" {
			t.Error("Lower score must not trigger a high-score save")
		}
	}
}

func TestStartupSyncTakesRemoteMax(t *testing.T) {
	store := &memStore{highScore: 100}
	remote := &memRemote{score: 150, found: true, rank: 1}
	bg := &queueBackground{}
	s, err := NewSession(Options{
		Config:      config.DefaultTileRollConfig(),
		Runtime:     core.RuntimeConfig{Seed: 1},
		Store:       store,
		Leaderboard: remote,
		Background:  bg,
	})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}

	bg.run()
	s.Step(dt)

	if s.HighScore() != 150 || store.highScore != 150 || remote.score != 150 {
		t.Errorf("After sync: session=%d store=%d remote=%d, want 150",
			s.HighScore(), store.highScore, remote.score)
	}
	if s.cubes.IsUnlocked("royal") {
		t.Error("Royal (200) should stay locked at 150")
	}
	if !s.cubes.IsUnlocked("toxic") {
		t.Error("Toxic (100) should be unlocked at 150")
	}
}

func TestReturnToMenu(t *testing.T) {
	f := newFixture(t, Classic{}, nil)

	f.s.ReturnToMenu()
	if _, ok := f.s.State().(Menu); !ok {
		t.Fatal("ReturnToMenu from menu changed state")
	}

	f.start(t)
	f.s.ReturnToMenu()
	if _, ok := f.s.State().(Playing); !ok {
		t.Fatal("ReturnToMenu while playing must be a no-op")
	}

	f.hop(t, true)
	f.hop(t, false)
	f.steps(1)
	if _, ok := f.s.State().(Over); !ok {
		t.Fatalf("Expected over, got %v", f.s.State())
	}

	// StartGame from Over is a no-op.
	f.s.StartGame()
	if _, ok := f.s.State().(Over); !ok {
		t.Fatal("StartGame from over changed state")
	}

	f.s.ReturnToMenu()
	if _, ok := f.s.State().(Menu); !ok {
		t.Fatalf("Expected menu, got %v", f.s.State())
	}
	if f.s.Score() != 0 {
		t.Errorf("Score %d after return, want 0", f.s.Score())
	}
	if f.s.Cube().Position() != config.DefaultTileRollConfig().Player.InitialVec() {
		t.Errorf("Cube not reset: %v", f.s.Cube().Position())
	}

	f.start(t)
	if f.s.Score() != 0 {
		t.Errorf("Score %d on restart, want 0", f.s.Score())
	}
	f.hop(t, true)
	if f.s.Score() != 1 {
		t.Errorf("Score %d after first hop of second run, want 1", f.s.Score())
	}
}

func TestSwipeDuringHopDropped(t *testing.T) {
	f := newFixture(t, Classic{}, nil)
	f.start(t)

	dir := f.nextTile().Position.Direction()
	if !f.s.HandleSwipe(dir) {
		t.Fatal("First swipe rejected")
	}
	f.s.Step(dt)
	if f.s.HandleSwipe(dir) {
		t.Error("Second swipe during hop accepted")
	}
	f.steps(0.5)
	if f.s.Score() != 1 {
		t.Errorf("Score %d, want 1", f.s.Score())
	}
}

func TestSelectAndPurchaseCube(t *testing.T) {
	f := newFixture(t, Classic{}, nil)

	if err := f.s.SelectCube("ocean"); !errors.Is(err, cubes.ErrLocked) {
		t.Fatalf("Expected ErrLocked, got %v", err)
	}

	f.s.cubelets = 400
	if err := f.s.PurchaseCube("ocean"); err != nil {
		t.Fatalf("PurchaseCube() failed: %v", err)
	}
	if err := f.s.SelectCube("ocean"); err != nil {
		t.Fatalf("SelectCube() failed: %v", err)
	}

	snap := f.s.Snapshot()
	if snap.Cubelets != 100 || snap.Selected.ID != "ocean" {
		t.Errorf("Unexpected snapshot: cubelets=%d selected=%s", snap.Cubelets, snap.Selected.ID)
	}
	if f.s.Cube().Skin().Color != core.ColorBlue {
		t.Errorf("Skin color %v, want blue", f.s.Cube().Skin().Color)
	}

	f.bg.run()
	if f.store.selected != "ocean" || len(f.store.purchased) != 1 || f.store.cubelets != 100 {
		t.Errorf("Not persisted: %+v", f.store)
	}
}

func TestLoadFailuresAreNotFatal(t *testing.T) {
	store := &memStore{failLoads: true}
	s, err := NewSession(Options{
		Config:     config.DefaultTileRollConfig(),
		Store:      store,
		Background: &queueBackground{},
	})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if s.HighScore() != 0 {
		t.Errorf("High score %d, want 0", s.HighScore())
	}
}

func TestNewSessionFailsFast(t *testing.T) {
	cfg := config.DefaultTileRollConfig()
	if _, err := NewSession(Options{Config: cfg, Background: &queueBackground{}}); err == nil {
		t.Error("Expected error for nil store")
	}

	cfg.Track.Step = 0
	_, err := NewSession(Options{Config: cfg, Store: &memStore{}, Background: &queueBackground{}})
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"classic", "timed"} {
		if !registry.Exists(id) {
			t.Errorf("Mode %q not registered", id)
		}
	}
	if (Timed{}).TimeLimit(config.DefaultTileRollConfig()) != 60 {
		t.Error("Timed mode should use the configured countdown")
	}
}

var _ leaderboard.Service = (*memRemote)(nil)
