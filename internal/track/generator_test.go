package track

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tileroll/internal/config"
)

type fakeScene struct {
	attached []*Tile
	detached []*Tile
	live     map[*Tile]bool
}

func newFakeScene() *fakeScene {
	return &fakeScene{live: make(map[*Tile]bool)}
}

func (s *fakeScene) AttachTile(t *Tile) {
	s.attached = append(s.attached, t)
	s.live[t] = true
}

func (s *fakeScene) DetachTile(t *Tile) {
	s.detached = append(s.detached, t)
	delete(s.live, t)
}

func newTestGenerator(t *testing.T, policy HazardPolicy, seed int64) (*Generator, *fakeScene) {
	t.Helper()
	scene := newFakeScene()
	g, err := New(config.DefaultTileRollConfig().Track, scene, policy, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g, scene
}

func TestSeedInitialTiles(t *testing.T) {
	g, scene := newTestGenerator(t, Periodic{Every: 3}, 7)
	g.Seed()

	tiles := g.Tiles()
	if len(tiles) != 10 {
		t.Fatalf("Expected 10 tiles, got %d", len(tiles))
	}
	if len(scene.live) != 10 {
		t.Errorf("Expected 10 attached tiles, got %d", len(scene.live))
	}

	hazards := 0
	for i, tile := range tiles {
		if tile.First != (i == 0) {
			t.Errorf("Tile %d: First = %v", i, tile.First)
		}
		if tile.Hazard {
			t.Errorf("Tile %d on the path is a hazard", i)
		}
		if tile.First && tile.Spike != nil {
			t.Errorf("Tile %d is first and carries a spike", i)
		}
		if (tile.DeadZone != nil) != !tile.First {
			t.Errorf("Tile %d: dead-zone present = %v", i, tile.DeadZone != nil)
		}
		if tile.Spike != nil {
			hazards++
		}
	}
	if hazards != 3 {
		t.Errorf("Expected spikes at 3, 6, 9; got %d spikes", hazards)
	}
}

func TestSpikesStandOnTheGapCell(t *testing.T) {
	g, _ := newTestGenerator(t, Periodic{Every: 2}, 11)
	g.Seed()
	for i := 0; i < 20; i++ {
		g.Extend()
	}

	step := config.DefaultTileRollConfig().Track.Step
	tiles := g.Tiles()
	spikes := 0
	for i := 1; i < len(tiles); i++ {
		tile, spike := tiles[i], tiles[i].Spike
		if spike == nil {
			continue
		}
		spikes++
		if !spike.Hazard || spike.DeadZone != nil || spike.First {
			t.Errorf("Tile %d: malformed spike %+v", tile.Index, spike)
		}
		if spike.Position == tile.Position {
			t.Errorf("Tile %d: spike on the path side", tile.Index)
		}
		want := tiles[i-1].Center.Add(spike.Position.Offset(step))
		if spike.Center != want {
			t.Errorf("Tile %d: spike at %v, want gap cell %v", tile.Index, spike.Center, want)
		}
		if spike.Box().OverlapsXZ(tile.Box()) {
			t.Errorf("Tile %d: spike overlaps the path tile", tile.Index)
		}
	}
	if spikes == 0 {
		t.Fatal("Expected spikes in the window")
	}
}

func TestFirstTileAtOrigin(t *testing.T) {
	g, _ := newTestGenerator(t, NoHazards{}, 1)
	g.Seed()

	first := g.Tiles()[0]
	if first.Center != config.DefaultTileRollConfig().Track.OriginVec() {
		t.Errorf("First tile at %v, want origin", first.Center)
	}
}

func TestExtendRetentionFIFO(t *testing.T) {
	g, scene := newTestGenerator(t, NoHazards{}, 99)
	g.Seed()

	for i := 0; i < 50; i++ {
		oldest := g.Tiles()[0]
		full := g.Len() >= 15
		g.Extend()

		if g.Len() > 15 {
			t.Fatalf("Window grew to %d tiles", g.Len())
		}
		if full {
			if scene.detached[len(scene.detached)-1] != oldest {
				t.Fatalf("Extend %d removed a tile other than the oldest", i)
			}
			if scene.live[oldest] {
				t.Fatalf("Removed tile is still attached")
			}
		}
	}
	if g.Len() != 15 {
		t.Errorf("Expected full window of 15, got %d", g.Len())
	}
}

func TestZigZagPlacement(t *testing.T) {
	g, _ := newTestGenerator(t, NoHazards{}, 12345)
	g.Seed()
	for i := 0; i < 40; i++ {
		g.Extend()
	}

	tiles := g.Tiles()
	for i := 1; i < len(tiles); i++ {
		prev, cur := tiles[i-1].Center, tiles[i].Center
		if cur.Y != prev.Y-2 {
			t.Errorf("Tile %d: y %v, want %v", i, cur.Y, prev.Y-2)
		}
		dx, dz := cur.X-prev.X, cur.Z-prev.Z
		switch tiles[i].Position {
		case PositionRight:
			if dx != 2 || dz != 0 {
				t.Errorf("Right tile %d moved (%v, %v)", i, dx, dz)
			}
		case PositionLeft:
			if dx != 0 || dz != 2 {
				t.Errorf("Left tile %d moved (%v, %v)", i, dx, dz)
			}
		}
	}
}

func TestPositionsVary(t *testing.T) {
	g, _ := newTestGenerator(t, NoHazards{}, 3)
	g.Seed()
	counts := map[Position]int{}
	for i := 0; i < 200; i++ {
		counts[g.Extend().Position]++
	}
	if counts[PositionLeft] < 60 || counts[PositionRight] < 60 {
		t.Errorf("Position choice looks biased: %v", counts)
	}
}

func TestDeadZoneUnderGap(t *testing.T) {
	g, _ := newTestGenerator(t, NoHazards{}, 5)
	g.Seed()

	tiles := g.Tiles()
	for i := 1; i < len(tiles); i++ {
		dz := tiles[i].DeadZone
		if dz == nil {
			t.Fatalf("Tile %d has no dead-zone", i)
		}
		// One unit below the tile surface
		if math.Abs(dz.Box.Top()-(tiles[i].Top().Y-1)) > 1e-9 {
			t.Errorf("Tile %d dead-zone top %v, want %v", i, dz.Box.Top(), tiles[i].Top().Y-1)
		}
		// Under the cell the wrong swipe reaches, not under the tile
		if dz.Box.OverlapsXZ(tiles[i].Box()) {
			t.Errorf("Tile %d dead-zone overlaps its own tile", i)
		}
		prev := tiles[i-1].Center
		wrong := prev.Add(otherPosition(tiles[i].Position).Offset(2))
		if dz.Box.Center.X != wrong.X || dz.Box.Center.Z != wrong.Z {
			t.Errorf("Tile %d dead-zone at %v, want under %v", i, dz.Box.Center, wrong)
		}
	}
}

func otherPosition(p Position) Position {
	if p == PositionLeft {
		return PositionRight
	}
	return PositionLeft
}

func TestResetContacts(t *testing.T) {
	g, _ := newTestGenerator(t, NoHazards{}, 1)
	g.Seed()
	for _, tile := range g.Tiles() {
		tile.ContactHandled = true
	}
	g.ResetContacts()
	for i, tile := range g.Tiles() {
		if tile.ContactHandled {
			t.Errorf("Tile %d still handled", i)
		}
	}
}

func TestRegenerate(t *testing.T) {
	g, scene := newTestGenerator(t, NoHazards{}, 1)
	g.Seed()
	for i := 0; i < 20; i++ {
		g.Extend()
	}
	old := g.Tiles()

	g.Regenerate()

	if g.Len() != 10 {
		t.Fatalf("Expected 10 tiles after regenerate, got %d", g.Len())
	}
	for _, tile := range old {
		if scene.live[tile] {
			t.Fatal("Old tile still attached after regenerate")
		}
	}
	first := g.Tiles()[0]
	if !first.First || first.Index != 0 {
		t.Errorf("Regenerated window does not start with a first tile: %+v", first)
	}
}

func TestDeterministicSeed(t *testing.T) {
	g1, _ := newTestGenerator(t, NoHazards{}, 42)
	g2, _ := newTestGenerator(t, NoHazards{}, 42)
	g1.Seed()
	g2.Seed()
	a, b := g1.Tiles(), g2.Tiles()
	for i := range a {
		if a[i].Center != b[i].Center {
			t.Errorf("Tile %d differs: %v vs %v", i, a[i].Center, b[i].Center)
		}
	}
}

func TestNewRejectsNilScene(t *testing.T) {
	if _, err := New(config.DefaultTileRollConfig().Track, nil, nil, nil); err == nil {
		t.Error("Expected error for nil scene")
	}
}
