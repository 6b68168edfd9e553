package tui

import (
	"math"

	"github.com/vovakirdan/tileroll/internal/actor"
	"github.com/vovakirdan/tileroll/internal/core"
	"github.com/vovakirdan/tileroll/internal/game"
	"github.com/vovakirdan/tileroll/internal/track"
)

// Projection scale: world x/z spread horizontally, depth and height share rows.
const (
	colsPerUnit  = 2.0
	rowsPerDepth = 0.5
	tileGlyphW   = 5
)

// Frame is everything needed to draw one picture of a session.
type Frame struct {
	Snapshot  game.Snapshot
	ModeTitle string
	Tiles     []*track.Tile
	Cube      core.AABB
	Rotation  core.Vec3
	Skin      actor.Skin
	Ticks     int
	Cursor    int    // Highlighted cube in the menu
	Status    string // Transient message, e.g. a failed purchase
}

// FrameOf collects a Frame from a live session.
func FrameOf(s *game.Session, ticks, cursor int, status string) Frame {
	cube := s.Cube()
	return Frame{
		Snapshot:  s.Snapshot(),
		ModeTitle: s.Mode().Title(),
		Tiles:     s.Tiles(),
		Cube:      cube.Body().Box,
		Rotation:  cube.Rotation(),
		Skin:      cube.Skin(),
		Ticks:     ticks,
		Cursor:    cursor,
		Status:    status,
	}
}

// camera maps world points onto the screen in a fixed isometric view.
type camera struct {
	focus  core.Vec3
	cx, cy int
}

func (c camera) project(v core.Vec3) (int, int) {
	d := v.Sub(c.focus)
	x := c.cx + int(math.Round((d.X-d.Z)*colsPerUnit))
	y := c.cy + int(math.Round((d.X+d.Z)*rowsPerDepth-d.Y))
	return x, y
}

// progress is how far along the corridor a point is.
func progress(v core.Vec3) float64 {
	return v.X + v.Z
}

// lastPassed returns the furthest tile whose progress does not exceed p,
// or nil when there are no tiles.
func lastPassed(tiles []*track.Tile, p float64) *track.Tile {
	var best *track.Tile
	for _, t := range tiles {
		if progress(t.Center) > p+1e-6 {
			continue
		}
		if best == nil || progress(t.Center) > progress(best.Center) {
			best = t
		}
	}
	if best == nil && len(tiles) > 0 {
		best = tiles[0]
	}
	return best
}

// newCamera follows the cube along the corridor but not into a fall.
func newCamera(s *core.Screen, tiles []*track.Tile, cube core.Vec3) camera {
	c := camera{focus: cube, cx: s.Width() / 2, cy: s.Height() / 3}
	if t := lastPassed(tiles, progress(cube)); t != nil {
		top := t.Top()
		c.focus.Y = top.Y - (progress(cube) - progress(top))
	}
	return c
}

// DrawScene renders the track and the cube.
func DrawScene(s *core.Screen, f Frame) {
	cam := newCamera(s, f.Tiles, f.Cube.Center)

	bottom := core.V3(f.Cube.Center.X, f.Cube.Min().Y, f.Cube.Center.Z)
	falling := bottom.Y < cam.focus.Y-0.5

	if falling {
		drawCube(s, cam, bottom, f)
	}
	for _, t := range f.Tiles {
		drawTile(s, cam, t)
		if t.Spike != nil {
			drawTile(s, cam, t.Spike)
		}
	}
	if !falling {
		drawCube(s, cam, bottom, f)
	}
}

func drawTile(s *core.Screen, cam camera, t *track.Tile) {
	x, y := cam.project(t.Top())
	glyph, color := '█', core.ColorGray
	if t.Hazard {
		glyph, color = '▲', core.ColorRed
	}
	for i := range tileGlyphW {
		s.SetColored(x-tileGlyphW/2+i, y, glyph, color)
	}
}

func drawCube(s *core.Screen, cam camera, bottom core.Vec3, f Frame) {
	x, y := cam.project(bottom)
	s.DrawTextColored(x-1, y-1, cubeGlyph(f.Skin.Animation, f.Rotation, f.Ticks), f.Skin.Color)
}

var spinFrames = [...]string{"▗█▖", "▐█▌", "▝█▘", "▐█▌"}

// cubeGlyph picks the cube's sprite for its skin animation.
func cubeGlyph(animation string, rot core.Vec3, ticks int) string {
	switch animation {
	case "spin":
		quarter := int(math.Round(math.Abs(rot.X+rot.Z) / (math.Pi / 4)))
		return spinFrames[quarter%len(spinFrames)]
	case "pulse":
		if (ticks/15)%2 == 1 {
			return "▓▓▓"
		}
	}
	return "███"
}
