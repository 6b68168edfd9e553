package core

// Direction is a validated swipe direction.
// Only Left and Right move the cube; the track zig-zags along +z and +x.
type Direction int

const (
	DirNone  Direction = iota
	DirLeft            // Swipe left: hop along +z
	DirRight           // Swipe right: hop along +x
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirNone:
		return "None"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Valid reports whether the direction can drive a movement.
func (d Direction) Valid() bool {
	return d == DirLeft || d == DirRight
}
