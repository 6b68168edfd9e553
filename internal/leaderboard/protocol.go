package leaderboard

// Message types on the wire.
const (
	TypeSubmit = "submit"
	TypeTop    = "top"
	TypeRank   = "rank"
	TypeError  = "error"
)

// Request is a client message. Every request names its player.
type Request struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	Score  int    `json:"score,omitempty"`
}

// Response answers one Request.
type Response struct {
	Type  string `json:"type"`
	Found bool   `json:"found"`
	Score int    `json:"score,omitempty"`
	Rank  int    `json:"rank,omitempty"`
	Error string `json:"error,omitempty"`
}
