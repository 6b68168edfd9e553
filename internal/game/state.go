package game

// State is the session's position in the Menu -> Playing -> Over -> Menu cycle.
// It is a closed set; only this package defines states.
type State interface {
	isState()
	String() string
}

// Menu is the initial state. The track is visible but input is locked.
type Menu struct{}

// Playing is an active run.
type Playing struct{}

// Over is a finished run. TimerExpired is true when the countdown ran out
// rather than a hazard ending the run.
type Over struct {
	TimerExpired bool
}

func (Menu) isState()    {}
func (Playing) isState() {}
func (Over) isState()    {}

func (Menu) String() string    { return "menu" }
func (Playing) String() string { return "playing" }

func (o Over) String() string {
	if o.TimerExpired {
		return "over(time)"
	}
	return "over"
}
