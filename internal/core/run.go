package core

import (
	"time"

	"github.com/google/uuid"
)

// RunResult summarizes one finished run.
type RunResult struct {
	ID           uuid.UUID
	Mode         string
	Score        int
	TimerExpired bool
	Cause        string // "spike", "dead-zone", or "timer"
	Duration     time.Duration
}
