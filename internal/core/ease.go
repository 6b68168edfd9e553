package core

// EaseFunc maps normalized time in [0, 1] to normalized progress.
type EaseFunc func(t float64) float64

// Linear progresses at constant speed.
func Linear(t float64) float64 {
	return ClampF(t, 0, 1)
}

// EaseIn starts slow and accelerates (quadratic).
func EaseIn(t float64) float64 {
	t = ClampF(t, 0, 1)
	return t * t
}

// EaseOut starts fast and decelerates (quadratic).
func EaseOut(t float64) float64 {
	t = ClampF(t, 0, 1)
	return 1 - (1-t)*(1-t)
}
