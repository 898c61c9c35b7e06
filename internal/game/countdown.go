package game

// CountdownStart is the initial value of the pre-game countdown.
const CountdownStart = 3

// Countdown is the pre-game 3-2-1 timer. The caller shows the current
// value, waits one second, then calls Advance. Values 3, 2, and 1 are
// observable; reaching 0 completes the countdown exactly once and further
// calls are no-ops. A fresh Countdown is created per invocation; there is
// no pause or resume.
type Countdown struct {
	count int
	done  bool
}

// NewCountdown returns a countdown positioned at CountdownStart.
func NewCountdown() *Countdown {
	return &Countdown{count: CountdownStart}
}

// Current returns the value currently being shown.
func (c *Countdown) Current() int {
	return c.count
}

// Done reports whether the countdown has completed.
func (c *Countdown) Done() bool {
	return c.done
}

// Advance decrements the counter. It returns the new value and whether
// the countdown completed on this call. Completion is reported at most
// once.
func (c *Countdown) Advance() (int, bool) {
	if c.done {
		return 0, false
	}
	c.count--
	if c.count <= 0 {
		c.count = 0
		c.done = true
		return 0, true
	}
	return c.count, false
}
