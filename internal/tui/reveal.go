package tui

import "time"

const (
	revealStartDelay   = 500 * time.Millisecond
	revealCharInterval = 30 * time.Millisecond
)

// reveal drives the typewriter presentation of the prompt during the
// get-ready phase: one character per tick after an initial delay.
type reveal struct {
	target []rune
	shown  int
	done   bool
}

func newReveal(text string) reveal {
	r := reveal{target: []rune(text)}
	if len(r.target) == 0 {
		r.done = true
	}
	return r
}

// advance uncovers the next character and reports whether the reveal
// finished on this call.
func (r *reveal) advance() bool {
	if r.done {
		return false
	}
	r.shown++
	if r.shown >= len(r.target) {
		r.shown = len(r.target)
		r.done = true
		return true
	}
	return false
}

// visible returns the uncovered portion of the text.
func (r *reveal) visible() string {
	return string(r.target[:r.shown])
}
