package game

import (
	"time"

	"github.com/typerush/typerush/internal/model"
)

// Session holds the mutable state of one race. A new Session replaces the
// previous one on Start and Reset rather than being cleared in place, so a
// tick armed against an earlier session can never mutate the current one.
type Session struct {
	Prompt        []rune
	Index         int
	Correctness   []bool
	CorrectChars  int
	TotalChars    int
	StartedAt     time.Time
	TimeRemaining int
	Completed     bool
}

// KeyResult reports the effect of one keystroke on the session.
type KeyResult struct {
	Accepted  bool
	Correct   bool
	Completed bool
}

// TickResult reports the effect of one clock second on the session.
// Applied is false when the tick was discarded (stale generation, race not
// started, or already completed).
type TickResult struct {
	Applied       bool
	TimeRemaining int
	Completed     bool
}

// Engine owns the session and enforces the exactly-once completion
// contract. Completion flips on whichever happens first: the prompt is
// exhausted or the clock reaches zero. The final stats are captured at
// that moment and handed out once through ConsumeCompletion.
type Engine struct {
	duration   int
	generation int
	session    *Session
	reported   bool
	final      model.GameStats
	hasFinal   bool
}

// NewEngine creates an engine for the given prompt text and race duration
// in seconds. The race does not run until Start is called.
func NewEngine(promptText string, duration int) *Engine {
	e := &Engine{duration: duration}
	e.session = &Session{
		Prompt:        []rune(promptText),
		TimeRemaining: duration,
	}
	return e
}

// Start arms a fresh session, records the wall-clock start, and returns
// the clock generation the caller must attach to every subsequent tick.
// The start time and the countdown base are set in the same step so WPM
// elapsed time and the remaining-seconds clock share one origin.
func (e *Engine) Start(now time.Time) int {
	e.generation++
	e.session = &Session{
		Prompt:        e.session.Prompt,
		StartedAt:     now,
		TimeRemaining: e.duration,
	}
	e.reported = false
	e.hasFinal = false
	return e.generation
}

// Reset replaces the session with an unstarted one for the given prompt
// and invalidates any armed clock. Safe to call with no clock running.
func (e *Engine) Reset(promptText string) {
	e.generation++
	e.session = &Session{
		Prompt:        []rune(promptText),
		TimeRemaining: e.duration,
	}
	e.reported = false
	e.hasFinal = false
}

// KeyPress runs one keystroke through the matcher and updates the session.
// Keystrokes before Start or after completion are ignored. Every accepted
// keystroke is appended to the correctness log; only correct ones advance
// the index. Exhausting the prompt completes the race within this call.
func (e *Engine) KeyPress(r rune, now time.Time) KeyResult {
	s := e.session
	if s.Completed || s.StartedAt.IsZero() {
		return KeyResult{}
	}
	res := Match(s.Prompt, s.Index, r)
	if !res.Accepted {
		return KeyResult{}
	}
	s.Correctness = append(s.Correctness, res.Correct)
	s.TotalChars++
	if res.Correct {
		s.CorrectChars++
		s.Index = res.NextIndex
	}
	out := KeyResult{Accepted: true, Correct: res.Correct}
	if s.Index == len(s.Prompt) {
		e.complete(now)
		out.Completed = true
	}
	return out
}

// Tick applies one clock second. A tick carrying a stale generation, or
// arriving before Start or after completion, is discarded. Reaching zero
// completes the race within this call.
func (e *Engine) Tick(gen int, now time.Time) TickResult {
	s := e.session
	if gen != e.generation || s.Completed || s.StartedAt.IsZero() {
		return TickResult{}
	}
	if s.TimeRemaining > 0 {
		s.TimeRemaining--
	}
	out := TickResult{Applied: true, TimeRemaining: s.TimeRemaining}
	if s.TimeRemaining == 0 {
		e.complete(now)
		out.Completed = true
	}
	return out
}

func (e *Engine) complete(now time.Time) {
	s := e.session
	if s.Completed {
		return
	}
	s.Completed = true
	e.final = e.Snapshot(now)
	e.hasFinal = true
}

// ConsumeCompletion returns the stats captured at the moment of completion.
// It reports true exactly once per session; the latch is cleared only by
// Start or Reset.
func (e *Engine) ConsumeCompletion() (model.GameStats, bool) {
	if !e.hasFinal || e.reported {
		return model.GameStats{}, false
	}
	e.reported = true
	return e.final, true
}

// Snapshot derives the live stats for the current session.
func (e *Engine) Snapshot(now time.Time) model.GameStats {
	s := e.session
	return ComputeStats(s.StartedAt, now, s.CorrectChars, s.TotalChars, s.TimeRemaining)
}

// Generation returns the clock generation of the current session.
func (e *Engine) Generation() int {
	return e.generation
}

// Started reports whether the current session has begun.
func (e *Engine) Started() bool {
	return !e.session.StartedAt.IsZero()
}

// Completed reports whether the current session has finished.
func (e *Engine) Completed() bool {
	return e.session.Completed
}

// StartedAt returns the wall-clock start of the current session; zero if
// the race has not begun.
func (e *Engine) StartedAt() time.Time {
	return e.session.StartedAt
}

// Index returns the next expected character position.
func (e *Engine) Index() int {
	return e.session.Index
}

// Prompt returns the prompt runes for rendering.
func (e *Engine) Prompt() []rune {
	return e.session.Prompt
}

// Correctness returns the per-keystroke correctness log in chronological
// order. Callers must not mutate it.
func (e *Engine) Correctness() []bool {
	return e.session.Correctness
}

// TimeRemaining returns the remaining race seconds. Meaningless before
// Start.
func (e *Engine) TimeRemaining() int {
	return e.session.TimeRemaining
}
