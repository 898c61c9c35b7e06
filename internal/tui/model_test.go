package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/typerush/typerush/internal/api"
	"github.com/typerush/typerush/internal/logging"
	"github.com/typerush/typerush/internal/model"
)

func newTestModel() *Model {
	cfg := model.Config{ServerURL: "http://127.0.0.1:1", Duration: 60}
	return NewModel(cfg, api.NewClient(cfg.ServerURL), nil, logging.Nop())
}

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFn
	nowFn = func() time.Time { return at }
	t.Cleanup(func() { nowFn = prev })
}

func keyMsg(r rune) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// advanceToPlaying walks a model from a ready session through the reveal
// and countdown into the playing phase.
func advanceToPlaying(t *testing.T, m *Model, promptText string) {
	t.Helper()
	m.Update(sessionReadyMsg{
		seq:    m.seq,
		player: &model.Player{ID: "p-1", Nickname: "ace"},
		prompt: &model.Prompt{ID: "pr-1", Text: promptText},
	})
	if m.phase != phaseGetReady {
		t.Fatalf("expected getReady phase, got %v", m.phase)
	}
	for i := 0; i < len(promptText)+2 && m.phase == phaseGetReady; i++ {
		m.Update(revealTickMsg{seq: m.seq})
	}
	if m.phase != phaseCountdown {
		t.Fatalf("expected countdown phase, got %v", m.phase)
	}
	for i := 0; i < 3; i++ {
		m.Update(countdownTickMsg{seq: m.seq})
	}
	if m.phase != phasePlaying {
		t.Fatalf("expected playing phase, got %v", m.phase)
	}
	if !m.engine.Started() {
		t.Fatalf("expected engine started on entering playing")
	}
}

func TestSetupFailureKeepsWelcome(t *testing.T) {
	m := newTestModel()
	m.Update(setupFailedMsg{seq: m.seq, err: errors.New("register player: boom")})
	if m.phase != phaseWelcome {
		t.Fatalf("expected welcome phase, got %v", m.phase)
	}
	if m.banner == "" {
		t.Fatalf("expected banner with setup error")
	}
	if m.player != nil || m.prompt != nil {
		t.Fatalf("expected no partial session")
	}

	// Esc dismisses the banner.
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.banner != "" {
		t.Fatalf("expected banner dismissed")
	}
}

func TestStaleSessionReadyDiscarded(t *testing.T) {
	m := newTestModel()
	m.Update(sessionReadyMsg{
		seq:    m.seq - 1,
		player: &model.Player{ID: "p-1"},
		prompt: &model.Prompt{ID: "pr-1", Text: "late"},
	})
	if m.phase != phaseWelcome || m.player != nil {
		t.Fatalf("expected stale session response discarded")
	}
}

func TestFullRaceTextExhaustion(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "cat")

	for _, r := range "caxt" {
		m.Update(keyMsg(r))
	}
	if m.phase != phaseResults {
		t.Fatalf("expected results phase, got %v", m.phase)
	}
	if m.finalStats == nil {
		t.Fatalf("expected final stats captured")
	}
	if m.finalStats.CorrectChars != 3 || m.finalStats.TotalChars != 4 {
		t.Fatalf("expected 3/4 chars, got %d/%d", m.finalStats.CorrectChars, m.finalStats.TotalChars)
	}
	if m.remark == "" {
		t.Fatalf("expected local tier message as fallback remark")
	}
}

func TestTimerExpiryCompletes(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "never typed")

	gen := m.engine.Generation()
	for i := 0; i < 60; i++ {
		m.Update(clockTickMsg{gen: gen})
	}
	if m.phase != phaseResults {
		t.Fatalf("expected results after time expiry, got %v", m.phase)
	}
	if m.finalStats.WPM != 0 || m.finalStats.Score != 0 {
		t.Fatalf("expected zero stats, got %+v", m.finalStats)
	}

	// Ticks arriving after completion must not re-fire completion.
	m.finalStats = nil
	m.Update(clockTickMsg{gen: gen})
	if m.finalStats != nil {
		t.Fatalf("expected no second completion")
	}
}

func TestNewPlayerResetDiscardsStaleClock(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "some text")

	gen := m.engine.Generation()
	m.Update(clockTickMsg{gen: gen})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.phase != phaseWelcome {
		t.Fatalf("expected welcome after ctrl+n, got %v", m.phase)
	}
	if m.player != nil || m.prompt != nil || m.finalStats != nil {
		t.Fatalf("expected session data cleared")
	}

	// The old clock generation is dead along with the engine.
	m.Update(clockTickMsg{gen: gen})
	if m.phase != phaseWelcome {
		t.Fatalf("expected stale tick ignored")
	}
}

func TestResultsShortcuts(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "hi")
	for _, r := range "hi" {
		m.Update(keyMsg(r))
	}
	if m.phase != phaseResults {
		t.Fatalf("expected results phase")
	}

	m.Update(keyMsg('l'))
	if m.phase != phaseLeaderboard {
		t.Fatalf("expected leaderboard phase, got %v", m.phase)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phaseResults {
		t.Fatalf("expected back to results while stats held, got %v", m.phase)
	}

	m.Update(keyMsg('n'))
	if m.phase != phaseWelcome || m.player != nil {
		t.Fatalf("expected new-player reset to welcome")
	}
}

func TestLeaderboardBackWithoutStats(t *testing.T) {
	m := newTestModel()
	m.phase = phaseLeaderboard
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phaseWelcome {
		t.Fatalf("expected welcome when no stats held, got %v", m.phase)
	}
}

func TestStaleLeaderboardResponseDiscarded(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "hi")
	for _, r := range "hi" {
		m.Update(keyMsg(r))
	}

	staleSeq := m.seq
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

	m.Update(leaderboardMsg{seq: staleSeq, entries: []model.LeaderboardEntry{{Rank: 1, Nickname: "ghost"}}})
	if len(m.board) != 0 {
		t.Fatalf("expected slow leaderboard response discarded after navigation")
	}
}

func TestStaleRemarkDiscardedAfterNavigation(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "hi")
	for _, r := range "hi" {
		m.Update(keyMsg(r))
	}
	staleSeq := m.seq
	fallback := m.remark

	m.Update(remarkMsg{seq: staleSeq, message: "BLAZING!"})
	if m.remark != "BLAZING!" {
		t.Fatalf("expected live remark applied, got %q", m.remark)
	}

	m.remark = fallback
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m.Update(remarkMsg{seq: staleSeq, message: "TOO LATE"})
	if m.remark == "TOO LATE" {
		t.Fatalf("expected stale remark discarded")
	}
}

func TestPastedInputRejected(t *testing.T) {
	fixedClock(t, time.Unix(1000, 0))
	m := newTestModel()
	advanceToPlaying(t, m, "cat")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cat"), Paste: true})
	if m.phase != phasePlaying || m.engine.Index() != 0 {
		t.Fatalf("expected bracketed paste to be ignored")
	}

	// Multi-rune messages without the paste flag are not keystrokes either.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ca")})
	if m.engine.Index() != 0 {
		t.Fatalf("expected multi-rune input to be ignored")
	}

	// A real keystroke still lands.
	m.Update(keyMsg('c'))
	if m.engine.Index() != 1 {
		t.Fatalf("expected single keystroke to advance")
	}
}

func TestKeystrokesIgnoredOutsidePlaying(t *testing.T) {
	m := newTestModel()
	m.Update(sessionReadyMsg{
		seq:    m.seq,
		player: &model.Player{ID: "p-1", Nickname: "ace"},
		prompt: &model.Prompt{ID: "pr-1", Text: "abc"},
	})
	// Still revealing; typing must not touch the engine.
	m.Update(keyMsg('a'))
	if m.engine.Index() != 0 {
		t.Fatalf("expected no progress before playing phase")
	}
}

func TestStaleRevealTickIgnored(t *testing.T) {
	m := newTestModel()
	m.Update(sessionReadyMsg{
		seq:    m.seq,
		player: &model.Player{ID: "p-1"},
		prompt: &model.Prompt{ID: "pr-1", Text: "abc"},
	})
	shown := m.reveal.shown
	m.Update(revealTickMsg{seq: m.seq - 1})
	if m.reveal.shown != shown {
		t.Fatalf("expected stale reveal tick ignored")
	}
}
