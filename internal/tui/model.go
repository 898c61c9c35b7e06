// Package tui provides the Bubble Tea game interface: a phase machine
// sequencing welcome, get-ready, countdown, playing, results, and
// leaderboard screens.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/typerush/typerush/internal/api"
	"github.com/typerush/typerush/internal/game"
	"github.com/typerush/typerush/internal/model"
	"github.com/typerush/typerush/internal/store"
)

type phase int

const (
	phaseWelcome phase = iota
	phaseGetReady
	phaseCountdown
	phasePlaying
	phaseResults
	phaseLeaderboard
)

const (
	setupTimeout  = 10 * time.Second
	remarkTimeout = 3 * time.Second
	boardTimeout  = 5 * time.Second
)

// nowFn is swapped out in tests.
var nowFn = time.Now

// Timer and network messages carry the sequence or clock generation they
// were armed with; anything stale is discarded in Update rather than
// trusted to have been cancelled.
type (
	sessionReadyMsg struct {
		seq    int
		player *model.Player
		prompt *model.Prompt
	}
	setupFailedMsg struct {
		seq int
		err error
	}
	promptReadyMsg struct {
		seq    int
		prompt *model.Prompt
		err    error
	}
	revealTickMsg    struct{ seq int }
	countdownTickMsg struct{ seq int }
	clockTickMsg     struct{ gen int }
	leaderboardMsg   struct {
		seq     int
		entries []model.LeaderboardEntry
		err     error
	}
	remarkMsg struct {
		seq     int
		message string
		err     error
	}
	scoreSavedMsg struct{ err error }
)

// Model implements the Bubble Tea game UI and owns all phase transitions.
type Model struct {
	cfg    model.Config
	api    *api.Client
	store  *store.Store
	logger *zap.Logger

	width  int
	height int

	phase phase
	// seq invalidates in-flight timers and fetches whenever the player
	// navigates; clock ticks are guarded separately by the engine
	// generation.
	seq int

	inputs      []textinput.Model
	focus       int
	banner      string
	registering bool

	player *model.Player
	prompt *model.Prompt
	engine *game.Engine

	reveal    reveal
	countdown *game.Countdown

	finalStats *model.GameStats
	remark     string
	sessionID  string

	board        []model.LeaderboardEntry
	boardTable   table.Model
	boardLoading bool
	spin         spinner.Model
}

// NewModel constructs the game model. The store may be nil when local
// history is disabled.
func NewModel(cfg model.Config, client *api.Client, st *store.Store, logger *zap.Logger) *Model {
	nickname := textinput.New()
	nickname.Placeholder = "nickname"
	nickname.CharLimit = 50
	nickname.SetValue(cfg.Nickname)
	nickname.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.SetValue(cfg.Email)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		cfg:        cfg,
		api:        client,
		store:      st,
		logger:     logger,
		phase:      phaseWelcome,
		inputs:     []textinput.Model{nickname, email},
		spin:       sp,
		boardTable: newBoardTable(nil, ""),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyCtrlN {
			m.resetToWelcome()
			return m, textinput.Blink
		}
		return m.updateKey(msg)

	case sessionReadyMsg:
		if msg.seq != m.seq || m.phase != phaseWelcome {
			return m, nil
		}
		m.registering = false
		m.player = msg.player
		m.prompt = msg.prompt
		m.engine = game.NewEngine(msg.prompt.Text, m.cfg.Duration)
		return m, m.enterGetReady()

	case setupFailedMsg:
		if msg.seq != m.seq || m.phase != phaseWelcome {
			return m, nil
		}
		m.registering = false
		m.banner = msg.err.Error()
		m.logger.Warn("setup failed", zap.Error(msg.err))
		return m, nil

	case promptReadyMsg:
		if msg.seq != m.seq || m.phase != phaseResults {
			return m, nil
		}
		if msg.err != nil {
			// Reuse the previous prompt rather than blocking play-again.
			m.logger.Warn("prompt refresh failed", zap.Error(msg.err))
		} else {
			m.prompt = msg.prompt
		}
		m.engine = game.NewEngine(m.prompt.Text, m.cfg.Duration)
		m.finalStats = nil
		m.remark = ""
		return m, m.enterGetReady()

	case revealTickMsg:
		if msg.seq != m.seq || m.phase != phaseGetReady {
			return m, nil
		}
		if m.reveal.advance() || m.reveal.done {
			return m, m.enterCountdown()
		}
		return m, tickCmd(revealCharInterval, revealTickMsg{seq: m.seq})

	case countdownTickMsg:
		if msg.seq != m.seq || m.phase != phaseCountdown {
			return m, nil
		}
		_, done := m.countdown.Advance()
		if done {
			return m, m.enterPlaying()
		}
		return m, tickCmd(time.Second, countdownTickMsg{seq: m.seq})

	case clockTickMsg:
		if m.engine == nil {
			return m, nil
		}
		res := m.engine.Tick(msg.gen, nowFn())
		if !res.Applied {
			return m, nil
		}
		if res.Completed {
			return m, m.finishRace()
		}
		return m, tickCmd(time.Second, clockTickMsg{gen: msg.gen})

	case leaderboardMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.boardLoading = false
		if msg.err != nil {
			m.logger.Warn("leaderboard fetch failed", zap.Error(msg.err))
			return m, nil
		}
		m.board = msg.entries
		m.boardTable = newBoardTable(m.board, m.playerNickname())
		return m, nil

	case remarkMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			// The local tier message is already in place.
			m.logger.Warn("performance message failed", zap.Error(msg.err))
			return m, nil
		}
		m.remark = msg.message
		return m, nil

	case scoreSavedMsg:
		if msg.err != nil {
			m.logger.Warn("score submission failed", zap.Error(msg.err))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.boardLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseWelcome:
		return m.updateWelcomeKey(msg)
	case phasePlaying:
		return m.updatePlayingKey(msg)
	case phaseResults:
		return m.updateResultsKey(msg)
	case phaseLeaderboard:
		return m.updateLeaderboardKey(msg)
	default:
		// getReady and countdown run on timers alone.
		return m, nil
	}
}

func (m *Model) updateWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.banner = ""
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.inputs[m.focus].Blur()
		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
		} else {
			m.focus = (m.focus + 1) % len(m.inputs)
		}
		return m, m.inputs[m.focus].Focus()
	case tea.KeyEnter:
		if m.registering {
			return m, nil
		}
		nickname := strings.TrimSpace(m.inputs[0].Value())
		email := strings.TrimSpace(m.inputs[1].Value())
		if nickname == "" {
			m.banner = "Nickname is required"
			return m, nil
		}
		if email == "" || !strings.Contains(email, "@") {
			m.banner = "A valid email is required"
			return m, nil
		}
		m.banner = ""
		m.registering = true
		return m, m.startSessionCmd(nickname, email)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updatePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.engine == nil {
		return m, nil
	}
	var r rune
	switch msg.Type {
	case tea.KeySpace:
		r = ' '
	case tea.KeyRunes:
		// Only single keystrokes count; pasted text is not typing.
		if msg.Paste || len(msg.Runes) != 1 {
			return m, nil
		}
		r = msg.Runes[0]
	default:
		return m, nil
	}
	res := m.engine.KeyPress(r, nowFn())
	if res.Completed {
		return m, m.finishRace()
	}
	return m, nil
}

func (m *Model) updateResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace:
		return m, m.playAgainCmd()
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		switch msg.Runes[0] {
		case 'l', 'L':
			m.phase = phaseLeaderboard
			return m, m.fetchBoardCmd()
		case 'n', 'N':
			m.resetToWelcome()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *Model) updateLeaderboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		if m.finalStats != nil {
			m.phase = phaseResults
		} else {
			m.phase = phaseWelcome
			m.focusNickname()
		}
		return m, nil
	case msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace:
		if m.player != nil && m.finalStats != nil {
			m.phase = phaseResults
			return m, m.playAgainCmd()
		}
		return m, nil
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && (msg.Runes[0] == 'b' || msg.Runes[0] == 'B'):
		if m.finalStats != nil {
			m.phase = phaseResults
		} else {
			m.phase = phaseWelcome
			m.focusNickname()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.boardTable, cmd = m.boardTable.Update(msg)
	return m, cmd
}

// Phase transitions. Each bumps seq so timers armed for the previous
// phase die on arrival.

func (m *Model) enterGetReady() tea.Cmd {
	m.seq++
	m.phase = phaseGetReady
	m.reveal = newReveal(m.prompt.Text)
	return tickCmd(revealStartDelay, revealTickMsg{seq: m.seq})
}

func (m *Model) enterCountdown() tea.Cmd {
	m.seq++
	m.phase = phaseCountdown
	m.countdown = game.NewCountdown()
	return tickCmd(time.Second, countdownTickMsg{seq: m.seq})
}

func (m *Model) enterPlaying() tea.Cmd {
	m.seq++
	m.phase = phasePlaying
	gen := m.engine.Start(nowFn())
	return tickCmd(time.Second, clockTickMsg{gen: gen})
}

func (m *Model) finishRace() tea.Cmd {
	stats, ok := m.engine.ConsumeCompletion()
	if !ok {
		// Completion already reported for this session.
		return nil
	}
	m.seq++
	m.phase = phaseResults
	m.finalStats = &stats
	m.sessionID = uuid.NewString()
	m.remark = game.TierFor(stats.WPM, stats.Accuracy).Message()
	m.boardLoading = true

	cmds := []tea.Cmd{
		m.submitScoreCmd(stats),
		m.fetchBoardCmd(),
		m.fetchRemarkCmd(stats),
	}
	if m.store != nil {
		cmds = append(cmds, m.saveLocalCmd(stats))
	}
	return tea.Batch(cmds...)
}

func (m *Model) resetToWelcome() {
	m.seq++
	m.phase = phaseWelcome
	m.player = nil
	m.prompt = nil
	m.engine = nil
	m.finalStats = nil
	m.remark = ""
	m.banner = ""
	m.board = nil
	m.boardLoading = false
	m.registering = false
	m.focusNickname()
}

func (m *Model) focusNickname() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
}

func (m *Model) playerNickname() string {
	if m.player == nil {
		return ""
	}
	return m.player.Nickname
}

// Commands.

func tickCmd(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (m *Model) startSessionCmd(nickname, email string) tea.Cmd {
	seq := m.seq
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()
		player, err := client.RegisterPlayer(ctx, nickname, email)
		if err != nil {
			return setupFailedMsg{seq: seq, err: err}
		}
		prompt, err := client.RandomPrompt(ctx)
		if err != nil {
			return setupFailedMsg{seq: seq, err: err}
		}
		return sessionReadyMsg{seq: seq, player: player, prompt: prompt}
	}
}

func (m *Model) playAgainCmd() tea.Cmd {
	seq := m.seq
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()
		prompt, err := client.RandomPrompt(ctx)
		return promptReadyMsg{seq: seq, prompt: prompt, err: err}
	}
}

func (m *Model) submitScoreCmd(stats model.GameStats) tea.Cmd {
	if m.player == nil || m.prompt == nil {
		return nil
	}
	sub := api.ScoreSubmission{
		PlayerID:  m.player.ID,
		PromptID:  m.prompt.ID,
		WPM:       stats.WPM,
		Accuracy:  stats.Accuracy,
		StartedAt: m.engine.StartedAt().UTC().Format(time.RFC3339),
		SessionID: m.sessionID,
	}
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), boardTimeout)
		defer cancel()
		return scoreSavedMsg{err: client.SubmitScore(ctx, sub)}
	}
}

func (m *Model) saveLocalCmd(stats model.GameStats) tea.Cmd {
	rec := model.SessionRecord{
		SessionID:    m.sessionID,
		Nickname:     m.playerNickname(),
		PromptID:     m.prompt.ID,
		WPM:          stats.WPM,
		Accuracy:     stats.Accuracy,
		Score:        stats.Score,
		CorrectChars: stats.CorrectChars,
		TotalChars:   stats.TotalChars,
		StartedAt:    m.engine.StartedAt(),
		EndedAt:      nowFn(),
	}
	rec.DurationMs = rec.EndedAt.Sub(rec.StartedAt).Milliseconds()
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), boardTimeout)
		defer cancel()
		_, err := st.InsertResult(ctx, rec)
		return scoreSavedMsg{err: err}
	}
}

func (m *Model) fetchBoardCmd() tea.Cmd {
	seq := m.seq
	client := m.api
	m.boardLoading = true
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), boardTimeout)
		defer cancel()
		entries, err := client.AllTimeLeaderboard(ctx)
		return leaderboardMsg{seq: seq, entries: entries, err: err}
	})
}

func (m *Model) fetchRemarkCmd(stats model.GameStats) tea.Cmd {
	seq := m.seq
	client := m.api
	nickname := m.playerNickname()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remarkTimeout)
		defer cancel()
		message, err := client.PerformanceMessage(ctx, nickname, stats.WPM, stats.Accuracy)
		return remarkMsg{seq: seq, message: message, err: err}
	}
}
