package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/typerush/typerush/internal/game"
	"github.com/typerush/typerush/internal/model"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#35D0BA")).Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4D4F")).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(1, 2)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	countdownStyles = map[int]lipgloss.Style{
		3: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		2: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true),
		1: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		0: lipgloss.NewStyle().Foreground(lipgloss.Color("#35D0BA")).Bold(true),
	}
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.phase {
	case phaseWelcome:
		content = m.viewWelcome()
	case phaseGetReady:
		content = m.viewGetReady()
	case phaseCountdown:
		content = m.viewCountdown()
	case phasePlaying:
		content = m.viewPlaying()
	case phaseResults:
		content = m.viewResults()
	case phaseLeaderboard:
		content = m.viewLeaderboard()
	}
	if m.banner != "" {
		content = bannerStyle.Render(m.banner+"  (esc to dismiss)") + "\n" + content
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewWelcome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TYPERUSH"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("race the clock, beat the board"))
	b.WriteString("\n\n")
	labels := []string{"Player", "Email"}
	for i, input := range m.inputs {
		b.WriteString(cardTitleStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter start · tab switch field · ctrl+c quit"))
	return panelStyle.Render(b.String())
}

func (m *Model) viewGetReady() string {
	// Defensive: this phase is unreachable without a prompt, but never
	// render a nil one.
	if m.prompt == nil {
		return footerStyle.Render("Loading prompt...")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("GET READY TO TYPE..."))
	b.WriteString("\n\n")
	b.WriteString(pendingStyle.Render(m.reveal.visible()))
	if !m.reveal.done {
		b.WriteString(accentStyle.Render("▌"))
	}
	b.WriteString("\n\n")
	if m.reveal.done {
		b.WriteString(goodStyle.Render("STARTING IN 3..."))
	} else {
		b.WriteString(footerStyle.Render("LOADING TEXT..."))
	}
	width := m.contentWidth()
	if width > 0 {
		return panelStyle.Width(width).Render(b.String())
	}
	return panelStyle.Render(b.String())
}

func (m *Model) viewCountdown() string {
	if m.countdown == nil {
		return ""
	}
	count := m.countdown.Current()
	style, ok := countdownStyles[count]
	if !ok {
		style = titleStyle
	}
	label := fmt.Sprintf("%d", count)
	hint := "PREPARE YOUR FINGERS..."
	if count == 0 {
		label = "GO!"
		hint = "TYPE NOW!"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("GET READY!"))
	b.WriteString("\n\n")
	b.WriteString(style.Render(bigDigit(label)))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(hint))
	return b.String()
}

func (m *Model) viewPlaying() string {
	if m.engine == nil || m.prompt == nil {
		return footerStyle.Render("No race in progress.")
	}
	log := m.engine.Correctness()
	mistyped := len(log) > 0 && !log[len(log)-1]
	styled := buildStyledRunes(m.engine.Prompt(), m.engine.Index(), mistyped)

	body := renderStyledRunes(styled)
	width := m.contentWidth()
	if width > 0 {
		body = wrapStyledRunes(styled, width)
	}

	header := accentStyle.Render(fmt.Sprintf("%2ds", m.engine.TimeRemaining()))
	footer := m.renderRaceFooter()
	return header + "\n\n" + body + "\n\n" + footer
}

func (m *Model) renderRaceFooter() string {
	stats := m.engine.Snapshot(nowFn())
	segments := []string{
		fmt.Sprintf("%d WPM", stats.WPM),
		fmt.Sprintf("%.0f%%", stats.Accuracy*100),
		fmt.Sprintf("%d/%d", m.engine.Index(), len(m.engine.Prompt())),
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) viewResults() string {
	// Defensive double-check: never render results without captured stats.
	if m.finalStats == nil || m.player == nil {
		return footerStyle.Render("No results yet.")
	}
	stats := *m.finalStats

	var b strings.Builder
	b.WriteString(footerStyle.Render("GAME OVER"))
	b.WriteString("\n")
	b.WriteString(tierStyle(stats).Render(m.remark))
	b.WriteString("\n\n")
	b.WriteString(cardTitleStyle.Render("PLAYER: ") + correctStyle.Render(strings.ToUpper(m.player.Nickname)))
	b.WriteString("\n\n")

	score := cardStyle.Render(cardTitleStyle.Render("FINAL SCORE") + "\n" + accentStyle.Render(fmt.Sprintf("%d", stats.Score)))
	wpm := cardStyle.Render(cardTitleStyle.Render("WORDS/MIN") + "\n" + titleStyle.Render(fmt.Sprintf("%d", stats.WPM)))
	acc := cardStyle.Render(cardTitleStyle.Render("ACCURACY") + "\n" + accuracyStyle(stats.Accuracy).Render(fmt.Sprintf("%.0f%%", stats.Accuracy*100)))
	chars := cardStyle.Render(cardTitleStyle.Render("CHARS TYPED") + "\n" + correctStyle.Render(fmt.Sprintf("%d", stats.TotalChars)))
	correct := cardStyle.Render(cardTitleStyle.Render("CORRECT") + "\n" + goodStyle.Render(fmt.Sprintf("%d", stats.CorrectChars)))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, score, wpm, acc))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chars, correct))
	if stats.TimeRemaining > 0 {
		b.WriteString("\n")
		b.WriteString(goodStyle.Render(fmt.Sprintf("Finished with %ds to spare!", stats.TimeRemaining)))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("enter play again · l leaderboard · n new player"))
	return panelStyle.Render(b.String())
}

func (m *Model) viewLeaderboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ALL-TIME TOP 10"))
	b.WriteString("\n\n")
	if m.boardLoading {
		b.WriteString(m.spin.View())
		b.WriteString(footerStyle.Render(" loading scores..."))
	} else if len(m.board) == 0 {
		b.WriteString(footerStyle.Render("No scores yet. Be the first!"))
	} else {
		b.WriteString(m.boardTable.View())
	}
	if m.finalStats != nil {
		b.WriteString("\n\n")
		b.WriteString(cardTitleStyle.Render("YOUR SCORE: ") + accentStyle.Render(fmt.Sprintf("%d", m.finalStats.Score)))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("esc back · enter play again"))
	return panelStyle.Render(b.String())
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	width := int(float64(m.width) * 0.70)
	if width < 20 {
		width = 20
	}
	return width
}

func tierStyle(stats model.GameStats) lipgloss.Style {
	switch game.TierFor(stats.WPM, stats.Accuracy) {
	case game.TierLegendary:
		return accentStyle
	case game.TierExcellent:
		return goodStyle
	case game.TierGreat:
		return titleStyle
	case game.TierGood:
		return correctStyle
	default:
		return footerStyle
	}
}

func accuracyStyle(accuracy float64) lipgloss.Style {
	switch {
	case accuracy >= 0.9:
		return goodStyle
	case accuracy >= 0.7:
		return accentStyle
	default:
		return incorrectStyle
	}
}

func bigDigit(label string) string {
	// A plain oversized label; the style supplies the color.
	return "  " + label + "  "
}

func newBoardTable(entries []model.LeaderboardEntry, currentNickname string) table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 4},
		{Title: "Player", Width: 18},
		{Title: "WPM", Width: 6},
		{Title: "Accuracy", Width: 8},
		{Title: "Score", Width: 7},
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		name := e.Nickname
		if currentNickname != "" && e.Nickname == currentNickname {
			name += " ◄"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", e.Rank),
			name,
			fmt.Sprintf("%.1f", e.WPM),
			fmt.Sprintf("%.1f%%", e.Accuracy*100),
			fmt.Sprintf("%d", e.Score),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#C89A3A"))
	t.SetStyles(styles)
	return t
}
