// Package report renders plain-text leaderboard and history output for
// the non-TUI subcommands.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/typerush/typerush/internal/model"
)

const terminalWidthBackup = 80

// RenderLeaderboard prints a ranked score table.
func RenderLeaderboard(w io.Writer, title string, entries []model.LeaderboardEntry) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}

	nickWidth := nicknameWidth(TerminalWidth())
	headers := []string{"Rank", "Player", "WPM", "Accuracy", "Score"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank),
			truncateName(e.Nickname, nickWidth),
			fmt.Sprintf("%.1f", e.WPM),
			fmt.Sprintf("%.1f%%", e.Accuracy*100),
			fmt.Sprintf("%d", e.Score),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints a summary followed by the per-race table.
func RenderHistory(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No races recorded yet.")
		return err
	}

	best := 0
	var totalWPM, totalAcc float64
	for _, r := range records {
		if r.Score > best {
			best = r.Score
		}
		totalWPM += float64(r.WPM)
		totalAcc += r.Accuracy
	}
	count := float64(len(records))
	if _, err := fmt.Fprintf(w, "Races: %d\n", len(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best score: %d\n", best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.1f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"When", "WPM", "Accuracy", "Score", "Chars"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.EndedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy*100),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d/%d", r.CorrectChars, r.TotalChars),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TerminalWidth returns the stdout width or a default when not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func nicknameWidth(totalWidth int) int {
	// Leave room for the four numeric columns and separators.
	width := totalWidth - 40
	if width < 8 {
		width = 8
	}
	if width > 50 {
		width = 50
	}
	return width
}

func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
