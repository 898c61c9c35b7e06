package game

import (
	"math"
	"time"

	"github.com/typerush/typerush/internal/model"
)

// ComputeStats derives WPM, accuracy, and score from raw session counters.
// It is pure and safe to call at any frequency. A zero startedAt means the
// race has not begun: elapsed time is treated as zero and WPM is 0.
// Accuracy with no keystrokes is defined as 1 so an untouched session is
// not penalized.
func ComputeStats(startedAt, now time.Time, correctChars, totalChars, timeRemaining int) model.GameStats {
	elapsedMinutes := 0.0
	if !startedAt.IsZero() {
		elapsedMs := now.Sub(startedAt).Milliseconds()
		if elapsedMs < 0 {
			elapsedMs = 0
		}
		elapsedMinutes = float64(elapsedMs) / 60000.0
	}

	wpm := 0
	if elapsedMinutes > 0 {
		wpm = int(math.Round((float64(correctChars) / 5.0) / elapsedMinutes))
	}

	accuracy := 1.0
	if totalChars > 0 {
		accuracy = float64(correctChars) / float64(totalChars)
	}

	score := int(math.Round(float64(wpm) * accuracy * 100))

	return model.GameStats{
		WPM:           wpm,
		Accuracy:      accuracy,
		Score:         score,
		CorrectChars:  correctChars,
		TotalChars:    totalChars,
		TimeRemaining: timeRemaining,
	}
}
