// Package model defines shared data structures.
package model

import "time"

// Config defines race settings resolved from flags and the config file.
type Config struct {
	ServerURL string
	Duration  int
	Nickname  string
	Email     string
}

// Player is a registered participant, keyed by a stable server-side id.
type Player struct {
	ID       string
	Nickname string
	Email    string
}

// Prompt is the text the player races against.
type Prompt struct {
	ID         string
	Text       string
	Category   string
	Difficulty string
}

// GameStats is derived from a session on demand; it has no lifecycle of
// its own. Accuracy is a fraction in [0,1].
type GameStats struct {
	WPM           int
	Accuracy      float64
	Score         int
	CorrectChars  int
	TotalChars    int
	TimeRemaining int
}

// LeaderboardEntry is one row of the server leaderboard. Accuracy is
// normalized to a fraction in [0,1].
type LeaderboardEntry struct {
	Rank     int
	Nickname string
	WPM      float64
	Accuracy float64
	Score    int
}

// SessionRecord captures a completed race for the local history store.
type SessionRecord struct {
	ID           int64
	SessionID    string
	Nickname     string
	PromptID     string
	WPM          int
	Accuracy     float64
	Score        int
	CorrectChars int
	TotalChars   int
	StartedAt    time.Time
	EndedAt      time.Time
	DurationMs   int64
}
