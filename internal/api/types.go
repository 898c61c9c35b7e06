package api

// Wire types for the race backend. Leaderboard accuracy arrives as a 0-100
// percentage and is normalized to a fraction before leaving this package.

type playerRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type playerResponse struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type promptResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// ScoreSubmission is the payload for POST /api/scores. Accuracy is a
// fraction in [0,1]; the server derives the final score from wpm and
// accuracy itself.
type ScoreSubmission struct {
	PlayerID  string  `json:"player_id"`
	PromptID  string  `json:"prompt_id"`
	WPM       int     `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
	StartedAt string  `json:"started_at,omitempty"`
	SessionID string  `json:"session_id,omitempty"`
}

type leaderboardEntryResponse struct {
	Rank     int     `json:"rank"`
	Nickname string  `json:"nickname"`
	WPM      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
	Score    int     `json:"score"`
}

type leaderboardResponse struct {
	Date        string                     `json:"date"`
	Leaderboard []leaderboardEntryResponse `json:"leaderboard"`
}

type performanceMessageRequest struct {
	Nickname string  `json:"nickname"`
	WPM      int     `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}

type performanceMessageResponse struct {
	Message     string `json:"message"`
	Tier        string `json:"tier"`
	AIGenerated bool   `json:"ai_generated"`
}
