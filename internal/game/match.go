// Package game implements the race state: keystroke matching, stats
// derivation, the pre-game countdown, and the session engine.
package game

import "unicode"

// MatchResult reports the outcome of a single keystroke against the prompt.
type MatchResult struct {
	Accepted  bool
	Correct   bool
	NextIndex int
}

// Match checks one keystroke against the expected prompt character.
// Non-printable runes and positions past the end of the prompt are not
// accepted and leave the index unchanged. An incorrect keystroke is
// accepted but does not advance: the player stays on the same character
// until it is typed correctly.
func Match(prompt []rune, index int, input rune) MatchResult {
	if index < 0 || index >= len(prompt) {
		return MatchResult{NextIndex: index}
	}
	if !isTypeable(input) {
		return MatchResult{NextIndex: index}
	}
	if input == prompt[index] {
		return MatchResult{Accepted: true, Correct: true, NextIndex: index + 1}
	}
	return MatchResult{Accepted: true, NextIndex: index}
}

func isTypeable(r rune) bool {
	return r == ' ' || unicode.IsGraphic(r) && !unicode.IsControl(r)
}
