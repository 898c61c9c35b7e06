package game

// Tier buckets a finished race by WPM and accuracy. It drives the results
// headline and serves as the local fallback when the server-side
// performance message is unavailable.
type Tier int

const (
	TierNeedsPractice Tier = iota
	TierGood
	TierGreat
	TierExcellent
	TierLegendary
)

// TierFor classifies a result. Accuracy is a fraction in [0,1].
func TierFor(wpm int, accuracy float64) Tier {
	switch {
	case wpm >= 80 && accuracy >= 0.95:
		return TierLegendary
	case wpm >= 60 && accuracy >= 0.90:
		return TierExcellent
	case wpm >= 40 && accuracy >= 0.80:
		return TierGreat
	case wpm >= 20:
		return TierGood
	default:
		return TierNeedsPractice
	}
}

// Message returns the tier's stock headline.
func (t Tier) Message() string {
	switch t {
	case TierLegendary:
		return "LEGENDARY!"
	case TierExcellent:
		return "EXCELLENT!"
	case TierGreat:
		return "GREAT JOB!"
	case TierGood:
		return "GOOD EFFORT!"
	default:
		return "KEEP PRACTICING!"
	}
}

// String returns the tier's wire name as used by the backend.
func (t Tier) String() string {
	switch t {
	case TierLegendary:
		return "legendary"
	case TierExcellent:
		return "excellent"
	case TierGreat:
		return "great"
	case TierGood:
		return "good"
	default:
		return "needs_practice"
	}
}
