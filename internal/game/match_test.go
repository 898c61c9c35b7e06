package game

import "testing"

func TestMatchCorrectAdvances(t *testing.T) {
	res := Match([]rune("cat"), 0, 'c')
	if !res.Accepted || !res.Correct {
		t.Fatalf("expected accepted correct keystroke, got %+v", res)
	}
	if res.NextIndex != 1 {
		t.Fatalf("expected index 1, got %d", res.NextIndex)
	}
}

func TestMatchIncorrectHoldsPosition(t *testing.T) {
	res := Match([]rune("cat"), 1, 'x')
	if !res.Accepted || res.Correct {
		t.Fatalf("expected accepted incorrect keystroke, got %+v", res)
	}
	if res.NextIndex != 1 {
		t.Fatalf("expected index to stay at 1, got %d", res.NextIndex)
	}
}

func TestMatchRejectsNonPrintable(t *testing.T) {
	for _, r := range []rune{'\n', '\t', '\x1b', 0} {
		res := Match([]rune("cat"), 0, r)
		if res.Accepted {
			t.Fatalf("expected rune %q rejected", r)
		}
		if res.NextIndex != 0 {
			t.Fatalf("expected index unchanged for %q, got %d", r, res.NextIndex)
		}
	}
}

func TestMatchAcceptsSpace(t *testing.T) {
	res := Match([]rune("a b"), 1, ' ')
	if !res.Accepted || !res.Correct {
		t.Fatalf("expected space accepted as correct, got %+v", res)
	}
}

func TestMatchRejectsOutOfBounds(t *testing.T) {
	res := Match([]rune("ab"), 2, 'a')
	if res.Accepted {
		t.Fatalf("expected keystroke past end rejected")
	}
	res = Match([]rune("ab"), -1, 'a')
	if res.Accepted {
		t.Fatalf("expected negative index rejected")
	}
}
