package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/typerush/typerush/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typerush.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func record(nickname string, score int, endedAt time.Time) model.SessionRecord {
	return model.SessionRecord{
		SessionID:    "s-" + nickname,
		Nickname:     nickname,
		PromptID:     "pr-1",
		WPM:          score / 100,
		Accuracy:     1,
		Score:        score,
		CorrectChars: 40,
		TotalChars:   42,
		StartedAt:    endedAt.Add(-time.Minute),
		EndedAt:      endedAt,
		DurationMs:   60000,
	}
}

func TestInsertAndListResults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0).UTC()
	for i := 0; i < 3; i++ {
		rec := record("ace", 1000+i, base.Add(time.Duration(i)*time.Minute))
		if _, err := st.InsertResult(ctx, rec); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	records, err := st.ListResults(ctx, 0)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].EndedAt.Before(records[2].EndedAt) {
		t.Fatalf("expected chronological order")
	}
	if records[0].Nickname != "ace" || records[0].Score != 1000 {
		t.Fatalf("unexpected record: %+v", records[0])
	}

	limited, err := st.ListResults(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].Score != 1001 {
		t.Fatalf("expected the 2 most recent records, got %+v", limited)
	}
}

func TestBestScoresOnePerNickname(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0).UTC()
	inserts := []struct {
		nickname string
		score    int
	}{
		{"ace", 4000},
		{"ace", 6000},
		{"bee", 5000},
		{"cal", 1000},
	}
	for i, in := range inserts {
		rec := record(in.nickname, in.score, base.Add(time.Duration(i)*time.Minute))
		if _, err := st.InsertResult(ctx, rec); err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	entries, err := st.BestScores(ctx, 2)
	if err != nil {
		t.Fatalf("best scores: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Nickname != "ace" || entries[0].Score != 6000 || entries[0].Rank != 1 {
		t.Fatalf("unexpected top entry: %+v", entries[0])
	}
	if entries[1].Nickname != "bee" || entries[1].Rank != 2 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}
