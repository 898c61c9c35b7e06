package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithTimeout(2*time.Second), WithRetry(1))
}

func TestRegisterPlayer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/players" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["nickname"] != "ace" || body["email"] != "ace@example.com" {
			t.Errorf("unexpected payload: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": "p-1", "nickname": "ace", "email": "ace@example.com",
		})
	}))

	player, err := c.RegisterPlayer(context.Background(), "ace", "ace@example.com")
	if err != nil {
		t.Fatalf("register player: %v", err)
	}
	if player.ID != "p-1" || player.Nickname != "ace" {
		t.Fatalf("unexpected player: %+v", player)
	}
}

func TestRandomPrompt(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/prompts/random" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": "pr-1", "text": "the quick brown fox", "category": "classic", "difficulty": "easy",
		})
	}))

	prompt, err := c.RandomPrompt(context.Background())
	if err != nil {
		t.Fatalf("fetch prompt: %v", err)
	}
	if prompt.ID != "pr-1" || prompt.Text != "the quick brown fox" {
		t.Fatalf("unexpected prompt: %+v", prompt)
	}
}

func TestLeaderboardNormalizesAccuracy(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/leaderboard/all-time" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"date": "2024-01-01",
			"leaderboard": []map[string]any{
				{"rank": 1, "nickname": "ace", "wpm": 92.0, "accuracy": 97.5, "score": 8970},
				{"rank": 2, "nickname": "mash", "wpm": 120.0, "accuracy": 1.0, "score": 12},
			},
		})
	}))

	entries, err := c.AllTimeLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("fetch leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Accuracy != 0.975 {
		t.Fatalf("expected accuracy normalized to 0.975, got %v", entries[0].Accuracy)
	}
	// 1.0 on the wire is one percent, not a fraction.
	if entries[1].Accuracy != 0.01 {
		t.Fatalf("expected accuracy normalized to 0.01, got %v", entries[1].Accuracy)
	}
	if entries[0].Rank != 1 || entries[0].Score != 8970 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestSubmitScoreErrorStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Prompt not found"}`, http.StatusNotFound)
	}))

	err := c.SubmitScore(context.Background(), ScoreSubmission{PlayerID: "p-1", PromptID: "gone", WPM: 10, Accuracy: 0.9})
	if err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestPerformanceMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai/performance-message" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "BLAZING FINGERS, ACE!", "tier": "excellent", "ai_generated": true,
		})
	}))

	msg, err := c.PerformanceMessage(context.Background(), "ace", 65, 0.93)
	if err != nil {
		t.Fatalf("fetch message: %v", err)
	}
	if msg != "BLAZING FINGERS, ACE!" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "pr-2", "text": "retry pays off"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(2*time.Second), WithRetry(2))
	prompt, err := c.RandomPrompt(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if prompt.ID != "pr-2" {
		t.Fatalf("unexpected prompt: %+v", prompt)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
