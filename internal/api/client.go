// Package api is the JSON client for the race backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/typerush/typerush/internal/model"
)

// Client talks to the race backend. Safe for use from a single Bubble Tea
// command at a time; the underlying fasthttp client pools connections.
type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout used when the context carries
// no earlier deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

// WithRetry sets the attempt count for idempotent (GET) requests.
func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 8},
		defaultTimeout: 10 * time.Second,
		retryMax:       2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterPlayer registers a nickname/email pair. The backend returns the
// existing player when the email is already known.
func (c *Client) RegisterPlayer(ctx context.Context, nickname, email string) (*model.Player, error) {
	req := playerRequest{Nickname: nickname, Email: email}
	var resp playerResponse
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/players", req, &resp, false); err != nil {
		return nil, fmt.Errorf("register player: %w", err)
	}
	return &model.Player{ID: resp.ID, Nickname: resp.Nickname, Email: resp.Email}, nil
}

// RandomPrompt fetches a prompt to race against.
func (c *Client) RandomPrompt(ctx context.Context) (*model.Prompt, error) {
	var resp promptResponse
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/prompts/random", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("fetch prompt: %w", err)
	}
	return &model.Prompt{ID: resp.ID, Text: resp.Text, Category: resp.Category, Difficulty: resp.Difficulty}, nil
}

// SubmitScore records a finished race. Callers treat failures as
// best-effort: log and move on.
func (c *Client) SubmitScore(ctx context.Context, sub ScoreSubmission) error {
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/scores", sub, nil, false); err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	return nil
}

// AllTimeLeaderboard fetches the all-time top scores.
func (c *Client) AllTimeLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return c.leaderboard(ctx, "/api/leaderboard/all-time")
}

// DailyLeaderboard fetches today's top scores.
func (c *Client) DailyLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return c.leaderboard(ctx, "/api/leaderboard")
}

func (c *Client) leaderboard(ctx context.Context, path string) ([]model.LeaderboardEntry, error) {
	var resp leaderboardResponse
	if err := c.doJSON(ctx, fasthttp.MethodGet, path, nil, &resp, true); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	entries := make([]model.LeaderboardEntry, 0, len(resp.Leaderboard))
	for _, e := range resp.Leaderboard {
		entries = append(entries, model.LeaderboardEntry{
			Rank:     e.Rank,
			Nickname: e.Nickname,
			WPM:      e.WPM,
			Accuracy: accuracyFromPercent(e.Accuracy),
			Score:    e.Score,
		})
	}
	return entries, nil
}

// PerformanceMessage asks the backend for a result headline. Callers apply
// their own bounded timeout and fall back to the local tier message.
func (c *Client) PerformanceMessage(ctx context.Context, nickname string, wpm int, accuracy float64) (string, error) {
	req := performanceMessageRequest{Nickname: nickname, WPM: wpm, Accuracy: accuracy}
	var resp performanceMessageResponse
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/ai/performance-message", req, &resp, false); err != nil {
		return "", fmt.Errorf("fetch performance message: %w", err)
	}
	if strings.TrimSpace(resp.Message) == "" {
		return "", fmt.Errorf("empty performance message")
	}
	return resp.Message, nil
}

// The wire format always reports accuracy as a 0-100 percentage, so a
// genuine 1.0 means one percent, not a fraction.
func accuracyFromPercent(v float64) float64 {
	return v / 100
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("api error: status=%d body=%s", status, truncate(string(resp.Body()), 256))
			if !shouldRetryStatus(status) {
				return lastErr
			}
			continue
		}
		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.defaultTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

func shouldRetryStatus(status int) bool {
	return status >= 500 || status == fasthttp.StatusTooManyRequests
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
