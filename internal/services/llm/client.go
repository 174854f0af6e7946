package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint  = "https://openrouter.ai/api/v1/chat/completions"
	defaultTimeout   = 15 * time.Second
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 10 * time.Second
	defaultAttempts  = 5
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg  Config
	http *http.Client

	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	sleeper   func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithRetryMaxAttempts sets how many requests a call may make in total.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) { c.attempts = attempts }
}

// WithRetryBackoff sets the first backoff delay and the cap applied to every
// delay, Retry-After included.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = baseDelay
		c.maxDelay = maxDelay
	}
}

// WithSleeper replaces the timer used between attempts.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) { c.sleeper = sleeper }
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Referer = strings.TrimSpace(cfg.Referer)
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEndpoint
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: timeout},
		attempts:  defaultAttempts,
		baseDelay: defaultBaseDelay,
		maxDelay:  defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TrackName is the artist/title pair the model proposes for an audio file.
type TrackName struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Raw    string `json:"-"`
}

// CompleteJSON sends a JSON-mode chat request and returns the model's raw
// answer.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.completeJSON(ctx, "llm complete", systemPrompt, userPrompt)
}

func (c *Client) completeJSON(ctx context.Context, op, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	switch {
	case c.cfg.APIKey == "":
		return "", fmt.Errorf("%s: api key required", op)
	case systemPrompt == "":
		return "", fmt.Errorf("%s: system prompt required", op)
	case userPrompt == "":
		return "", fmt.Errorf("%s: user prompt required", op)
	}
	return c.complete(ctx, op, chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
}

// SuggestTrackName asks the model to infer the artist and title for a file whose
// tags are missing or incomplete. Hints may be empty.
func (c *Client) SuggestTrackName(ctx context.Context, filename, artistHint, titleHint string) (TrackName, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return TrackName{}, errors.New("llm suggest: filename required")
	}
	content, err := c.completeJSON(ctx, "llm suggest", TrackNamePrompt, trackNameRequest(filename, artistHint, titleHint))
	if err != nil {
		return TrackName{}, err
	}
	var name TrackName
	if err := DecodeLLMJSON(content, &name); err != nil {
		return TrackName{}, fmt.Errorf("llm suggest: parse payload: %w", err)
	}
	name.Artist = strings.TrimSpace(name.Artist)
	name.Title = strings.TrimSpace(name.Title)
	name.Raw = content
	if name.Artist == "" || name.Title == "" {
		return TrackName{}, fmt.Errorf("llm suggest: incomplete answer for %q (payload snippet: %s)", filename, snippet(content))
	}
	return name, nil
}

func trackNameRequest(filename, artistHint, titleHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Filename: %s\n", filename)
	if hint := strings.TrimSpace(artistHint); hint != "" {
		fmt.Fprintf(&b, "Artist tag: %s\n", hint)
	}
	if hint := strings.TrimSpace(titleHint); hint != "" {
		fmt.Fprintf(&b, "Title tag: %s\n", hint)
	}
	return b.String()
}

// Summarize condenses a transcript into a short plain-text summary.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errors.New("llm summarize: transcript required")
	}
	content, err := c.completeJSON(ctx, "llm summarize", SummaryPrompt, transcript)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return "", fmt.Errorf("llm summarize: parse payload: %w", err)
	}
	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return "", errors.New("llm summarize: empty summary")
	}
	return summary, nil
}

// HealthCheck issues a tiny request to confirm the key and model work.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.completeJSON(ctx, "llm health", "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}
