package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	errs "github.com/roastlab/gitroast/internal/errors"
)

const defaultEventsBaseURL = "https://api.github.com"

// RawEvent is one entry from a user's public activity feed, payload
// left undecoded for the normalizer.
type RawEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Public    bool      `json:"public"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload json.RawMessage `json:"payload"`
}

// EventsClient fetches the live user event feed. It deliberately
// bypasses the gateway's caches: the feed is a freshness-sensitive,
// single-shot read per roast.
type EventsClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// EventsOption configures the events client.
type EventsOption func(*EventsClient)

// WithEventsBaseURL points the client at a different API root.
func WithEventsBaseURL(u string) EventsOption {
	return func(e *EventsClient) { e.baseURL = u }
}

// WithEventsHTTPClient sets a custom HTTP client.
func WithEventsHTTPClient(hc *http.Client) EventsOption {
	return func(e *EventsClient) { e.httpClient = hc }
}

// NewEventsClient creates an event feed client. An empty token is
// allowed; the feed endpoint serves public events unauthenticated.
func NewEventsClient(token string, logger zerolog.Logger, opts ...EventsOption) *EventsClient {
	e := &EventsClient{
		baseURL:    defaultEventsBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("component", "github-events").Logger(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ListUserEvents returns the user's recent activity feed, most recent
// first. Returns an empty slice when the user is unknown.
func (e *EventsClient) ListUserEvents(ctx context.Context, login string) ([]RawEvent, error) {
	if login == "" {
		return nil, errs.NewConfigError("username", "login is required for the event feed")
	}

	endpoint := fmt.Sprintf("%s/users/%s/events?per_page=100", e.baseURL, url.PathEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "gitroast/1.0")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewUpstreamError("list_user_events", 0, "event feed request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []RawEvent{}, nil
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.NewUpstreamError("list_user_events", resp.StatusCode, string(body), nil)
	}

	var events []RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, errs.NewUpstreamError("list_user_events", resp.StatusCode, "decoding event feed", err)
	}

	e.logger.Debug().Str("login", login).Int("events", len(events)).Msg("fetched event feed")
	return events, nil
}
