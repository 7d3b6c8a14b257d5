package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	errs "github.com/roastlab/gitroast/internal/errors"
	"github.com/roastlab/gitroast/internal/metrics"
)

const defaultTimeout = 45 * time.Second

// Client talks to one chat-completion backend. A single request per
// call, fixed timeout, no retry: a failed call surfaces immediately as
// a ProviderError.
type Client struct {
	provider Provider
	apiKey   string
	endpoint string
	model    string

	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient constructs a backend client. baseURL is honored only for
// providers whose profile permits an override; an empty baseURL always
// selects the profile default.
func NewClient(provider Provider, apiKey, baseURL string, opts ...Option) (*Client, error) {
	prof, ok := profiles[provider]
	if !ok {
		return nil, errs.NewConfigError("llm_provider", fmt.Sprintf("unknown provider %q", provider))
	}

	endpoint := prof.defaultURL
	if prof.allowBaseURL && baseURL != "" {
		endpoint = baseURL
	}

	c := &Client{
		provider:   provider,
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	return c, nil
}

// SetModel selects the model id used for subsequent calls.
func (c *Client) SetModel(model string) { c.model = model }

// Model returns the current model id.
func (c *Client) Model() string { return c.model }

// Provider returns the backend identity.
func (c *Client) Provider() Provider { return c.provider }

// ConstructPrompt builds a transcript turn, mapping the canonical role
// through the backend's role-label table. Pure: two calls with the same
// arguments yield equal turns and touch no client state.
func (c *Client) ConstructPrompt(text, role string) Message {
	label, ok := profiles[c.provider].roles[role]
	if !ok {
		label = role
	}
	return Message{Role: label, Content: text}
}

// --- wire types ---

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateText sends the full transcript to the backend's
// chat-completion endpoint and returns the first choice's content.
func (c *Client) GenerateText(ctx context.Context, messages []Message) (string, error) {
	if c.model == "" {
		return "", errs.NewConfigError("llm_model_id", "model id must be set before generating")
	}
	if c.apiKey == "" {
		return "", errs.NewConfigError("api_key", "api key must be set before generating")
	}
	if c.endpoint == "" {
		return "", errs.NewConfigError("base_url", "endpoint must be resolved before generating")
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordProviderCall(string(c.provider), "error")
		return "", &errs.ProviderError{Provider: string(c.provider), Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordProviderCall(string(c.provider), "error")
		return "", &errs.ProviderError{Provider: string(c.provider), StatusCode: resp.StatusCode, Detail: "reading response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordProviderCall(string(c.provider), "error")
		return "", errs.NewProviderError(string(c.provider), resp.StatusCode, errorDetail(raw))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		c.metrics.RecordProviderCall(string(c.provider), "error")
		return "", &errs.ProviderError{Provider: string(c.provider), StatusCode: resp.StatusCode, Detail: "malformed response body", Err: err}
	}
	if cr.Error != nil {
		c.metrics.RecordProviderCall(string(c.provider), "error")
		return "", errs.NewProviderError(string(c.provider), resp.StatusCode, cr.Error.Message)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		c.metrics.RecordProviderCall(string(c.provider), "error")
		return "", errs.NewProviderError(string(c.provider), resp.StatusCode, "response missing choices")
	}

	c.metrics.RecordProviderCall(string(c.provider), "ok")
	c.logger.Debug().
		Str("provider", string(c.provider)).
		Str("model", c.model).
		Int("turns", len(messages)).
		Msg("completion generated")

	return cr.Choices[0].Message.Content, nil
}

// errorDetail extracts the upstream error message from a non-200 body,
// falling back to the raw body snippet.
func errorDetail(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	if len(raw) > 512 {
		raw = raw[:512]
	}
	return string(raw)
}
