package roast

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/roastlab/gitroast/internal/config"
	"github.com/roastlab/gitroast/internal/github"
	"github.com/roastlab/gitroast/internal/llm"
	"github.com/roastlab/gitroast/internal/metrics"
	"github.com/roastlab/gitroast/internal/requestid"
	"github.com/roastlab/gitroast/pkg/credstore"
)

// TextBackend is the slice of the LLM client a session consumes.
type TextBackend interface {
	GenerateText(ctx context.Context, messages []llm.Message) (string, error)
	ConstructPrompt(text, role string) llm.Message
	SetModel(model string)
	Provider() llm.Provider
}

// SummaryBuilder assembles roast inputs from GitHub data.
type SummaryBuilder interface {
	BuildUserSummary(ctx context.Context, username string) (*UserSummary, error)
	BuildRepoSummary(ctx context.Context, fullName, branch string) (*RepoSummary, error)
}

// Session owns one roast conversation: the GitHub gateway, the LLM
// backend, and the transcript they share. The transcript always starts
// with the persona turn and grows by a user/assistant pair per
// successful exchange. Sessions are not safe for concurrent use.
type Session struct {
	store   credstore.Store
	creds   *config.Credentials
	gateway *github.Client
	feed    *github.EventsClient
	builder SummaryBuilder
	backend TextBackend

	transcript []llm.Message
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewSession loads credentials from store and wires the gateway,
// builder, and LLM backend. Fails with a configuration error when the
// provider is missing or unknown.
func NewSession(store credstore.Store, logger zerolog.Logger, m *metrics.Metrics) (*Session, error) {
	if m == nil {
		m = metrics.New()
	}
	creds, err := config.Load(store)
	if err != nil {
		return nil, err
	}
	s := &Session{
		store:   store,
		creds:   creds,
		logger:  logger.With().Str("component", "session").Logger(),
		metrics: m,
	}
	if err := s.buildGateway(); err != nil {
		return nil, err
	}
	if err := s.buildBackend(); err != nil {
		return nil, err
	}
	s.resetTranscript()
	return s, nil
}

func (s *Session) buildGateway() error {
	gw, err := github.NewClient(s.creds.GitHubToken, s.logger, github.WithMetrics(s.metrics))
	if err != nil {
		return err
	}
	s.gateway = gw
	s.feed = github.NewEventsClient(s.creds.GitHubToken, s.logger)
	s.builder = NewBuilder(gw, s.feed, s.logger)
	return nil
}

func (s *Session) buildBackend() error {
	client, err := llm.NewClient(
		llm.Provider(s.creds.Provider),
		s.creds.ResolveAPIKey(),
		s.creds.OpenAIBaseURL,
		llm.WithLogger(s.logger),
		llm.WithMetrics(s.metrics),
	)
	if err != nil {
		return err
	}
	client.SetModel(s.creds.ModelID)
	s.backend = client
	return nil
}

func (s *Session) resetTranscript() {
	s.transcript = []llm.Message{s.backend.ConstructPrompt(systemPrompt, llm.RoleSystem)}
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []llm.Message {
	out := make([]llm.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// generate appends content as a user turn, sends the full transcript,
// and records the reply as an assistant turn. A failed call leaves the
// transcript exactly as it was.
func (s *Session) generate(ctx context.Context, content string) (string, error) {
	s.transcript = append(s.transcript, s.backend.ConstructPrompt(content, llm.RoleUser))
	reply, err := s.backend.GenerateText(ctx, s.transcript)
	if err != nil {
		s.transcript = s.transcript[:len(s.transcript)-1]
		return "", err
	}
	s.transcript = append(s.transcript, s.backend.ConstructPrompt(reply, llm.RoleAssistant))
	return reply, nil
}

// RoastRepo builds the repository summary and asks the backend to
// review it. Branch may be empty for the default branch.
func (s *Session) RoastRepo(ctx context.Context, fullName, branch string) (string, error) {
	ctx, roastID := requestid.New(ctx)
	s.logger.Info().Str("roast_id", roastID).Str("repo", fullName).Msg("roasting repository")

	summary, err := s.builder.BuildRepoSummary(ctx, fullName, branch)
	if err != nil {
		s.metrics.RecordRoast("repo", "error")
		return "", err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		s.metrics.RecordRoast("repo", "error")
		return "", err
	}
	reply, err := s.generate(ctx, RepoReviewPrompt(string(data)))
	if err != nil {
		s.metrics.RecordRoast("repo", "error")
		return "", err
	}
	s.metrics.RecordRoast("repo", "ok")
	return reply, nil
}

// RoastUser builds the user summary and asks the backend to review
// it. Username may be empty for the authenticated user.
func (s *Session) RoastUser(ctx context.Context, username string) (string, error) {
	ctx, roastID := requestid.New(ctx)
	s.logger.Info().Str("roast_id", roastID).Str("user", username).Msg("roasting user")

	summary, err := s.builder.BuildUserSummary(ctx, username)
	if err != nil {
		s.metrics.RecordRoast("user", "error")
		return "", err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		s.metrics.RecordRoast("user", "error")
		return "", err
	}
	reply, err := s.generate(ctx, UserReviewPrompt(string(data)))
	if err != nil {
		s.metrics.RecordRoast("user", "error")
		return "", err
	}
	s.metrics.RecordRoast("user", "ok")
	return reply, nil
}

// Chat sends a free-form message within the running conversation.
func (s *Session) Chat(ctx context.Context, message string) (string, error) {
	ctx, roastID := requestid.New(ctx)
	s.logger.Debug().Str("roast_id", roastID).Msg("chat turn")

	reply, err := s.generate(ctx, ChatPrompt(message))
	if err != nil {
		s.metrics.RecordRoast("chat", "error")
		return "", err
	}
	s.metrics.RecordRoast("chat", "ok")
	return reply, nil
}

// ReloadConfig re-reads credentials from the store and rebuilds only
// the parts whose settings changed. The transcript survives everything
// except a provider switch.
func (s *Session) ReloadConfig() error {
	fresh, err := config.Load(s.store)
	if err != nil {
		return err
	}
	old := s.creds
	s.creds = fresh

	if fresh.GitHubToken != old.GitHubToken {
		if err := s.buildGateway(); err != nil {
			s.creds = old
			return err
		}
	}

	providerChanged := fresh.Provider != old.Provider
	backendChanged := providerChanged ||
		fresh.ResolveAPIKey() != old.ResolveAPIKey() ||
		fresh.ModelID != old.ModelID ||
		fresh.OpenAIBaseURL != old.OpenAIBaseURL
	if backendChanged {
		if err := s.buildBackend(); err != nil {
			s.creds = old
			return err
		}
	}
	if providerChanged {
		s.logger.Info().
			Str("from", old.Provider).
			Str("to", fresh.Provider).
			Msg("provider changed, resetting conversation")
		s.resetTranscript()
	}
	return nil
}
