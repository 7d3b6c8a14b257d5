// Package config resolves the roaster's credential record and runtime
// settings. Values come from the persisted credential file first, with
// environment variables taking precedence.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/roastlab/gitroast/pkg/credstore"
)

// Provider identifiers accepted in the credential record.
const (
	ProviderOpenAI = "OPENAI"
	ProviderGroq   = "GROQ"
)

// Credentials holds every named setting the roaster components consume.
// Components receive the fields they need at construction; a change
// requires reconstructing the dependent component.
type Credentials struct {
	GitHubToken   string `envconfig:"ROAST_GITHUB_TOKEN"`
	Provider      string `envconfig:"ROAST_LLM_PROVIDER"`
	ModelID       string `envconfig:"ROAST_LLM_MODEL_ID"`
	DefaultAPIKey string `envconfig:"ROAST_DEFAULT_API_KEY"`
	OpenAIAPIKey  string `envconfig:"ROAST_OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"ROAST_OPENAI_BASE_URL"`
	GroqAPIKey    string `envconfig:"ROAST_GROQ_API_KEY"`

	// Runtime settings (env only, never persisted).
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the saved credential record (if any) and applies
// environment variable overrides on top.
func Load(store credstore.Store) (*Credentials, error) {
	var c Credentials

	rec, err := store.Load()
	if err != nil && err != credstore.ErrNoRecord {
		return nil, err
	}
	c.applyRecord(rec)

	// envconfig leaves fields untouched when the variable is unset,
	// so file values survive and env values win.
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &c, nil
}

func (c *Credentials) applyRecord(rec credstore.Record) {
	if rec == nil {
		return
	}
	c.GitHubToken = rec[credstore.KeyGitHubToken]
	c.Provider = rec[credstore.KeyProvider]
	c.ModelID = rec[credstore.KeyModelID]
	c.DefaultAPIKey = rec[credstore.KeyDefaultAPIKey]
	c.OpenAIAPIKey = rec[credstore.KeyOpenAIAPIKey]
	c.OpenAIBaseURL = rec[credstore.KeyOpenAIBaseURL]
	c.GroqAPIKey = rec[credstore.KeyGroqAPIKey]
}

// Record converts the credential fields back into a persistable record.
// Runtime settings are excluded.
func (c *Credentials) Record() credstore.Record {
	return credstore.Record{
		credstore.KeyGitHubToken:   c.GitHubToken,
		credstore.KeyProvider:      c.Provider,
		credstore.KeyModelID:       c.ModelID,
		credstore.KeyDefaultAPIKey: c.DefaultAPIKey,
		credstore.KeyOpenAIAPIKey:  c.OpenAIAPIKey,
		credstore.KeyOpenAIBaseURL: c.OpenAIBaseURL,
		credstore.KeyGroqAPIKey:    c.GroqAPIKey,
	}
}

// ResolveAPIKey returns the per-provider API key when set, falling back
// to the default key.
func (c *Credentials) ResolveAPIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey != "" {
			return c.OpenAIAPIKey
		}
	case ProviderGroq:
		if c.GroqAPIKey != "" {
			return c.GroqAPIKey
		}
	}
	return c.DefaultAPIKey
}
