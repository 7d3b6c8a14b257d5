// Package credstore persists the roaster's credential record between runs.
// The record is an opaque key-value blob; interpretation of the keys
// belongs to the config package.
package credstore

import "errors"

// ErrNoRecord is returned by Load when no record has been saved yet.
var ErrNoRecord = errors.New("no credential record")

// Fixed record keys.
const (
	KeyGitHubToken   = "github_token"
	KeyProvider      = "llm_provider"
	KeyModelID       = "llm_model_id"
	KeyDefaultAPIKey = "default_api_key"
	KeyOpenAIAPIKey  = "openai_api_key"
	KeyOpenAIBaseURL = "openai_base_url"
	KeyGroqAPIKey    = "groq_api_key"
)

// Record is a flat mapping of named string settings.
type Record map[string]string

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store defines credential persistence.
type Store interface {
	// Load reads the saved record. Returns ErrNoRecord if nothing
	// has been saved yet.
	Load() (Record, error)
	// Save writes the record, replacing any previous one.
	Save(Record) error
}
