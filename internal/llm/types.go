// Package llm drives the chat-completion backends used for roasting.
// The backend set is closed: each provider is a static profile (default
// endpoint, base-URL override permission, role-label table) selected
// once at construction.
package llm

// Canonical role names for transcript turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider identifies a chat-completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "OPENAI"
	ProviderGroq   Provider = "GROQ"
)

// Message is a single turn in the conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// profile carries a backend's static wiring: its default endpoint,
// whether a base-URL override is honored, and the mapping from
// canonical roles to the labels the backend expects on the wire.
type profile struct {
	defaultURL   string
	allowBaseURL bool
	roles        map[string]string
}

var profiles = map[Provider]profile{
	ProviderOpenAI: {
		defaultURL:   "https://api.openai.com/v1/chat/completions",
		allowBaseURL: true,
		roles: map[string]string{
			RoleSystem:    "system",
			RoleUser:      "user",
			RoleAssistant: "assistant",
		},
	},
	ProviderGroq: {
		defaultURL:   "https://api.groq.com/openai/v1/chat/completions",
		allowBaseURL: false,
		roles: map[string]string{
			RoleSystem:    "system",
			RoleUser:      "user",
			RoleAssistant: "assistant",
		},
	},
}
