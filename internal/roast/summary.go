// Package roast assembles GitHub activity into roastable summaries and
// drives the LLM conversation that produces the roast.
package roast

// Activity is one normalized event. Public is nil for synthesized
// activities, where the live feed's visibility flag does not exist.
// Payload is empty, never nil, when the event had no roast-worthy
// content.
type Activity struct {
	EventType string         `json:"event_type"`
	CreatedAt string         `json:"event_created_at"`
	Repo      string         `json:"event_repo"`
	Public    *bool          `json:"is_event_public,omitempty"`
	Payload   map[string]any `json:"event_payload"`
}

// UserSummary is the roast input for a user. Built once per
// invocation, immutable after construction.
type UserSummary struct {
	Username      string     `json:"username"`
	Name          string     `json:"name"`
	Bio           *string    `json:"bio"`
	ProfileReadme string     `json:"profile_readme"`
	Activities    []Activity `json:"activities"`
}

// RepoSummary is the roast input for a repository.
type RepoSummary struct {
	FullName       string         `json:"repo_full_name"`
	Visibility     string         `json:"visibility"`
	Description    *string        `json:"description"`
	Readme         string         `json:"readme"`
	License        *string        `json:"license"`
	Activities     []Activity     `json:"activities"`
	StarsCount     int            `json:"stars_count"`
	ForksCount     int            `json:"forks_count"`
	Languages      map[string]int `json:"languages"`
	FilesStructure []string       `json:"files_structure"`
}
