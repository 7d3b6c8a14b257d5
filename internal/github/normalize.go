package github

import "encoding/json"

// The recognized GitHub event kinds.
const (
	EventCommitComment            = "CommitCommentEvent"
	EventCreate                   = "CreateEvent"
	EventDelete                   = "DeleteEvent"
	EventFork                     = "ForkEvent"
	EventGollum                   = "GollumEvent"
	EventIssueComment             = "IssueCommentEvent"
	EventIssues                   = "IssuesEvent"
	EventMember                   = "MemberEvent"
	EventPublic                   = "PublicEvent"
	EventPullRequest              = "PullRequestEvent"
	EventPullRequestReview        = "PullRequestReviewEvent"
	EventPullRequestReviewComment = "PullRequestReviewCommentEvent"
	EventPullRequestReviewThread  = "PullRequestReviewThreadEvent"
	EventPush                     = "PushEvent"
	EventRelease                  = "ReleaseEvent"
	EventSponsorship              = "SponsorshipEvent"
	EventWatch                    = "WatchEvent"
)

// NormalizePayload maps a raw event payload to the flat field set
// defined for its kind. Total and side-effect-free: an unknown kind, a
// malformed payload, or a payload missing the kind's discriminating
// field all normalize to an empty map — "event occurred but had no
// roast-worthy content", which is not an error.
func NormalizePayload(kind string, payload json.RawMessage) map[string]any {
	switch kind {
	case EventCommitComment:
		var p struct {
			Comment struct {
				Body string `json:"body"`
			} `json:"comment"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Comment.Body == "" {
			return map[string]any{}
		}
		return map[string]any{"comment": p.Comment.Body}

	case EventCreate, EventDelete:
		var p struct {
			RefType string `json:"ref_type"`
			Ref     string `json:"ref"`
		}
		if json.Unmarshal(payload, &p) != nil || p.RefType == "" {
			return map[string]any{}
		}
		return map[string]any{"ref_type": p.RefType, "ref": p.Ref}

	case EventFork:
		var p struct {
			Forkee struct {
				FullName string `json:"full_name"`
			} `json:"forkee"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Forkee.FullName == "" {
			return map[string]any{}
		}
		return map[string]any{"forkee": p.Forkee.FullName}

	case EventGollum:
		var p struct {
			Pages []struct {
				PageName string `json:"page_name"`
				Action   string `json:"action"`
			} `json:"pages"`
		}
		if json.Unmarshal(payload, &p) != nil || len(p.Pages) == 0 {
			return map[string]any{}
		}
		pages := make([]map[string]any, 0, len(p.Pages))
		for _, pg := range p.Pages {
			pages = append(pages, map[string]any{"page_name": pg.PageName, "action": pg.Action})
		}
		return map[string]any{"pages": pages}

	case EventIssueComment:
		var p struct {
			Action string `json:"action"`
			Issue  struct {
				Title string `json:"title"`
			} `json:"issue"`
			Comment struct {
				Body string `json:"body"`
			} `json:"comment"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Comment.Body == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "issue_title": p.Issue.Title, "comment": p.Comment.Body}

	case EventIssues:
		var p struct {
			Action string `json:"action"`
			Issue  struct {
				Title string `json:"title"`
			} `json:"issue"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Issue.Title == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "issue_title": p.Issue.Title}

	case EventMember:
		var p struct {
			Action string `json:"action"`
			Member struct {
				Login string `json:"login"`
			} `json:"member"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Member.Login == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "member": p.Member.Login}

	case EventPublic:
		// The payload carries no fields for this kind.
		return map[string]any{}

	case EventPullRequest:
		var p struct {
			Action      string `json:"action"`
			PullRequest struct {
				Title  string `json:"title"`
				Merged bool   `json:"merged"`
			} `json:"pull_request"`
		}
		if json.Unmarshal(payload, &p) != nil || p.PullRequest.Title == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "pr_title": p.PullRequest.Title, "merged": p.PullRequest.Merged}

	case EventPullRequestReview:
		var p struct {
			Action string `json:"action"`
			Review struct {
				State string `json:"state"`
			} `json:"review"`
			PullRequest struct {
				Title string `json:"title"`
			} `json:"pull_request"`
		}
		if json.Unmarshal(payload, &p) != nil || p.PullRequest.Title == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "pr_title": p.PullRequest.Title, "review_state": p.Review.State}

	case EventPullRequestReviewComment:
		var p struct {
			Action  string `json:"action"`
			Comment struct {
				Body string `json:"body"`
			} `json:"comment"`
			PullRequest struct {
				Title string `json:"title"`
			} `json:"pull_request"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Comment.Body == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "pr_title": p.PullRequest.Title, "comment": p.Comment.Body}

	case EventPullRequestReviewThread:
		var p struct {
			Action      string `json:"action"`
			PullRequest struct {
				Title string `json:"title"`
			} `json:"pull_request"`
		}
		if json.Unmarshal(payload, &p) != nil || p.PullRequest.Title == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action, "pr_title": p.PullRequest.Title}

	case EventPush:
		var p struct {
			Size    int `json:"size"`
			Commits []struct {
				Message string `json:"message"`
			} `json:"commits"`
		}
		if json.Unmarshal(payload, &p) != nil || len(p.Commits) == 0 {
			return map[string]any{}
		}
		messages := make([]string, 0, len(p.Commits))
		for _, c := range p.Commits {
			messages = append(messages, c.Message)
		}
		size := p.Size
		if size == 0 {
			size = len(p.Commits)
		}
		return map[string]any{"commit_count": size, "commit_messages": messages}

	case EventRelease:
		var p struct {
			Action  string `json:"action"`
			Release struct {
				TagName string `json:"tag_name"`
				Name    string `json:"name"`
			} `json:"release"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Release.TagName == "" {
			return map[string]any{}
		}
		name := p.Release.Name
		if name == "" {
			name = p.Release.TagName
		}
		return map[string]any{"action": p.Action, "release": name, "tag": p.Release.TagName}

	case EventSponsorship, EventWatch:
		var p struct {
			Action string `json:"action"`
		}
		if json.Unmarshal(payload, &p) != nil || p.Action == "" {
			return map[string]any{}
		}
		return map[string]any{"action": p.Action}

	default:
		return map[string]any{}
	}
}
