package roast

import (
	"context"
	"sort"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	"github.com/roastlab/gitroast/internal/errors"
	"github.com/roastlab/gitroast/internal/github"
)

const (
	// fallbackRepoLimit bounds the repositories mined for synthetic
	// activities when the live event feed is empty.
	fallbackRepoLimit = 5
	// detailedCommitLimit bounds per-commit detail lookups when
	// summarizing a single repository.
	detailedCommitLimit = 20
)

// Gateway is the slice of the GitHub gateway the builder consumes.
type Gateway interface {
	GetUser(ctx context.Context, username string) (*gh.User, error)
	GetRepository(ctx context.Context, fullName string) (*gh.Repository, error)
	GetRepositories(ctx context.Context, username string) ([]*gh.Repository, error)
	GetRepoCommits(ctx context.Context, fullName, author string) ([]*gh.RepositoryCommit, error)
	GetRepoCommit(ctx context.Context, fullName, sha string) (*gh.RepositoryCommit, error)
	GetRepoReadme(ctx context.Context, fullName string) (string, error)
	GetRepoLicense(ctx context.Context, fullName string) (string, error)
	GetRepoLanguages(ctx context.Context, fullName string) (map[string]int, error)
	GetRepoStarsCount(ctx context.Context, fullName string) (int, error)
	GetRepoForksCount(ctx context.Context, fullName string) (int, error)
	GetRepositoryFilesStructure(ctx context.Context, fullName, branch string) ([]string, error)
	GetProfileSpecialRepository(ctx context.Context, username string) (*gh.Repository, error)
}

// EventFeed lists raw public events for a user.
type EventFeed interface {
	ListUserEvents(ctx context.Context, login string) ([]github.RawEvent, error)
}

// Builder assembles user and repository summaries from gateway data.
type Builder struct {
	gateway Gateway
	feed    EventFeed
	logger  zerolog.Logger
}

func NewBuilder(gateway Gateway, feed EventFeed, logger zerolog.Logger) *Builder {
	return &Builder{
		gateway: gateway,
		feed:    feed,
		logger:  logger.With().Str("component", "builder").Logger(),
	}
}

// BuildUserSummary collects the roast input for a user. An empty
// username means the authenticated user. The live event feed is the
// primary activity source; commit mining runs only when the feed
// yields nothing at all.
func (b *Builder) BuildUserSummary(ctx context.Context, username string) (*UserSummary, error) {
	user, err := b.gateway.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		name := username
		if name == "" {
			name = "authenticated user"
		}
		return nil, errors.NewNotFoundError("user", name)
	}
	login := user.GetLogin()

	profileReadme := ""
	profileRepo, err := b.gateway.GetProfileSpecialRepository(ctx, username)
	if err != nil {
		return nil, err
	}
	if profileRepo != nil {
		profileReadme, err = b.gateway.GetRepoReadme(ctx, profileRepo.GetFullName())
		if err != nil {
			return nil, err
		}
	}

	events, err := b.feed.ListUserEvents(ctx, login)
	if err != nil {
		return nil, err
	}
	activities := make([]Activity, 0, len(events))
	for _, ev := range events {
		public := ev.Public
		activities = append(activities, Activity{
			EventType: ev.Type,
			CreatedAt: ev.CreatedAt.UTC().Format(time.RFC3339),
			Repo:      ev.Repo.Name,
			Public:    &public,
			Payload:   github.NormalizePayload(ev.Type, ev.Payload),
		})
	}
	if len(activities) == 0 {
		b.logger.Debug().Str("login", login).Msg("event feed empty, mining recent commits")
		activities, err = b.mineRecentCommits(ctx, login)
		if err != nil {
			return nil, err
		}
	}

	return &UserSummary{
		Username:      login,
		Name:          user.GetName(),
		Bio:           user.Bio,
		ProfileReadme: profileReadme,
		Activities:    activities,
	}, nil
}

// mineRecentCommits synthesizes push-shaped activities from the five
// most recently updated repositories, one per commit authored by the
// user. Order follows repository recency, then the gateway's commit
// order within each repository.
func (b *Builder) mineRecentCommits(ctx context.Context, login string) ([]Activity, error) {
	repos, err := b.gateway.GetRepositories(ctx, login)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].GetUpdatedAt().After(repos[j].GetUpdatedAt().Time)
	})
	if len(repos) > fallbackRepoLimit {
		repos = repos[:fallbackRepoLimit]
	}

	activities := make([]Activity, 0)
	for _, repo := range repos {
		commits, err := b.gateway.GetRepoCommits(ctx, repo.GetFullName(), login)
		if err != nil {
			return nil, err
		}
		feasibility := "public"
		if repo.GetPrivate() {
			feasibility = "private"
		}
		for _, commit := range commits {
			activities = append(activities, Activity{
				EventType: github.EventPush,
				CreatedAt: commit.GetCommit().GetAuthor().GetDate().UTC().Format(time.RFC3339),
				Repo:      repo.GetFullName(),
				Payload: map[string]any{
					"commit_message":   commit.GetCommit().GetMessage(),
					"repo_feasability": feasibility,
				},
			})
		}
	}
	return activities, nil
}

// BuildRepoSummary collects the roast input for a single repository.
// Branch selects the tree listed in FilesStructure; empty means the
// default branch.
func (b *Builder) BuildRepoSummary(ctx context.Context, fullName, branch string) (*RepoSummary, error) {
	repo, err := b.gateway.GetRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, errors.NewNotFoundError("repository", fullName)
	}

	commits, err := b.gateway.GetRepoCommits(ctx, fullName, "")
	if err != nil {
		return nil, err
	}
	if len(commits) > detailedCommitLimit {
		commits = commits[:detailedCommitLimit]
	}
	public := !repo.GetPrivate()
	activities := make([]Activity, 0, len(commits))
	for _, commit := range commits {
		detail, err := b.gateway.GetRepoCommit(ctx, fullName, commit.GetSHA())
		if err != nil {
			return nil, err
		}
		if detail == nil {
			detail = commit
		}
		author := detail.GetAuthor().GetLogin()
		if author == "" {
			author = detail.GetCommit().GetAuthor().GetName()
		}
		isPublic := public
		activities = append(activities, Activity{
			EventType: github.EventPush,
			CreatedAt: detail.GetCommit().GetAuthor().GetDate().UTC().Format(time.RFC3339),
			Repo:      fullName,
			Public:    &isPublic,
			Payload: map[string]any{
				"author":         author,
				"commit_message": detail.GetCommit().GetMessage(),
				"files_changed":  len(detail.Files),
				"lines_changed":  detail.GetStats().GetAdditions() + detail.GetStats().GetDeletions(),
			},
		})
	}

	readme, err := b.gateway.GetRepoReadme(ctx, fullName)
	if err != nil {
		return nil, err
	}
	license, err := b.gateway.GetRepoLicense(ctx, fullName)
	if err != nil {
		return nil, err
	}
	languages, err := b.gateway.GetRepoLanguages(ctx, fullName)
	if err != nil {
		return nil, err
	}
	stars, err := b.gateway.GetRepoStarsCount(ctx, fullName)
	if err != nil {
		return nil, err
	}
	forks, err := b.gateway.GetRepoForksCount(ctx, fullName)
	if err != nil {
		return nil, err
	}
	files, err := b.gateway.GetRepositoryFilesStructure(ctx, fullName, branch)
	if err != nil {
		return nil, err
	}

	visibility := "public"
	if repo.GetPrivate() {
		visibility = "private"
	}
	var licensePtr *string
	if license != "" {
		licensePtr = &license
	}
	return &RepoSummary{
		FullName:       repo.GetFullName(),
		Visibility:     visibility,
		Description:    repo.Description,
		Readme:         readme,
		License:        licensePtr,
		Activities:     activities,
		StarsCount:     stars,
		ForksCount:     forks,
		Languages:      languages,
		FilesStructure: files,
	}, nil
}
