package roast

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roastlab/gitroast/internal/errors"
	"github.com/roastlab/gitroast/internal/github"
)

type fakeGateway struct {
	user          *gh.User
	repo          *gh.Repository
	repos         []*gh.Repository
	commitsByRepo map[string][]*gh.RepositoryCommit
	details       map[string]*gh.RepositoryCommit
	readme        string
	license       string
	languages     map[string]int
	stars         int
	forks         int
	files         []string
	profileRepo   *gh.Repository

	commitCalls []string
}

func (f *fakeGateway) GetUser(ctx context.Context, username string) (*gh.User, error) {
	return f.user, nil
}

func (f *fakeGateway) GetRepository(ctx context.Context, fullName string) (*gh.Repository, error) {
	return f.repo, nil
}

func (f *fakeGateway) GetRepositories(ctx context.Context, username string) ([]*gh.Repository, error) {
	return f.repos, nil
}

func (f *fakeGateway) GetRepoCommits(ctx context.Context, fullName, author string) ([]*gh.RepositoryCommit, error) {
	f.commitCalls = append(f.commitCalls, fullName)
	return f.commitsByRepo[fullName], nil
}

func (f *fakeGateway) GetRepoCommit(ctx context.Context, fullName, sha string) (*gh.RepositoryCommit, error) {
	return f.details[sha], nil
}

func (f *fakeGateway) GetRepoReadme(ctx context.Context, fullName string) (string, error) {
	return f.readme, nil
}

func (f *fakeGateway) GetRepoLicense(ctx context.Context, fullName string) (string, error) {
	return f.license, nil
}

func (f *fakeGateway) GetRepoLanguages(ctx context.Context, fullName string) (map[string]int, error) {
	return f.languages, nil
}

func (f *fakeGateway) GetRepoStarsCount(ctx context.Context, fullName string) (int, error) {
	return f.stars, nil
}

func (f *fakeGateway) GetRepoForksCount(ctx context.Context, fullName string) (int, error) {
	return f.forks, nil
}

func (f *fakeGateway) GetRepositoryFilesStructure(ctx context.Context, fullName, branch string) ([]string, error) {
	return f.files, nil
}

func (f *fakeGateway) GetProfileSpecialRepository(ctx context.Context, username string) (*gh.Repository, error) {
	return f.profileRepo, nil
}

type fakeFeed struct {
	events []github.RawEvent
	err    error
}

func (f *fakeFeed) ListUserEvents(ctx context.Context, login string) ([]github.RawEvent, error) {
	return f.events, f.err
}

func rawEvent(kind, repo string, when time.Time, payload string) github.RawEvent {
	ev := github.RawEvent{
		Type:      kind,
		CreatedAt: when,
		Public:    true,
		Payload:   json.RawMessage(payload),
	}
	ev.Repo.Name = repo
	return ev
}

func commitAt(sha, message string, when time.Time) *gh.RepositoryCommit {
	return &gh.RepositoryCommit{
		SHA: gh.String(sha),
		Commit: &gh.Commit{
			Message: gh.String(message),
			Author: &gh.CommitAuthor{
				Name: gh.String("octo"),
				Date: &gh.Timestamp{Time: when},
			},
		},
	}
}

func TestBuildUserSummaryFromLiveFeed(t *testing.T) {
	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		user: &gh.User{Login: gh.String("octocat"), Name: gh.String("The Octocat"), Bio: gh.String("I roast back")},
	}
	feed := &fakeFeed{events: []github.RawEvent{
		rawEvent(github.EventPush, "octocat/hello", when, `{"size":2,"commits":[{"message":"fix"},{"message":"fix again"}]}`),
		rawEvent(github.EventWatch, "octocat/hello", when.Add(-time.Hour), `{"action":"started"}`),
	}}

	b := NewBuilder(gw, feed, zerolog.Nop())
	summary, err := b.BuildUserSummary(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "octocat", summary.Username)
	assert.Equal(t, "The Octocat", summary.Name)
	require.NotNil(t, summary.Bio)
	assert.Equal(t, "I roast back", *summary.Bio)
	require.Len(t, summary.Activities, 2)
	assert.Equal(t, github.EventPush, summary.Activities[0].EventType)
	assert.Equal(t, "2025-03-01T12:00:00Z", summary.Activities[0].CreatedAt)
	require.NotNil(t, summary.Activities[0].Public)
	assert.True(t, *summary.Activities[0].Public)
	assert.Equal(t, 2, summary.Activities[0].Payload["commit_count"])

	// A populated feed must never trigger commit mining.
	assert.Empty(t, gw.commitCalls)
}

func TestBuildUserSummaryUnknownUser(t *testing.T) {
	b := NewBuilder(&fakeGateway{}, &fakeFeed{}, zerolog.Nop())

	_, err := b.BuildUserSummary(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuildUserSummaryProfileReadme(t *testing.T) {
	gw := &fakeGateway{
		user:        &gh.User{Login: gh.String("octocat")},
		profileRepo: &gh.Repository{FullName: gh.String("octocat/octocat")},
		readme:      "# hi there",
	}
	feed := &fakeFeed{events: []github.RawEvent{
		rawEvent(github.EventWatch, "octocat/hello", time.Now(), `{"action":"started"}`),
	}}
	b := NewBuilder(gw, feed, zerolog.Nop())

	summary, err := b.BuildUserSummary(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "# hi there", summary.ProfileReadme)
}

func TestBuildUserSummaryCommitMiningFallback(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		user: &gh.User{Login: gh.String("octocat")},
		repos: []*gh.Repository{
			{FullName: gh.String("octocat/old"), UpdatedAt: &gh.Timestamp{Time: t1}},
			{FullName: gh.String("octocat/secret"), Private: gh.Bool(true), UpdatedAt: &gh.Timestamp{Time: t2}},
		},
		commitsByRepo: map[string][]*gh.RepositoryCommit{
			"octocat/old":    {commitAt("a1", "initial", t1)},
			"octocat/secret": {commitAt("b1", "wip", t2), commitAt("b2", "wip 2", t2)},
		},
	}

	b := NewBuilder(gw, &fakeFeed{}, zerolog.Nop())
	summary, err := b.BuildUserSummary(context.Background(), "octocat")
	require.NoError(t, err)

	// Most recently updated repository is mined first.
	require.Equal(t, []string{"octocat/secret", "octocat/old"}, gw.commitCalls)
	require.Len(t, summary.Activities, 3)
	first := summary.Activities[0]
	assert.Equal(t, github.EventPush, first.EventType)
	assert.Equal(t, "octocat/secret", first.Repo)
	assert.Nil(t, first.Public)
	assert.Equal(t, "wip", first.Payload["commit_message"])
	assert.Equal(t, "private", first.Payload["repo_feasability"])
	assert.Equal(t, "public", summary.Activities[2].Payload["repo_feasability"])
}

func TestBuildUserSummaryFallbackRepoLimit(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gw := &fakeGateway{user: &gh.User{Login: gh.String("octocat")}}
	for i := 0; i < 7; i++ {
		name := "octocat/repo" + string(rune('a'+i))
		gw.repos = append(gw.repos, &gh.Repository{
			FullName:  gh.String(name),
			UpdatedAt: &gh.Timestamp{Time: base.Add(time.Duration(i) * time.Hour)},
		})
	}

	b := NewBuilder(gw, &fakeFeed{}, zerolog.Nop())
	_, err := b.BuildUserSummary(context.Background(), "octocat")
	require.NoError(t, err)

	require.Len(t, gw.commitCalls, fallbackRepoLimit)
	// Newest first, oldest two never touched.
	assert.Equal(t, "octocat/repog", gw.commitCalls[0])
	assert.NotContains(t, gw.commitCalls, "octocat/repoa")
	assert.NotContains(t, gw.commitCalls, "octocat/repob")
}

func TestBuildRepoSummary(t *testing.T) {
	when := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	commit := commitAt("a1", "refactor everything", when)
	detail := commitAt("a1", "refactor everything", when)
	detail.Author = &gh.User{Login: gh.String("octocat")}
	detail.Stats = &gh.CommitStats{Additions: gh.Int(120), Deletions: gh.Int(80)}
	detail.Files = []*gh.CommitFile{{Filename: gh.String("main.go")}, {Filename: gh.String("go.mod")}}

	gw := &fakeGateway{
		repo: &gh.Repository{
			FullName:    gh.String("octocat/hello"),
			Description: gh.String("my first repo"),
		},
		commitsByRepo: map[string][]*gh.RepositoryCommit{"octocat/hello": {commit}},
		details:       map[string]*gh.RepositoryCommit{"a1": detail},
		readme:        "# hello",
		license:       "MIT License",
		languages:     map[string]int{"Go": 1000},
		stars:         42,
		forks:         7,
		files:         []string{"main.go", "go.mod"},
	}

	b := NewBuilder(gw, &fakeFeed{}, zerolog.Nop())
	summary, err := b.BuildRepoSummary(context.Background(), "octocat/hello", "")
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello", summary.FullName)
	assert.Equal(t, "public", summary.Visibility)
	require.NotNil(t, summary.Description)
	assert.Equal(t, "my first repo", *summary.Description)
	require.NotNil(t, summary.License)
	assert.Equal(t, "MIT License", *summary.License)
	assert.Equal(t, 42, summary.StarsCount)
	assert.Equal(t, 7, summary.ForksCount)
	assert.Equal(t, []string{"main.go", "go.mod"}, summary.FilesStructure)

	require.Len(t, summary.Activities, 1)
	act := summary.Activities[0]
	assert.Equal(t, "octocat", act.Payload["author"])
	assert.Equal(t, "refactor everything", act.Payload["commit_message"])
	assert.Equal(t, 2, act.Payload["files_changed"])
	assert.Equal(t, 200, act.Payload["lines_changed"])
	require.NotNil(t, act.Public)
	assert.True(t, *act.Public)
}

func TestBuildRepoSummaryUnknownRepo(t *testing.T) {
	b := NewBuilder(&fakeGateway{}, &fakeFeed{}, zerolog.Nop())

	_, err := b.BuildRepoSummary(context.Background(), "ghost/nope", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestBuildRepoSummaryNoLicense(t *testing.T) {
	gw := &fakeGateway{repo: &gh.Repository{FullName: gh.String("octocat/bare"), Private: gh.Bool(true)}}

	b := NewBuilder(gw, &fakeFeed{}, zerolog.Nop())
	summary, err := b.BuildRepoSummary(context.Background(), "octocat/bare", "")
	require.NoError(t, err)
	assert.Nil(t, summary.License)
	assert.Equal(t, "private", summary.Visibility)
	assert.Empty(t, summary.Activities)
}
