// Package github is the roaster's gateway to the GitHub read API.
// All lookups are not-found-tolerant: a missing resource degrades to a
// neutral empty value, while any other upstream failure surfaces as an
// UpstreamError. User and repository lookups are memoized in TTL+LRU
// caches.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	errs "github.com/roastlab/gitroast/internal/errors"
	"github.com/roastlab/gitroast/internal/metrics"
	"github.com/roastlab/gitroast/lru"
)

const (
	defaultCacheTTL      = time.Hour
	defaultCacheSize     = 100
	commitPageSize       = 30
	authenticatedUserKey = "_authenticated_user"
)

// Client wraps the GitHub API behind a cached, not-found-tolerant
// interface. Not safe for concurrent use beyond what the underlying
// caches provide; a roast invocation drives it sequentially.
type Client struct {
	api        *gh.Client
	token      string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *metrics.Metrics

	users *lru.Cache[string, *gh.User]
	repos *lru.Cache[string, *gh.Repository]

	cacheSize int
	cacheTTL  time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different API root (for testing
// or GitHub Enterprise). Must end with a slash after normalization.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithCache overrides the memoization capacity and TTL.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a gateway client. An empty token is allowed and
// selects unauthenticated mode, where every call that would default to
// "the authenticated user" requires an explicit username.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "github").Logger(),
		cacheSize:  defaultCacheSize,
		cacheTTL:   defaultCacheTTL,
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	c.users = lru.New[string, *gh.User](c.cacheSize, c.cacheTTL)
	c.repos = lru.New[string, *gh.Repository](c.cacheSize, c.cacheTTL)

	if err := c.rebuildAPI(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) rebuildAPI() error {
	api := gh.NewClient(c.httpClient)
	if c.token != "" {
		api = api.WithAuthToken(c.token)
	}
	if c.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + "/")
		if err != nil {
			return errs.NewConfigError("base_url", err.Error())
		}
		api.BaseURL = u
	}
	c.api = api
	return nil
}

// Authenticate swaps the token, rebuilds the underlying API client and
// drops both caches.
func (c *Client) Authenticate(token string) error {
	if token == "" {
		return errs.NewConfigError("github_token", "token cannot be empty")
	}
	c.token = token
	if err := c.rebuildAPI(); err != nil {
		return err
	}
	c.ClearCache()
	return nil
}

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

// ClearCache manually invalidates both memoization caches.
func (c *Client) ClearCache() {
	c.users.Clear()
	c.repos.Clear()
}

// GetUser looks up a user by login, or the authenticated user when the
// login is empty. Returns (nil, nil) when the user does not exist.
func (c *Client) GetUser(ctx context.Context, username string) (*gh.User, error) {
	key := username
	if key == "" {
		if c.token == "" {
			return nil, errs.NewConfigError("username", "required for unauthenticated access")
		}
		key = authenticatedUserKey
	}

	if u, ok := c.users.Get(key); ok {
		c.metrics.RecordCacheHit("users")
		return u, nil
	}
	c.metrics.RecordCacheMiss("users")

	user, _, err := c.api.Users.Get(ctx, username)
	if err != nil {
		if isMissing(err) {
			c.metrics.RecordGatewayRequest("get_user", "not_found")
			return nil, nil
		}
		return nil, c.upstream("get_user", err)
	}
	c.metrics.RecordGatewayRequest("get_user", "ok")
	c.logger.Debug().Str("login", user.GetLogin()).Msg("fetched user")

	c.users.Put(key, user)
	return user, nil
}

// GetRepository looks up a repository by full name ("owner/name").
// Returns (nil, nil) when the repository does not exist.
func (c *Client) GetRepository(ctx context.Context, fullName string) (*gh.Repository, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	if r, ok := c.repos.Get(fullName); ok {
		c.metrics.RecordCacheHit("repos")
		return r, nil
	}
	c.metrics.RecordCacheMiss("repos")

	repo, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isMissing(err) {
			c.metrics.RecordGatewayRequest("get_repository", "not_found")
			return nil, nil
		}
		return nil, c.upstream("get_repository", err)
	}
	c.metrics.RecordGatewayRequest("get_repository", "ok")
	c.logger.Debug().Str("repo", repo.GetFullName()).Msg("fetched repository")

	c.repos.Put(fullName, repo)
	return repo, nil
}

// GetRepositories lists a user's repositories, most recently updated
// first. Returns an empty slice when the user has none or does not exist.
func (c *Client) GetRepositories(ctx context.Context, username string) ([]*gh.Repository, error) {
	user, err := c.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*gh.Repository{}, nil
	}

	repos, _, err := c.api.Repositories.List(ctx, user.GetLogin(), &gh.RepositoryListOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		if isMissing(err) {
			c.metrics.RecordGatewayRequest("get_repositories", "not_found")
			return []*gh.Repository{}, nil
		}
		return nil, c.upstream("get_repositories", err)
	}
	c.metrics.RecordGatewayRequest("get_repositories", "ok")
	return repos, nil
}

// GetRepoCommits lists a repository's recent commits, optionally
// filtered by author login. Returns an empty slice on a missing or
// empty repository.
func (c *Client) GetRepoCommits(ctx context.Context, fullName, author string) ([]*gh.RepositoryCommit, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	commits, _, err := c.api.Repositories.ListCommits(ctx, owner, name, &gh.CommitsListOptions{
		Author:      author,
		ListOptions: gh.ListOptions{PerPage: commitPageSize},
	})
	if err != nil {
		if isMissing(err) {
			c.metrics.RecordGatewayRequest("get_repo_commits", "not_found")
			return []*gh.RepositoryCommit{}, nil
		}
		return nil, c.upstream("get_repo_commits", err)
	}
	c.metrics.RecordGatewayRequest("get_repo_commits", "ok")
	return commits, nil
}

// GetRepoCommit fetches a single commit with file and line stats.
// Returns (nil, nil) when the commit or repository is missing.
func (c *Client) GetRepoCommit(ctx context.Context, fullName, sha string) (*gh.RepositoryCommit, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	commit, _, err := c.api.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, c.upstream("get_repo_commit", err)
	}
	return commit, nil
}

// GetRepoReadme returns the decoded README text, or "" when the
// repository or README is missing.
func (c *Client) GetRepoReadme(ctx context.Context, fullName string) (string, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return "", err
	}

	readme, _, err := c.api.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		if isMissing(err) {
			c.metrics.RecordGatewayRequest("get_repo_readme", "not_found")
			return "", nil
		}
		return "", c.upstream("get_repo_readme", err)
	}
	content, err := readme.GetContent()
	if err != nil {
		return "", errs.NewUpstreamError("get_repo_readme", 0, "decoding readme content", err)
	}
	c.metrics.RecordGatewayRequest("get_repo_readme", "ok")
	return content, nil
}

// GetRepoLicense returns the repository's license name, or "" when the
// repository has none or does not exist.
func (c *Client) GetRepoLicense(ctx context.Context, fullName string) (string, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return "", err
	}

	lic, _, err := c.api.Repositories.License(ctx, owner, name)
	if err != nil {
		if isMissing(err) {
			return "", nil
		}
		return "", c.upstream("get_repo_license", err)
	}
	return lic.GetLicense().GetName(), nil
}

// GetRepoLanguages returns the language byte-count breakdown, or an
// empty map when the repository is missing.
func (c *Client) GetRepoLanguages(ctx context.Context, fullName string) (map[string]int, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	langs, _, err := c.api.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		if isMissing(err) {
			return map[string]int{}, nil
		}
		return nil, c.upstream("get_repo_languages", err)
	}
	if langs == nil {
		langs = map[string]int{}
	}
	return langs, nil
}

// GetRepoStarsCount returns the star count, or 0 when the repository
// is missing.
func (c *Client) GetRepoStarsCount(ctx context.Context, fullName string) (int, error) {
	repo, err := c.GetRepository(ctx, fullName)
	if err != nil || repo == nil {
		return 0, err
	}
	return repo.GetStargazersCount(), nil
}

// GetRepoForksCount returns the fork count, or 0 when the repository
// is missing.
func (c *Client) GetRepoForksCount(ctx context.Context, fullName string) (int, error) {
	repo, err := c.GetRepository(ctx, fullName)
	if err != nil || repo == nil {
		return 0, err
	}
	return repo.GetForksCount(), nil
}

// GetRepositoryFilesStructure returns every path in the repository's
// tree, recursively, rooted at the given branch (default branch when
// empty). Returns an empty slice when the repository or branch is
// missing.
func (c *Client) GetRepositoryFilesStructure(ctx context.Context, fullName, branch string) ([]string, error) {
	repo, err := c.GetRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return []string{}, nil
	}
	if branch == "" {
		branch = repo.GetDefaultBranch()
	}

	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	tree, _, err := c.api.Git.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		if isMissing(err) {
			c.metrics.RecordGatewayRequest("get_files_structure", "not_found")
			return []string{}, nil
		}
		return nil, c.upstream("get_files_structure", err)
	}
	c.metrics.RecordGatewayRequest("get_files_structure", "ok")

	paths := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		paths = append(paths, entry.GetPath())
	}
	return paths, nil
}

// GetRepositoryFileContent returns the decoded content of a single
// file, or "" when the repository, path, or content is missing.
func (c *Client) GetRepositoryFileContent(ctx context.Context, fullName, path string) (string, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return "", err
	}

	file, _, _, err := c.api.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		if isMissing(err) {
			return "", nil
		}
		return "", c.upstream("get_file_content", err)
	}
	if file == nil {
		// Path resolved to a directory.
		return "", nil
	}
	content, err := file.GetContent()
	if err != nil {
		return "", errs.NewUpstreamError("get_file_content", 0, "decoding file content", err)
	}
	return content, nil
}

// GetProfileSpecialRepository resolves the user and looks up the
// repository named <login>/<login> (the profile README convention).
// Returns (nil, nil) when either step fails to find its entity.
func (c *Client) GetProfileSpecialRepository(ctx context.Context, username string) (*gh.Repository, error) {
	user, err := c.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	login := user.GetLogin()
	return c.GetRepository(ctx, login+"/"+login)
}

// --- helpers ---

func splitFullName(fullName string) (owner, name string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errs.NewConfigError("repo_full_name",
			fmt.Sprintf("%q is not an owner/name pair", fullName))
	}
	return parts[0], parts[1], nil
}

// isMissing reports whether the error is a 404 (or 409, which GitHub
// returns for empty repositories) — the conditions the gateway absorbs.
func isMissing(err error) bool {
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode == http.StatusNotFound ||
			er.Response.StatusCode == http.StatusConflict
	}
	return false
}

// upstream wraps any non-404 failure into an UpstreamError, preserving
// the status code and message when GitHub supplied them.
func (c *Client) upstream(op string, err error) error {
	status := 0
	message := err.Error()

	var rle *gh.RateLimitError
	var er *gh.ErrorResponse
	switch {
	case errors.As(err, &rle):
		if rle.Response != nil {
			status = rle.Response.StatusCode
		}
		message = rle.Message
	case errors.As(err, &er):
		if er.Response != nil {
			status = er.Response.StatusCode
		}
		message = er.Message
	}

	c.metrics.RecordGatewayRequest(op, "error")
	c.logger.Warn().Err(err).Str("operation", op).Int("status", status).Msg("github call failed")
	return errs.NewUpstreamError(op, status, message, err)
}
