package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillscope/internal/types"
)

const (
	// maxRepoDetailFetches bounds concurrent per-repository detail requests.
	maxRepoDetailFetches = 5

	// maxCommitsPerRepo caps how many recent commits are collected per
	// repository; older history adds little recency signal.
	maxCommitsPerRepo = 30

	// maxStarredPages caps starred-repo pagination; stars are a weak signal
	// and a huge star list should not dominate fetch time.
	maxStarredPages = 3
)

// repoRecord is the wire shape of a repository listing entry.
type repoRecord struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Fork        bool      `json:"fork"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type contentRecord struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type commitRecord struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type searchIssuesResult struct {
	Items []struct {
		Number        int       `json:"number"`
		Title         string    `json:"title"`
		Body          string    `json:"body"`
		State         string    `json:"state"`
		HTMLURL       string    `json:"html_url"`
		CreatedAt     time.Time `json:"created_at"`
		RepositoryURL string    `json:"repository_url"`
		PullRequest   *struct {
			MergedAt *time.Time `json:"merged_at"`
		} `json:"pull_request"`
	} `json:"items"`
}

// FetchActivityCorpus assembles the full activity snapshot for one user:
// repositories with language byte maps, topics, root files and README text,
// recent commits with changed files, authored pull requests, and starred
// repositories. The result is de-duplicated and ready for one pipeline run.
func (c *Client) FetchActivityCorpus(ctx context.Context, username string) (*types.ActivityCorpus, error) {
	corpus := &types.ActivityCorpus{Username: username}

	repos, err := c.fetchRepositories(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repositories: %w", err)
	}
	corpus.Repositories = repos

	commits, err := c.fetchCommits(ctx, username, repos)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commits: %w", err)
	}
	corpus.Commits = commits

	prs, err := c.FetchPullRequests(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}
	corpus.PullRequests = prs

	starred, err := c.FetchStarred(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch starred repositories: %w", err)
	}
	corpus.Starred = starred

	corpus.FetchedAt = time.Now()
	return corpus, nil
}

// fetchRepositories lists all repositories and enriches each with its
// language byte map, root-directory filenames, and README text. Detail
// fetches run concurrently; a failed detail fetch degrades that repository
// to listing metadata only.
func (c *Client) fetchRepositories(ctx context.Context, username string) ([]types.Repository, error) {
	var records []repoRecord
	for page := 1; ; page++ {
		var pageRecords []repoRecord
		path := fmt.Sprintf("/users/%s/repos?per_page=%d&page=%d&sort=updated", username, pageSize, page)
		if err := c.getJSON(ctx, path, &pageRecords); err != nil {
			return nil, err
		}
		records = append(records, pageRecords...)
		if len(pageRecords) < pageSize {
			break
		}
	}

	repos := make([]types.Repository, len(records))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxRepoDetailFetches)
	for i, record := range records {
		i, record := i, record
		group.Go(func() error {
			repo := types.Repository{
				Name:        record.Name,
				FullName:    record.FullName,
				URL:         record.HTMLURL,
				Description: record.Description,
				Language:    record.Language,
				Topics:      record.Topics,
				Stars:       record.Stars,
				Forks:       record.Forks,
				IsOwner:     strings.EqualFold(record.Owner.Login, username),
				CreatedAt:   record.CreatedAt,
				UpdatedAt:   record.UpdatedAt,
			}

			var languages map[string]int64
			if err := c.getJSON(groupCtx, "/repos/"+record.FullName+"/languages", &languages); err == nil {
				repo.LanguageBytes = languages
			}

			var contents []contentRecord
			if err := c.getJSON(groupCtx, "/repos/"+record.FullName+"/contents/", &contents); err == nil {
				for _, entry := range contents {
					if entry.Type == "file" {
						repo.RootFiles = append(repo.RootFiles, entry.Name)
					}
				}
			}

			var readme struct {
				Content string `json:"content"`
			}
			if err := c.getJSON(groupCtx, "/repos/"+record.FullName+"/readme", &readme); err == nil {
				repo.Readme = decodeReadme(readme.Content)
			}

			repos[i] = repo
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return repos, nil
}

// fetchCommits collects recent commits authored by the user across their
// repositories, including changed file paths.
func (c *Client) fetchCommits(ctx context.Context, username string, repos []types.Repository) ([]types.Commit, error) {
	commits := make([][]types.Commit, len(repos))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxRepoDetailFetches)
	for i := range repos {
		i, repo := i, repos[i]
		group.Go(func() error {
			var records []commitRecord
			path := fmt.Sprintf("/repos/%s/commits?author=%s&per_page=%d",
				repo.FullName, url.QueryEscape(username), maxCommitsPerRepo)
			if err := c.getJSON(groupCtx, path, &records); err != nil {
				// Empty repositories return 409; skip the repo either way.
				return nil
			}

			repoCommits := make([]types.Commit, 0, len(records))
			for _, record := range records {
				commit := types.Commit{
					RepoFullName: repo.FullName,
					SHA:          record.SHA,
					Message:      record.Commit.Message,
					AuthoredAt:   record.Commit.Author.Date,
					URL:          record.HTMLURL,
				}

				// The listing omits changed files; fetch the commit detail.
				var detail commitRecord
				if err := c.getJSON(groupCtx, "/repos/"+repo.FullName+"/commits/"+record.SHA, &detail); err == nil {
					for _, file := range detail.Files {
						commit.Files = append(commit.Files, file.Filename)
					}
				}

				repoCommits = append(repoCommits, commit)
			}
			commits[i] = repoCommits
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var all []types.Commit
	for _, repoCommits := range commits {
		all = append(all, repoCommits...)
	}
	return all, nil
}

// FetchPullRequests finds pull requests authored by the user via the search
// API, de-duplicated by URL.
func (c *Client) FetchPullRequests(ctx context.Context, username string) ([]types.PullRequest, error) {
	var prs []types.PullRequest
	seen := make(map[string]bool)

	for page := 1; ; page++ {
		var result searchIssuesResult
		query := url.QueryEscape(fmt.Sprintf("author:%s type:pr", username))
		path := fmt.Sprintf("/search/issues?q=%s&per_page=%d&page=%d", query, pageSize, page)
		if err := c.getJSON(ctx, path, &result); err != nil {
			return nil, err
		}

		for _, item := range result.Items {
			if seen[item.HTMLURL] {
				continue
			}
			seen[item.HTMLURL] = true

			pr := types.PullRequest{
				RepoFullName: repoFullNameFromAPIURL(item.RepositoryURL),
				Number:       item.Number,
				Title:        item.Title,
				Body:         item.Body,
				State:        item.State,
				CreatedAt:    item.CreatedAt,
				URL:          item.HTMLURL,
			}
			if item.PullRequest != nil && item.PullRequest.MergedAt != nil {
				pr.Merged = true
			}
			prs = append(prs, pr)
		}

		if len(result.Items) < pageSize {
			break
		}
	}

	return prs, nil
}

// FetchStarred lists the user's starred repositories with lightweight
// metadata only.
func (c *Client) FetchStarred(ctx context.Context, username string) ([]types.StarredRepo, error) {
	var starred []types.StarredRepo

	for page := 1; page <= maxStarredPages; page++ {
		var records []repoRecord
		path := fmt.Sprintf("/users/%s/starred?per_page=%d&page=%d", username, pageSize, page)
		if err := c.getJSON(ctx, path, &records); err != nil {
			return nil, err
		}

		for _, record := range records {
			starred = append(starred, types.StarredRepo{
				FullName:    record.FullName,
				URL:         record.HTMLURL,
				Language:    record.Language,
				Topics:      record.Topics,
				Description: record.Description,
			})
		}

		if len(records) < pageSize {
			break
		}
	}

	sort.Slice(starred, func(i, j int) bool {
		return starred[i].FullName < starred[j].FullName
	})
	return starred, nil
}

// decodeReadme decodes the base64 README payload; the API wraps the content
// with newlines that the decoder rejects.
func decodeReadme(content string) string {
	cleaned := strings.ReplaceAll(content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// repoFullNameFromAPIURL extracts "owner/repo" from a repository API URL.
func repoFullNameFromAPIURL(apiURL string) string {
	marker := "/repos/"
	idx := strings.Index(apiURL, marker)
	if idx < 0 {
		return ""
	}
	return apiURL[idx+len(marker):]
}
