// Package types defines the shared data structures passed between pipeline stages.
package types

import "time"

// Repository represents a single repository owned by or contributed to by the developer.
type Repository struct {
	Name          string           `json:"name"`
	FullName      string           `json:"full_name"`
	URL           string           `json:"url"`
	Description   string           `json:"description,omitempty"`
	Language      string           `json:"language,omitempty"`
	LanguageBytes map[string]int64 `json:"language_bytes,omitempty"`
	Topics        []string         `json:"topics,omitempty"`
	Stars         int              `json:"stars"`
	Forks         int              `json:"forks"`
	RootFiles     []string         `json:"root_files,omitempty"`
	Readme        string           `json:"readme,omitempty"`
	IsOwner       bool             `json:"is_owner"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Commit represents a single commit authored by the developer.
type Commit struct {
	RepoFullName string    `json:"repo_full_name"`
	SHA          string    `json:"sha"`
	Message      string    `json:"message"`
	Files        []string  `json:"files,omitempty"`
	AuthoredAt   time.Time `json:"authored_at"`
	URL          string    `json:"url"`
}

// PullRequest represents a pull request authored by the developer.
type PullRequest struct {
	RepoFullName string    `json:"repo_full_name"`
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	Body         string    `json:"body,omitempty"`
	State        string    `json:"state"`
	Merged       bool      `json:"merged"`
	CreatedAt    time.Time `json:"created_at"`
	URL          string    `json:"url"`
}

// StarredRepo represents a repository the developer has starred.
// Starring signals interest, not contribution, so only lightweight metadata is kept.
type StarredRepo struct {
	FullName    string   `json:"full_name"`
	URL         string   `json:"url"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ActivityCorpus is the full, already-paginated snapshot of a developer's
// activity used for one analysis run. It is read-only once assembled.
type ActivityCorpus struct {
	Username     string        `json:"username"`
	Repositories []Repository  `json:"repositories"`
	Commits      []Commit      `json:"commits"`
	PullRequests []PullRequest `json:"pull_requests"`
	Starred      []StarredRepo `json:"starred"`
	FetchedAt    time.Time     `json:"fetched_at"`
}

// IsEmpty reports whether the corpus contains no activity at all.
// An empty corpus is valid input and produces an empty skill list.
func (c *ActivityCorpus) IsEmpty() bool {
	return len(c.Repositories) == 0 && len(c.Commits) == 0 &&
		len(c.PullRequests) == 0 && len(c.Starred) == 0
}
