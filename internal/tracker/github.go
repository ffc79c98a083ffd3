package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	gh "github.com/google/go-github/v60/github"
	"gopkg.in/yaml.v3"
)

const (
	metaOpen  = "<!-- cadence\n"
	metaClose = "-->"
)

// issueMeta is the planning metadata GitHub issues have no native fields
// for. It lives in an HTML comment block in the issue body.
type issueMeta struct {
	Type       string `yaml:"type,omitempty"`
	State      string `yaml:"state,omitempty"`
	StartDate  string `yaml:"start_date,omitempty"`
	TargetDate string `yaml:"target_date,omitempty"`
	FinishDate string `yaml:"finish_date,omitempty"`
	Parent     string `yaml:"parent,omitempty"`
}

// parseIssueBody splits a body into free text and metadata.
func parseIssueBody(body string) (string, issueMeta, error) {
	var meta issueMeta
	start := strings.Index(body, metaOpen)
	if start < 0 {
		return body, meta, nil
	}
	end := strings.Index(body[start:], metaClose)
	if end < 0 {
		return body, meta, nil
	}
	block := body[start+len(metaOpen) : start+end]
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return body, meta, fmt.Errorf("parsing cadence metadata: %w", err)
	}
	text := strings.TrimRight(body[:start]+body[start+end+len(metaClose):], "\n")
	return text, meta, nil
}

func renderIssueBody(text string, meta issueMeta) (string, error) {
	out, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoding cadence metadata: %w", err)
	}
	var b strings.Builder
	if text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	b.WriteString(metaOpen)
	b.Write(out)
	b.WriteString(metaClose)
	b.WriteString("\n")
	return b.String(), nil
}

// GitHub keeps work items as issues of one repository. Tags are labels.
type GitHub struct {
	client *gh.Client
	owner  string
	repo   string
}

func NewGitHub(client *gh.Client, owner, repo string) *GitHub {
	return &GitHub{client: client, owner: owner, repo: repo}
}

// wrapGitHubError converts go-github errors into tracker errors.
func wrapGitHubError(op string, err error) error {
	apiErr := &APIError{Service: "github", Op: op, Err: err}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		apiErr.StatusCode = http.StatusTooManyRequests
		apiErr.Err = fmt.Errorf("%w: %w", ErrRateLimit, err)
	case errors.As(err, &respErr) && respErr.Response != nil:
		apiErr.StatusCode = respErr.Response.StatusCode
		apiErr.Message = respErr.Message
		if apiErr.StatusCode == http.StatusNotFound {
			apiErr.Err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}
	return apiErr
}

func issueNumber(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid issue number %q", id)
	}
	return n, nil
}

func (g *GitHub) QueryByTag(ctx context.Context, tag string) ([]string, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Labels:      []string{tag},
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var ids []string
	for {
		issues, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, wrapGitHubError("query", err)
		}
		for _, issue := range issues {
			if issue.PullRequestLinks != nil {
				continue
			}
			ids = append(ids, strconv.Itoa(issue.GetNumber()))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return ids, nil
}

func (g *GitHub) getIssue(ctx context.Context, op, id string) (*gh.Issue, error) {
	n, err := issueNumber(id)
	if err != nil {
		return nil, err
	}
	issue, _, err := g.client.Issues.Get(ctx, g.owner, g.repo, n)
	if err != nil {
		return nil, wrapGitHubError(op, err)
	}
	return issue, nil
}

func (g *GitHub) GetDetails(ctx context.Context, id string) (*ItemDetails, error) {
	issue, err := g.getIssue(ctx, "get", id)
	if err != nil {
		return nil, err
	}
	_, meta, err := parseIssueBody(issue.GetBody())
	if err != nil {
		return nil, fmt.Errorf("issue #%s: %w", id, err)
	}

	d := &ItemDetails{
		ID:       strconv.Itoa(issue.GetNumber()),
		Type:     domain.Coalesce(meta.Type, domain.TrackerTypeBacklogItem),
		Title:    issue.GetTitle(),
		State:    domain.Coalesce(meta.State, "New"),
		ParentID: meta.Parent,
	}
	if issue.GetState() == "closed" {
		d.State = "Closed"
	}
	for _, l := range issue.Labels {
		d.Tags = append(d.Tags, l.GetName())
	}
	for _, f := range []struct {
		raw string
		dst **time.Time
	}{
		{meta.StartDate, &d.StartDate},
		{meta.TargetDate, &d.TargetDate},
		{meta.FinishDate, &d.FinishDate},
	} {
		if f.raw == "" {
			continue
		}
		day, err := domain.ParseDay(f.raw)
		if err != nil {
			return nil, fmt.Errorf("issue #%s: parsing date %q: %w", id, f.raw, err)
		}
		*f.dst = &day
	}
	return d, nil
}

// editMeta rewrites the metadata block of one issue.
func (g *GitHub) editMeta(ctx context.Context, op, id string, mutate func(*issueMeta)) error {
	issue, err := g.getIssue(ctx, op, id)
	if err != nil {
		return err
	}
	text, meta, err := parseIssueBody(issue.GetBody())
	if err != nil {
		return fmt.Errorf("issue #%s: %w", id, err)
	}
	mutate(&meta)
	body, err := renderIssueBody(text, meta)
	if err != nil {
		return err
	}
	if _, _, err := g.client.Issues.Edit(ctx, g.owner, g.repo, issue.GetNumber(), &gh.IssueRequest{Body: &body}); err != nil {
		return wrapGitHubError(op, err)
	}
	return nil
}

func (g *GitHub) UpdateFields(ctx context.Context, id string, f Fields) error {
	if f.IsEmpty() {
		return nil
	}
	return g.editMeta(ctx, "update", id, func(m *issueMeta) {
		if f.StartDate != nil {
			m.StartDate = domain.FormatDay(f.StartDate)
		}
		if f.TargetDate != nil {
			m.TargetDate = domain.FormatDay(f.TargetDate)
		}
	})
}

func (g *GitHub) CreateItem(ctx context.Context, item NewItem) (string, error) {
	body, err := renderIssueBody("", issueMeta{Type: item.Type, State: item.State})
	if err != nil {
		return "", err
	}
	labels := item.Tags
	req := &gh.IssueRequest{Title: &item.Title, Body: &body, Labels: &labels}
	issue, _, err := g.client.Issues.Create(ctx, g.owner, g.repo, req)
	if err != nil {
		return "", wrapGitHubError("create", err)
	}
	return strconv.Itoa(issue.GetNumber()), nil
}

func (g *GitHub) AddParentRelation(ctx context.Context, childID, parentID string) error {
	return g.editMeta(ctx, "relate", childID, func(m *issueMeta) {
		m.Parent = parentID
	})
}
