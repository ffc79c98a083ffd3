package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Azure Boards field reference names.
const (
	fieldType       = "System.WorkItemType"
	fieldTitle      = "System.Title"
	fieldState      = "System.State"
	fieldTags       = "System.Tags"
	fieldAreaPath   = "System.AreaPath"
	fieldIteration  = "System.IterationPath"
	fieldStartDate  = "Microsoft.VSTS.Scheduling.StartDate"
	fieldTargetDate = "Microsoft.VSTS.Scheduling.TargetDate"
	fieldFinishDate = "Microsoft.VSTS.Scheduling.FinishDate"

	relParent = "System.LinkTypes.Hierarchy-Reverse"
)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandError is a command that exited unsuccessfully.
type CommandError struct {
	Name     string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.ExitCode, strings.TrimSpace(e.Stderr))
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CommandError{Name: name, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// AzureBoardsConfig locates the project the items live in.
type AzureBoardsConfig struct {
	Binary        string
	Organization  string
	Project       string
	AreaPath      string
	IterationPath string
}

// AzureBoards drives Azure Boards through the az CLI.
type AzureBoards struct {
	runner CommandRunner
	cfg    AzureBoardsConfig
}

func NewAzureBoards(runner CommandRunner, cfg AzureBoardsConfig) *AzureBoards {
	if cfg.Binary == "" {
		cfg.Binary = "az"
	}
	return &AzureBoards{runner: runner, cfg: cfg}
}

func (a *AzureBoards) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	out, err := a.runner.Run(ctx, a.cfg.Binary, args...)
	if err != nil {
		return nil, classifyAzError(op, err)
	}
	return out, nil
}

// classifyAzError turns CLI failures into tracker errors.
func classifyAzError(op string, err error) error {
	apiErr := &APIError{Service: "azboards", Op: op, Err: err}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return apiErr
	}
	stderr := strings.ToLower(cmdErr.Stderr)
	switch {
	case strings.Contains(stderr, "tf401232"), strings.Contains(stderr, "does not exist"):
		apiErr.StatusCode = 404
		apiErr.Err = fmt.Errorf("%w: %w", ErrNotFound, err)
	case strings.Contains(stderr, "429"), strings.Contains(stderr, "too many requests"):
		apiErr.StatusCode = 429
	case strings.Contains(stderr, "503"), strings.Contains(stderr, "service unavailable"), strings.Contains(stderr, "timed out"):
		apiErr.StatusCode = 503
	}
	return apiErr
}

func (a *AzureBoards) QueryByTag(ctx context.Context, tag string) ([]string, error) {
	wiql := fmt.Sprintf("SELECT [System.Id] FROM WorkItems WHERE [System.Tags] CONTAINS '%s'", escapeWIQL(tag))
	if a.cfg.AreaPath != "" {
		wiql += fmt.Sprintf(" AND [System.AreaPath] = '%s'", escapeWIQL(a.cfg.AreaPath))
	}
	out, err := a.run(ctx, "query", "boards", "query",
		"--org", a.cfg.Organization,
		"--project", a.cfg.Project,
		"--wiql", wiql,
		"--output", "json")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	var rows []azRef
	if err := json.Unmarshal(out, &rows); err != nil {
		// Older CLI versions wrap the list.
		var wrapped struct {
			WorkItems []azRef `json:"workItems"`
		}
		if err2 := json.Unmarshal(out, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parsing query result: %w", err)
		}
		rows = wrapped.WorkItems
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, strconv.Itoa(r.ID))
	}
	return ids, nil
}

type azRef struct {
	ID int `json:"id"`
}

type azWorkItem struct {
	ID        int            `json:"id"`
	Fields    map[string]any `json:"fields"`
	Relations []struct {
		Rel string `json:"rel"`
		URL string `json:"url"`
	} `json:"relations"`
}

func (a *AzureBoards) GetDetails(ctx context.Context, id string) (*ItemDetails, error) {
	out, err := a.run(ctx, "get", "boards", "work-item", "show",
		"--org", a.cfg.Organization,
		"--id", id,
		"--expand", "relations",
		"--output", "json")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, &APIError{Service: "azboards", Op: "get", Message: "empty response for #" + id}
	}

	var wi azWorkItem
	if err := json.Unmarshal(out, &wi); err != nil {
		return nil, fmt.Errorf("parsing work item #%s: %w", id, err)
	}

	d := &ItemDetails{
		ID:    strconv.Itoa(wi.ID),
		Type:  stringField(wi.Fields, fieldType),
		Title: stringField(wi.Fields, fieldTitle),
		State: stringField(wi.Fields, fieldState),
		Tags:  splitTags(stringField(wi.Fields, fieldTags)),
	}
	if d.StartDate, err = dateField(wi.Fields, fieldStartDate); err != nil {
		return nil, err
	}
	if d.TargetDate, err = dateField(wi.Fields, fieldTargetDate); err != nil {
		return nil, err
	}
	if d.FinishDate, err = dateField(wi.Fields, fieldFinishDate); err != nil {
		return nil, err
	}
	for _, rel := range wi.Relations {
		if rel.Rel == relParent {
			d.ParentID = path.Base(rel.URL)
			break
		}
	}
	return d, nil
}

func (a *AzureBoards) UpdateFields(ctx context.Context, id string, f Fields) error {
	if f.IsEmpty() {
		return nil
	}
	args := []string{"boards", "work-item", "update", "--org", a.cfg.Organization, "--id", id, "--fields"}
	if f.StartDate != nil {
		args = append(args, fieldStartDate+"="+domain.FormatDay(f.StartDate))
	}
	if f.TargetDate != nil {
		args = append(args, fieldTargetDate+"="+domain.FormatDay(f.TargetDate))
	}
	_, err := a.run(ctx, "update", append(args, "--output", "json")...)
	return err
}

func (a *AzureBoards) CreateItem(ctx context.Context, item NewItem) (string, error) {
	args := []string{"boards", "work-item", "create",
		"--org", a.cfg.Organization,
		"--project", a.cfg.Project,
		"--type", item.Type,
		"--title", item.Title,
		"--fields",
		fieldTags + "=" + strings.Join(item.Tags, ";"),
	}
	if item.State != "" {
		args = append(args, fieldState+"="+item.State)
	}
	if a.cfg.AreaPath != "" {
		args = append(args, fieldAreaPath+"="+a.cfg.AreaPath)
	}
	if a.cfg.IterationPath != "" {
		args = append(args, fieldIteration+"="+a.cfg.IterationPath)
	}
	out, err := a.run(ctx, "create", append(args, "--output", "json")...)
	if err != nil {
		return "", err
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(out, &created); err != nil {
		return "", fmt.Errorf("parsing created work item: %w", err)
	}
	return strconv.Itoa(created.ID), nil
}

func (a *AzureBoards) AddParentRelation(ctx context.Context, childID, parentID string) error {
	_, err := a.run(ctx, "relate", "boards", "work-item", "relation", "add",
		"--org", a.cfg.Organization,
		"--id", childID,
		"--relation-type", "parent",
		"--target-id", parentID,
		"--output", "json")
	return err
}

func escapeWIQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// dateField reads an ISO timestamp field as a calendar day.
func dateField(fields map[string]any, key string) (*time.Time, error) {
	raw := stringField(fields, key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		d, dayErr := domain.ParseDay(raw)
		if dayErr != nil {
			return nil, fmt.Errorf("parsing %s %q: %w", key, raw, err)
		}
		return &d, nil
	}
	d := domain.Day(t)
	return &d, nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
