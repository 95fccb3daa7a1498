// Package todoist implements the service.Service interface using the Todoist
// REST API v2.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"tdui/internal/config"
	"tdui/internal/service"
)

const (
	// BaseURL is the Todoist REST API root.
	BaseURL = "https://api.todoist.com/rest/v2"

	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	// noDate clears a due date when sent as due_string.
	noDate = "no date"
)

// Client implements service.Service using the Todoist REST API.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a Todoist client from the TODOIST_API_TOKEN environment
// variable or the stored token.json.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	token, err := loadToken(cfg)
	if err != nil {
		return nil, err
	}
	src := oauth2.StaticTokenSource(token)
	return &Client{
		http:    oauth2.NewClient(ctx, src),
		baseURL: BaseURL,
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and API root
// (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func loadToken(cfg *config.Config) (*oauth2.Token, error) {
	if tok := strings.TrimSpace(os.Getenv(config.TodoistTokenEnv)); tok != "" {
		return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
	}
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("token.json has no access token (run: tdui login)")
	}
	return &token, nil
}

// ListProjects returns all projects in API order.
func (c *Client) ListProjects(ctx context.Context) ([]service.Project, error) {
	var projects []service.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ResolveProject finds a project by name (case-insensitive, trimmed).
func (c *Client) ResolveProject(ctx context.Context, name string) (service.Project, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return service.Project{}, err
	}
	return matchProject(projects, name)
}

// ListTasks returns every open task.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

type createBody struct {
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	AssigneeID  string   `json:"assignee_id,omitempty"`
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, req service.CreateRequest) (service.Task, error) {
	body := createBody{
		Content:     req.Content,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		DueString:   req.DueString,
		Labels:      req.Labels,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	}
	var t service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

type updateBody struct {
	Content     string `json:"content"`
	Description string `json:"description"`
	DueString   string `json:"due_string"`
}

// UpdateTask writes content, description and due string.
func (c *Client) UpdateTask(ctx context.Context, req service.UpdateRequest) (service.Task, error) {
	body := updateBody{
		Content:     req.Content,
		Description: req.Description,
		DueString:   req.DueString,
	}
	if body.DueString == "" {
		body.DueString = noDate
	}
	var t service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+req.TaskID, body, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// CloseTask marks a task completed.
func (c *Client) CloseTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+taskID+"/close", nil, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
}

// statusError is a non-2xx response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// do sends one request. Mutations carry a fresh X-Request-Id so the server
// can drop duplicates.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return wrapError(&statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))})
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func matchProject(projects []service.Project, name string) (service.Project, error) {
	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	var matches []service.Project
	for _, p := range projects {
		if strings.ToLower(strings.TrimSpace(p.Name)) == nameLower {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return service.Project{}, fmt.Errorf("project not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return service.Project{}, fmt.Errorf("ambiguous project name: %s", name)
	}
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: tdui login)")
		case se.Code == http.StatusNotFound:
			return fmt.Errorf("not found")
		case se.Code >= 500:
			return fmt.Errorf("todoist unavailable (%d)", se.Code)
		}
	}
	return err
}
