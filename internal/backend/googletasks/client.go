// Package googletasks implements the service.Service interface using Google Tasks API.
//
// Task lists stand in for projects. The default list is reported as the
// inbox project.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tdui/internal/config"
	"tdui/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted = "completed"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	now     func() time.Time
	timeout time.Duration

	// lists maps task id to task list id; every task call needs both.
	mu    sync.Mutex
	lists map[string]string
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return newClient(svc), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing). An empty endpoint keeps the production one.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc), nil
}

func newClient(svc *tasks.Service) *Client {
	return &Client{svc: svc, now: time.Now, timeout: APITimeout, lists: make(map[string]string)}
}

// SetTimeout overrides the per-call timeout (for testing).
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// ListProjects returns all task lists in API order.
func (c *Client) ListProjects(ctx context.Context) ([]service.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// The default list's real id marks the inbox.
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	var result []service.Project
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, service.Project{
				ID:             list.Id,
				Name:           list.Title,
				Order:          len(result),
				IsInboxProject: list.Id == defaultList.Id,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// ResolveProject finds a task list by name (case-insensitive, trimmed).
func (c *Client) ResolveProject(ctx context.Context, name string) (service.Project, error) {
	name = strings.TrimSpace(name)
	nameLower := strings.ToLower(name)

	projects, err := c.ListProjects(ctx)
	if err != nil {
		return service.Project{}, err
	}

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

// ListTasks returns open tasks of every list, list by list. Each list gets
// its own timeout.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	var result []service.Task
	for _, p := range projects {
		listed, err := c.listTasks(ctx, p.ID)
		if err != nil {
			return nil, wrapError(err)
		}
		result = append(result, listed...)
	}
	return result, nil
}

func (c *Client) listTasks(ctx context.Context, listID string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				result = append(result, c.fromAPI(listID, item))
			}
			return nil
		})
	return result, err
}

// CreateTask inserts a task, under ParentID when set.
func (c *Client) CreateTask(ctx context.Context, req service.CreateRequest) (service.Task, error) {
	due, err := parseDue(req.DueString, c.now())
	if err != nil {
		return service.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	listID := req.ProjectID
	if listID == "" {
		listID = DefaultListID
	}
	if req.ParentID != "" {
		if id, ok := c.listOf(req.ParentID); ok {
			listID = id
		}
	}

	call := c.svc.Tasks.Insert(listID, &tasks.Task{
		Title: req.Content,
		Notes: req.Description,
		Due:   due,
	})
	if req.ParentID != "" {
		call = call.Parent(req.ParentID)
	}
	created, err := call.Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return c.fromAPI(listID, created), nil
}

// UpdateTask patches title, notes and due date.
func (c *Client) UpdateTask(ctx context.Context, req service.UpdateRequest) (service.Task, error) {
	due, err := parseDue(req.DueString, c.now())
	if err != nil {
		return service.Task{}, err
	}
	listID, ok := c.listOf(req.TaskID)
	if !ok {
		return service.Task{}, fmt.Errorf("not found")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{
		Title:           req.Content,
		Notes:           req.Description,
		Due:             due,
		ForceSendFields: []string{"Notes"},
	}
	if due == "" {
		patch.NullFields = []string{"Due"}
	}
	updated, err := c.svc.Tasks.Patch(listID, req.TaskID, patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return c.fromAPI(listID, updated), nil
}

// CloseTask marks a task as completed.
func (c *Client) CloseTask(ctx context.Context, taskID string) error {
	listID, ok := c.listOf(taskID)
	if !ok {
		return fmt.Errorf("not found")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, taskID, &tasks.Task{
		Status: statusCompleted,
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	listID, ok := c.listOf(taskID)
	if !ok {
		return fmt.Errorf("not found")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	c.mu.Lock()
	delete(c.lists, taskID)
	c.mu.Unlock()
	return nil
}

func (c *Client) listOf(taskID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.lists[taskID]
	return id, ok
}

// fromAPI converts an API task and remembers which list it lives in.
func (c *Client) fromAPI(listID string, t *tasks.Task) service.Task {
	c.mu.Lock()
	c.lists[t.Id] = listID
	c.mu.Unlock()

	// Positions are zero-padded decimal strings.
	order, _ := strconv.Atoi(strings.TrimLeft(t.Position, "0"))

	task := service.Task{
		ID:          t.Id,
		ProjectID:   listID,
		Content:     t.Title,
		Description: t.Notes,
		IsCompleted: t.Status == statusCompleted,
		ParentID:    t.Parent,
		Order:       order,
		Priority:    1,
		URL:         t.WebViewLink,
	}
	// Google keeps only the date part of due.
	if len(t.Due) >= len(service.DateLayout) {
		date := t.Due[:len(service.DateLayout)]
		task.Due = &service.Due{Date: date, String: date}
	}
	return task
}

// parseDue turns a due string into the RFC 3339 timestamp Google expects.
// Google Tasks has no natural-language dates; only "today", "tomorrow" and
// YYYY-MM-DD are understood.
func parseDue(s string, now time.Time) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	var day time.Time
	switch s {
	case "", "no date":
		return "", nil
	case "today":
		day = now
	case "tomorrow":
		day = now.AddDate(0, 0, 1)
	default:
		d, err := time.Parse(service.DateLayout, s)
		if err != nil {
			return "", fmt.Errorf("unsupported due date %q (use today, tomorrow or YYYY-MM-DD)", s)
		}
		day = d
	}
	return day.Format(service.DateLayout) + "T00:00:00.000Z", nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: tdui login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	// Token refresh failures surface as oauth2 errors, not googleapi ones.
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("token expired or revoked (run: tdui login)")
	}
	return err
}
