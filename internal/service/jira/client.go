package jira

import (
	"context"
	"fmt"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"testcase_generator/internal/config"
	"testcase_generator/internal/model"
)

// Issue type names. Jira Cloud projects name the sub-task type either
// "Sub-task" or "Subtask" depending on their configuration.
const (
	IssueTypeTask            = "Task"
	IssueTypeSubtask         = "Sub-task"
	IssueTypeSubtaskNoHyphen = "Subtask"
)

// Client files test case tickets in Jira.
// The connection handle is established once and is read-only afterwards, so a
// Client is safe for concurrent use.
type Client struct {
	baseURL string
	jira    *jira.Client // nil when the handshake failed
}

// Dial builds a go-jira client authenticated with the account email and API
// token and verifies the credentials against the current-user endpoint.
// A failed handshake is returned as a *ConnectionError.
func Dial(ctx context.Context, cfg config.JiraConfig) (*jira.Client, error) {
	tp := jira.BasicAuthTransport{
		Username: cfg.Email,
		Password: cfg.APIToken,
	}
	httpClient := tp.Client()
	httpClient.Timeout = cfg.Timeout

	client, err := jira.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, &ConnectionError{URL: cfg.URL, Err: err}
	}

	if _, resp, err := client.User.GetSelfWithContext(ctx); err != nil {
		if resp != nil {
			err = fmt.Errorf("handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, &ConnectionError{URL: cfg.URL, Err: err}
	}

	return client, nil
}

// NewClient connects to Jira and returns a client. The client is always usable:
// when the handshake fails the failure is logged once, returned as a
// *ConnectionError for the caller to judge, and every later CreateTestCase call
// fails with ErrConnectionUnavailable without touching the network.
func NewClient(ctx context.Context, cfg config.JiraConfig, log *zap.Logger) (*Client, error) {
	handle, err := Dial(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to Jira", zap.String("url", cfg.URL), zap.Error(err))
		return &Client{baseURL: cfg.URL}, err
	}
	log.Info("connected to Jira", zap.String("url", cfg.URL))
	return newClient(cfg.URL, handle), nil
}

func newClient(baseURL string, handle *jira.Client) *Client {
	return &Client{baseURL: baseURL, jira: handle}
}

// Available reports whether the client holds a connection handle
func (c *Client) Available() bool {
	return c.jira != nil
}

// BrowseURL returns the web UI link for a ticket key
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// CreateTestCase creates a Task, or a sub-task of req.ParentKey when it is set.
//
// A sub-task attempt that fails is retried exactly once with the alternate
// sub-task type name. If the retry fails too, the first attempt's error is
// returned. Errors are ErrConnectionUnavailable or a *TrackerError.
func (c *Client) CreateTestCase(ctx context.Context, req model.TicketRequest) (*model.Ticket, error) {
	if c.jira == nil {
		return nil, ErrConnectionUnavailable
	}

	fields := &jira.IssueFields{
		Project:     jira.Project{Key: req.ProjectKey},
		Summary:     req.Summary,
		Description: req.Description,
		Type:        jira.IssueType{Name: IssueTypeTask},
	}
	if req.ParentKey != "" {
		fields.Type = jira.IssueType{Name: IssueTypeSubtask}
		fields.Parent = &jira.Parent{Key: req.ParentKey}
	}

	ticket, err := c.create(ctx, fields)
	if err == nil || req.ParentKey == "" {
		return ticket, err
	}

	return c.retrySubtask(ctx, fields, err)
}

// retrySubtask is the compatibility shim for projects that name the sub-task
// type without a hyphen. firstErr wins when the retry also fails.
func (c *Client) retrySubtask(ctx context.Context, fields *jira.IssueFields, firstErr error) (*model.Ticket, error) {
	retry := *fields
	retry.Type = jira.IssueType{Name: IssueTypeSubtaskNoHyphen}

	ticket, err := c.create(ctx, &retry)
	if err != nil {
		return nil, firstErr
	}
	return ticket, nil
}

func (c *Client) create(ctx context.Context, fields *jira.IssueFields) (*model.Ticket, error) {
	issue, resp, err := c.jira.Issue.CreateWithContext(ctx, &jira.Issue{Fields: fields})
	if err != nil {
		return nil, newTrackerError(resp, err)
	}
	if issue == nil || issue.Key == "" {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, &TrackerError{Kind: KindRejected, StatusCode: status, Message: "Jira returned no issue key"}
	}

	ticket := &model.Ticket{
		Key:       issue.Key,
		URL:       c.BrowseURL(issue.Key),
		IssueType: fields.Type.Name,
	}
	if fields.Parent != nil {
		ticket.ParentKey = fields.Parent.Key
	}
	return ticket, nil
}
