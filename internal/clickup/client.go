package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.clickup.com/api/v2"

// listFetchDelay paces sequential per-list fetches during a full enumeration
// to stay under ClickUp's burst rate. Single-task fetches are not paced.
const listFetchDelay = 100 * time.Millisecond

// APIError is a non-2xx response from the ClickUp API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clickup api error %d: %s", e.StatusCode, e.Body)
}

// Client is a ClickUp API client scoped to one workspace and space.
type Client struct {
	BaseURL     string
	Token       string
	WorkspaceID string
	SpaceID     string
	HTTPClient  *http.Client
}

func NewClient(token, workspaceID, spaceID string) *Client {
	return &Client{
		BaseURL:     defaultBaseURL,
		Token:       token,
		WorkspaceID: workspaceID,
		SpaceID:     spaceID,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.Token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 400 {
		if res.StatusCode == http.StatusTooManyRequests {
			log.Println("WARNING: clickup api rate limit exceeded")
		}
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// GetLists returns the non-archived lists of the configured space.
func (c *Client) GetLists(ctx context.Context) ([]List, error) {
	path := fmt.Sprintf("/space/%s/list?archived=false", c.SpaceID)
	b, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Lists []List `json:"lists"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out.Lists, nil
}

// GetTasksFromList returns the tasks of one list, including closed tasks and
// subtasks, ordered by creation time ascending.
func (c *Client) GetTasksFromList(ctx context.Context, listID string) ([]Task, error) {
	params := url.Values{}
	params.Set("archived", "false")
	params.Set("include_closed", "true")
	params.Set("page", "0")
	params.Set("order_by", "created")
	params.Set("reverse", "false")
	params.Set("subtasks", "true")
	params.Set("include_markdown_description", "false")

	path := fmt.Sprintf("/list/%s/task?%s", listID, params.Encode())
	b, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// GetTask returns a single task with its subtasks.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	path := fmt.Sprintf("/task/%s?include_subtasks=true&include_markdown_description=false", taskID)
	b, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var t Task
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAllTasks walks every list in the space and returns all tasks together
// with their list context.
func (c *Client) GetAllTasks(ctx context.Context) ([]ListTask, error) {
	lists, err := c.GetLists(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("found %d lists in space %s", len(lists), c.SpaceID)

	var all []ListTask
	for i, list := range lists {
		tasks, err := c.GetTasksFromList(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching tasks from list %s: %w", list.ID, err)
		}
		log.Printf("list %q: %d tasks", list.Name, len(tasks))
		for _, t := range tasks {
			all = append(all, ListTask{Task: t, ListID: list.ID, ListName: list.Name})
		}
		if i < len(lists)-1 {
			select {
			case <-time.After(listFetchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return all, nil
}

// CreateWebhook registers a webhook for the configured space.
func (c *Client) CreateWebhook(ctx context.Context, endpoint string, events []string) (*Webhook, error) {
	payload := map[string]interface{}{
		"endpoint": endpoint,
		"events":   events,
		"space_id": c.SpaceID,
	}
	b, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/team/%s/webhook", c.WorkspaceID), payload)
	if err != nil {
		return nil, err
	}
	var out struct {
		ID      string  `json:"id"`
		Webhook Webhook `json:"webhook"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out.Webhook.ID == "" {
		out.Webhook.ID = out.ID
	}
	return &out.Webhook, nil
}

// GetWebhooks lists the workspace's webhooks.
func (c *Client) GetWebhooks(ctx context.Context) ([]Webhook, error) {
	b, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/team/%s/webhook", c.WorkspaceID), nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Webhooks []Webhook `json:"webhooks"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out.Webhooks, nil
}

// DeleteWebhook removes one webhook by ID.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/webhook/"+webhookID, nil)
	return err
}
