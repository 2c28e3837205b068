package clickup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient points a client at a test server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("pk_test_token", "team1", "space1")
	c.BaseURL = srv.URL
	return c, srv
}

func TestGetLists(t *testing.T) {
	var gotPath, gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"lists":[{"id":"l1","name":"Backlog","task_count":3},{"id":"l2","name":"Sprint","task_count":2}]}`))
	}))

	lists, err := c.GetLists(context.Background())
	if err != nil {
		t.Fatalf("GetLists failed: %v", err)
	}
	if gotPath != "/space/space1/list" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "pk_test_token" {
		t.Errorf("missing auth header, got %q", gotAuth)
	}
	if len(lists) != 2 || lists[0].ID != "l1" || lists[1].Name != "Sprint" {
		t.Errorf("unexpected lists: %+v", lists)
	}
}

func TestGetTasksFromListParams(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"tasks":[{"id":"t1","name":"Fix login","status":{"status":"open","color":"#fff"}}]}`))
	}))

	tasks, err := c.GetTasksFromList(context.Background(), "l1")
	if err != nil {
		t.Fatalf("GetTasksFromList failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" || tasks[0].Status.Status != "open" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}

	for key, want := range map[string]string{
		"include_closed": "true",
		"subtasks":       "true",
		"order_by":       "created",
		"archived":       "false",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %s", key, got, want)
		}
	}
}

func TestGetTask(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/task/t42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"id":"t42","name":"Ship release",
			"status":{"status":"in progress","color":"#00f"},
			"assignees":[{"id":7,"username":"ana","email":"ana@example.com","initials":"AN","color":"#123"}],
			"date_created":"1700000000000","date_updated":"1700000100000",
			"creator":{"id":7,"username":"ana","email":"ana@example.com"},
			"url":"https://app.clickup.com/t/t42"
		}`))
	}))

	task, err := c.GetTask(context.Background(), "t42")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if task.Name != "Ship release" || len(task.Assignees) != 1 || task.Assignees[0].ID != 7 {
		t.Errorf("unexpected task: %+v", task)
	}
}

func TestAPIError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"err":"boom"}`))
	}))

	_, err := c.GetLists(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Body != `{"err":"boom"}` {
		t.Errorf("Body = %q", apiErr.Body)
	}
}

func TestRateLimitError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"err":"Rate limit reached"}`))
	}))

	// The client warns but does not retry; the 429 still propagates.
	_, err := c.GetTask(context.Background(), "t1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 APIError, got %v", err)
	}
}

func TestGetAllTasksCarriesListContext(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/space/space1/list":
			w.Write([]byte(`{"lists":[{"id":"l1","name":"Backlog"},{"id":"l2","name":"Sprint"}]}`))
		case "/list/l1/task":
			w.Write([]byte(`{"tasks":[{"id":"a"},{"id":"b"}]}`))
		case "/list/l2/task":
			w.Write([]byte(`{"tasks":[{"id":"c"}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	all, err := c.GetAllTasks(context.Background())
	if err != nil {
		t.Fatalf("GetAllTasks failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d tasks, want 3", len(all))
	}
	if all[0].ListID != "l1" || all[0].ListName != "Backlog" {
		t.Errorf("task a attributed to %s/%s", all[0].ListID, all[0].ListName)
	}
	if all[2].ListID != "l2" || all[2].ListName != "Sprint" {
		t.Errorf("task c attributed to %s/%s", all[2].ListID, all[2].ListName)
	}
}

func TestGetAllTasksStopsOnListError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/space/space1/list":
			w.Write([]byte(`{"lists":[{"id":"l1","name":"Backlog"}]}`))
		case "/list/l1/task":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`bad gateway`))
		}
	}))

	_, err := c.GetAllTasks(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected wrapped 502 APIError, got %v", err)
	}
}

func TestWebhookManagement(t *testing.T) {
	var deleted string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/team/team1/webhook":
			w.Write([]byte(`{"id":"wh1","webhook":{"id":"wh1","endpoint":"https://example.com/hook","events":["taskCreated"]}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/team/team1/webhook":
			w.Write([]byte(`{"webhooks":[{"id":"wh1"},{"id":"wh2"}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/webhook/wh2":
			deleted = "wh2"
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()

	webhook, err := c.CreateWebhook(ctx, "https://example.com/hook", []string{"taskCreated"})
	if err != nil {
		t.Fatalf("CreateWebhook failed: %v", err)
	}
	if webhook.ID != "wh1" {
		t.Errorf("webhook ID = %q", webhook.ID)
	}

	webhooks, err := c.GetWebhooks(ctx)
	if err != nil {
		t.Fatalf("GetWebhooks failed: %v", err)
	}
	if len(webhooks) != 2 {
		t.Errorf("got %d webhooks, want 2", len(webhooks))
	}

	if err := c.DeleteWebhook(ctx, "wh2"); err != nil {
		t.Fatalf("DeleteWebhook failed: %v", err)
	}
	if deleted != "wh2" {
		t.Errorf("delete never reached the server")
	}
}
