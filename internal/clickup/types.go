package clickup

import "encoding/json"

// Task is the ClickUp wire representation of a task. Timestamps arrive as
// millisecond strings.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      struct {
		Status string `json:"status"`
		Color  string `json:"color"`
	} `json:"status"`
	Assignees    []Assignee    `json:"assignees"`
	TimeEstimate *int64        `json:"time_estimate"` // milliseconds
	TimeSpent    *int64        `json:"time_spent"`    // milliseconds
	CustomFields []CustomField `json:"custom_fields"`
	DateCreated  string        `json:"date_created"`
	DateUpdated  string        `json:"date_updated"`
	DateClosed   *string       `json:"date_closed"`
	Creator      struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"creator"`
	Tags     []Tag `json:"tags"`
	Priority *struct {
		ID       string `json:"id"`
		Priority string `json:"priority"`
		Color    string `json:"color"`
	} `json:"priority"`
	DueDate *string `json:"due_date"`
	URL     string  `json:"url"`
	Space   struct {
		ID string `json:"id"`
	} `json:"space"`
}

type Assignee struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Color          string `json:"color"`
	Initials       string `json:"initials"`
	ProfilePicture string `json:"profilePicture"`
}

type CustomField struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type Tag struct {
	Name    string `json:"name"`
	TagFg   string `json:"tag_fg"`
	TagBg   string `json:"tag_bg"`
	Creator int64  `json:"creator"`
}

type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaskCount int    `json:"task_count"`
	Space     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"space"`
}

// ListTask pairs a task with the list it was fetched from, so a full sync can
// attribute tasks to their owning list.
type ListTask struct {
	Task     Task
	ListID   string
	ListName string
}

type Webhook struct {
	ID       string   `json:"id"`
	UserID   int64    `json:"userid"`
	TeamID   int64    `json:"team_id"`
	Endpoint string   `json:"endpoint"`
	Events   []string `json:"events"`
	Health   *struct {
		Status    string `json:"status"`
		FailCount int    `json:"fail_count"`
	} `json:"health"`
}
