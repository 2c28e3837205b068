package model

import "time"

type Task struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	Status        string     `json:"status"`
	StatusColor   string     `json:"status_color"`
	Priority      *string    `json:"priority,omitempty"`
	PriorityColor *string    `json:"priority_color,omitempty"`
	URL           string     `json:"url"`
	TimeEstimate  *int64     `json:"time_estimate,omitempty"` // milliseconds
	TimeSpent     *int64     `json:"time_spent,omitempty"`    // milliseconds
	Points        *int       `json:"points,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	DateCreated   time.Time  `json:"date_created"`
	DateUpdated   time.Time  `json:"date_updated"`
	DateClosed    *time.Time `json:"date_closed,omitempty"` // nil means the task is open

	CreatorID       int64  `json:"creator_id"`
	CreatorUsername string `json:"creator_username"`
	CreatorEmail    string `json:"creator_email"`

	ListID   string `json:"list_id"`
	ListName string `json:"list_name"`
	SpaceID  string `json:"space_id"`

	Developers   []Developer   `json:"developers,omitempty"`
	Tags         []TaskTag     `json:"tags,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
	TimeEntries  []TimeEntry   `json:"time_entries,omitempty"`
}

// Open reports whether the task counts toward workload.
func (t *Task) Open() bool { return t.DateClosed == nil }

type TaskTag struct {
	ID      int64  `json:"id"`
	TaskID  string `json:"task_id"`
	Name    string `json:"name"`
	FgColor string `json:"fg_color"`
	BgColor string `json:"bg_color"`
}

type CustomField struct {
	ID      int64   `json:"id"`
	TaskID  string  `json:"task_id"`
	FieldID string  `json:"field_id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Value   *string `json:"value,omitempty"`
}

type TaskStats struct {
	TotalTasks    int            `json:"total_tasks"`
	OpenTasks     int            `json:"open_tasks"`
	ClosedTasks   int            `json:"closed_tasks"`
	TasksByStatus map[string]int `json:"tasks_by_status"`
}
