package model

import "time"

type Developer struct {
	ID             string    `json:"id"`
	ClickUpID      int64     `json:"clickup_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Initials       string    `json:"initials"`
	Color          string    `json:"color"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	TotalPoints    int       `json:"total_points"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeveloperDetail is a Developer plus the relations the dashboard needs.
type DeveloperDetail struct {
	Developer
	OpenTasks      []Task      `json:"open_tasks,omitempty"`
	Tasks          []Task      `json:"tasks,omitempty"`
	TimeEntries    []TimeEntry `json:"time_entries,omitempty"`
	TaskCount      int         `json:"task_count"`
	TimeEntryCount int         `json:"time_entry_count"`
}
