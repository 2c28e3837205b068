package model

import "time"

// TimeEntry records hours logged by one developer against one task.
// Week and Year hold the ISO week number and ISO week-year, stamped when the
// entry is created and never recomputed afterwards.
type TimeEntry struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	DeveloperID string    `json:"developer_id"`
	Hours       float64   `json:"hours"`
	Date        time.Time `json:"date"`
	Week        int       `json:"week"`
	Year        int       `json:"year"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimeEntryWithRefs joins the entry with the names the weekly report shows.
type TimeEntryWithRefs struct {
	TimeEntry
	Developer Developer `json:"developer"`
	TaskName  string    `json:"task_name"`
}
