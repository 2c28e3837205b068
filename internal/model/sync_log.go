package model

import "time"

// SyncLog is an append-only audit record of one sync run.
type SyncLog struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	TasksCount   *int      `json:"tasks_count,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	SyncTypeFull = "full_sync"

	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncResult is what a full sync returns to the caller.
type SyncResult struct {
	Success    bool   `json:"success"`
	TasksCount int    `json:"tasks_count"`
	Error      string `json:"error,omitempty"`
}
