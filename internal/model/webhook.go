package model

// WebhookEvent is the change notification ClickUp delivers. Delivery is
// at-least-once; processing must tolerate duplicates.
type WebhookEvent struct {
	Event        string        `json:"event"`
	TaskID       string        `json:"task_id"`
	WebhookID    string        `json:"webhook_id"`
	HistoryItems []HistoryItem `json:"history_items"`
}

type HistoryItem struct {
	ID       string `json:"id"`
	Type     int    `json:"type"`
	Date     string `json:"date"`
	Field    string `json:"field"`
	ParentID string `json:"parent_id"`
}

const (
	EventTaskCreated         = "taskCreated"
	EventTaskUpdated         = "taskUpdated"
	EventTaskDeleted         = "taskDeleted"
	EventTaskAssigneeUpdated = "taskAssigneeUpdated"
	EventTaskStatusUpdated   = "taskStatusUpdated"
	EventTaskTimeEstimate    = "taskTimeEstimateUpdated"
	EventTaskPriorityUpdated = "taskPriorityUpdated"
)
