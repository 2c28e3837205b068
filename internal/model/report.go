package model

import "time"

type WeeklyReport struct {
	Week       int               `json:"week"`
	Year       int               `json:"year"`
	Developers []DeveloperReport `json:"developers"`
}

type DeveloperReport struct {
	Developer  Developer        `json:"developer"`
	TotalHours float64          `json:"total_hours"`
	Tasks      []ReportTaskLine `json:"tasks"`
}

type ReportTaskLine struct {
	TaskID   string    `json:"task_id"`
	TaskName string    `json:"task_name"`
	Hours    float64   `json:"hours"`
	Date     time.Time `json:"date"`
}
