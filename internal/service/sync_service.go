package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/upclick/backend/internal/clickup"
	"github.com/upclick/backend/internal/model"
)

// SyncStore is the slice of the repository the sync engine needs. Defined
// here so tests can swap in a fake store.
type SyncStore interface {
	UpsertDeveloper(ctx context.Context, d *model.Developer) error
	DeveloperIDsByClickUpIDs(ctx context.Context, clickupIDs []int64) ([]string, error)
	UpsertTask(ctx context.Context, t *model.Task) error
	SetTaskAssignees(ctx context.Context, taskID string, developerIDs []string) error
	ReplaceTaskTags(ctx context.Context, taskID string, tags []model.TaskTag) error
	ReplaceTaskCustomFields(ctx context.Context, taskID string, fields []model.CustomField) error
	ListDevelopers(ctx context.Context) ([]model.Developer, error)
	GetDeveloper(ctx context.Context, id string) (*model.Developer, error)
	OpenTasksForDeveloper(ctx context.Context, developerID string) ([]model.Task, error)
	SetDeveloperPoints(ctx context.Context, developerID string, points int) error
	DeveloperWithLowestPoints(ctx context.Context) (*model.Developer, error)
	CreateSyncLog(ctx context.Context, entry *model.SyncLog) error
}

// TaskSource is the slice of the ClickUp client the sync engine needs.
type TaskSource interface {
	GetAllTasks(ctx context.Context) ([]clickup.ListTask, error)
	GetTask(ctx context.Context, taskID string) (*clickup.Task, error)
}

// SyncService reconciles ClickUp state into local storage and keeps derived
// workload points current.
type SyncService struct {
	Repo    SyncStore
	Click   TaskSource
	SpaceID string
}

func NewSyncService(repo SyncStore, click TaskSource, spaceID string) *SyncService {
	return &SyncService{Repo: repo, Click: click, SpaceID: spaceID}
}

// SyncTask applies one ClickUp task snapshot to storage. The operation is
// idempotent: re-applying an identical snapshot leaves storage unchanged.
// listID and listName may be empty when the caller has no list context (a
// webhook-triggered fetch); newly created tasks then fall back to the
// "unknown" list attribution.
func (s *SyncService) SyncTask(ctx context.Context, task *clickup.Task, listID, listName string) error {
	for _, assignee := range task.Assignees {
		dev := &model.Developer{
			ClickUpID: assignee.ID,
			Username:  assignee.Username,
			Email:     assignee.Email,
			Initials:  assignee.Initials,
			Color:     assignee.Color,
		}
		if assignee.ProfilePicture != "" {
			dev.ProfilePicture = &assignee.ProfilePicture
		}
		if err := s.Repo.UpsertDeveloper(ctx, dev); err != nil {
			return fmt.Errorf("upserting developer %d: %w", assignee.ID, err)
		}
	}

	points := extractPoints(task.CustomFields)

	if listID == "" {
		listID = "unknown"
	}
	if listName == "" {
		listName = "Unknown List"
	}
	spaceID := task.Space.ID
	if spaceID == "" {
		spaceID = s.SpaceID
	}

	local := &model.Task{
		ID:              task.ID,
		Name:            task.Name,
		Status:          task.Status.Status,
		StatusColor:     task.Status.Color,
		URL:             task.URL,
		TimeEstimate:    task.TimeEstimate,
		TimeSpent:       task.TimeSpent,
		Points:          points,
		DueDate:         parseMillisPtr(task.DueDate),
		DateClosed:      parseMillisPtr(task.DateClosed),
		CreatorID:       task.Creator.ID,
		CreatorUsername: task.Creator.Username,
		CreatorEmail:    task.Creator.Email,
		ListID:          listID,
		ListName:        listName,
		SpaceID:         spaceID,
	}
	if task.Description != "" {
		local.Description = &task.Description
	}
	if task.Priority != nil {
		local.Priority = &task.Priority.Priority
		local.PriorityColor = &task.Priority.Color
	}
	if t, ok := parseMillis(task.DateCreated); ok {
		local.DateCreated = t
	}
	if t, ok := parseMillis(task.DateUpdated); ok {
		local.DateUpdated = t
	} else {
		local.DateUpdated = local.DateCreated
	}

	if err := s.Repo.UpsertTask(ctx, local); err != nil {
		return fmt.Errorf("upserting task %s: %w", task.ID, err)
	}

	clickupIDs := make([]int64, 0, len(task.Assignees))
	for _, a := range task.Assignees {
		clickupIDs = append(clickupIDs, a.ID)
	}
	developerIDs, err := s.Repo.DeveloperIDsByClickUpIDs(ctx, clickupIDs)
	if err != nil {
		return fmt.Errorf("resolving assignees for task %s: %w", task.ID, err)
	}
	if err := s.Repo.SetTaskAssignees(ctx, task.ID, developerIDs); err != nil {
		return fmt.Errorf("setting assignees for task %s: %w", task.ID, err)
	}

	// ClickUp returns the full current tag and custom field sets on every
	// fetch, so the local rows are replaced wholesale.
	tags := make([]model.TaskTag, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, model.TaskTag{
			TaskID:  task.ID,
			Name:    tag.Name,
			FgColor: tag.TagFg,
			BgColor: tag.TagBg,
		})
	}
	if err := s.Repo.ReplaceTaskTags(ctx, task.ID, tags); err != nil {
		return fmt.Errorf("replacing tags for task %s: %w", task.ID, err)
	}

	fields := make([]model.CustomField, 0, len(task.CustomFields))
	for _, f := range task.CustomFields {
		field := model.CustomField{
			TaskID:  task.ID,
			FieldID: f.ID,
			Name:    f.Name,
			Type:    f.Type,
		}
		if len(f.Value) > 0 && string(f.Value) != "null" {
			v := string(f.Value)
			field.Value = &v
		}
		fields = append(fields, field)
	}
	if err := s.Repo.ReplaceTaskCustomFields(ctx, task.ID, fields); err != nil {
		return fmt.Errorf("replacing custom fields for task %s: %w", task.ID, err)
	}

	return nil
}

// SyncAllTasks runs a full sync: every list, every task, sequentially. One
// sync_logs row records the outcome. Partial progress is kept on failure; a
// re-run is safe because SyncTask is idempotent.
func (s *SyncService) SyncAllTasks(ctx context.Context) model.SyncResult {
	log.Println("starting full sync from ClickUp")

	tasks, err := s.Click.GetAllTasks(ctx)
	if err != nil {
		return s.failSync(ctx, 0, err)
	}

	synced := 0
	for _, lt := range tasks {
		if err := s.SyncTask(ctx, &lt.Task, lt.ListID, lt.ListName); err != nil {
			return s.failSync(ctx, synced, err)
		}
		synced++
		if synced%10 == 0 {
			log.Printf("synced %d/%d tasks", synced, len(tasks))
		}
	}

	entry := &model.SyncLog{
		Type:       model.SyncTypeFull,
		Status:     model.SyncStatusSuccess,
		TasksCount: &synced,
	}
	if err := s.Repo.CreateSyncLog(ctx, entry); err != nil {
		log.Printf("failed to write sync log: %v", err)
	}

	log.Printf("full sync completed, %d tasks synced", synced)
	return model.SyncResult{Success: true, TasksCount: synced}
}

func (s *SyncService) failSync(ctx context.Context, synced int, cause error) model.SyncResult {
	log.Printf("full sync failed after %d tasks: %v", synced, cause)
	msg := cause.Error()
	entry := &model.SyncLog{
		Type:         model.SyncTypeFull,
		Status:       model.SyncStatusError,
		ErrorMessage: &msg,
	}
	if err := s.Repo.CreateSyncLog(ctx, entry); err != nil {
		log.Printf("failed to write sync log: %v", err)
	}
	return model.SyncResult{Success: false, TasksCount: synced, Error: msg}
}

// UpdateDeveloperPoints recomputes one developer's workload score from their
// currently-open assigned tasks. Tasks without points count as zero.
func (s *SyncService) UpdateDeveloperPoints(ctx context.Context, developerID string) error {
	dev, err := s.Repo.GetDeveloper(ctx, developerID)
	if err != nil {
		return err
	}
	tasks, err := s.Repo.OpenTasksForDeveloper(ctx, developerID)
	if err != nil {
		return err
	}

	total := 0
	for _, t := range tasks {
		if t.Points != nil {
			total += *t.Points
		}
	}
	if err := s.Repo.SetDeveloperPoints(ctx, developerID, total); err != nil {
		return err
	}
	log.Printf("updated points for %s: %d", dev.Username, total)
	return nil
}

// UpdateAllDeveloperPoints recomputes every developer sequentially. The first
// failure aborts the batch.
func (s *SyncService) UpdateAllDeveloperPoints(ctx context.Context) error {
	developers, err := s.Repo.ListDevelopers(ctx)
	if err != nil {
		return err
	}
	for _, dev := range developers {
		if err := s.UpdateDeveloperPoints(ctx, dev.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) DeveloperWithLowestPoints(ctx context.Context) (*model.Developer, error) {
	return s.Repo.DeveloperWithLowestPoints(ctx)
}

// extractPoints finds the workload points value among a task's custom fields.
// Field names match case-insensitively against "points" or "story points";
// the first match in remote iteration order wins. No match yields nil.
func extractPoints(fields []clickup.CustomField) *int {
	for _, f := range fields {
		name := strings.ToLower(f.Name)
		if name != "points" && name != "story points" {
			continue
		}
		if len(f.Value) == 0 || string(f.Value) == "null" {
			return nil
		}

		var num float64
		if err := json.Unmarshal(f.Value, &num); err == nil {
			p := int(num)
			return &p
		}
		var str string
		if err := json.Unmarshal(f.Value, &str); err == nil {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
				p := int(parsed)
				return &p
			}
		}
		return nil
	}
	return nil
}
