package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/upclick/backend/internal/model"
	"github.com/upclick/backend/internal/repository"
)

// ReportStore is the slice of the repository the report side needs.
type ReportStore interface {
	TimeEntriesByWeek(ctx context.Context, week, year int) ([]model.TimeEntryWithRefs, error)
	CreateTimeEntry(ctx context.Context, e *model.TimeEntry) error
	GetDeveloper(ctx context.Context, id string) (*model.Developer, error)
	TaskExists(ctx context.Context, id string) (bool, error)
}

// ReportService aggregates logged time entries per ISO week. Pure read-side
// except AddTimeEntry.
type ReportService struct {
	Repo ReportStore

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewReportService(repo ReportStore) *ReportService {
	return &ReportService{Repo: repo, Now: time.Now}
}

// WeeklyReport groups the (week, year) bucket's time entries by developer and
// sums hours per group. Zero week or year defaults to the ISO week of now.
func (s *ReportService) WeeklyReport(ctx context.Context, week, year int) (*model.WeeklyReport, error) {
	if week == 0 || year == 0 {
		y, w := s.Now().ISOWeek()
		if week == 0 {
			week = w
		}
		if year == 0 {
			year = y
		}
	}

	entries, err := s.Repo.TimeEntriesByWeek(ctx, week, year)
	if err != nil {
		return nil, err
	}

	report := &model.WeeklyReport{Week: week, Year: year, Developers: []model.DeveloperReport{}}
	index := map[string]int{}
	for _, entry := range entries {
		i, ok := index[entry.DeveloperID]
		if !ok {
			i = len(report.Developers)
			index[entry.DeveloperID] = i
			report.Developers = append(report.Developers, model.DeveloperReport{
				Developer: entry.Developer,
			})
		}
		report.Developers[i].TotalHours += entry.Hours
		report.Developers[i].Tasks = append(report.Developers[i].Tasks, model.ReportTaskLine{
			TaskID:   entry.TaskID,
			TaskName: entry.TaskName,
			Hours:    entry.Hours,
			Date:     entry.Date,
		})
	}
	return report, nil
}

type AddTimeEntryInput struct {
	TaskID      string
	DeveloperID string
	Hours       float64
	Date        *time.Time
	Description *string
}

// AddTimeEntry persists one logged time entry with the ISO week and week-year
// stamped from the entry date. The stamp is never recomputed afterwards.
func (s *ReportService) AddTimeEntry(ctx context.Context, in AddTimeEntryInput) (*model.TimeEntry, error) {
	if in.TaskID == "" || in.DeveloperID == "" || in.Hours <= 0 {
		return nil, errors.New("taskId, developerId and positive hours are required")
	}

	if _, err := s.Repo.GetDeveloper(ctx, in.DeveloperID); err != nil {
		return nil, err
	}
	exists, err := s.Repo.TaskExists(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	date := s.Now()
	if in.Date != nil {
		date = *in.Date
	}
	year, week := date.ISOWeek()

	entry := &model.TimeEntry{
		ID:          uuid.NewString(),
		TaskID:      in.TaskID,
		DeveloperID: in.DeveloperID,
		Hours:       in.Hours,
		Date:        date,
		Week:        week,
		Year:        year,
		Description: in.Description,
	}
	if err := s.Repo.CreateTimeEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
