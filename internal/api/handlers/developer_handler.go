package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/repository"
	"github.com/upclick/backend/internal/service"
)

type DeveloperHandler struct {
	Repo    *repository.PostgresRepo
	Sync    *service.SyncService
	Reports *service.ReportService
}

func NewDeveloperHandler(repo *repository.PostgresRepo, syncSvc *service.SyncService, reportSvc *service.ReportService) *DeveloperHandler {
	return &DeveloperHandler{Repo: repo, Sync: syncSvc, Reports: reportSvc}
}

// ListDevelopers handles GET /api/developers. Lowest workload first.
func (h *DeveloperHandler) ListDevelopers(c *gin.Context) {
	developers, err := h.Repo.ListDeveloperDetails(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": developers, "count": len(developers)})
}

// GetDeveloper handles GET /api/developers/:id
func (h *DeveloperHandler) GetDeveloper(c *gin.Context) {
	developer, err := h.Repo.GetDeveloperDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": developer})
}

// GetLowestPoints handles GET /api/developers/lowest-points, used for
// auto-assignment suggestions.
func (h *DeveloperHandler) GetLowestPoints(c *gin.Context) {
	developer, err := h.Sync.DeveloperWithLowestPoints(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": developer})
}

// GetWeeklyReport handles GET /api/developers/reports/weekly?week=&year=
// Missing parameters default to the current ISO week.
func (h *DeveloperHandler) GetWeeklyReport(c *gin.Context) {
	week, err := intQuery(c, "week")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid week parameter"})
		return
	}
	year, err := intQuery(c, "year")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid year parameter"})
		return
	}

	report, err := h.Reports.WeeklyReport(c.Request.Context(), week, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

type addTimeEntryRequest struct {
	TaskID      string  `json:"taskId" binding:"required"`
	DeveloperID string  `json:"developerId" binding:"required"`
	Hours       float64 `json:"hours" binding:"required,gt=0"`
	Date        string  `json:"date"`
	Description *string `json:"description"`
}

// AddTimeEntry handles POST /api/developers/time-entry
func (h *DeveloperHandler) AddTimeEntry(c *gin.Context) {
	var req addTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "taskId, developerId and positive hours are required"})
		return
	}

	input := service.AddTimeEntryInput{
		TaskID:      req.TaskID,
		DeveloperID: req.DeveloperID,
		Hours:       req.Hours,
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid date format, use YYYY-MM-DD"})
			return
		}
		input.Date = &date
	}

	entry, err := h.Reports.AddTimeEntry(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry, "message": "time entry added"})
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
