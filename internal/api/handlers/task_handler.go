package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/repository"
	"github.com/upclick/backend/internal/service"
)

type TaskHandler struct {
	Repo *repository.PostgresRepo
	Sync *service.SyncService
}

func NewTaskHandler(repo *repository.PostgresRepo, syncSvc *service.SyncService) *TaskHandler {
	return &TaskHandler{Repo: repo, Sync: syncSvc}
}

// ListTasks handles GET /api/tasks?status=&developerId=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.Repo.ListTasks(c.Request.Context(), repository.TaskFilter{
		Status:      c.Query("status"),
		DeveloperID: c.Query("developerId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tasks, "count": len(tasks)})
}

// GetTask handles GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.Repo.GetTaskDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// SyncTasks handles POST /api/tasks/sync: a full sync followed by a points
// recompute for every developer.
func (h *TaskHandler) SyncTasks(c *gin.Context) {
	ctx := c.Request.Context()

	result := h.Sync.SyncAllTasks(ctx)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": result.Error})
		return
	}

	if err := h.Sync.UpdateAllDeveloperPoints(ctx); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "sync completed",
		"tasks_count": result.TasksCount,
	})
}

// GetStats handles GET /api/tasks/stats/summary
func (h *TaskHandler) GetStats(c *gin.Context) {
	stats, err := h.Repo.GetTaskStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
