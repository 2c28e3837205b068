package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/repository"
)

type SyncHandler struct {
	Repo *repository.PostgresRepo
}

func NewSyncHandler(repo *repository.PostgresRepo) *SyncHandler {
	return &SyncHandler{Repo: repo}
}

// GetHistory handles GET /api/sync/history?limit=
func (h *SyncHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid limit parameter"})
		return
	}

	logs, err := h.Repo.ListSyncLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": logs, "count": len(logs)})
}
