package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/repository"
)

type SettingsHandler struct {
	Repo *repository.PostgresRepo
}

func NewSettingsHandler(repo *repository.PostgresRepo) *SettingsHandler {
	return &SettingsHandler{Repo: repo}
}

// GetAll handles GET /api/settings, returning settings as a key/value map.
func (h *SettingsHandler) GetAll(c *gin.Context) {
	settings, err := h.Repo.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := map[string]string{}
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// GetByKey handles GET /api/settings/:key
func (h *SettingsHandler) GetByKey(c *gin.Context) {
	setting, err := h.Repo.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": setting})
}

// Update handles PUT /api/settings with a flat key/value body; every pair is
// upserted.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid settings payload"})
		return
	}

	for key, value := range body {
		if err := h.Repo.UpsertSetting(c.Request.Context(), key, fmt.Sprintf("%v", value), nil); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("%d settings updated", len(body))})
}

// Delete handles DELETE /api/settings/:key
func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.Repo.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "setting deleted"})
}
