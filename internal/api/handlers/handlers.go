package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/repository"
)

// respondError maps storage-side sentinels onto HTTP status codes; anything
// unrecognized is a 500 with the error message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, repository.ErrNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
