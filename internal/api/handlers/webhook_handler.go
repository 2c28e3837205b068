package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/clickup"
	"github.com/upclick/backend/internal/model"
	"github.com/upclick/backend/internal/service"
)

// webhookEvents are the ClickUp event kinds this service subscribes to.
var webhookEvents = []string{
	model.EventTaskCreated,
	model.EventTaskUpdated,
	model.EventTaskDeleted,
	model.EventTaskAssigneeUpdated,
	model.EventTaskStatusUpdated,
	model.EventTaskTimeEstimate,
	model.EventTaskPriorityUpdated,
}

type WebhookHandler struct {
	Click      *clickup.Client
	Processor  *service.WebhookProcessor
	WebhookURL string
}

func NewWebhookHandler(click *clickup.Client, processor *service.WebhookProcessor, webhookURL string) *WebhookHandler {
	return &WebhookHandler{Click: click, Processor: processor, WebhookURL: webhookURL}
}

// Receive handles POST /api/webhooks/clickup. The notification is
// acknowledged before any remote fetch or storage write happens, so a slow
// consumer never makes ClickUp retry delivery. Processing continues on the
// background worker.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var event model.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid webhook payload"})
		return
	}

	log.Printf("received webhook event %s for task %s", event.Event, event.TaskID)
	c.JSON(http.StatusOK, gin.H{"received": true})

	h.Processor.Enqueue(event)
}

// Register handles POST /api/webhooks/register
func (h *WebhookHandler) Register(c *gin.Context) {
	webhook, err := h.Click.CreateWebhook(c.Request.Context(), h.WebhookURL, webhookEvents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": webhook, "message": "webhook registered"})
}

// List handles GET /api/webhooks
func (h *WebhookHandler) List(c *gin.Context) {
	webhooks, err := h.Click.GetWebhooks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": webhooks, "count": len(webhooks)})
}

// Delete handles DELETE /api/webhooks/:id
func (h *WebhookHandler) Delete(c *gin.Context) {
	if err := h.Click.DeleteWebhook(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "webhook deleted"})
}
