package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/upclick/backend/internal/clickup"
	"github.com/upclick/backend/internal/service"
)

// stubSource records task fetches and always fails, so processing stops
// before any storage access.
type stubSource struct {
	calls chan string
}

func (s *stubSource) GetAllTasks(context.Context) ([]clickup.ListTask, error) { return nil, nil }

func (s *stubSource) GetTask(_ context.Context, taskID string) (*clickup.Task, error) {
	s.calls <- taskID
	return nil, errors.New("stub source")
}

func TestReceiveAcknowledgesBeforeProcessing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	source := &stubSource{calls: make(chan string, 1)}
	processor := service.NewWebhookProcessor(service.NewSyncService(nil, source, ""), 4)
	processor.Start(context.Background())
	defer processor.Stop()

	h := NewWebhookHandler(nil, processor, "")
	r := gin.New()
	r.POST("/api/webhooks/clickup", h.Receive)

	body := `{"event":"taskStatusUpdated","task_id":"t9","webhook_id":"wh1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clickup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Errorf("body = %s", w.Body.String())
	}

	select {
	case got := <-source.calls:
		if got != "t9" {
			t.Errorf("fetched task %q, want t9", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker never fetched the task")
	}
}

func TestReceiveRejectsMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	processor := service.NewWebhookProcessor(service.NewSyncService(nil, &stubSource{calls: make(chan string, 1)}, ""), 4)
	h := NewWebhookHandler(nil, processor, "")
	r := gin.New()
	r.POST("/api/webhooks/clickup", h.Receive)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clickup", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
