package service

import (
	"context"
	"log"
	"sync"

	"github.com/upclick/backend/internal/model"
)

// recomputeEvents are the notification kinds that can change which tasks a
// developer is responsible for, so a full points recompute follows them.
var recomputeEvents = map[string]bool{
	model.EventTaskCreated:         true,
	model.EventTaskDeleted:         true,
	model.EventTaskAssigneeUpdated: true,
}

// WebhookProcessor consumes ClickUp change notifications on a background
// worker. The HTTP handler acknowledges a notification before handing it
// here, so processing failures are logged and dropped rather than surfaced
// to the sender; ClickUp delivers at-least-once and a later event or full
// sync re-converges the state.
type WebhookProcessor struct {
	Sync *SyncService

	queue chan model.WebhookEvent
	wg    sync.WaitGroup
	once  sync.Once
}

func NewWebhookProcessor(syncSvc *SyncService, queueSize int) *WebhookProcessor {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &WebhookProcessor{
		Sync:  syncSvc,
		queue: make(chan model.WebhookEvent, queueSize),
	}
}

// Start launches the worker. It drains the queue until Stop is called or ctx
// is cancelled. Events are processed one at a time; no ordering is guaranteed
// relative to a concurrently running full sync.
func (p *WebhookProcessor) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case event, ok := <-p.queue:
				if !ok {
					return
				}
				p.process(ctx, event)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop closes the queue and waits for the in-flight event to finish.
func (p *WebhookProcessor) Stop() {
	p.once.Do(func() { close(p.queue) })
	p.wg.Wait()
}

// Enqueue hands one acknowledged notification to the worker. When the queue
// is full the event is dropped with a warning; the next full sync will pick
// the change up.
func (p *WebhookProcessor) Enqueue(event model.WebhookEvent) {
	select {
	case p.queue <- event:
	default:
		log.Printf("WARNING: webhook queue full, dropping event %s for task %s", event.Event, event.TaskID)
	}
}

func (p *WebhookProcessor) process(ctx context.Context, event model.WebhookEvent) {
	log.Printf("processing webhook event %s for task %s", event.Event, event.TaskID)

	task, err := p.Sync.Click.GetTask(ctx, event.TaskID)
	if err != nil {
		log.Printf("webhook: fetching task %s: %v", event.TaskID, err)
		return
	}

	// No list context travels with a notification; attribution falls back to
	// the unknown list for tasks seen here first.
	if err := p.Sync.SyncTask(ctx, task, "", ""); err != nil {
		log.Printf("webhook: syncing task %s: %v", event.TaskID, err)
		return
	}

	if recomputeEvents[event.Event] {
		if err := p.Sync.UpdateAllDeveloperPoints(ctx); err != nil {
			log.Printf("webhook: recomputing points after %s: %v", event.Event, err)
			return
		}
	}

	log.Printf("webhook event %s processed for task %s", event.Event, event.TaskID)
}
