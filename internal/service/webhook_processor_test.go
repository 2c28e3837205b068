package service

import (
	"context"
	"errors"
	"testing"

	"github.com/upclick/backend/internal/clickup"
	"github.com/upclick/backend/internal/model"
)

// runOneEvent pushes a single event through a started processor and waits for
// the worker to drain it.
func runOneEvent(t *testing.T, p *WebhookProcessor, event model.WebhookEvent) {
	t.Helper()
	p.Start(context.Background())
	p.Enqueue(event)
	p.Stop()
}

func TestProcessorSyncsAndRecomputes(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{tasks: map[string]*clickup.Task{}}
	svc := newTestSync(store, source)

	// Ana carries 5 points from one open task.
	seeded := wireTask("t1", wireAssignee(1, "ana"))
	seeded.CustomFields = []clickup.CustomField{pointsField("5")}
	syncTasksForPoints(t, svc, seeded)
	if err := svc.UpdateAllDeveloperPoints(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.developers[1].TotalPoints != 5 {
		t.Fatalf("setup: points = %d, want 5", store.developers[1].TotalPoints)
	}

	// The remote task was reassigned away from ana.
	reassigned := wireTask("t1", wireAssignee(2, "bo"))
	reassigned.CustomFields = []clickup.CustomField{pointsField("5")}
	source.tasks["t1"] = reassigned

	p := NewWebhookProcessor(svc, 4)
	runOneEvent(t, p, model.WebhookEvent{Event: model.EventTaskAssigneeUpdated, TaskID: "t1"})

	if got := source.getTaskCalls; len(got) != 1 || got[0] != "t1" {
		t.Fatalf("task fetches = %v, want one fetch of t1", got)
	}
	if got := store.assignees["t1"]; len(got) != 1 || got[0] != localDevID(2) {
		t.Errorf("assignees = %v, want [%s]", got, localDevID(2))
	}
	if store.developers[1].TotalPoints != 0 {
		t.Errorf("ana's points = %d, want 0 after reassignment", store.developers[1].TotalPoints)
	}
	if store.developers[2].TotalPoints != 5 {
		t.Errorf("bo's points = %d, want 5", store.developers[2].TotalPoints)
	}
}

func TestProcessorSkipsRecomputeForFieldEdits(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{tasks: map[string]*clickup.Task{}}
	svc := newTestSync(store, source)

	seeded := wireTask("t1", wireAssignee(1, "ana"))
	seeded.CustomFields = []clickup.CustomField{pointsField("5")}
	syncTasksForPoints(t, svc, seeded)
	if err := svc.UpdateAllDeveloperPoints(context.Background()); err != nil {
		t.Fatal(err)
	}

	renamed := wireTask("t1", wireAssignee(1, "ana"))
	renamed.Name = "renamed"
	renamed.CustomFields = []clickup.CustomField{pointsField("8")}
	source.tasks["t1"] = renamed

	p := NewWebhookProcessor(svc, 4)
	runOneEvent(t, p, model.WebhookEvent{Event: model.EventTaskUpdated, TaskID: "t1"})

	if store.tasks["t1"].Name != "renamed" {
		t.Errorf("task name = %q, want the fetched rename", store.tasks["t1"].Name)
	}
	// A plain edit does not trigger a recompute; the score stays until the
	// next lifecycle event or full sync.
	if store.developers[1].TotalPoints != 5 {
		t.Errorf("points = %d, want untouched 5", store.developers[1].TotalPoints)
	}
}

func TestProcessorTaskDeleted(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{tasks: map[string]*clickup.Task{}}
	svc := newTestSync(store, source)

	seeded := wireTask("t1", wireAssignee(1, "ana"))
	seeded.CustomFields = []clickup.CustomField{pointsField("5")}
	syncTasksForPoints(t, svc, seeded)
	if err := svc.UpdateAllDeveloperPoints(context.Background()); err != nil {
		t.Fatal(err)
	}

	// ClickUp still serves the deleted task, now closed.
	gone := wireTask("t1", wireAssignee(1, "ana"))
	gone.CustomFields = []clickup.CustomField{pointsField("5")}
	closedAt := "1700000300000"
	gone.DateClosed = &closedAt
	source.tasks["t1"] = gone

	p := NewWebhookProcessor(svc, 4)
	runOneEvent(t, p, model.WebhookEvent{Event: model.EventTaskDeleted, TaskID: "t1"})

	if store.tasks["t1"].Open() {
		t.Error("task still open after delete event")
	}
	if store.developers[1].TotalPoints != 0 {
		t.Errorf("points = %d, want 0 after losing the open task", store.developers[1].TotalPoints)
	}
}

func TestProcessorSwallowsFetchFailure(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{getTaskErr: errors.New("clickup down")}
	svc := newTestSync(store, source)

	p := NewWebhookProcessor(svc, 4)
	runOneEvent(t, p, model.WebhookEvent{Event: model.EventTaskCreated, TaskID: "t1"})

	if len(store.tasks) != 0 {
		t.Errorf("store has %d tasks, want none", len(store.tasks))
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	svc := newTestSync(newFakeStore(), &fakeSource{})
	p := NewWebhookProcessor(svc, 1)

	// Worker not started: the second enqueue must drop, not block.
	p.Enqueue(model.WebhookEvent{Event: model.EventTaskCreated, TaskID: "a"})
	p.Enqueue(model.WebhookEvent{Event: model.EventTaskCreated, TaskID: "b"})

	if got := len(p.queue); got != 1 {
		t.Errorf("queue length = %d, want 1", got)
	}
}
