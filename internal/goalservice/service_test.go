package goalservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/metrics"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/sse"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/testutil"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	changes []sse.Change
}

func (r *recorder) PublishChange(c sse.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	n := 0
	clock := func() time.Time { return testNow }
	svc := New(store.NewMemory(),
		metrics.NewAnalyzer(metrics.DefaultThresholds(), metrics.WithClock(clock)),
		WithPublisher(rec),
		WithClock(clock),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	return svc, rec
}

func newGoal(t *testing.T, svc *Service) *GoalDetail {
	t.Helper()
	in := testutil.Goal("")
	d, err := svc.CreateGoal(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	return d
}

func TestCreateGoalStampsAndDefaults(t *testing.T) {
	svc, rec := newTestService(t)
	in := testutil.Goal("")
	in.Status = ""
	in.Priority = ""
	in.OwnerID = ""
	in.DefinitionOfReady = []models.Criterion{{Description: "Scope agreed", Category: models.CategoryRequired}}

	d, err := svc.CreateGoal(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if d.ID != "id-1" || d.Status != models.GoalDraft || d.Priority != models.PriorityMedium || d.OwnerID != "alice" {
		t.Errorf("goal = %+v", d.Goal)
	}
	if d.CreatedBy != "alice" || !d.CreatedAt.Equal(testNow) {
		t.Errorf("audit = %+v", d.Audit)
	}
	if d.DefinitionOfReady[0].ID == "" || !d.DefinitionOfReady[0].CreatedAt.Equal(testNow) {
		t.Errorf("criterion not stamped: %+v", d.DefinitionOfReady[0])
	}
	if d.ETag == "" {
		t.Error("missing etag")
	}
	if len(rec.changes) != 1 || rec.changes[0].Entity != "goal" || rec.changes[0].Action != "created" {
		t.Errorf("events = %+v", rec.changes)
	}
}

func TestCreateGoalValidationBeforeMutation(t *testing.T) {
	svc, rec := newTestService(t)
	in := testutil.Goal("")
	in.Title = "x"
	_, err := svc.CreateGoal(context.Background(), "alice", in)

	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	page, _ := svc.ListGoals(context.Background(), store.GoalQuery{})
	if page.Total != 0 || len(rec.changes) != 0 {
		t.Errorf("mutation happened: total=%d events=%d", page.Total, len(rec.changes))
	}
}

func TestPatchGoalPreservesImmutableFields(t *testing.T) {
	svc, _ := newTestService(t)
	d := newGoal(t, svc)

	patch := []byte(`{"id":"hijack","createdBy":"mallory","title":"Renamed goal","measurable":{"target":200}}`)
	got, err := svc.PatchGoal(context.Background(), "bob", d.ID, patch, "")
	if err != nil {
		t.Fatalf("PatchGoal: %v", err)
	}
	if got.ID != d.ID || got.CreatedBy != "alice" || got.UpdatedBy != "bob" {
		t.Errorf("immutable fields changed: %+v", got.Audit)
	}
	if got.Title != "Renamed goal" || got.Measurable.Target != 200 || got.Measurable.Unit != "points" {
		t.Errorf("patch not merged: %+v", got.Measurable)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	d := newGoal(t, svc)
	patch := []byte(`{"title":"Same every time","tags":["a","b"]}`)

	first, err := svc.PatchGoal(context.Background(), "bob", d.ID, patch, "")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.PatchGoal(context.Background(), "bob", d.ID, patch, "")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ETag != second.ETag {
		t.Error("second identical update changed the document")
	}
}

func TestIfMatchConflict(t *testing.T) {
	svc, _ := newTestService(t)
	d := newGoal(t, svc)

	if _, err := svc.PatchGoal(context.Background(), "bob", d.ID, []byte(`{"title":"Stale write"}`), `"nope"`); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if _, err := svc.PatchGoal(context.Background(), "bob", d.ID, []byte(`{"title":"Fresh write"}`), `"`+d.ETag+`"`); err != nil {
		t.Fatalf("matching etag rejected: %v", err)
	}
}

func TestPatchGoalStatusFollowsTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	d := newGoal(t, svc)
	ctx := context.Background()

	if _, err := svc.PatchGoal(ctx, "bob", d.ID, []byte(`{"status":"on_hold"}`), ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("draft->on_hold err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.PatchGoal(ctx, "bob", d.ID, []byte(`{"status":"cancelled"}`), ""); !errors.Is(err, apperr.ErrConfirmationRequired) {
		t.Errorf("draft->cancelled err = %v, want ErrConfirmationRequired", err)
	}
	if got, err := svc.PatchGoal(ctx, "bob", d.ID, []byte(`{"status":"active"}`), ""); err != nil || got.Status != models.GoalActive {
		t.Errorf("draft->active = %v, %v", got, err)
	}
}

func TestTransitionGoalConfirmation(t *testing.T) {
	svc, _ := newTestService(t)
	d := newGoal(t, svc)
	ctx := context.Background()

	if _, err := svc.TransitionGoal(ctx, "bob", d.ID, models.GoalActive, false); err != nil {
		t.Fatalf("activate: %v", err)
	}
	_, err := svc.TransitionGoal(ctx, "bob", d.ID, models.GoalCompleted, false)
	var ce *ConfirmationError
	if !errors.As(err, &ce) || !errors.Is(err, apperr.ErrConfirmationRequired) {
		t.Fatalf("err = %v, want ConfirmationError", err)
	}
	if !ce.Confirmation.Required || ce.Confirmation.Message == "" {
		t.Errorf("confirmation = %+v", ce.Confirmation)
	}

	res, err := svc.TransitionGoal(ctx, "bob", d.ID, models.GoalCompleted, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.From != "active" || res.To != "completed" || res.Goal.Status != models.GoalCompleted {
		t.Errorf("result = %+v", res)
	}
	if _, err := svc.TransitionGoal(ctx, "bob", d.ID, models.GoalActive, true); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("leaving terminal err = %v", err)
	}
}

func TestTransitionGoalWarnsWhenNotReady(t *testing.T) {
	svc, _ := newTestService(t)
	in := testutil.Goal("")
	in.DefinitionOfReady = []models.Criterion{{Description: "Budget approved", Category: models.CategoryRequired}}
	d, err := svc.CreateGoal(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	res, err := svc.TransitionGoal(context.Background(), "alice", d.ID, models.GoalActive, false)
	if err != nil {
		t.Fatalf("TransitionGoal: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", res.Warnings)
	}
}

func TestSoftAndHardDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	d := newGoal(t, svc)

	if err := svc.DeleteGoal(ctx, "bob", d.ID, false); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := svc.GetGoal(ctx, d.ID); !errors.Is(err, apperr.ErrGone) {
		t.Errorf("get after soft delete err = %v, want ErrGone", err)
	}
	if err := svc.DeleteGoal(ctx, "bob", d.ID, false); !errors.Is(err, apperr.ErrGone) {
		t.Errorf("second soft delete err = %v, want ErrGone", err)
	}
	page, _ := svc.ListGoals(ctx, store.GoalQuery{IncludeDeleted: true})
	if page.Total != 1 || page.Items[0].DeletedBy != "bob" || page.Items[0].DeletedAt == nil {
		t.Errorf("soft-deleted goal = %+v", page.Items)
	}

	if err := svc.DeleteGoal(ctx, "bob", d.ID, true); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := svc.GetGoal(ctx, d.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after hard delete err = %v, want ErrNotFound", err)
	}
}

func TestListGoalsPagination(t *testing.T) {
	svc, _ := newTestService(t)
	for range 5 {
		newGoal(t, svc)
	}
	page, err := svc.ListGoals(context.Background(), store.GoalQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if page.Total != 5 || len(page.Items) != 2 || !page.HasMore || page.Page != 2 || page.Limit != 2 {
		t.Errorf("page = %+v", page)
	}
	page, _ = svc.ListGoals(context.Background(), store.GoalQuery{Page: 3, Limit: 2})
	if page.HasMore || len(page.Items) != 1 {
		t.Errorf("last page = %+v", page)
	}
}

func TestTaskLifecycle(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	g := newGoal(t, svc)

	tk, err := svc.CreateTask(ctx, "alice", g.ID, models.Task{
		WorkItem: models.WorkItem{
			Title:     "Write draft",
			Checklist: []models.ChecklistItem{{Description: "Outline"}, {Description: "Body", Required: true}},
		},
		GoalID: "ignored",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if tk.GoalID != g.ID || tk.Status != models.TaskTodo || tk.Checklist[0].ID == "" {
		t.Errorf("task = %+v", tk.Task)
	}

	tk, err = svc.ToggleChecklistItem(ctx, "bob", tk.ID, tk.Checklist[0].ID, true)
	if err != nil {
		t.Fatalf("ToggleChecklistItem: %v", err)
	}
	if tk.ComputedProgress != 50 || tk.Checklist[0].CompletedBy != "bob" {
		t.Errorf("progress = %d, item = %+v", tk.ComputedProgress, tk.Checklist[0])
	}

	if _, err := svc.TransitionTask(ctx, "bob", tk.ID, models.TaskCompleted, true); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("todo->completed err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.TransitionTask(ctx, "bob", tk.ID, models.TaskInProgress, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.TransitionTask(ctx, "bob", tk.ID, models.TaskCompleted, false); !errors.Is(err, apperr.ErrConfirmationRequired) {
		t.Errorf("unconfirmed complete err = %v", err)
	}
	res, err := svc.TransitionTask(ctx, "bob", tk.ID, models.TaskCompleted, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Task.ComputedProgress != 100 || *res.Task.Progress != 100 {
		t.Errorf("completed progress = %d", res.Task.ComputedProgress)
	}
	if len(res.Task.Warnings) != 1 {
		t.Errorf("warnings = %v, want required checklist warning", res.Task.Warnings)
	}

	detail, _ := svc.GetGoal(ctx, g.ID)
	if detail.TaskProgress != 100 || len(detail.Tasks) != 1 {
		t.Errorf("goal task progress = %d", detail.TaskProgress)
	}
	last := rec.changes[len(rec.changes)-1]
	if last.Entity != "task" || last.GoalID != g.ID {
		t.Errorf("last event = %+v", last)
	}
}

func TestSubtasks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := newGoal(t, svc)
	tk, err := svc.CreateTask(ctx, "alice", g.ID, models.Task{WorkItem: models.WorkItem{Title: "Parent"}})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tk, err = svc.AddSubtask(ctx, "alice", tk.ID, models.Subtask{WorkItem: models.WorkItem{Title: "Child"}})
	if err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	sub := tk.Subtasks[0]
	if sub.ParentID != tk.ID || sub.Priority != tk.Priority {
		t.Errorf("subtask = %+v", sub)
	}

	tk, err = svc.PatchSubtask(ctx, "bob", tk.ID, sub.ID, []byte(`{"progress":40,"parentId":"other"}`))
	if err != nil {
		t.Fatalf("PatchSubtask: %v", err)
	}
	if tk.Subtasks[0].ParentID != tk.ID || tk.ComputedProgress != 40 {
		t.Errorf("subtask after patch = %+v, progress %d", tk.Subtasks[0], tk.ComputedProgress)
	}

	if _, err := svc.PatchSubtask(ctx, "bob", tk.ID, sub.ID, []byte(`{"status":"completed"}`)); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("todo->completed subtask err = %v", err)
	}

	tk, err = svc.DeleteSubtask(ctx, "bob", tk.ID, sub.ID)
	if err != nil {
		t.Fatalf("DeleteSubtask: %v", err)
	}
	if len(tk.Subtasks) != 0 {
		t.Errorf("subtasks = %d, want 0", len(tk.Subtasks))
	}
	if _, err := svc.DeleteSubtask(ctx, "bob", tk.ID, sub.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing subtask err = %v", err)
	}
}

func TestTasksOfSoftDeletedGoalAreGone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := newGoal(t, svc)
	tk, _ := svc.CreateTask(ctx, "alice", g.ID, models.Task{WorkItem: models.WorkItem{Title: "Orphaned"}})
	_ = svc.DeleteGoal(ctx, "alice", g.ID, false)

	if _, err := svc.GetTask(ctx, tk.ID); !errors.Is(err, apperr.ErrGone) {
		t.Errorf("err = %v, want ErrGone", err)
	}
	if _, err := svc.CreateTask(ctx, "alice", g.ID, models.Task{WorkItem: models.WorkItem{Title: "Late"}}); !errors.Is(err, apperr.ErrGone) {
		t.Errorf("create under deleted goal err = %v, want ErrGone", err)
	}
}

func TestCheckpointsDriveCurrentAndAnalytics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := newGoal(t, svc)

	day := func(n int) time.Time { return testutil.Epoch.AddDate(0, 0, n) }
	for _, cp := range []models.Checkpoint{
		{Value: 20, RecordedAt: day(10)},
		{Value: 5, RecordedAt: day(0)},
	} {
		if _, err := svc.AddCheckpoint(ctx, "alice", g.ID, cp); err != nil {
			t.Fatalf("AddCheckpoint: %v", err)
		}
	}
	detail, _ := svc.GetGoal(ctx, g.ID)
	if detail.Measurable.Current != 20 {
		t.Errorf("current = %v, want newest value 20", detail.Measurable.Current)
	}
	if detail.Analytics.CheckpointCount != 2 || detail.Analytics.Velocity != 1.5 {
		t.Errorf("analytics = %+v", detail.Analytics)
	}

	snap, err := svc.Analytics(ctx, g.ID, day(5), time.Time{})
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if snap.CheckpointCount != 1 {
		t.Errorf("windowed count = %d, want 1", snap.CheckpointCount)
	}

	latest := detail.Checkpoints[1]
	if err := svc.DeleteCheckpoint(ctx, "alice", latest.ID); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}
	detail, _ = svc.GetGoal(ctx, g.ID)
	if detail.Measurable.Current != 5 {
		t.Errorf("current after delete = %v, want 5", detail.Measurable.Current)
	}

	bad := models.Checkpoint{Value: 1, Confidence: ptr(2.0)}
	var ve *apperr.ValidationError
	if _, err := svc.AddCheckpoint(ctx, "alice", g.ID, bad); !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestCriteriaReplaceAndToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := newGoal(t, svc)

	view, err := svc.ReplaceCriteria(ctx, "alice", g.ID, ListDone, []models.Criterion{
		{ID: "tests", Description: "Tests pass", Category: models.CategoryRequired},
		{ID: "ship", Description: "Shipped", Category: models.CategoryRequired,
			Validation: &models.ValidationRule{Type: models.RuleDependency, DependsOn: []string{"tests"}}},
		{ID: "docs", Description: "Docs", Category: models.CategoryRecommended},
	})
	if err != nil {
		t.Fatalf("ReplaceCriteria: %v", err)
	}
	if view.Done.CompletionScore != 0 || view.Done.IsReadyToStart {
		t.Errorf("score = %+v", view.Done)
	}

	_, err = svc.ToggleCriterion(ctx, "alice", g.ID, ListDone, "ship", true)
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError for unmet dependency", err)
	}

	if _, err := svc.ToggleCriterion(ctx, "alice", g.ID, ListDone, "tests", true); err != nil {
		t.Fatalf("toggle tests: %v", err)
	}
	view, err = svc.ToggleCriterion(ctx, "alice", g.ID, ListDone, "ship", true)
	if err != nil {
		t.Fatalf("toggle ship: %v", err)
	}
	if !view.Done.IsReadyToStart || view.Done.IsReadyToComplete || !view.DoneValidation.Valid || len(view.DoneValidation.Warnings) != 1 {
		t.Errorf("view = %+v", view)
	}

	if _, err := svc.ToggleCriterion(ctx, "alice", g.ID, ListDone, "missing", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing criterion err = %v", err)
	}
	if _, err := ParseCriteriaList("later"); err == nil {
		t.Error("expected error for unknown list")
	}
}

func TestImportGoalCreatesThenReplaces(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	in := testutil.Goal("fixture-1")

	created, err := svc.ImportGoal(ctx, "seed", in)
	if err != nil || !created {
		t.Fatalf("first import = %v, %v", created, err)
	}
	_ = svc.DeleteGoal(ctx, "bob", in.ID, false)

	in.Title = "Imported again"
	created, err = svc.ImportGoal(ctx, "seed", in)
	if err != nil || created {
		t.Fatalf("second import = %v, %v", created, err)
	}
	d, err := svc.GetGoal(ctx, in.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if d.Title != "Imported again" || d.Deleted || d.CreatedBy != "seed" {
		t.Errorf("goal = %+v", d.Goal)
	}
}

func ptr[T any](v T) *T { return &v }

func TestPatchGoalReplacesCriteriaList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	in := testutil.Goal("")
	in.DefinitionOfReady = []models.Criterion{{
		ID:          "c1",
		Description: "Scope agreed",
		Category:    models.CategoryRequired,
		Completed:   true,
		Validation:  &models.ValidationRule{Type: models.RuleRequired},
	}}
	d, err := svc.CreateGoal(ctx, "alice", in)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if c := d.DefinitionOfReady[0]; c.CompletedBy != "alice" || c.CompletedAt == nil || !c.CompletedAt.Equal(testNow) {
		t.Errorf("created criterion = %+v, want completed by alice", c)
	}

	patch := []byte(`{"definitionOfReady":[{"description":"Brand new","category":"optional"}]}`)
	got, err := svc.PatchGoal(ctx, "bob", d.ID, patch, "")
	if err != nil {
		t.Fatalf("PatchGoal: %v", err)
	}
	if len(got.DefinitionOfReady) != 1 {
		t.Fatalf("criteria = %d, want 1", len(got.DefinitionOfReady))
	}
	c := got.DefinitionOfReady[0]
	if c.ID == "" || c.ID == "c1" {
		t.Errorf("id = %q, want a fresh id", c.ID)
	}
	if c.Completed || c.CompletedAt != nil || c.CompletedBy != "" || c.Validation != nil {
		t.Errorf("replacement inherited old state: %+v", c)
	}
	if c.Description != "Brand new" || c.Category != models.CategoryOptional {
		t.Errorf("criterion = %+v", c)
	}
	if got.Title != d.Title || got.Measurable.Unit != "points" {
		t.Errorf("untouched fields changed: %q %+v", got.Title, got.Measurable)
	}
}

func TestPatchGoalCompletesCriterionAsActor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	in := testutil.Goal("")
	in.DefinitionOfDone = []models.Criterion{{ID: "d1", Description: "Shipped", Category: models.CategoryRequired}}
	d, err := svc.CreateGoal(ctx, "alice", in)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	patch := []byte(`{"definitionOfDone":[{"id":"d1","description":"Shipped","category":"required","completed":true}]}`)
	got, err := svc.PatchGoal(ctx, "bob", d.ID, patch, "")
	if err != nil {
		t.Fatalf("PatchGoal: %v", err)
	}
	c := got.DefinitionOfDone[0]
	if c.ID != "d1" || !c.CreatedAt.Equal(testNow) {
		t.Errorf("existing criterion lost its identity: %+v", c)
	}
	if c.CompletedBy != "bob" || c.CompletedAt == nil {
		t.Errorf("completedBy = %q, want bob", c.CompletedBy)
	}
}

func TestPatchTaskReplacesChecklist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	g := newGoal(t, svc)
	tk, err := svc.CreateTask(ctx, "alice", g.ID, models.Task{WorkItem: models.WorkItem{
		Title:     "Write draft",
		Checklist: []models.ChecklistItem{{Description: "Outline", Required: true}, {Description: "Body"}},
	}})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	tk, err = svc.ToggleChecklistItem(ctx, "bob", tk.ID, tk.Checklist[0].ID, true)
	if err != nil {
		t.Fatalf("ToggleChecklistItem: %v", err)
	}
	oldID := tk.Checklist[0].ID

	tk, err = svc.PatchTask(ctx, "bob", tk.ID, []byte(`{"checklist":[{"description":"Review"}]}`))
	if err != nil {
		t.Fatalf("PatchTask: %v", err)
	}
	if len(tk.Checklist) != 1 {
		t.Fatalf("checklist = %d items, want 1", len(tk.Checklist))
	}
	it := tk.Checklist[0]
	if it.ID == "" || it.ID == oldID {
		t.Errorf("id = %q, want a fresh id", it.ID)
	}
	if it.Completed || it.Required || it.CompletedBy != "" {
		t.Errorf("replacement inherited old state: %+v", it)
	}
	if tk.ComputedProgress != 0 {
		t.Errorf("progress = %d, want 0", tk.ComputedProgress)
	}
	if tk.Title != "Write draft" {
		t.Errorf("title = %q", tk.Title)
	}
}

func TestListGoalsPageBeyondRange(t *testing.T) {
	svc, _ := newTestService(t)
	newGoal(t, svc)
	page, err := svc.ListGoals(context.Background(), store.GoalQuery{Page: 1 << 62, Limit: 100})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(page.Items) != 0 || page.HasMore || page.Total != 1 {
		t.Errorf("page = %+v", page)
	}
}
