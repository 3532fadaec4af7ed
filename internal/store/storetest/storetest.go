// Package storetest is a behavioural test suite every store.Store implementation must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/testutil"
)

// Run executes the suite against fresh stores returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("GoalCRUD", func(t *testing.T) { testGoalCRUD(t, newStore(t)) })
	t.Run("ListFilterSortPage", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("SoftDeletedHidden", func(t *testing.T) { testSoftDeleted(t, newStore(t)) })
	t.Run("HardDeleteCascades", func(t *testing.T) { testCascade(t, newStore(t)) })
	t.Run("TaskCRUD", func(t *testing.T) { testTaskCRUD(t, newStore(t)) })
	t.Run("CheckpointOrder", func(t *testing.T) { testCheckpoints(t, newStore(t)) })
	t.Run("ReturnedValuesAreCopies", func(t *testing.T) { testCopies(t, newStore(t)) })
}

func mustCreateGoal(t *testing.T, s store.Store, g models.Goal) {
	t.Helper()
	if err := s.CreateGoal(context.Background(), &g); err != nil {
		t.Fatalf("CreateGoal(%s): %v", g.ID, err)
	}
}

func testGoalCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := testutil.Goal("g1")
	g.Tags = []string{"fitness"}
	mustCreateGoal(t, s, g)

	if err := s.CreateGoal(ctx, &g); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("duplicate create err = %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetGoal(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.Title != g.Title || len(got.Tags) != 1 || got.Tags[0] != "fitness" {
		t.Errorf("got %+v", got)
	}

	got.Title = "Renamed"
	if err := s.UpdateGoal(ctx, got); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	again, _ := s.GetGoal(ctx, "g1")
	if again.Title != "Renamed" {
		t.Errorf("title = %q, want %q", again.Title, "Renamed")
	}

	missing := testutil.Goal("nope")
	if err := s.UpdateGoal(ctx, &missing); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetGoal(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get missing err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteGoal(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete missing err = %v, want ErrNotFound", err)
	}
}

func testList(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i, spec := range []struct {
		id, title string
		status    models.GoalStatus
		priority  models.Priority
		tags      []string
	}{
		{"a", "Learn Go", models.GoalActive, models.PriorityHigh, []string{"study"}},
		{"b", "Run a marathon", models.GoalActive, models.PriorityLow, []string{"fitness", "outdoor"}},
		{"c", "Read books", models.GoalDraft, models.PriorityCritical, []string{"study"}},
		{"d", "Save money", models.GoalOnHold, models.PriorityMedium, nil},
	} {
		g := testutil.Goal(spec.id)
		g.Title = spec.title
		g.Status = spec.status
		g.Priority = spec.priority
		g.Tags = spec.tags
		g.Normalize()
		g.CreatedAt = testutil.Epoch.AddDate(0, 0, i)
		g.Timebound.TargetDate = testutil.Epoch.AddDate(0, i+1, 0)
		mustCreateGoal(t, s, g)
	}

	ids := func(goals []models.Goal) string {
		out := ""
		for _, g := range goals {
			out += g.ID
		}
		return out
	}

	goals, total, err := s.ListGoals(ctx, store.GoalQuery{})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if total != 4 || ids(goals) != "dcba" {
		t.Errorf("default list = %s (total %d), want dcba (4)", ids(goals), total)
	}

	goals, total, _ = s.ListGoals(ctx, store.GoalQuery{Statuses: []models.GoalStatus{models.GoalActive}, SortField: store.SortTitle, SortDirection: store.Asc})
	if total != 2 || ids(goals) != "ab" {
		t.Errorf("active by title = %s (total %d), want ab (2)", ids(goals), total)
	}

	goals, _, _ = s.ListGoals(ctx, store.GoalQuery{SortField: store.SortPriority, SortDirection: store.Desc})
	if ids(goals) != "cadb" {
		t.Errorf("by priority desc = %s, want cadb", ids(goals))
	}

	goals, _, _ = s.ListGoals(ctx, store.GoalQuery{Tags: []string{"study", "outdoor"}, SortField: store.SortCreatedAt, SortDirection: store.Asc})
	if ids(goals) != "abc" {
		t.Errorf("tags any-of = %s, want abc", ids(goals))
	}

	goals, _, _ = s.ListGoals(ctx, store.GoalQuery{Search: "marathon"})
	if ids(goals) != "b" {
		t.Errorf("search = %s, want b", ids(goals))
	}

	from := testutil.Epoch.AddDate(0, 2, 0)
	to := testutil.Epoch.AddDate(0, 3, 0)
	goals, _, _ = s.ListGoals(ctx, store.GoalQuery{TargetFrom: &from, TargetTo: &to, SortDirection: store.Asc})
	if ids(goals) != "bc" {
		t.Errorf("target range = %s, want bc", ids(goals))
	}

	goals, total, _ = s.ListGoals(ctx, store.GoalQuery{Page: 2, Limit: 3, SortDirection: store.Asc})
	if total != 4 || ids(goals) != "d" {
		t.Errorf("page 2 = %s (total %d), want d (4)", ids(goals), total)
	}

	goals, _, _ = s.ListGoals(ctx, store.GoalQuery{Page: 5, Limit: 3})
	if len(goals) != 0 {
		t.Errorf("past last page returned %d goals", len(goals))
	}

	goals, total, err = s.ListGoals(ctx, store.GoalQuery{Page: 1 << 62, Limit: store.MaxLimit})
	if err != nil || len(goals) != 0 || total != 4 {
		t.Errorf("huge page = %d goals (total %d), err %v", len(goals), total, err)
	}
}

func testSoftDeleted(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := testutil.Goal("g1")
	g.Deleted = true
	mustCreateGoal(t, s, g)
	mustCreateGoal(t, s, testutil.Goal("g2"))

	_, total, _ := s.ListGoals(ctx, store.GoalQuery{})
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	_, total, _ = s.ListGoals(ctx, store.GoalQuery{IncludeDeleted: true})
	if total != 2 {
		t.Errorf("total with deleted = %d, want 2", total)
	}
	got, err := s.GetGoal(ctx, "g1")
	if err != nil || !got.Deleted {
		t.Errorf("GetGoal soft-deleted = %+v, %v", got, err)
	}
}

func testCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreateGoal(t, s, testutil.Goal("g1"))
	mustCreateGoal(t, s, testutil.Goal("g2"))
	for _, tk := range []models.Task{testutil.Task("t1", "g1"), testutil.Task("t2", "g2")} {
		if err := s.CreateTask(ctx, &tk); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}
	cp := testutil.Checkpoint("c1", "g1", 10, 1)
	if err := s.CreateCheckpoint(ctx, &cp); err != nil {
		t.Fatalf("CreateCheckpoint: %v", err)
	}

	if err := s.DeleteGoal(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if _, err := s.GetTask(ctx, "t1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("task after cascade err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetCheckpoint(ctx, "c1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("checkpoint after cascade err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetTask(ctx, "t2"); err != nil {
		t.Errorf("unrelated task removed: %v", err)
	}
}

func testTaskCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreateGoal(t, s, testutil.Goal("g1"))

	orphan := testutil.Task("t0", "missing")
	if err := s.CreateTask(ctx, &orphan); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("orphan task err = %v, want ErrNotFound", err)
	}

	t1 := testutil.Task("t1", "g1")
	t1.Checklist = []models.ChecklistItem{{ID: "c1", Description: "one", Required: true}}
	t1.Subtasks = []models.Subtask{{WorkItem: models.WorkItem{ID: "s1", Title: "sub", Status: models.TaskTodo, Priority: models.PriorityLow}, ParentID: "t1"}}
	t2 := testutil.Task("t2", "g1")
	t2.CreatedAt = t1.CreatedAt.Add(-1)
	for _, tk := range []models.Task{t1, t2} {
		if err := s.CreateTask(ctx, &tk); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	tasks, err := s.ListTasks(ctx, "g1")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t2" || tasks[1].ID != "t1" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if len(tasks[1].Subtasks) != 1 || tasks[1].Subtasks[0].ParentID != "t1" || len(tasks[1].Checklist) != 1 {
		t.Errorf("nested data lost: %+v", tasks[1])
	}

	tasks[1].Status = models.TaskInProgress
	if err := s.UpdateTask(ctx, &tasks[1]); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, _ := s.GetTask(ctx, "t1")
	if got.Status != models.TaskInProgress {
		t.Errorf("status = %s, want in_progress", got.Status)
	}

	if err := s.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := s.DeleteTask(ctx, "t1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func testCheckpoints(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreateGoal(t, s, testutil.Goal("g1"))
	for _, cp := range []models.Checkpoint{
		testutil.Checkpoint("late", "g1", 30, 10),
		testutil.Checkpoint("early", "g1", 10, 1),
		testutil.Checkpoint("mid", "g1", 20, 5),
	} {
		if err := s.CreateCheckpoint(ctx, &cp); err != nil {
			t.Fatalf("CreateCheckpoint: %v", err)
		}
	}
	cps, err := s.ListCheckpoints(ctx, "g1")
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if len(cps) != 3 || cps[0].ID != "early" || cps[2].ID != "late" {
		t.Fatalf("order = %+v", cps)
	}

	cps[0].RecordedAt = testutil.Epoch.AddDate(0, 0, 20)
	if err := s.UpdateCheckpoint(ctx, &cps[0]); err != nil {
		t.Fatalf("UpdateCheckpoint: %v", err)
	}
	cps, _ = s.ListCheckpoints(ctx, "g1")
	if cps[2].ID != "early" {
		t.Errorf("reordered last = %s, want early", cps[2].ID)
	}

	if err := s.DeleteCheckpoint(ctx, "mid"); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}
	if _, err := s.GetCheckpoint(ctx, "mid"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted checkpoint err = %v", err)
	}
}

func testCopies(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := testutil.Goal("g1")
	g.Tags = []string{"x"}
	mustCreateGoal(t, s, g)
	g.Tags[0] = "mutated"

	got, _ := s.GetGoal(ctx, "g1")
	got.Tags[0] = "also mutated"

	again, _ := s.GetGoal(ctx, "g1")
	if again.Tags[0] != "x" {
		t.Errorf("tag = %q, want x", again.Tags[0])
	}
}
