// Package testutil provides shared test helpers: temporary stores and valid fixtures.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/store/sqlite"
)

// Epoch is the fixed creation time used by fixtures.
var Epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// TestSQLite creates a temporary SQLite store that is automatically cleaned up.
func TestSQLite(t *testing.T) *sqlite.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "goalpost-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := sqlite.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestMemory returns an empty in-memory store.
func TestMemory(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory()
}

// Goal returns a valid draft goal with the given ID.
func Goal(id string) models.Goal {
	g := models.Goal{
		ID:       id,
		Title:    "Goal " + id,
		Status:   models.GoalDraft,
		Priority: models.PriorityMedium,
		Category: "work",
		OwnerID:  "u1",
		Measurable: models.MeasurableSpec{
			Target: 100, Current: 0, Unit: "points", Direction: models.DirectionIncrease,
		},
		Timebound: models.TimeboundSpec{StartDate: Epoch, TargetDate: Epoch.AddDate(0, 3, 0)},
		Audit:     models.Audit{CreatedAt: Epoch, UpdatedAt: Epoch, CreatedBy: "u1", UpdatedBy: "u1"},
	}
	g.Normalize()
	return g
}

// Task returns a valid todo task under goalID.
func Task(id, goalID string) models.Task {
	t := models.Task{
		WorkItem: models.WorkItem{
			ID:       id,
			Title:    "Task " + id,
			Status:   models.TaskTodo,
			Priority: models.PriorityMedium,
			Audit:    models.Audit{CreatedAt: Epoch, UpdatedAt: Epoch, CreatedBy: "u1", UpdatedBy: "u1"},
		},
		GoalID: goalID,
	}
	t.Normalize()
	return t
}

// Checkpoint returns a checkpoint recorded days after Epoch.
func Checkpoint(id, goalID string, value float64, days int) models.Checkpoint {
	return models.Checkpoint{
		ID:         id,
		GoalID:     goalID,
		Value:      value,
		RecordedAt: Epoch.AddDate(0, 0, days),
		Audit:      models.Audit{CreatedAt: Epoch, UpdatedAt: Epoch, CreatedBy: "u1", UpdatedBy: "u1"},
	}
}
