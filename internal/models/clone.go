package models

import (
	"slices"
	"time"
)

// Clone returns a deep copy of g.
func (g Goal) Clone() Goal {
	g.Tags = slices.Clone(g.Tags)
	g.Outcomes = slices.Clone(g.Outcomes)
	g.Collaborators = slices.Clone(g.Collaborators)
	g.Measurable.Baseline = clonePtr(g.Measurable.Baseline)
	g.Measurable.Min = clonePtr(g.Measurable.Min)
	g.Measurable.Max = clonePtr(g.Measurable.Max)
	g.DeletedAt = clonePtr(g.DeletedAt)
	g.Milestones = slices.Clone(g.Milestones)
	for i := range g.Milestones {
		g.Milestones[i].CompletedAt = clonePtr(g.Milestones[i].CompletedAt)
	}
	g.DefinitionOfReady = cloneCriteria(g.DefinitionOfReady)
	g.DefinitionOfDone = cloneCriteria(g.DefinitionOfDone)
	return g
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.WorkItem = t.WorkItem.clone()
	t.Subtasks = slices.Clone(t.Subtasks)
	for i := range t.Subtasks {
		t.Subtasks[i].WorkItem = t.Subtasks[i].WorkItem.clone()
	}
	return t
}

// Clone returns a deep copy of cp.
func (cp Checkpoint) Clone() Checkpoint {
	cp.Confidence = clonePtr(cp.Confidence)
	return cp
}

func (w WorkItem) clone() WorkItem {
	w.EstimatedHours = clonePtr(w.EstimatedHours)
	w.ActualHours = clonePtr(w.ActualHours)
	w.StartDate = clonePtr(w.StartDate)
	w.DueDate = clonePtr(w.DueDate)
	w.Progress = clonePtr(w.Progress)
	w.Checklist = slices.Clone(w.Checklist)
	for i := range w.Checklist {
		w.Checklist[i].CompletedAt = clonePtr(w.Checklist[i].CompletedAt)
	}
	return w
}

func cloneCriteria(in []Criterion) []Criterion {
	out := slices.Clone(in)
	for i := range out {
		out[i].CompletedAt = clonePtr(out[i].CompletedAt)
		if v := out[i].Validation; v != nil {
			cp := *v
			cp.DependsOn = slices.Clone(v.DependsOn)
			out[i].Validation = &cp
		}
	}
	return out
}

func clonePtr[T float64 | int | time.Time](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
