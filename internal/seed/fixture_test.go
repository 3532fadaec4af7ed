package seed

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/goalpost/internal/models"
)

const runFixture = `---
id: run-10k
title: Run a 10k
status: active
priority: high
category: health
owner_id: alice
tags:
  - running
measurable:
  target: 10
  current: 2
  unit: km
  direction: increase
timebound:
  start_date: 2026-01-01
  target_date: 2026-06-30
definition_of_done:
  - id: race
    description: Finish an official race
    category: required
    completed: false
---
Build up weekly mileage.
`

func TestParseFixture(t *testing.T) {
	g, err := Parse([]byte(runFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ID != "run-10k" || g.Title != "Run a 10k" {
		t.Errorf("id/title = %q/%q", g.ID, g.Title)
	}
	if g.Status != models.GoalActive || g.Priority != models.PriorityHigh {
		t.Errorf("status/priority = %q/%q", g.Status, g.Priority)
	}
	if g.Measurable.Target != 10 || g.Measurable.Unit != "km" {
		t.Errorf("measurable = %+v", g.Measurable)
	}
	wantStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !g.Timebound.StartDate.Equal(wantStart) {
		t.Errorf("start = %v, want %v", g.Timebound.StartDate, wantStart)
	}
	if len(g.DefinitionOfDone) != 1 || g.DefinitionOfDone[0].Category != models.CategoryRequired {
		t.Errorf("dod = %+v", g.DefinitionOfDone)
	}
	if g.Description != "Build up weekly mileage." {
		t.Errorf("description = %q", g.Description)
	}
	if g.Outcomes == nil || g.Milestones == nil {
		t.Error("collections should be normalized to empty slices")
	}
}

func TestParseFixtureErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no frontmatter", "# Just a heading\n"},
		{"unclosed", "---\nid: x\n"},
		{"invalid yaml", "---\n: invalid: yaml: {{{\n---\nBody\n"},
		{"missing id", "---\ntitle: No id\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Parse([]byte("plain"))
	if !errors.Is(err, ErrNoFrontmatter) {
		t.Errorf("err = %v, want ErrNoFrontmatter", err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	g, err := Parse([]byte(runFixture))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Format(g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, data)
	}
	if back.ID != g.ID || back.Title != g.Title || back.Description != g.Description {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if !back.Timebound.TargetDate.Equal(g.Timebound.TargetDate) {
		t.Errorf("target date = %v, want %v", back.Timebound.TargetDate, g.Timebound.TargetDate)
	}
	if len(back.DefinitionOfDone) != 1 || back.DefinitionOfDone[0].ID != "race" {
		t.Errorf("dod = %+v", back.DefinitionOfDone)
	}
}
