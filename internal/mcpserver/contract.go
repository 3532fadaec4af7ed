package mcpserver

// SmartGuide describes the SMART goal model, the lifecycle rules and the goal
// fixture format that LLM consumers should follow when importing goals.
const SmartGuide = `# Goalpost SMART Goal Guide

A goal is **S**pecific, **M**easurable, **A**chievable, **R**elevant and
**T**ime-bound. Goalpost enforces the M and T parts and scores readiness with
Definition of Ready (DoR) and Definition of Done (DoD) checklists.

## Lifecycle

Goals: draft -> active | cancelled; active -> on_hold | overdue | completed | cancelled;
on_hold -> active | cancelled; overdue -> active | completed | cancelled.
completed and cancelled are terminal.

Tasks: todo -> in_progress | cancelled; in_progress -> blocked | todo | completed | cancelled;
blocked -> in_progress | cancelled. completed and cancelled are terminal.

Moving into completed or cancelled requires confirmation. Use the
` + "`" + `check_transition` + "`" + ` tool before proposing a status change.

## Fixture format

` + "```" + `markdown
---
id: run-10k                      # REQUIRED, stable across imports
title: Run a 10k                 # REQUIRED, 3-200 characters
status: active                   # draft (default), active, on_hold, overdue, completed, cancelled
priority: high                   # low, medium (default), high, critical
category: health                 # REQUIRED
owner_id: alice                  # defaults to the importing actor
tags: [running]                  # up to 20, each 1-30 characters
achievable: Three runs a week fit my schedule.
relevance: Part of my yearly fitness plan.
measurable:
  target: 10                     # REQUIRED, finite
  current: 2
  baseline: 0                    # optional; defaults to the earliest checkpoint
  unit: km
  direction: increase            # increase (default), decrease, maintain
  min: 0                         # maintain goals: acceptable band
  max: 12
timebound:
  start_date: 2026-01-01         # REQUIRED
  target_date: 2026-06-30        # REQUIRED, after start_date
milestones:
  - id: m1
    title: First 5k
    target_date: 2026-03-01
definition_of_ready:
  - id: plan
    description: Training plan written
    category: required           # required, recommended, optional
definition_of_done:
  - id: race
    description: Finish an official race
    category: required
    validation:
      type: dependency           # required, dependency, conditional
      depends_on: [plan]
---

Free-form Markdown description (up to 5000 characters).
` + "```" + `

## Rules

1. Importing a fixture whose id already exists replaces that goal and revives
   it if it was deleted. Creation stamps and task/checkpoint history are kept.
2. A goal is ready to start when every required DoR criterion is complete,
   and ready to complete when every DoD criterion is complete.
3. A criterion with a dependency rule cannot be completed before the criteria
   it depends on.
4. Progress is measured from the baseline toward the target; maintain goals
   score 100 while current stays within min..max.
5. Task acceptance criteria use Gherkin: at least one Given, When and Then
   line each. Check with the ` + "`" + `validate_gherkin` + "`" + ` tool.
`
