// Package metrics analyzes a goal's measurable value over its checkpoint series:
// percent-of-target progress, velocity, on-track classification and trend statistics.
package metrics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/starford/goalpost/internal/models"
)

const day = 24 * time.Hour

// SortByTime returns the checkpoints ordered by RecordedAt, then ID.
func SortByTime(cps []models.Checkpoint) []models.Checkpoint {
	out := slices.Clone(cps)
	slices.SortStableFunc(out, func(a, b models.Checkpoint) int {
		return cmp.Or(a.RecordedAt.Compare(b.RecordedAt), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// Window keeps checkpoints recorded within [from, to], sorted by time.
// A zero bound is open.
func Window(cps []models.Checkpoint, from, to time.Time) []models.Checkpoint {
	out := make([]models.Checkpoint, 0, len(cps))
	for _, cp := range cps {
		if !from.IsZero() && cp.RecordedAt.Before(from) {
			continue
		}
		if !to.IsZero() && cp.RecordedAt.After(to) {
			continue
		}
		out = append(out, cp)
	}
	return SortByTime(out)
}

// Baseline is the explicit baseline, else the earliest checkpoint value, else 0.
func Baseline(m models.MeasurableSpec, cps []models.Checkpoint) float64 {
	if m.Baseline != nil {
		return *m.Baseline
	}
	if len(cps) > 0 {
		return SortByTime(cps)[0].Value
	}
	return 0
}

// ProgressPercent is how far the current value has come toward the target, in [0, 100].
//
// Increase and decrease measure the distance closed from baseline to target; a
// zero-width range yields 0. Maintain measures how close current sits to the
// target: inside the [min, max] band is 100, outside it decays with distance
// relative to the band width (or to the target itself when no band is set). A
// band with one bound is open on the other side and decays relative to the
// bound's magnitude.
func ProgressPercent(m models.MeasurableSpec, cps []models.Checkpoint) float64 {
	base := Baseline(m, cps)
	switch m.Direction {
	case models.DirectionDecrease:
		span := base - m.Target
		if span == 0 {
			return 0
		}
		return clamp((base - m.Current) / span * 100)
	case models.DirectionMaintain:
		return maintainProgress(m)
	default:
		span := m.Target - base
		if span == 0 {
			return 0
		}
		return clamp((m.Current - base) / span * 100)
	}
}

func maintainProgress(m models.MeasurableSpec) float64 {
	switch {
	case m.Min != nil && m.Max != nil:
		lo, hi := *m.Min, *m.Max
		if m.Current >= lo && m.Current <= hi {
			return 100
		}
		width := hi - lo
		if width <= 0 {
			return 0
		}
		dist := lo - m.Current
		if m.Current > hi {
			dist = m.Current - hi
		}
		return clamp(100 - dist/width*100)
	case m.Min != nil:
		if m.Current >= *m.Min {
			return 100
		}
		return boundProgress(*m.Min-m.Current, *m.Min, m.Target)
	case m.Max != nil:
		if m.Current <= *m.Max {
			return 100
		}
		return boundProgress(m.Current-*m.Max, *m.Max, m.Target)
	}
	if m.Target == 0 {
		if m.Current == 0 {
			return 100
		}
		return 0
	}
	return clamp(100 - math.Abs(m.Current-m.Target)/math.Abs(m.Target)*100)
}

// boundProgress decays with the distance past a single bound, scaled by the
// bound's magnitude, or the target's when the bound is zero.
func boundProgress(dist, bound, target float64) float64 {
	scale := math.Abs(bound)
	if scale == 0 {
		scale = math.Abs(target)
	}
	if scale == 0 {
		return 0
	}
	return clamp(100 - dist/scale*100)
}

// Velocity is the value change per day between the earliest and latest checkpoints.
// Fewer than two checkpoints, or extremes sharing a timestamp, give 0.
func Velocity(cps []models.Checkpoint) float64 {
	if len(cps) < 2 {
		return 0
	}
	first, last := cps[0], cps[0]
	for _, cp := range cps[1:] {
		if cp.RecordedAt.Before(first.RecordedAt) {
			first = cp
		}
		if cp.RecordedAt.After(last.RecordedAt) {
			last = cp
		}
	}
	days := last.RecordedAt.Sub(first.RecordedAt).Hours() / 24
	if days == 0 {
		return 0
	}
	return (last.Value - first.Value) / days
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
