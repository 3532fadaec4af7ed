package metrics

import (
	"math"
	"time"

	"github.com/starford/goalpost/internal/models"
)

// Status classifies a goal's pace toward its target.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusOnTrack    Status = "ON_TRACK"
	StatusAtRisk     Status = "AT_RISK"
	StatusOffTrack   Status = "OFF_TRACK"
	StatusCompleted  Status = "COMPLETED"
)

// Trend direction labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Thresholds tune classification and statistics.
type Thresholds struct {
	// OnTrackRatio is the share of required velocity that counts as on track.
	OnTrackRatio float64
	// AtRiskRatio is the share of required velocity below which a goal is off track.
	AtRiskRatio float64
	// OutlierSigma flags values further than this many standard deviations from the mean.
	OutlierSigma float64
	// TrendEpsilon is the slope magnitude (per day) under which a series is stable.
	TrendEpsilon float64
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OnTrackRatio: 1.0,
		AtRiskRatio:  0.5,
		OutlierSigma: 2,
		TrendEpsilon: 0.01,
	}
}

// Analyzer evaluates checkpoint series against a clock and thresholds.
type Analyzer struct {
	th  Thresholds
	now func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the analyzer's notion of now.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(th Thresholds, opts ...Option) *Analyzer {
	a := &Analyzer{th: th, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Thresholds returns the analyzer's tuning.
func (a *Analyzer) Thresholds() Thresholds {
	return a.th
}

// RequiredVelocity is the value change per day, in the direction of the target,
// needed to reach it by targetDate. ok is false without a target date.
// A target date already passed yields +Inf.
func (a *Analyzer) RequiredVelocity(m models.MeasurableSpec, targetDate time.Time) (v float64, ok bool) {
	if targetDate.IsZero() {
		return 0, false
	}
	remaining := math.Abs(m.Target - m.Current)
	daysLeft := targetDate.Sub(a.now()).Hours() / 24
	if daysLeft <= 0 {
		if remaining == 0 {
			return 0, true
		}
		return math.Inf(1), true
	}
	return remaining / daysLeft, true
}

// towardTarget projects a raw velocity onto the direction of the target:
// positive means the value is moving toward it.
func towardTarget(m models.MeasurableSpec, velocity float64) float64 {
	switch {
	case m.Target > m.Current:
		return velocity
	case m.Target < m.Current:
		return -velocity
	}
	return 0
}

// Classify maps progress and velocity to a Status.
//
// Without a target date any partial progress is on track. Otherwise the
// velocity toward the target is compared with the required velocity.
func (a *Analyzer) Classify(progress, velocity float64, m models.MeasurableSpec, targetDate time.Time) Status {
	if progress >= 100 {
		return StatusCompleted
	}
	if progress <= 0 {
		return StatusNotStarted
	}
	required, ok := a.RequiredVelocity(m, targetDate)
	if !ok || required == 0 {
		return StatusOnTrack
	}
	actual := towardTarget(m, velocity)
	switch {
	case actual >= required*a.th.OnTrackRatio:
		return StatusOnTrack
	case actual >= required*a.th.AtRiskRatio:
		return StatusAtRisk
	}
	return StatusOffTrack
}

// Stats summarizes a checkpoint series.
type Stats struct {
	Count    int                 `json:"count"`
	Mean     float64             `json:"mean"`
	Min      float64             `json:"min"`
	Max      float64             `json:"max"`
	StdDev   float64             `json:"stdDev"`
	Slope    float64             `json:"slope"`
	Trend    string              `json:"trend"`
	Outliers []models.Checkpoint `json:"outliers"`
}

// Trend computes descriptive statistics and a least-squares slope (value per day).
// Outliers are flagged, never removed.
func (a *Analyzer) Trend(cps []models.Checkpoint) Stats {
	st := Stats{Trend: TrendStable, Outliers: []models.Checkpoint{}}
	if len(cps) == 0 {
		return st
	}
	sorted := SortByTime(cps)
	n := float64(len(sorted))
	st.Count = len(sorted)
	st.Min, st.Max = sorted[0].Value, sorted[0].Value

	var sum float64
	for _, cp := range sorted {
		sum += cp.Value
		st.Min = math.Min(st.Min, cp.Value)
		st.Max = math.Max(st.Max, cp.Value)
	}
	st.Mean = sum / n

	var sq float64
	for _, cp := range sorted {
		d := cp.Value - st.Mean
		sq += d * d
	}
	st.StdDev = math.Sqrt(sq / n)

	st.Slope = slope(sorted)
	switch {
	case st.Slope > a.th.TrendEpsilon:
		st.Trend = TrendIncreasing
	case st.Slope < -a.th.TrendEpsilon:
		st.Trend = TrendDecreasing
	}

	if st.StdDev > 0 {
		limit := a.th.OutlierSigma * st.StdDev
		for _, cp := range sorted {
			if math.Abs(cp.Value-st.Mean) > limit {
				st.Outliers = append(st.Outliers, cp)
			}
		}
	}
	return st
}

// slope fits value = a + b*days by least squares over a time-sorted series.
func slope(sorted []models.Checkpoint) float64 {
	if len(sorted) < 2 {
		return 0
	}
	origin := sorted[0].RecordedAt
	n := float64(len(sorted))
	var sx, sy, sxx, sxy float64
	for _, cp := range sorted {
		x := cp.RecordedAt.Sub(origin).Hours() / 24
		sx += x
		sy += cp.Value
		sxx += x * x
		sxy += x * cp.Value
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

// Snapshot is the analytics view of a goal's metric.
type Snapshot struct {
	Current             float64          `json:"current"`
	Target              float64          `json:"target"`
	Baseline            float64          `json:"baseline"`
	Unit                string           `json:"unit"`
	Direction           models.Direction `json:"direction"`
	Progress            float64          `json:"progress"`
	Velocity            float64          `json:"velocity"`
	RequiredVelocity    *float64         `json:"requiredVelocity,omitempty"`
	Status              Status           `json:"status"`
	ChangeAmount        *float64         `json:"changeAmount,omitempty"`
	ChangePercent       *float64         `json:"changePercent,omitempty"`
	EstimatedCompletion *time.Time       `json:"estimatedCompletion,omitempty"`
	CheckpointCount     int              `json:"checkpointCount"`
	LastRecordedAt      *time.Time       `json:"lastRecordedAt,omitempty"`
	Stats               Stats            `json:"stats"`
}

// Snapshot evaluates the measurable spec against its checkpoints.
func (a *Analyzer) Snapshot(m models.MeasurableSpec, tb models.TimeboundSpec, cps []models.Checkpoint) Snapshot {
	sorted := SortByTime(cps)
	progress := ProgressPercent(m, sorted)
	velocity := Velocity(sorted)

	snap := Snapshot{
		Current:         m.Current,
		Target:          m.Target,
		Baseline:        Baseline(m, sorted),
		Unit:            m.Unit,
		Direction:       m.Direction,
		Progress:        progress,
		Velocity:        velocity,
		Status:          a.Classify(progress, velocity, m, tb.TargetDate),
		CheckpointCount: len(sorted),
		Stats:           a.Trend(sorted),
	}
	if req, ok := a.RequiredVelocity(m, tb.TargetDate); ok && !math.IsInf(req, 0) {
		snap.RequiredVelocity = &req
	}

	if n := len(sorted); n > 0 {
		last := sorted[n-1]
		at := last.RecordedAt
		snap.LastRecordedAt = &at
		if n > 1 {
			prev := sorted[n-2]
			amount := last.Value - prev.Value
			snap.ChangeAmount = &amount
			if prev.Value != 0 {
				pct := amount / math.Abs(prev.Value) * 100
				snap.ChangePercent = &pct
			}
		}
	}

	snap.EstimatedCompletion = a.estimateCompletion(m, progress, velocity, snap.LastRecordedAt)
	return snap
}

// maxEstimateDays is the longest horizon a time.Duration can express.
const maxEstimateDays = float64(math.MaxInt64 / int64(day))

// estimateCompletion extrapolates the date the target is reached at the current
// velocity. It is undefined while short of target with non-positive velocity,
// or when the target lies beyond maxEstimateDays.
func (a *Analyzer) estimateCompletion(m models.MeasurableSpec, progress, velocity float64, last *time.Time) *time.Time {
	if progress >= 100 {
		if last != nil {
			t := *last
			return &t
		}
		t := a.now()
		return &t
	}
	toward := towardTarget(m, velocity)
	if toward <= 0 {
		return nil
	}
	days := math.Abs(m.Target-m.Current) / toward
	if days >= maxEstimateDays {
		return nil
	}
	t := a.now().Add(time.Duration(days * float64(day)))
	return &t
}
