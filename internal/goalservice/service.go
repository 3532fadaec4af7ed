// Package goalservice coordinates validation, rule evaluation and persistence for
// goals, tasks, criteria and checkpoints.
package goalservice

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/checksum"
	"github.com/starford/goalpost/internal/metrics"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/sse"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/store"
)

// Publisher receives change notifications. *sse.Broker satisfies it.
type Publisher interface {
	PublishChange(c sse.Change)
}

// Service is the single entry point for mutations and derived views.
type Service struct {
	store    store.Store
	analyzer *metrics.Analyzer
	events   Publisher
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sends change events to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock overrides the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides entity ID generation.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New creates a service over st. A nil analyzer uses default thresholds.
func New(st store.Store, analyzer *metrics.Analyzer, opts ...Option) *Service {
	if analyzer == nil {
		analyzer = metrics.NewAnalyzer(metrics.DefaultThresholds())
	}
	s := &Service{
		store:    st,
		analyzer: analyzer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Analyzer exposes the configured metric analyzer.
func (s *Service) Analyzer() *metrics.Analyzer { return s.analyzer }

func (s *Service) stamp() time.Time { return s.now().UTC() }

func (s *Service) publish(entity, action, id, goalID string) {
	if s.events == nil {
		return
	}
	s.events.PublishChange(sse.Change{Entity: entity, Action: action, ID: id, GoalID: goalID})
}

// ConfirmationError reports a transition that needs explicit confirmation.
// It matches apperr.ErrConfirmationRequired with errors.Is.
type ConfirmationError struct {
	Confirmation status.Confirmation
}

func (e *ConfirmationError) Error() string { return e.Confirmation.Message }

func (e *ConfirmationError) Unwrap() error { return apperr.ErrConfirmationRequired }

func invalidTransition(kind string, from, to any) error {
	return fmt.Errorf("cannot move %s from %q to %q: %w", kind, from, to, apperr.ErrInvalidTransition)
}

// ETag returns the strong validator for a goal document.
func ETag(g *models.Goal) string {
	sum, err := checksum.Of(g)
	if err != nil {
		return ""
	}
	return sum
}

func checkETag(g *models.Goal, ifMatch string) error {
	ifMatch = strings.Trim(strings.TrimPrefix(strings.TrimSpace(ifMatch), "W/"), `"`)
	if ifMatch == "" || ifMatch == "*" {
		return nil
	}
	if ifMatch != ETag(g) {
		return fmt.Errorf("goal %q was modified: %w", g.ID, apperr.ErrConflict)
	}
	return nil
}

// mergePatch applies a JSON object onto dst. Absent keys keep their values,
// objects merge field by field and arrays replace the whole list.
func mergePatch(dst any, patch []byte) error {
	if len(patch) == 0 {
		return nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(patch, &keys); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrBadRequest, err)
	}
	resetLists(reflect.ValueOf(dst).Elem(), keys)
	if err := json.Unmarshal(patch, dst); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrBadRequest, err)
	}
	return nil
}

// resetLists zeroes the slice fields of v named by keys. encoding/json decodes
// array elements into the existing ones by position, which would carry old IDs
// and completion state into the replacement entries.
func resetLists(v reflect.Value, keys map[string]json.RawMessage) {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			resetLists(v.Field(i), keys)
			continue
		}
		if f.Type.Kind() != reflect.Slice || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		for k := range keys {
			// encoding/json matches keys case-insensitively.
			if strings.EqualFold(k, name) {
				v.Field(i).SetZero()
				break
			}
		}
	}
}

// goalFor loads a live goal, mapping soft deletion to apperr.ErrGone.
func (s *Service) goalFor(ctx context.Context, id string) (*models.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Deleted {
		return nil, apperr.Gone("goal", id)
	}
	g.Normalize()
	return g, nil
}
