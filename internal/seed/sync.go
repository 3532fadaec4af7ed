package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/goalpost/internal/apperr"
	"github.com/starford/goalpost/internal/goalservice"
	"github.com/starford/goalpost/internal/models"
	"github.com/starford/goalpost/internal/store"
)

// Actor is recorded as the author of every fixture-driven change.
const Actor = "seed"

// Importer is the part of the goal service a Syncer drives.
// *goalservice.Service satisfies it.
type Importer interface {
	ImportGoal(ctx context.Context, actor string, g models.Goal) (bool, error)
	DeleteGoal(ctx context.Context, actor, id string, permanent bool) error
}

type tracked struct {
	checksum string
	goalID   string
}

// Syncer mirrors a fixture directory into the goal service.
type Syncer struct {
	dir    *Dir
	imp    Importer
	logger *slog.Logger

	mu    sync.Mutex
	files map[string]tracked
}

// NewSyncer creates a Syncer. A nil logger discards output.
func NewSyncer(dir *Dir, imp Importer, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Syncer{dir: dir, imp: imp, logger: logger, files: make(map[string]tracked)}
}

// Dir returns the fixture directory the syncer reads.
func (s *Syncer) Dir() *Dir { return s.dir }

// Stats summarizes one Sync pass.
type Stats struct {
	Created   int
	Updated   int
	Removed   int
	Unchanged int
	Failed    int
}

// Sync walks the fixture directory and brings the goal service up to date:
//   - new/changed fixtures are parsed and imported
//   - goals whose fixture vanished are soft-deleted
//
// A fixture that fails to parse or validate is logged and skipped; the pass
// continues.
func (s *Syncer) Sync(ctx context.Context) (Stats, error) {
	var st Stats
	entries, err := s.dir.List()
	if err != nil {
		return st, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	disk := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		disk[e.Path] = struct{}{}

		if prev, ok := s.files[e.Path]; ok && prev.checksum == e.Checksum {
			st.Unchanged++
			continue
		}

		created, goalID, err := s.importFile(ctx, e.Path)
		if err != nil {
			st.Failed++
			s.logger.Warn("sync: import failed", slog.String("path", e.Path), slog.String("error", err.Error()))
			continue
		}
		if prev, ok := s.files[e.Path]; ok && prev.goalID != goalID {
			s.removeGoal(ctx, e.Path, prev.goalID)
		}
		s.files[e.Path] = tracked{checksum: e.Checksum, goalID: goalID}
		if created {
			st.Created++
		} else {
			st.Updated++
		}
		s.logger.Debug("sync: imported", slog.String("path", e.Path), slog.String("goal_id", goalID))
	}

	// Remove goals whose fixture is gone.
	for p, t := range s.files {
		if _, ok := disk[p]; ok {
			continue
		}
		delete(s.files, p)
		if s.removeGoal(ctx, p, t.goalID) {
			st.Removed++
		}
	}

	return st, nil
}

func (s *Syncer) importFile(ctx context.Context, path string) (bool, string, error) {
	data, err := s.dir.Read(path)
	if err != nil {
		return false, "", err
	}
	g, err := Parse(data)
	if err != nil {
		return false, "", err
	}
	created, err := s.imp.ImportGoal(ctx, Actor, *g)
	if err != nil {
		return false, "", err
	}
	return created, g.ID, nil
}

// removeGoal soft-deletes goalID unless another tracked fixture still owns it.
func (s *Syncer) removeGoal(ctx context.Context, path, goalID string) bool {
	for p, t := range s.files {
		if p != path && t.goalID == goalID {
			return false
		}
	}
	err := s.imp.DeleteGoal(ctx, Actor, goalID, false)
	switch {
	case err == nil:
		s.logger.Debug("sync: removed", slog.String("path", path), slog.String("goal_id", goalID))
		return true
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrGone):
		return false
	default:
		s.logger.Warn("sync: delete failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
}

// Export writes every live goal in svc to dir as <id>.md fixtures and returns
// the number written.
func Export(ctx context.Context, svc *goalservice.Service, dir *Dir) (int, error) {
	q := store.GoalQuery{Limit: store.MaxLimit}.WithDefaults()
	n := 0
	for {
		page, err := svc.ListGoals(ctx, q)
		if err != nil {
			return n, err
		}
		for _, item := range page.Items {
			data, err := Format(&item)
			if err != nil {
				return n, err
			}
			if err := dir.Write(item.ID+".md", data); err != nil {
				return n, fmt.Errorf("seed: export %s: %w", item.ID, err)
			}
			n++
		}
		if !page.HasMore {
			return n, nil
		}
		q.Page++
	}
}
