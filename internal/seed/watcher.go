package seed

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last fixture event before syncing.
const DefaultDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the fixture root and re-syncs after
// fixture changes until ctx is cancelled. Bursts of events (editors writing
// through temp files, renames) collapse into one Sync after debounce.
//
// New directories created at runtime are added to the watch list.
func (s *Syncer) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := s.dir.Root()
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	s.logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-fire:
			st, err := s.Sync(ctx)
			if err != nil {
				s.logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
				continue
			}
			s.logger.Debug("watcher: synced",
				slog.Int("created", st.Created),
				slog.Int("updated", st.Updated),
				slog.Int("removed", st.Removed),
				slog.Int("failed", st.Failed))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						s.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".md") || ev.Op == fsnotify.Chmod {
				continue
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
