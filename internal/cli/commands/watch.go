package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sketchlink/internal/cli/output"
)

// watchDebounce delays a re-run until a burst of file events settles.
const watchDebounce = 100 * time.Millisecond

// watchSet is the set of input files a watch reacts to.
type watchSet map[string]bool

func newWatchSet(paths []string) (watchSet, error) {
	set := make(watchSet, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		set[abs] = true
	}
	return set, nil
}

// Dirs returns the directories holding the watched files. Editors often
// replace files on save, so directories are watched instead of files.
func (s watchSet) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for p := range s {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Matches reports whether ev touches a watched file.
func (s watchSet) Matches(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && s[abs]
}

// watchCheck runs check once, then again after every change to paths, until
// ctx is done or the process is interrupted.
func watchCheck(ctx context.Context, paths []string, check func(context.Context) error, r *output.Renderer, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set, err := newWatchSet(paths)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range set.Dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	runOnce := func() {
		if err := check(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrInconsistent) {
			r.Error(err.Error())
		}
	}
	runOnce()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !set.Matches(ev) {
				continue
			}
			logger.Debug("change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			runOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
