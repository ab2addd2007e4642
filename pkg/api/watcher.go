package api

// This file implements watch mode. The operating system reports changes
// through fsnotify, which watches directories and not whole trees, so every
// directory below the roots is added. Directories created later are added
// after the rescan they trigger.
//
// Editors often write a file as several events in a row (truncate, write,
// chmod, rename). Events are collected until nothing has happened for a
// short while and then handled with a single rescan.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/graph"
	"github.com/yuusheng/rolldown/internal/logger"
)

// The quiet period after the last event before a rescan starts
const watchDebounce = 50 * time.Millisecond

type watcher struct {
	fs      fs.FS
	notify  *fsnotify.Watcher
	filter  *graph.Filter
	roots   []string
	watched map[string]bool
}

func watchImpl(ctx context.Context, paths []string, options ScanOptions, watch WatchOptions) error {
	realFS := fs.RealFS()
	configOptions, ok := validateOptions(realFS, logger.NewDeferLog(logger.LevelSilent), options)
	if !ok {
		// Report the problem the same way a normal scan does
		result := scanImpl(ctx, paths, options)
		if watch.OnScan != nil {
			watch.OnScan(result)
		}
		return errors.New("invalid scan options")
	}

	filter, err := graph.NewFilter(configOptions.Include, configOptions.Exclude)
	if err != nil {
		return err
	}

	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer notify.Close()

	w := &watcher{
		fs:      realFS,
		notify:  notify,
		filter:  filter,
		roots:   paths,
		watched: make(map[string]bool),
	}

	rescan := func() error {
		result := scanImpl(ctx, paths, options)
		if watch.OnScan != nil {
			watch.OnScan(result)
		}
		return w.addDirectories()
	}

	if err := rescan(); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			if w.isRelevant(event) {
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-notify.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)

		case <-debounce:
			debounce = nil
			if err := rescan(); err != nil {
				return err
			}
		}
	}
}

// Files are watched through their parent directory
func (w *watcher) addDirectories() error {
	// Directory listings are cached, so use a fresh view to find new ones
	w.fs = fs.RealFS()

	add := func(dir string) error {
		if w.watched[dir] {
			return nil
		}
		if err := w.notify.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.watched[dir] = true
		return nil
	}

	for _, root := range w.roots {
		if _, err := w.fs.ReadDirectory(root); err != nil {
			if err := add(w.fs.Dir(root)); err != nil {
				return err
			}
			continue
		}

		if err := add(root); err != nil {
			return err
		}

		var addErr error
		err := fs.WalkFiles(w.fs, root, func(dir string) bool {
			if rel, ok := w.fs.Rel(root, dir); ok && w.filter.SkipDir(strings.ReplaceAll(rel, "\\", "/")) {
				return true
			}
			if addErr == nil {
				addErr = add(dir)
			}
			return false
		}, func(string) error { return nil })
		if err != nil {
			return err
		}
		if addErr != nil {
			return addErr
		}
	}
	return nil
}

// Only source files and directories matter. Directory events carry no
// extension, and a new directory may hold new sources.
func (w *watcher) isRelevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	ext := w.fs.Ext(event.Name)
	return ext == "" || config.LoaderFromExtension(ext) != config.LoaderNone
}
