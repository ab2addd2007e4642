package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"
)

type realFS struct {
	// Stores the file entries for directories we've listed before
	entriesMutex sync.Mutex
	entries      map[string]entriesOrErr

	cwd string
}

type entriesOrErr struct {
	entries []Entry
	err     error
}

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	} else if path, err := filepath.EvalSymlinks(cwd); err == nil {
		// Resolve symlinks in the current working directory so relative paths
		// in messages match the paths of the files being read
		cwd = path
	}

	return &realFS{
		entries: make(map[string]entriesOrErr),
		cwd:     cwd,
	}
}

func (fs *realFS) ReadDirectory(dir string) ([]Entry, error) {
	fs.entriesMutex.Lock()
	defer fs.entriesMutex.Unlock()

	// First, check the cache
	if cached, ok := fs.entries[dir]; ok {
		return cached.entries, cached.err
	}

	// Cache miss: read the directory entries
	var entries []Entry
	dirEntries, err := os.ReadDir(dir)
	if err == nil {
		for _, dirEntry := range dirEntries {
			kind := FileEntry
			if dirEntry.IsDir() {
				kind = DirEntry
			} else if dirEntry.Type()&iofs.ModeSymlink != 0 {
				if info, err := os.Stat(filepath.Join(dir, dirEntry.Name())); err != nil {
					continue
				} else if info.IsDir() {
					kind = DirEntry
				}
			}
			entries = append(entries, Entry{Name: dirEntry.Name(), Kind: kind})
		}
		entries = sortEntries(entries)
	} else {
		err = translateError(dir, err)
	}

	// Update the cache unconditionally. Even if the read failed, we don't want to
	// retry again later. The directory is inaccessible so trying again is wasted.
	fs.entries[dir] = entriesOrErr{entries: entries, err: err}
	return entries, err
}

func (fs *realFS) ReadFile(path string) (string, error) {
	buffer, err := os.ReadFile(path)
	if err != nil {
		return "", translateError(path, err)
	}
	return string(buffer), nil
}

func translateError(path string, err error) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	return err
}

func (*realFS) Abs(p string) (string, bool) {
	abs, err := filepath.Abs(p)
	return abs, err == nil
}

func (*realFS) Dir(p string) string {
	return filepath.Dir(p)
}

func (*realFS) Base(p string) string {
	return filepath.Base(p)
}

func (*realFS) Ext(p string) string {
	return filepath.Ext(p)
}

func (*realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (fs *realFS) Cwd() string {
	return fs.cwd
}

func (*realFS) Rel(base string, target string) (string, bool) {
	if rel, err := filepath.Rel(base, target); err == nil {
		return rel, true
	}
	return "", false
}
