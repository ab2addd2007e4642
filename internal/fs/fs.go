package fs

import (
	"errors"
	"sort"
)

type EntryKind uint8

const (
	DirEntry  EntryKind = 1
	FileEntry EntryKind = 2
)

type Entry struct {
	Name string
	Kind EntryKind
}

var ErrNotExist = errors.New("file does not exist")

type FS interface {
	// The returned entries are sorted by name
	ReadDirectory(path string) ([]Entry, error)
	ReadFile(path string) (string, error)

	// This is part of the interface because the mock interface used for tests
	// should not depend on file system behavior (i.e. different slashes for
	// Windows) while the real interface should.
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Ext(path string) string
	Join(parts ...string) string
	Cwd() string
	Rel(base string, target string) (string, bool)
}

func sortEntries(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// WalkFiles calls "visit" for every file below "dir" in a stable order.
// Directories for which "skipDir" returns true are not entered.
func WalkFiles(fs FS, dir string, skipDir func(path string) bool, visit func(path string) error) error {
	entries, err := fs.ReadDirectory(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := fs.Join(dir, entry.Name)
		switch entry.Kind {
		case DirEntry:
			if skipDir != nil && skipDir(path) {
				continue
			}
			if err := WalkFiles(fs, path, skipDir, visit); err != nil {
				return err
			}
		case FileEntry:
			if err := visit(path); err != nil {
				return err
			}
		}
	}
	return nil
}
