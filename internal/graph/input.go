package graph

// The code in this file turns the paths given on the command line into the
// list of modules to scan. Directories are walked and filtered by the include
// and exclude globs. Files named explicitly are always scanned, even when a
// glob would have excluded them.

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/fs"
)

type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// Patterns use "/" as the separator and are matched against paths relative
// to the directory being walked. "*" stops at a separator and "**" doesn't.
func NewFilter(include []string, exclude []string) (*Filter, error) {
	f := &Filter{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		f.include = append(f.include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// A directory is skipped when everything below it would be excluded
func (f *Filter) SkipDir(rel string) bool {
	return matchesAny(f.exclude, rel+"/")
}

func (f *Filter) IncludeFile(rel string) bool {
	if matchesAny(f.exclude, rel) {
		return false
	}
	return len(f.include) == 0 || matchesAny(f.include, rel)
}

// CollectInputs expands the roots into a list of source files. The order is
// the order of the roots, and within a directory the sorted walk order.
// Duplicates are dropped so each file is scanned once.
func CollectInputs(fsys fs.FS, roots []string, options *config.Options) ([]string, error) {
	filter, err := NewFilter(options.Include, options.Exclude)
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, root := range roots {
		if _, err := fsys.ReadDirectory(root); err != nil {
			// Not a directory, so it must be a file. Missing files are reported
			// when they are read.
			add(root)
			continue
		}

		relPath := func(path string) string {
			rel, ok := fsys.Rel(root, path)
			if !ok {
				return path
			}
			return strings.ReplaceAll(rel, "\\", "/")
		}

		err := fs.WalkFiles(fsys, root,
			func(dir string) bool { return filter.SkipDir(relPath(dir)) },
			func(path string) error {
				if config.LoaderFromExtension(fsys.Ext(path)) != config.LoaderNone && filter.IncludeFile(relPath(path)) {
					add(path)
				}
				return nil
			})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return paths, nil
}
