package fs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFSBasic(t *testing.T) {
	fs := MockFS(map[string]string{
		"/README.md":    "// README.md",
		"/package.json": "// package.json",
		"/src/index.js": "// src/index.js",
		"/src/util.js":  "// src/util.js",
	})

	// Test a missing file
	_, err := fs.ReadFile("/missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotExist))

	// Test an existing nested file
	index, err := fs.ReadFile("/src/index.js")
	require.NoError(t, err)
	assert.Equal(t, "// src/index.js", index)

	// Test a missing directory
	_, err = fs.ReadDirectory("/missing")
	assert.Error(t, err)

	// Test the top-level directory
	slash, err := fs.ReadDirectory("/")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "README.md", Kind: FileEntry},
		{Name: "package.json", Kind: FileEntry},
		{Name: "src", Kind: DirEntry},
	}, slash)
}

func TestWalkFiles(t *testing.T) {
	fs := MockFS(map[string]string{
		"/src/a.js":                 "",
		"/src/nested/b.ts":          "",
		"/src/node_modules/x/c.js":  "",
		"/src/nested/deeper/d.jsx":  "",
		"/other/ignored-by-root.js": "",
	})

	var visited []string
	err := WalkFiles(fs, "/src", func(path string) bool {
		return fs.Base(path) == "node_modules"
	}, func(path string) error {
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/a.js", "/src/nested/b.ts", "/src/nested/deeper/d.jsx"}, visited)
}

func TestMockFSRel(t *testing.T) {
	fs := MockFS(map[string]string{})

	expect := func(a string, b string, c string) {
		t.Helper()
		t.Run(fmt.Sprintf("Rel(%q, %q) == %q", a, b, c), func(t *testing.T) {
			t.Helper()
			rel, ok := fs.Rel(a, b)
			if !ok {
				t.Fatalf("!ok")
			}
			if rel != c {
				t.Fatalf("Expected %q, got %q", c, rel)
			}
		})
	}

	expect("/a/b", "/a/b", ".")
	expect("/a/b", "/a/b/c", "c")
	expect("/a/b", "/a/b/c/d", "c/d")
	expect("/a/b/c", "/a/b", "..")
	expect("/a/b/c/d", "/a/b", "../..")
	expect("/a/b/c", "/a/b/x", "../x")
	expect("/a/b/c/d", "/a/b/x", "../../x")
	expect("/a/b/c", "/a/b/x/y", "../x/y")
	expect("/a/b/c/d", "/a/b/x/y", "../../x/y")

	expect("a/b", "a/c", "../c")
	expect("./a/b", "./a/c", "../c")
	expect(".", "./a/b", "a/b")
}
