package test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/yuusheng/rolldown/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%v != %v", observed, expected)
	}
}

// AssertEqualWithDiff compares two multi-line strings and fails with a
// unified diff, which reads better than two long quoted strings.
func AssertEqualWithDiff(t *testing.T, observed string, expected string) {
	t.Helper()
	if observed == expected {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(observed),
		FromFile: "expected",
		ToFile:   "observed",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("%q != %q", observed, expected)
	}
	t.Fatalf("\n%s", diff)
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		KeyPath:    "<stdin>",
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}

func SourceForTestWithPath(path string, contents string) logger.Source {
	return logger.Source{
		KeyPath:    path,
		PrettyPath: path,
		Contents:   contents,
	}
}
