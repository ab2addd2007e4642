package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertEqualWithDiff(t *testing.T) {
	AssertEqualWithDiff(t, "a\nb\n", "a\nb\n")
}

func TestSourceForTest(t *testing.T) {
	source := SourceForTestWithPath("a.js", "let a")
	assert.Equal(t, "a.js", source.KeyPath)
	assert.Equal(t, "a.js", source.PrettyPath)
	assert.Equal(t, "<stdin>", SourceForTest("").PrettyPath)
}
