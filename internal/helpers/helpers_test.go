package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuusheng/rolldown/internal/logger"
)

func TestTimerNesting(t *testing.T) {
	timer := &Timer{}
	timer.Begin("build")
	timer.Begin("lower")
	timer.End("lower")
	timer.End("build")
	timer.Begin("scan")
	timer.End("scan")

	durations := timer.Durations()
	require.Len(t, durations, 3)
	assert.Equal(t, "build", durations[0].Name)
	assert.Equal(t, "  lower", durations[1].Name)
	assert.Equal(t, "scan", durations[2].Name)
	for _, stage := range durations {
		assert.GreaterOrEqual(t, stage.Duration, time.Duration(0))
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Begin("build")
	timer.End("build")
	assert.Nil(t, timer.Durations())
	timer.Log(logger.NewDeferLog(logger.LevelVerbose), "unused")
}

func TestTimerLog(t *testing.T) {
	timer := &Timer{}
	timer.Begin("scan")
	timer.End("scan")

	log := logger.NewDeferLog(logger.LevelVerbose)
	timer.Log(log, "Timing for a.js")
	msgs := log.Done()
	require.Len(t, msgs, 1)
	assert.Equal(t, logger.Verbose, msgs[0].Kind)
	assert.True(t, strings.HasPrefix(msgs[0].Text, "Timing for a.js\n  scan: "))

	// Verbose output is dropped at the default level
	quiet := logger.NewDeferLog(logger.LevelInfo)
	timer.Log(quiet, "Timing for a.js")
	assert.Empty(t, quiet.Done())
}

func TestQuoteString(t *testing.T) {
	check := func(text string, quote byte, asciiOnly bool, expected string) {
		t.Helper()
		assert.Equal(t, expected, string(QuoteString(text, quote, asciiOnly)))
	}
	check(`a"b`, '"', false, `"a\"b"`)
	check("it's", '\'', false, `'it\'s'`)
	check(`it's "x"`, '"', false, `"it's \"x\""`)
	check("line\nbreak\ttab", '"', false, `"line\nbreak\ttab"`)
	check("\x00\x1b", '"', false, `"\u0000\u001B"`)
	check("é", '"', false, `"é"`)
	check("é", '"', true, `"\u00E9"`)
	check("😀", '"', true, `"\uD83D\uDE00"`)
	check("a\u2028b", '"', false, `"a\u2028b"`)
	check("\xff", '"', false, `"\u00FF"`)
}

func TestPrettyPrintedStack(t *testing.T) {
	stack := PrettyPrintedStack()
	lines := strings.Split(stack, "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "helpers.TestPrettyPrintedStack ("), lines[0])
	assert.Contains(t, lines[0], "helpers_test.go:")
	assert.NotContains(t, stack, "runtime.")
}
