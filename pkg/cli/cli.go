package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yuusheng/rolldown/internal/exitcode"
)

// Run is the entry point of the command-line tool. It returns the process
// exit code: 0 for success, 1 if any module failed, 2 for bad arguments and
// 3 for files that couldn't be read or written.
func Run(ctx context.Context, osArgs []string) int {
	return runWithStreams(ctx, osArgs, streams{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stderrFile: os.Stderr,
	})
}

func runWithStreams(ctx context.Context, osArgs []string, s streams) int {
	// Cobra falls back to "os.Args" for nil
	if osArgs == nil {
		osArgs = []string{}
	}

	cmd := newRootCommand(s)
	cmd.SetArgs(osArgs)
	cmd.SetIn(s.stdin)
	cmd.SetOut(s.stdout)
	cmd.SetErr(s.stderr)

	err := cmd.ExecuteContext(ctx)

	// Module errors were already printed with their locations
	if err != nil && !errors.Is(err, errScanFailed) {
		fmt.Fprintf(s.stderr, "error: %s\n", err.Error())
	}
	return exitcode.Get(err)
}
