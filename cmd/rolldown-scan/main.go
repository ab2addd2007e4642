package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/pkg/cli"
)

func main() {
	osArgs := os.Args[1:]
	cpuprofileFile := ""
	isWatching := false

	// Profiling wraps the whole run, so it's handled before the real flags
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		case strings.HasPrefix(arg, "--cpuprofile="):
			cpuprofileFile = arg[len("--cpuprofile="):]
			continue
		case arg == "--watch", arg == "--watch=true":
			isWatching = true
		}
		osArgs[argsEnd] = arg
		argsEnd++
	}
	osArgs = osArgs[:argsEnd]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Capture the defer statements below so profiles are flushed before exiting
	exitCode := 1
	func() {
		// To view a CPU profile, use "go tool pprof [file]"
		if cpuprofileFile != "" {
			f, err := os.Create(cpuprofileFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Failed to create cpuprofile file: %s", err.Error()))
				return
			}
			defer f.Close()
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		// A one-shot scan allocates a lot and then exits, so skip collection.
		// Watch mode is long-lived and keeps the collector.
		if !isWatching {
			debug.SetGCPercent(-1)
		}

		exitCode = cli.Run(ctx, osArgs)
	}()

	stop()
	os.Exit(exitCode)
}
