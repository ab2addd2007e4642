package helpers

import (
	"fmt"
	"runtime"
	"strings"
)

// PrettyPrintedStack returns the calling goroutine's stack with one frame per
// line, written as "package.Function (file:line)". Runtime frames and the
// module path prefix are left out.
func PrettyPrintedStack() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			name := frame.Function
			if slash := strings.LastIndexByte(name, '/'); slash != -1 {
				name = name[slash+1:]
			}
			file := strings.TrimPrefix(frame.File, modulePrefix(frame.File))
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%s (%s:%d)", name, file, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// Everything up to and including the module directory
func modulePrefix(file string) string {
	if i := strings.Index(file, "/rolldown/"); i != -1 {
		return file[:i+len("/rolldown/")]
	}
	return ""
}
