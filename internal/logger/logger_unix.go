//go:build darwin || linux

package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

func GetTerminalInfo(file *os.File) TerminalInfo {
	fd := file.Fd()
	if !isatty.IsTerminal(fd) {
		return TerminalInfo{}
	}

	info := TerminalInfo{IsTTY: true, UseColorEscapes: !hasNoColorEnvironmentVariable()}
	if size, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ); err == nil {
		info.Width = int(size.Col)
		info.Height = int(size.Row)
	}
	return info
}

func writeStringWithColor(w io.Writer, text string) {
	io.WriteString(w, text)
}
