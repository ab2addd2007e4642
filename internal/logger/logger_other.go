//go:build !darwin && !linux

package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const SupportsColorEscapes = false

func GetTerminalInfo(file *os.File) TerminalInfo {
	return TerminalInfo{IsTTY: isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())}
}

func writeStringWithColor(w io.Writer, text string) {
	io.WriteString(w, stripColorEscapes(text))
}
