package logger

import (
	"os"
	"strings"
)

// See https://no-color.org/
func hasNoColorEnvironmentVariable() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func stripColorEscapes(text string) string {
	if !strings.Contains(text, "\033[") {
		return text
	}
	sb := strings.Builder{}
	for i := 0; i < len(text); i++ {
		if text[i] == '\033' && i+1 < len(text) && text[i+1] == '[' {
			j := i + 2
			for j < len(text) && text[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}
