package natsgath

import (
	"strings"
	"unicode/utf8"
)

const overflowMarker = "[...]"

func trimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	var res strings.Builder
	lines := strings.Split(s, "\n")
	overflow := len(lines) > maxHeight
	if overflow {
		lines = lines[:maxHeight]
	}
	for i, line := range lines {
		if i > 0 {
			res.WriteString("\n")
		}
		if len(line) > maxWidth {
			res.WriteString(line[:runeCut(line, maxWidth)] + overflowMarker)
		} else {
			res.WriteString(line)
		}
	}
	if overflow {
		res.WriteString("\n" + overflowMarker)
	}
	return res.String()
}

// runeCut returns the largest rune boundary in line that is not past n.
func runeCut(line string, n int) int {
	for n > 0 && !utf8.RuneStart(line[n]) {
		n--
	}
	return n
}
