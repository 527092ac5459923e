package rclone

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	transferredRe = regexp.MustCompile(`Transferred:\s*?(.+)$`)
	percentRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
)

// ParseProgress extracts the "Transferred:" field of an rclone stats line.
// Raw byte counts (purely numeric values) are not reported. When the value
// carries a percentage it is returned as well.
func ParseProgress(line string) (message string, percent *float64, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	m := transferredRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}

	message = strings.TrimSpace(m[1])
	if message == "" || isDigits(message) {
		return "", nil, false
	}

	if pm := percentRe.FindStringSubmatch(message); pm != nil {
		if v, err := strconv.ParseFloat(pm[1], 64); err == nil {
			percent = &v
		}
	}
	return message, percent, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
