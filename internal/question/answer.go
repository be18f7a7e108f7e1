package question

import (
	"regexp"
	"strings"
)

var answerLine = regexp.MustCompile(`(?i)^.*answer:\s*\{?(.*?)\}?\s*$`)

// ExtractAnswer returns the content of the last "answer:" line in raw. When no
// line matches, raw is returned unmodified.
func ExtractAnswer(raw string) string {
	lines := strings.Split(raw, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		match := answerLine.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if match == nil {
			continue
		}
		return strings.TrimSpace(match[1])
	}
	return raw
}
