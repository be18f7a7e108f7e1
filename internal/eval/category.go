package eval

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Category is the closed set of judge verdicts.
type Category string

const (
	Correct   Category = "CORRECT"
	Incorrect Category = "INCORRECT"
	Doubt     Category = "DOUBT"
	Error     Category = "ERROR"
)

// Categories lists every category in report order.
var Categories = []Category{Correct, Incorrect, Doubt, Error}

// ErrMissingCategory indicates that no "category:" line was found.
var ErrMissingCategory = errors.New("missing category line")

// ErrUnknownCategory indicates a category word outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

var categoryLine = regexp.MustCompile(`(?i)^.*category:\s*\{?([a-zA-Z]+)\b\}?\.?`)

// ParseCategory maps a word onto the closed set, ignoring case.
func ParseCategory(word string) (Category, error) {
	candidate := Category(strings.ToUpper(strings.TrimSpace(word)))
	for _, category := range Categories {
		if candidate == category {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, word)
}

// ExtractCategory classifies a judge response by its last "category:" line.
func ExtractCategory(raw string) (Category, error) {
	lines := strings.Split(raw, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		match := categoryLine.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if match == nil {
			continue
		}
		return ParseCategory(match[1])
	}
	return "", ErrMissingCategory
}

// Persisted reports whether records with this category are written to the ledger.
func (c Category) Persisted() bool {
	return c == Correct || c == Incorrect || c == Doubt
}

// Marker returns the emoji used in per-unit report lines.
func (c Category) Marker() string {
	switch c {
	case Correct:
		return "✅"
	case Incorrect:
		return "❌"
	case Doubt:
		return "⬜"
	default:
		return "❓"
	}
}
