package config

import (
	"fmt"
	"strings"
)

// Issue is one problem found in an experiment config, keyed by the dotted
// field path it applies to.
type Issue struct {
	Field   string
	Message string
}

// ValidationError is returned by Validate with every issue it found, in
// the order the fields were checked.
type ValidationError struct {
	Issues []Issue
}

// Error prints one "field: message" line per issue.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	var b strings.Builder
	for i, issue := range err.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", issue.Field, issue.Message)
	}
	return b.String()
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// result is nil when nothing was collected.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}
