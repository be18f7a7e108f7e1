package question

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem in an input file.
type Issue struct {
	Line    int
	Field   string
	Message string
}

// ValidationError reports one or more validation issues for a file.
type ValidationError struct {
	Path   string
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("line %d: %s: %s", issue.Line, issue.Field, issue.Message))
	}
	return fmt.Sprintf("%s validation failed: %s", err.Path, strings.Join(parts, "; "))
}

type issueCollector struct {
	path   string
	issues []Issue
}

func (collector *issueCollector) add(line int, field, message string) {
	collector.issues = append(collector.issues, Issue{Line: line, Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Path: collector.path, Issues: collector.issues}
}
