// Package ingestion loads raw job-listing corpora into Listing records.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpace     = regexp.MustCompile(`[ \t]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanField normalizes a scraped text field while preserving its line structure
func CleanField(content string) string {
	if content == "" {
		return ""
	}

	// Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	result := strings.Join(lines, "\n")
	result = excessiveBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
