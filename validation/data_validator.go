// Package validation checks user input before it reaches the catalog.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/empirical-rx/catalog"
	"github.com/giygas/empirical-rx/catalog/entities"
	"github.com/giygas/empirical-rx/interfaces"
)

const (
	MaxQueryLength     = 100
	MaxNameLength      = 100
	MaxFirstLineLength = 500
	MaxItemLength      = 300
	MaxItemsPerList    = 50

	// same character repeated more than this many times in a row is rejected
	maxRepeatedRun = 10
)

// Pre-compiled once at package initialization and reused for all validations
var (
	// Disease names and queries: letters in any script, digits, spaces and the
	// punctuation the built-in names use
	nameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.\+'(),/]+$`)

	// Injection patterns for search queries, matched on the lower-cased input
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
	}

	// Treatment text legitimately contains "; ", "&" and "--", so free-text fields
	// are only checked for markup and script content
	markupPatterns = []string{
		"<script", "</script>", "<iframe", "<object", "<embed", "<svg", "<img",
		"javascript:", "vbscript:", "data:text/html", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "eval(", "expression(",
	}
)

// Compile-time check to ensure DataValidatorImpl implements InputValidator
var _ interfaces.InputValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.InputValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.InputValidator {
	return &DataValidatorImpl{}
}

// ValidateQuery validates a search query. A blank query is valid and lists every condition.
func (v *DataValidatorImpl) ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	if utf8.RuneCountInString(query) > MaxQueryLength {
		return invalid("q", "query too long: maximum %d characters", MaxQueryLength)
	}

	lower := strings.ToLower(query)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return invalid("q", "query contains potentially dangerous content")
		}
	}

	if !nameRegex.MatchString(trimmed) {
		return invalid("q", "query contains invalid characters. Only letters, numbers, spaces and - . + ' ( ) , / are allowed")
	}

	if hasExcessiveRepetition(query) {
		return invalid("q", "query contains excessive character repetition")
	}

	return nil
}

// ValidateRecordInput checks sizes and content of an admin insert. Presence of
// the name and first-line is left to the catalog.
func (v *DataValidatorImpl) ValidateRecordInput(name string, input entities.RecordInput) error {
	trimmedName := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmedName) > MaxNameLength {
		return invalid("name", "disease name too long: maximum %d characters", MaxNameLength)
	}
	if trimmedName != "" {
		// names must stay reachable through the search and lookup checks
		lowerName := strings.ToLower(trimmedName)
		for _, pattern := range dangerousPatterns {
			if strings.Contains(lowerName, pattern) {
				return invalid("name", "disease name contains potentially dangerous content")
			}
		}
		if !nameRegex.MatchString(trimmedName) {
			return invalid("name", "disease name contains invalid characters")
		}
		if hasExcessiveRepetition(trimmedName) {
			return invalid("name", "disease name contains excessive character repetition")
		}
	}

	if utf8.RuneCountInString(input.FirstLine) > MaxFirstLineLength {
		return invalid("firstLine", "first-line treatment too long: maximum %d characters", MaxFirstLineLength)
	}
	if err := checkText("firstLine", input.FirstLine); err != nil {
		return err
	}

	lists := []struct {
		field string
		items []string
	}{
		{"management", input.Management},
		{"symptoms", input.Symptoms},
		{"labs", input.Labs},
	}
	for _, list := range lists {
		if len(list.items) > MaxItemsPerList {
			return invalid(list.field, "too many items: maximum %d", MaxItemsPerList)
		}
		for i, item := range list.items {
			if utf8.RuneCountInString(item) > MaxItemLength {
				return invalid(list.field, "item %d too long: maximum %d characters", i+1, MaxItemLength)
			}
			if err := checkText(list.field, item); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkText rejects markup and control characters in a free-text field
func checkText(field, text string) error {
	if !utf8.ValidString(text) {
		return invalid(field, "text is not valid UTF-8")
	}
	for _, r := range text {
		if unicode.IsControl(r) && r != '\t' {
			return invalid(field, "text contains control characters")
		}
	}

	lower := strings.ToLower(text)
	for _, pattern := range markupPatterns {
		if strings.Contains(lower, pattern) {
			return invalid(field, "text contains markup or script content")
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return &catalog.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// hasExcessiveRepetition checks for the same character repeated more than
// maxRepeatedRun times consecutively
func hasExcessiveRepetition(input string) bool {
	run := 0
	var prev rune
	for i, r := range input {
		if i > 0 && r == prev {
			run++
			if run > maxRepeatedRun {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}
