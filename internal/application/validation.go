package application

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "annotationID" -> "annotation ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"annotationID": "annotation ID",
		"leftID":       "left annotation ID",
		"rightID":      "right annotation ID",
		"labelKey":     "label key",
		"oldKey":       "old label key",
		"newKey":       "new label key",
		"shortName":    "short name",
		"name":         "label name",
		"abbrev":       "abbreviation",
		"paths":        "annotation file",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateID checks that an annotation id is positive
func ValidateID(fieldName string, id int64) error {
	if id <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a positive integer, got %d", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// ValidateLabelKey checks that a label key is non-negative
func ValidateLabelKey(fieldName string, key int) error {
	if key < 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not be negative, got %d", formatFieldName(fieldName), key),
		}
	}
	return nil
}

// ParseID parses a command-line annotation id
func ParseID(fieldName, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be an integer, got %q", formatFieldName(fieldName), value),
		}
	}
	return id, ValidateID(fieldName, id)
}

// ParseLabelKey parses a command-line label key
func ParseLabelKey(fieldName, value string) (int, error) {
	key, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be an integer, got %q", formatFieldName(fieldName), value),
		}
	}
	return key, ValidateLabelKey(fieldName, key)
}
