package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// sobjectNameRegex matches valid Salesforce object API names: alphanumeric
// with underscores, optionally carrying a custom-object or Data Cloud
// suffix (Account, My_Object__c, UnifiedIndividual__dlm).
var sobjectNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(__(c|mdt|e|b|x|dlm|dll|dlo))?$`)

// ValidateObjectName validates a Salesforce object API name before it is
// interpolated into a describe URL. The rules are intentionally
// conservative: describe endpoints receive the name as a path segment, so
// anything that could traverse or escape the path is rejected.
func ValidateObjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidObject, "object name cannot be empty")
	}

	if len(name) > 120 {
		return New(ErrCodeInvalidObject, "object name too long (max 120 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidObject, "object name contains control characters")
		}
	}

	if strings.ContainsAny(name, "/\\.%?#") {
		return New(ErrCodeInvalidObject, "object name contains invalid characters: %q", name)
	}

	if !sobjectNameRegex.MatchString(name) {
		return New(ErrCodeInvalidObject, "invalid object API name: %q", name)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
