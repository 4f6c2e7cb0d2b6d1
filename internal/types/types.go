package types

import "strings"

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// SafeString returns the trimmed value of a pointer to a string, or "" when nil
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// FirstNonEmpty returns the first argument that is not blank
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
