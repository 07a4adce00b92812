package core

import "strings"

// emergencyKeywords flag response text that mentions conditions needing
// immediate attention. Matching is plain substring, case-insensitive.
var emergencyKeywords = []string{
	"stroke", "heart attack", "myocardial infarction", "sepsis",
	"anaphylaxis", "pulmonary embolism", "meningitis", "acute",
	"immediate", "emergency", "urgent", "critical",
}

// HasEmergencyIndicator reports whether the text mentions any of the
// fixed emergency keywords.
func HasEmergencyIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
