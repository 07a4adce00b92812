package report

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DiagnosesMarker is the heading the model is instructed to open its
// diagnostic section with. Everything before its first occurrence is
// preamble and is dropped from rendered documents.
const DiagnosesMarker = "**Potential Diagnoses:**"

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// StripBeforeMarker returns the substring starting at the first
// case-insensitive occurrence of marker. If the marker is absent the text
// is returned unchanged.
func StripBeforeMarker(text, marker string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(marker))
	if idx < 0 {
		return text
	}
	// The match offset is in the lowered text; lowering can change a
	// rune's byte length (e.g. İ), so walk the original to the rune whose
	// lowered form starts at that offset.
	off, lowered := 0, 0
	for off < len(text) && lowered < idx {
		r, size := utf8.DecodeRuneInString(text[off:])
		lowered += utf8.RuneLen(unicode.ToLower(r))
		off += size
	}
	return text[off:]
}

// ToInlineHTML rewrites the markdown-ish conventions the model emits into
// the small HTML subset the PDF writer understands: **bold** becomes
// <b>...</b> and newlines become <br>.
func ToInlineHTML(text string) string {
	out := boldPattern.ReplaceAllString(text, "<b>$1</b>")
	return strings.ReplaceAll(out, "\n", "<br>")
}
