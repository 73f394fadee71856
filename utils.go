package contentcal

import (
	"log/slog"
	"strings"
)

// SanitizeResponse removes the markdown code fence models like to wrap
// their answers in, plus surrounding whitespace.
func SanitizeResponse(s string) string {
	s = strings.TrimSpace(s)
	originalLen := len(s)

	if strings.HasPrefix(s, "```") {
		// drop the opening fence line, including any language tag
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	if len(s) != originalLen {
		slog.Debug("sanitized response", "original_length", originalLen, "final_length", len(s))
	}
	return s
}
