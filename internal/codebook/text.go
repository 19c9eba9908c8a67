package codebook

import (
	"fmt"
	"strings"
)

// RenderText converts a codebook to the plain-text block embedded in
// classification prompts:
//
//	- Code: <code>
//	  Description: <description>
//
// Examples are intentionally omitted from the text form. An empty codebook
// yields an empty string.
func RenderText(cb *Codebook) string {
	if cb.Empty() {
		return ""
	}
	lines := make([]string, 0, len(cb.Codes))
	for _, c := range cb.Codes {
		lines = append(lines, fmt.Sprintf("- Code: %s\n  Description: %s", c.Code, c.Description))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseText reconstructs a codebook from the prompt text block produced by
// RenderText. Used for display and round-trip checks; examples are not part
// of the text form, so parsed codes have none.
func ParseText(s string) *Codebook {
	cb := &Codebook{}
	var current *Code
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.HasPrefix(line, "- Code: "):
			cb.Codes = append(cb.Codes, Code{Code: strings.TrimPrefix(line, "- Code: ")})
			current = &cb.Codes[len(cb.Codes)-1]
		case strings.HasPrefix(strings.TrimSpace(line), "Description: ") && current != nil:
			current.Description = strings.TrimPrefix(strings.TrimSpace(line), "Description: ")
		}
	}
	return cb
}
