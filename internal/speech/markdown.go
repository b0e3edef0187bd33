package speech

import "strings"

// StripMarkdown flattens guide text for the synthesizer. Emphasis markers
// are removed, heading and bullet prefixes are dropped, and horizontal
// rules disappear entirely. The result reads aloud as plain prose.
func StripMarkdown(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			continue
		}
		trimmed = strings.TrimPrefix(trimmed, "#### ")
		trimmed = strings.TrimPrefix(trimmed, "### ")
		trimmed = strings.TrimPrefix(trimmed, "* ")
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
