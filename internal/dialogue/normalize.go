package dialogue

import "strings"

// NormalizeText trims surrounding whitespace and collapses runs of
// consecutive duplicate words, compared case-insensitively. The first
// occurrence in each run is kept with its original casing, so
// "good good morning morning sir" becomes "good morning sir".
func NormalizeText(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	out := fields[:1]
	for _, f := range fields[1:] {
		if strings.EqualFold(f, out[len(out)-1]) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
