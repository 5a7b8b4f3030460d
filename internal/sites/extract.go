package sites

import (
	"regexp"
	"strings"
)

// Candidate is one suggested evaluation site: an optional area label and a
// validated "lat, lon" coordinate string. Consumers must handle an empty
// label, typically with a positional fallback name.
type Candidate struct {
	Area       string `json:"area"`
	Coordinate string `json:"coordinate"`
}

var (
	// sectionPattern scopes extraction to everything after a "Best-Fit
	// Coordinates" heading when one exists.
	sectionPattern = regexp.MustCompile(`(?is)best-fit coordinates:?(.*)`)

	// coordPattern matches "(lat, lon)" pairs, optionally preceded by a
	// markdown-emphasized or plain "Label:" on the same span.
	coordPattern = regexp.MustCompile(
		`(?i)(?:\*\*([^:*]+)\*\*:|\b([A-Za-z][\w\s&'()-]+):)?` +
			`\s*\(\s*([+-]?\d+(?:\.\d+)?)\s*,\s*([+-]?\d+(?:\.\d+)?)\s*\)`)
)

// Extract pulls the ordered, coordinate-deduplicated list of candidate sites
// out of generated text. The whole text is scanned when the labeled section
// is absent. The first occurrence of a coordinate wins, label included.
func Extract(text string) []Candidate {
	section := text
	if m := sectionPattern.FindStringSubmatch(text); m != nil {
		section = m[1]
	}

	seen := make(map[string]struct{})
	var out []Candidate
	for _, m := range coordPattern.FindAllStringSubmatch(section, -1) {
		area := m[1]
		if area == "" {
			area = m[2]
		}
		coordinate := m[3] + ", " + m[4]
		if _, dup := seen[coordinate]; dup {
			continue
		}
		seen[coordinate] = struct{}{}
		out = append(out, Candidate{Area: strings.TrimSpace(area), Coordinate: coordinate})
	}
	return out
}
