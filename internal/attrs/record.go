package attrs

import (
	"fmt"
	"strings"
)

// Record is the canonical restaurant description. Every field is always
// populated: missing input maps to an empty string or empty list, never to an
// absent field. Records are treated as immutable once built; use WithLocation
// to derive a copy for a different candidate site.
type Record struct {
	Location string
	Cuisine  string

	// PriceText is the stated spend range as entered ("$10-20"). Price is its
	// numeric average and is only populated by NormalizeNumeric.
	PriceText string
	Price     float64

	Payments          []string
	Offerings         []string
	RecommendedDishes []string
	ServiceOptions    []string
	Amenities         []string
	Crowd             []string

	Hours         string
	Accessibility string
	Highlights    string
	Atmosphere    string
	DiningOptions string
	Planning      string
	Children      string
	Pets          string
}

// fieldOrder fixes the rendering order for prompts and round-trip maps.
var fieldOrder = []string{
	"location", "cuisine", "price", "payments", "hours", "offerings",
	"recommended_dishes", "accessibility", "service_options", "highlights",
	"amenities", "atmosphere", "crowd", "dining_options", "planning",
	"children", "pets",
}

// Map returns the record as a raw attribute map. Normalizing the result again
// yields the same record, which keeps normalization a fixed point.
func (r Record) Map() map[string]any {
	return map[string]any{
		"location":           r.Location,
		"cuisine":            r.Cuisine,
		"price":              r.PriceText,
		"payments":           append([]string(nil), r.Payments...),
		"hours":              r.Hours,
		"offerings":          append([]string(nil), r.Offerings...),
		"recommended_dishes": append([]string(nil), r.RecommendedDishes...),
		"accessibility":      r.Accessibility,
		"service_options":    append([]string(nil), r.ServiceOptions...),
		"highlights":         r.Highlights,
		"amenities":          append([]string(nil), r.Amenities...),
		"atmosphere":         r.Atmosphere,
		"crowd":              append([]string(nil), r.Crowd...),
		"dining_options":     r.DiningOptions,
		"planning":           r.Planning,
		"children":           r.Children,
		"pets":               r.Pets,
	}
}

// PromptString renders the record as "key: value" lines in fixed field order
// for retrieval queries and prompt assembly.
func (r Record) PromptString() string {
	m := r.Map()
	var b strings.Builder
	for _, key := range fieldOrder {
		value := m[key]
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ", ")
		}
		fmt.Fprintf(&b, "%s: %v\n", key, value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Payments = append([]string(nil), r.Payments...)
	out.Offerings = append([]string(nil), r.Offerings...)
	out.RecommendedDishes = append([]string(nil), r.RecommendedDishes...)
	out.ServiceOptions = append([]string(nil), r.ServiceOptions...)
	out.Amenities = append([]string(nil), r.Amenities...)
	out.Crowd = append([]string(nil), r.Crowd...)
	return out
}

// WithLocation returns a deep copy of the record with the location replaced.
// Used when re-running the pipeline against a discovered candidate site.
func (r Record) WithLocation(coordinate string) Record {
	out := r.Clone()
	out.Location = strings.TrimSpace(coordinate)
	return out
}
