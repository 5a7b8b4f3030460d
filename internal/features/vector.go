package features

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"restaurant-viability/internal/attrs"
	"restaurant-viability/internal/geo"
	"restaurant-viability/internal/swot"
)

// The combined vector width is a contract shared with the residual corrector;
// any field addition must bump the layout version and update every producer
// and consumer in lockstep.
const (
	StructuredLen = 21
	AssessmentLen = swot.FeatureLen
	TotalLen      = StructuredLen + AssessmentLen
)

// KnownCuisines is the fixed one-hot vocabulary. Cuisines outside it produce
// an all-zero segment; this coverage gap is intentional and preserved.
var KnownCuisines = []string{"japanese", "chinese", "indian", "italian", "thai"}

// tokenFields is the ordered token-count segment of the layout. Both the
// width constant and the builder derive from this single list.
var tokenFields = []struct {
	Name string
	Get  func(attrs.Record) string
}{
	{"offerings", func(r attrs.Record) string { return strings.Join(r.Offerings, ", ") }},
	{"recommended_dishes", func(r attrs.Record) string { return strings.Join(r.RecommendedDishes, ", ") }},
	{"accessibility", func(r attrs.Record) string { return r.Accessibility }},
	{"service_options", func(r attrs.Record) string { return strings.Join(r.ServiceOptions, ", ") }},
	{"highlights", func(r attrs.Record) string { return r.Highlights }},
	{"amenities", func(r attrs.Record) string { return strings.Join(r.Amenities, ", ") }},
	{"atmosphere", func(r attrs.Record) string { return r.Atmosphere }},
	{"crowd", func(r attrs.Record) string { return strings.Join(r.Crowd, ", ") }},
	{"dining_options", func(r attrs.Record) string { return r.DiningOptions }},
	{"planning", func(r attrs.Record) string { return r.Planning }},
	{"children", func(r attrs.Record) string { return r.Children }},
}

// Segment names one contiguous slice of the feature vector.
type Segment struct {
	Name  string
	Width int
}

// Layout is the versioned schema describing field order and count for the
// whole combined vector. It is the single source both builders and the
// corrector contract consume.
type Layout struct {
	Version  int
	Segments []Segment
}

// DefaultLayout describes the current vector schema.
var DefaultLayout = Layout{
	Version: 1,
	Segments: []Segment{
		{"location", 2},
		{"price", 1},
		{"payment_count", 1},
		{"avg_daily_hours", 1},
		{"token_counts", len(tokenFields)},
		{"cuisine_onehot", len(KnownCuisines)},
		{"assessment", AssessmentLen},
	},
}

// TotalWidth sums the segment widths.
func (l Layout) TotalWidth() int {
	total := 0
	for _, s := range l.Segments {
		total += s.Width
	}
	return total
}

var (
	hoursTuple  = regexp.MustCompile(`\[(\d+),\s*(\d+),\s*(\d+),\s*(\d+)\]`)
	wordPattern = regexp.MustCompile(`\w+`)
)

// Structured derives the fixed 21-float structured half of the vector from a
// numeric-normalized record.
func Structured(rec attrs.Record) []float64 {
	lat, lon := parseLocation(rec.Location)

	out := make([]float64, 0, StructuredLen)
	out = append(out, lat, lon, rec.Price)
	out = append(out, float64(paymentCount(rec.Payments)))
	out = append(out, AverageDailyHours(rec.Hours))
	for _, field := range tokenFields {
		out = append(out, float64(countTokens(field.Get(rec))))
	}
	for _, cuisine := range KnownCuisines {
		if strings.EqualFold(rec.Cuisine, cuisine) {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

// Assessment derives the fixed 16-float assessment half from raw generated
// text; failures collapse to the zero vector.
func Assessment(raw string) []float64 {
	return swot.Features(raw)
}

// Combine concatenates the structured and assessment halves into the full
// vector the residual corrector expects.
func Combine(structured, assessment []float64) []float64 {
	out := make([]float64, 0, len(structured)+len(assessment))
	out = append(out, structured...)
	out = append(out, assessment...)
	return out
}

// AverageDailyHours scans the raw hours text for 4-integer bracketed groups,
// sums (end - start) minutes across all matches, and normalizes over a fixed
// 7-day week regardless of how many distinct days matched. No matches, or a
// non-positive total, yields 0.
func AverageDailyHours(hours string) float64 {
	totalMinutes := 0
	for _, m := range hoursTuple.FindAllStringSubmatch(hours, -1) {
		startH, _ := strconv.Atoi(m[1])
		startM, _ := strconv.Atoi(m[2])
		endH, _ := strconv.Atoi(m[3])
		endM, _ := strconv.Atoi(m[4])
		totalMinutes += (endH*60 + endM) - (startH*60 + startM)
	}
	if totalMinutes <= 0 {
		return 0.0
	}
	return float64(totalMinutes) / 60.0 / 7.0
}

// paymentCount is the comma-split length of the joined raw payments
// representation, not the normalized list length; an empty list reports 1.
func paymentCount(payments []string) int {
	return len(strings.Split(strings.Join(payments, ", "), ","))
}

func countTokens(value string) int {
	return len(wordPattern.FindAllString(value, -1))
}

// parseLocation splits a "lat, lon" string; malformed input falls back to
// (0, 0) with a warning rather than failing the pipeline.
func parseLocation(location string) (float64, float64) {
	lat, lon, err := geo.ParseCoordinate(location)
	if err != nil {
		logrus.WithField("location", location).Warn("malformed location, defaulting to (0, 0)")
		return 0.0, 0.0
	}
	return lat, lon
}
