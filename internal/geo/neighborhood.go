package geo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultRadiusKM bounds the neighborhood around a target coordinate.
const DefaultRadiusKM = 0.5

// NoHours marks a weekday with no contributing schedules.
const NoHours = "N/A"

// UnderservedArea is the sentinel rendering for an empty neighborhood.
const UnderservedArea = "This restaurant is in a relatively underserved area."

// Weekdays in aggregation order. Every summary carries all seven keys.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Venue is one corpus restaurant as seen by the aggregator. Reviews and Price
// use NaN for missing values so they can be excluded from means rather than
// dragged to zero. Hours maps a weekday name to a (startHour, startMin,
// endHour, endMin) tuple; malformed entries are skipped per day.
type Venue struct {
	Name    string
	Lat     float64
	Lon     float64
	Cuisine string
	Reviews float64
	Price   float64
	Hours   map[string][]int
}

// DayWindow holds the averaged operating window for one weekday, formatted as
// zero-padded HH:MM, or NoHours when no venue supplied that day.
type DayWindow struct {
	AvgStart string `json:"avg_start"`
	AvgEnd   string `json:"avg_end"`
}

// Summary aggregates the venues within the radius of a target coordinate.
type Summary struct {
	CuisineCounts map[string]int        `json:"cuisine_counts"`
	MeanReviews   float64               `json:"mean_reviews"`
	MeanPrice     float64               `json:"mean_price"`
	Hours         map[string]DayWindow  `json:"avg_operational_hours"`
	VenueCount    int                   `json:"venue_count"`
}

// Nearby returns the venues within radiusKM of the target, boundary inclusive.
// Venues with NaN coordinates never match.
func Nearby(lat, lon float64, venues []Venue, radiusKM float64) []Venue {
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}
	var out []Venue
	for _, v := range venues {
		if d := Distance(lat, lon, v.Lat, v.Lon); d <= radiusKM {
			out = append(out, v)
		}
	}
	return out
}

// Aggregate computes the neighborhood summary around the target. The second
// return value is false when no venue falls inside the radius; callers must
// branch on it before reading the summary.
func Aggregate(lat, lon float64, venues []Venue, radiusKM float64) (Summary, bool) {
	nearby := Nearby(lat, lon, venues, radiusKM)
	if len(nearby) == 0 {
		return Summary{}, false
	}

	counts := make(map[string]int)
	starts := make(map[string][]int, len(Weekdays))
	ends := make(map[string][]int, len(Weekdays))
	var reviewSum, priceSum float64
	var reviewN, priceN int

	for _, v := range nearby {
		if v.Cuisine != "" {
			counts[v.Cuisine]++
		}
		if !math.IsNaN(v.Reviews) {
			reviewSum += v.Reviews
			reviewN++
		}
		if !math.IsNaN(v.Price) {
			priceSum += v.Price
			priceN++
		}
		for day, window := range v.Hours {
			if len(window) != 4 {
				continue // malformed entry, keep the venue's other days
			}
			starts[day] = append(starts[day], window[0]*60+window[1])
			ends[day] = append(ends[day], window[2]*60+window[3])
		}
	}

	hours := make(map[string]DayWindow, len(Weekdays))
	for _, day := range Weekdays {
		hours[day] = DayWindow{
			AvgStart: formatMeanMinutes(starts[day]),
			AvgEnd:   formatMeanMinutes(ends[day]),
		}
	}

	return Summary{
		CuisineCounts: counts,
		MeanReviews:   mean(reviewSum, reviewN),
		MeanPrice:     mean(priceSum, priceN),
		Hours:         hours,
		VenueCount:    len(nearby),
	}, true
}

// ContextString renders the summary for prompt assembly.
func (s Summary) ContextString() string {
	var b strings.Builder
	b.WriteString("Cuisine Diversity: ")
	cuisines := make([]string, 0, len(s.CuisineCounts))
	for name := range s.CuisineCounts {
		cuisines = append(cuisines, name)
	}
	sort.Strings(cuisines)
	for i, name := range cuisines {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", name, s.CuisineCounts[name])
	}
	fmt.Fprintf(&b, "\nReview Density: %.2f", s.MeanReviews)
	fmt.Fprintf(&b, "\nAverage Price Level: %.2f", s.MeanPrice)
	b.WriteString("\nAverage Operational Hours Per Day:")
	for _, day := range Weekdays {
		w := s.Hours[day]
		fmt.Fprintf(&b, "\n  %s: %s - %s", day, w.AvgStart, w.AvgEnd)
	}
	return b.String()
}

func formatMeanMinutes(samples []int) string {
	if len(samples) == 0 {
		return NoHours
	}
	sum := 0
	for _, v := range samples {
		sum += v
	}
	avg := int(float64(sum) / float64(len(samples)))
	return fmt.Sprintf("%02d:%02d", avg/60, avg%60)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
