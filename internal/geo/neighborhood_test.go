package geo

import (
	"math"
	"strings"
	"testing"
)

func venueAt(lat, lon float64) Venue {
	return Venue{Lat: lat, Lon: lon, Cuisine: "Japanese", Reviews: 100, Price: 20}
}

func TestAggregateEmptyNeighborhood(t *testing.T) {
	venues := []Venue{venueAt(1.45, 103.95)} // ~18 km away
	if _, ok := Aggregate(1.30, 103.85, venues, DefaultRadiusKM); ok {
		t.Fatal("expected underserved sentinel for empty neighborhood")
	}
	if _, ok := Aggregate(1.30, 103.85, nil, DefaultRadiusKM); ok {
		t.Fatal("expected underserved sentinel for nil corpus")
	}
}

func TestAggregateCuisineCountsAndMeans(t *testing.T) {
	venues := []Venue{
		{Lat: 1.3001, Lon: 103.8501, Cuisine: "Japanese", Reviews: 100, Price: 20},
		{Lat: 1.3002, Lon: 103.8502, Cuisine: "Japanese", Reviews: 300, Price: math.NaN()},
		{Lat: 1.3003, Lon: 103.8503, Cuisine: "Thai", Reviews: math.NaN(), Price: 40},
	}
	summary, ok := Aggregate(1.30, 103.85, venues, DefaultRadiusKM)
	if !ok {
		t.Fatal("expected populated summary")
	}
	if summary.VenueCount != 3 {
		t.Fatalf("expected 3 venues, got %d", summary.VenueCount)
	}
	if summary.CuisineCounts["Japanese"] != 2 || summary.CuisineCounts["Thai"] != 1 {
		t.Fatalf("unexpected cuisine counts %v", summary.CuisineCounts)
	}
	// NaN excluded from the mean, not treated as zero.
	if summary.MeanReviews != 200 {
		t.Fatalf("expected mean reviews 200, got %v", summary.MeanReviews)
	}
	if summary.MeanPrice != 30 {
		t.Fatalf("expected mean price 30, got %v", summary.MeanPrice)
	}
}

func TestAggregateWeekdayHours(t *testing.T) {
	venues := []Venue{
		{Lat: 1.3001, Lon: 103.8501, Cuisine: "Thai", Reviews: 1, Price: 1, Hours: map[string][]int{
			"Monday":  {9, 0, 21, 0},
			"Tuesday": {10, 30, 22, 0},
			"Friday":  {9, 0}, // malformed: skipped without discarding other days
		}},
		{Lat: 1.3002, Lon: 103.8502, Cuisine: "Thai", Reviews: 1, Price: 1, Hours: map[string][]int{
			"Monday": {11, 0, 23, 0},
		}},
	}
	summary, ok := Aggregate(1.30, 103.85, venues, DefaultRadiusKM)
	if !ok {
		t.Fatal("expected populated summary")
	}

	for _, day := range Weekdays {
		if _, present := summary.Hours[day]; !present {
			t.Fatalf("missing weekday key %q", day)
		}
	}

	// Monday averages over both venues: (540+660)/2 = 600, (1260+1380)/2 = 1320.
	if w := summary.Hours["Monday"]; w.AvgStart != "10:00" || w.AvgEnd != "22:00" {
		t.Fatalf("unexpected Monday window %+v", w)
	}
	// Tuesday averages only over the single venue that supplied it.
	if w := summary.Hours["Tuesday"]; w.AvgStart != "10:30" || w.AvgEnd != "22:00" {
		t.Fatalf("unexpected Tuesday window %+v", w)
	}
	// Friday's malformed tuple contributed nothing.
	if w := summary.Hours["Friday"]; w.AvgStart != NoHours || w.AvgEnd != NoHours {
		t.Fatalf("expected %s for Friday, got %+v", NoHours, w)
	}
}

func TestAggregateRadiusInclusive(t *testing.T) {
	target := Venue{Lat: 1.30, Lon: 103.85}
	far := venueAt(1.3090, 103.85) // just under 1 km north
	d := Distance(target.Lat, target.Lon, far.Lat, far.Lon)

	if got := Nearby(target.Lat, target.Lon, []Venue{far}, d); len(got) != 1 {
		t.Fatal("boundary distance must be inclusive")
	}
	if got := Nearby(target.Lat, target.Lon, []Venue{far}, d*0.999); len(got) != 0 {
		t.Fatal("venue beyond radius must be excluded")
	}
}

func TestAggregateSkipsUnparseableCoordinates(t *testing.T) {
	venues := []Venue{
		{Lat: math.NaN(), Lon: math.NaN(), Cuisine: "Thai", Reviews: 1, Price: 1},
		{Lat: 1.3001, Lon: 103.8501, Cuisine: "Indian", Reviews: 1, Price: 1},
	}
	summary, ok := Aggregate(1.30, 103.85, venues, DefaultRadiusKM)
	if !ok || summary.VenueCount != 1 {
		t.Fatalf("expected exactly the parseable venue, got %+v ok=%v", summary, ok)
	}
}

func TestContextStringContainsAllWeekdays(t *testing.T) {
	venues := []Venue{venueAt(1.3001, 103.8501)}
	summary, _ := Aggregate(1.30, 103.85, venues, DefaultRadiusKM)
	out := summary.ContextString()
	for _, day := range Weekdays {
		if !strings.Contains(out, day) {
			t.Fatalf("context missing %s:\n%s", day, out)
		}
	}
}
