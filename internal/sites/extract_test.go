package sites

import (
	"reflect"
	"testing"
)

func TestExtractLabeledAndBareCoordinates(t *testing.T) {
	text := `Suggested Planning Areas for Input Traits:
1. Bugis (Central Area) — high density, tourism traffic.

Best-Fit Coordinates:
- **Bugis**: (1.301234, 103.854321)
- Tiong Bahru: (1.321111, 103.888888)
- (1.377777, 103.949494)
`
	got := Extract(text)
	expected := []Candidate{
		{Area: "Bugis", Coordinate: "1.301234, 103.854321"},
		{Area: "Tiong Bahru", Coordinate: "1.321111, 103.888888"},
		{Area: "", Coordinate: "1.377777, 103.949494"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v got %v", expected, got)
	}
}

func TestExtractDeduplicatesKeepingFirstLabel(t *testing.T) {
	text := `Best-Fit Coordinates:
**Bugis**: (1.301234, 103.854321)
**Rochor**: (1.301234, 103.854321)
(1.321111, 103.888888)
(1.321111, 103.888888)
`
	got := Extract(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 deduplicated entries, got %v", got)
	}
	if got[0].Area != "Bugis" {
		t.Fatalf("expected first-seen label retained, got %q", got[0].Area)
	}
	if got[1].Area != "" {
		t.Fatalf("expected empty label, got %q", got[1].Area)
	}
}

func TestExtractScansWholeTextWithoutHeading(t *testing.T) {
	text := "The best area is **Pasir Ris**: (1.377777, 103.949494), near the park."
	got := Extract(text)
	if len(got) != 1 || got[0].Area != "Pasir Ris" || got[0].Coordinate != "1.377777, 103.949494" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestExtractIgnoresTextBeforeHeading(t *testing.T) {
	text := `Reference point: (1.000000, 103.000000)

best-fit coordinates
- (1.301234, 103.854321)
`
	got := Extract(text)
	if len(got) != 1 || got[0].Coordinate != "1.301234, 103.854321" {
		t.Fatalf("expected only the section coordinate, got %v", got)
	}
}

func TestExtractSignedCoordinates(t *testing.T) {
	got := Extract("Sites: (-33.865143, +151.209900)")
	if len(got) != 1 || got[0].Coordinate != "-33.865143, +151.209900" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestExtractNoCoordinates(t *testing.T) {
	if got := Extract("no coordinates in this text at all"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
