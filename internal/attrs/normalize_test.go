package attrs

import (
	"reflect"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"range", "$10-20", 15.0},
		{"en dash range", "$10–20", 15.0},
		{"single", "$25", 25.0},
		{"empty", "", 0.0},
		{"no digits", "cheap", 0.0},
		{"three numbers averages first two", "10-20-30", 15.0},
		{"spaces", "  $40 - 60 ", 50.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePrice(tc.input); got != tc.expected {
				t.Fatalf("expected %v got %v", tc.expected, got)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	rec := Normalize(map[string]any{})
	if rec.Location != "" || rec.Cuisine != "" || rec.PriceText != "" {
		t.Fatalf("expected empty string defaults, got %+v", rec)
	}
	if rec.Payments == nil || len(rec.Payments) != 0 {
		t.Fatalf("expected empty payments list, got %v", rec.Payments)
	}
	if rec.Offerings == nil || len(rec.Offerings) != 0 {
		t.Fatalf("expected empty offerings list, got %v", rec.Offerings)
	}
}

func TestNormalizeUnexpectedTypes(t *testing.T) {
	rec := Normalize(map[string]any{
		"cuisine":  42,
		"payments": 3.14,
		"hours":    []int{1, 2},
	})
	if rec.Cuisine != "" {
		t.Fatalf("expected empty cuisine, got %q", rec.Cuisine)
	}
	if len(rec.Payments) != 0 {
		t.Fatalf("expected empty payments, got %v", rec.Payments)
	}
	if rec.Hours != "" {
		t.Fatalf("expected empty hours, got %q", rec.Hours)
	}
}

func TestNormalizeListAndStringEquivalence(t *testing.T) {
	fromString := Normalize(map[string]any{"payments": " Cash , Credit Card ,, NFC "})
	fromList := Normalize(map[string]any{"payments": []string{" Cash ", "Credit Card", "", " NFC "}})
	fromAny := Normalize(map[string]any{"payments": []any{" Cash ", "Credit Card", " NFC "}})

	expected := []string{"cash", "credit card", "nfc"}
	for _, rec := range []Record{fromString, fromList, fromAny} {
		if !reflect.DeepEqual(rec.Payments, expected) {
			t.Fatalf("expected %v got %v", expected, rec.Payments)
		}
	}
}

func TestNormalizeTitleCasesCuisine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"korean", "Korean"},
		{"PAN asian fusion", "Pan Asian Fusion"},
		{"thai-chinese", "Thai-Chinese"},
	}
	for _, tc := range tests {
		rec := Normalize(map[string]any{"cuisine": tc.input})
		if rec.Cuisine != tc.expected {
			t.Fatalf("expected %q got %q", tc.expected, rec.Cuisine)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := map[string]any{
		"location":        "1.301234, 103.854321",
		"cuisine":         "japanese",
		"price":           "$10-20",
		"payments":        "Cash, NFC",
		"hours":           "daily from 11 AM to 10 PM",
		"offerings":       []string{"Alcohol", "Vegetarian"},
		"service_options": "Dine-in, Takeaway",
		"highlights":      " rooftop seating ",
	}
	first := NormalizeNumeric(raw)
	second := NormalizeNumeric(first.Map())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization is not a fixed point:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.Price != 15.0 {
		t.Fatalf("expected numeric price 15.0, got %v", first.Price)
	}
}

func TestWithLocationIsDeepCopy(t *testing.T) {
	rec := NormalizeNumeric(map[string]any{
		"location": "1.30, 103.85",
		"payments": "cash, nfc",
	})
	moved := rec.WithLocation("1.377777, 103.949494")
	moved.Payments[0] = "changed"
	if rec.Payments[0] != "cash" {
		t.Fatal("WithLocation must not share slice storage with the source record")
	}
	if rec.Location != "1.30, 103.85" {
		t.Fatal("source record mutated")
	}
	if moved.Location != "1.377777, 103.949494" {
		t.Fatalf("unexpected location %q", moved.Location)
	}
}

func TestPromptStringOrder(t *testing.T) {
	rec := Normalize(map[string]any{"cuisine": "thai", "price": "$25"})
	out := rec.PromptString()
	if out == "" {
		t.Fatal("expected non-empty prompt string")
	}
	lines := []string{"location: ", "cuisine: Thai", "price: $25"}
	pos := -1
	for _, want := range lines {
		idx := indexAfter(out, want, pos)
		if idx < 0 {
			t.Fatalf("expected %q in order within:\n%s", want, out)
		}
		pos = idx
	}
}

func indexAfter(s, sub string, after int) int {
	for i := after + 1; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
