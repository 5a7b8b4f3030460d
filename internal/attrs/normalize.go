package attrs

import (
	"regexp"
	"strings"
	"unicode"
)

var digitRun = regexp.MustCompile(`\d+`)

// Normalize canonicalizes a raw attribute map into a Record. It never fails:
// absent keys and unexpected types default to an empty string or empty list.
// Price is kept as entered; use NormalizeNumeric when the numeric average is
// needed.
func Normalize(raw map[string]any) Record {
	return Record{
		Location:          stringField(raw, "location"),
		Cuisine:           titleCase(stringField(raw, "cuisine")),
		PriceText:         stringField(raw, "price"),
		Payments:          listField(raw, "payments"),
		Offerings:         listField(raw, "offerings"),
		RecommendedDishes: listField(raw, "recommended_dishes"),
		ServiceOptions:    listField(raw, "service_options"),
		Amenities:         listField(raw, "amenities"),
		Crowd:             listField(raw, "crowd"),
		Hours:             stringField(raw, "hours"),
		Accessibility:     stringField(raw, "accessibility"),
		Highlights:        stringField(raw, "highlights"),
		Atmosphere:        stringField(raw, "atmosphere"),
		DiningOptions:     stringField(raw, "dining_options"),
		Planning:          stringField(raw, "planning"),
		Children:          stringField(raw, "children"),
		Pets:              stringField(raw, "pets"),
	}
}

// NormalizeNumeric is Normalize plus price conversion to a float average.
func NormalizeNumeric(raw map[string]any) Record {
	rec := Normalize(raw)
	rec.Price = ParsePrice(rec.PriceText)
	return rec
}

// ParsePrice converts a stated spend range like "$10-20" into a float average.
// A single number is used as-is; two or more numbers average the first two;
// anything unparseable yields 0.
func ParsePrice(price string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(price, "$", ""))
	if cleaned == "" {
		return 0.0
	}
	runs := digitRun.FindAllString(cleaned, -1)
	numbers := make([]float64, 0, len(runs))
	for _, run := range runs {
		numbers = append(numbers, atof(run))
	}
	switch {
	case len(numbers) == 1:
		return numbers[0]
	case len(numbers) >= 2:
		return (numbers[0] + numbers[1]) / 2.0
	default:
		return 0.0
	}
}

func atof(digits string) float64 {
	var n float64
	for _, r := range digits {
		n = n*10 + float64(r-'0')
	}
	return n
}

func stringField(raw map[string]any, key string) string {
	value, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// listField accepts either a comma-joined string or a sequence of strings and
// returns lower-cased, trimmed, non-empty tokens in input order.
func listField(raw map[string]any, key string) []string {
	value, ok := raw[key]
	if !ok {
		return []string{}
	}
	switch v := value.(type) {
	case string:
		return cleanTokens(strings.Split(v, ","))
	case []string:
		return cleanTokens(v)
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tokens = append(tokens, s)
			}
		}
		return cleanTokens(tokens)
	default:
		return []string{}
	}
}

func cleanTokens(in []string) []string {
	out := make([]string, 0, len(in))
	for _, token := range in {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest, with any non-letter acting as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}
