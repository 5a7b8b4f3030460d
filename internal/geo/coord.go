package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCoordinate reads a "lat, lon" string, tolerating surrounding
// parentheses and whitespace.
func ParseCoordinate(s string) (float64, float64, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed coordinate %q", s)
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return 0, 0, fmt.Errorf("malformed coordinate %q", s)
	}
	return lat, lon, nil
}

// FormatCoordinate renders lat/lon in the "lat, lon" form ParseCoordinate
// accepts.
func FormatCoordinate(lat, lon float64) string {
	return fmt.Sprintf("%g, %g", lat, lon)
}
