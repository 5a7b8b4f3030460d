package planning

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Area is a named planning area polygon. Rings hold [lon, lat] pairs; the
// first ring is the outer boundary and any remaining rings are holes.
type Area struct {
	Name  string         `json:"name"`
	Rings [][][2]float64 `json:"rings"`
}

// Locator resolves coordinates to Singapore planning areas.
type Locator struct {
	areas []Area
}

// NewLocator builds a locator over the supplied areas.
func NewLocator(areas []Area) *Locator {
	return &Locator{areas: areas}
}

// Load reads planning area polygons from a JSON file.
func Load(path string) (*Locator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read planning areas: %w", err)
	}

	var areas []Area
	if err := json.Unmarshal(data, &areas); err != nil {
		return nil, fmt.Errorf("parse planning areas: %w", err)
	}

	var valid []Area
	for _, area := range areas {
		if strings.TrimSpace(area.Name) == "" || len(area.Rings) == 0 {
			continue
		}
		valid = append(valid, area)
	}
	return NewLocator(valid), nil
}

// Len reports how many areas the locator knows about.
func (l *Locator) Len() int {
	if l == nil {
		return 0
	}
	return len(l.areas)
}

// Locate returns the planning area containing the point, if any.
func (l *Locator) Locate(lat, lon float64) (string, bool) {
	if l == nil {
		return "", false
	}
	for _, area := range l.areas {
		if containsPoint(area.Rings, lon, lat) {
			return area.Name, true
		}
	}
	return "", false
}

func containsPoint(rings [][][2]float64, x, y float64) bool {
	if len(rings) == 0 || !inRing(rings[0], x, y) {
		return false
	}
	for _, hole := range rings[1:] {
		if inRing(hole, x, y) {
			return false
		}
	}
	return true
}

// inRing runs the even-odd ray casting test.
func inRing(ring [][2]float64, x, y float64) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
