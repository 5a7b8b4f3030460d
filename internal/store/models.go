package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"restaurant-viability/internal/geo"
)

func formatLocation(lat, lon float64) string {
	return fmt.Sprintf("%g, %g", lat, lon)
}

// Place is a restaurant from the scraped corpus. List-valued attributes are
// stored as comma-joined text, matching the source dataset.
type Place struct {
	ID                uint    `gorm:"primaryKey"`
	PlaceID           string  `gorm:"size:128;uniqueIndex"`
	Name              string  `gorm:"size:256;index"`
	Latitude          float64 `gorm:"index"`
	Longitude         float64 `gorm:"index"`
	Address           string  `gorm:"size:512"`
	Cuisine           string  `gorm:"size:128;index"`
	Rating            float64
	Reviews           *float64
	AveragePrice      *float64
	PriceText         string `gorm:"size:64"`
	OpenHoursJSON     string `gorm:"type:text"`
	Payments          string `gorm:"type:text"`
	Offerings         string `gorm:"type:text"`
	RecommendedDishes string `gorm:"type:text"`
	ServiceOptions    string `gorm:"type:text"`
	Amenities         string `gorm:"type:text"`
	Crowd             string `gorm:"type:text"`
	Hours             string `gorm:"type:text"`
	Accessibility     string `gorm:"type:text"`
	Highlights        string `gorm:"type:text"`
	Atmosphere        string `gorm:"type:text"`
	DiningOptions     string `gorm:"type:text"`
	Planning          string `gorm:"type:text"`
	Children          string `gorm:"type:text"`
	Pets              string `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SetOpenHours persists the weekday opening windows as JSON. Each window is
// [startHour, startMinute, endHour, endMinute].
func (p *Place) SetOpenHours(hours map[string][]int) {
	if hours == nil {
		p.OpenHoursJSON = "{}"
		return
	}
	payload, _ := json.Marshal(hours)
	p.OpenHoursJSON = string(payload)
}

// OpenHours returns the decoded weekday opening windows.
func (p *Place) OpenHours() map[string][]int {
	if strings.TrimSpace(p.OpenHoursJSON) == "" {
		return nil
	}
	var out map[string][]int
	if err := json.Unmarshal([]byte(p.OpenHoursJSON), &out); err != nil {
		return nil
	}
	return out
}

// Attributes returns the place as a flat attribute map suitable for
// normalization and prompt rendering.
func (p *Place) Attributes() map[string]any {
	location := ""
	if p.Latitude != 0 || p.Longitude != 0 {
		location = formatLocation(p.Latitude, p.Longitude)
	}
	return map[string]any{
		"location":           location,
		"cuisine":            p.Cuisine,
		"price":              p.PriceText,
		"payments":           p.Payments,
		"offerings":          p.Offerings,
		"recommended_dishes": p.RecommendedDishes,
		"service_options":    p.ServiceOptions,
		"amenities":          p.Amenities,
		"crowd":              p.Crowd,
		"hours":              p.Hours,
		"accessibility":      p.Accessibility,
		"highlights":         p.Highlights,
		"atmosphere":         p.Atmosphere,
		"dining_options":     p.DiningOptions,
		"planning":           p.Planning,
		"children":           p.Children,
		"pets":               p.Pets,
	}
}

// Venue converts the place into the form the neighborhood aggregator
// consumes. Missing review and price figures become NaN so they drop out of
// the aggregate means.
func (p *Place) Venue() geo.Venue {
	reviews := math.NaN()
	if p.Reviews != nil {
		reviews = *p.Reviews
	}
	price := math.NaN()
	if p.AveragePrice != nil {
		price = *p.AveragePrice
	}
	return geo.Venue{
		Name:    p.Name,
		Lat:     p.Latitude,
		Lon:     p.Longitude,
		Cuisine: p.Cuisine,
		Reviews: reviews,
		Price:   price,
		Hours:   p.OpenHours(),
	}
}

// Evaluation is a persisted viability run for one site.
type Evaluation struct {
	ID               uint   `gorm:"primaryKey"`
	Area             string `gorm:"size:128;index"`
	Coordinate       string `gorm:"size:64"`
	Cuisine          string `gorm:"size:128;index"`
	PredictedScore   float64
	Correction       float64
	AdjustedScore    float64 `gorm:"index"`
	ScoreAvailable   bool
	Corrected        bool
	RawAssessment    string `gorm:"type:text"`
	ProcessingTimeMs int64
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}
