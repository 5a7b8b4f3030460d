package api

import (
	"math"

	"restaurant-viability/internal/geo"
	"restaurant-viability/internal/pipeline"
	"restaurant-viability/internal/store"
)

// neighborhoodDTO mirrors geo.Summary with NaN means flattened to zero so the
// payload stays valid JSON.
type neighborhoodDTO struct {
	VenueCount    int                      `json:"venue_count"`
	CuisineCounts map[string]int           `json:"cuisine_counts"`
	MeanReviews   float64                  `json:"mean_reviews"`
	MeanPrice     float64                  `json:"mean_price"`
	Hours         map[string]geo.DayWindow `json:"avg_operational_hours"`
}

type evaluationDTO struct {
	Area             string           `json:"area"`
	Coordinate       string           `json:"coordinate"`
	Cuisine          string           `json:"cuisine"`
	PredictedScore   float64          `json:"predicted_score"`
	Correction       float64          `json:"correction"`
	AdjustedScore    float64          `json:"adjusted_score"`
	ScoreAvailable   bool             `json:"score_available"`
	Corrected        bool             `json:"corrected"`
	Underserved      bool             `json:"underserved"`
	Neighborhood     *neighborhoodDTO `json:"neighborhood,omitempty"`
	RawAssessment    string           `json:"raw_assessment"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
}

type candidateDTO struct {
	Area       string         `json:"area"`
	Coordinate string         `json:"coordinate"`
	Error      string         `json:"error,omitempty"`
	Evaluation *evaluationDTO `json:"evaluation,omitempty"`
}

type storedEvaluationDTO struct {
	ID               uint    `json:"id"`
	Area             string  `json:"area"`
	Coordinate       string  `json:"coordinate"`
	Cuisine          string  `json:"cuisine"`
	PredictedScore   float64 `json:"predicted_score"`
	Correction       float64 `json:"correction"`
	AdjustedScore    float64 `json:"adjusted_score"`
	ScoreAvailable   bool    `json:"score_available"`
	Corrected        bool    `json:"corrected"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	CreatedAt        string  `json:"created_at"`
}

// placeRequest is one corpus restaurant as uploaded. List-valued attributes
// arrive as comma-joined strings, matching the scraped dataset.
type placeRequest struct {
	PlaceID           string           `json:"place_id"`
	Name              string           `json:"name"`
	Latitude          float64          `json:"latitude"`
	Longitude         float64          `json:"longitude"`
	Address           string           `json:"address"`
	Cuisine           string           `json:"cuisine"`
	Rating            float64          `json:"rating"`
	Reviews           *float64         `json:"reviews"`
	AveragePrice      *float64         `json:"average_price"`
	Price             string           `json:"price"`
	OpenHours         map[string][]int `json:"open_hours"`
	Payments          string           `json:"payments"`
	Offerings         string           `json:"offerings"`
	RecommendedDishes string           `json:"recommended_dishes"`
	ServiceOptions    string           `json:"service_options"`
	Amenities         string           `json:"amenities"`
	Crowd             string           `json:"crowd"`
	Hours             string           `json:"hours"`
	Accessibility     string           `json:"accessibility"`
	Highlights        string           `json:"highlights"`
	Atmosphere        string           `json:"atmosphere"`
	DiningOptions     string           `json:"dining_options"`
	Planning          string           `json:"planning"`
	Children          string           `json:"children"`
	Pets              string           `json:"pets"`
}

func (r placeRequest) model() store.Place {
	place := store.Place{
		PlaceID:           r.PlaceID,
		Name:              r.Name,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		Address:           r.Address,
		Cuisine:           r.Cuisine,
		Rating:            r.Rating,
		Reviews:           r.Reviews,
		AveragePrice:      r.AveragePrice,
		PriceText:         r.Price,
		Payments:          r.Payments,
		Offerings:         r.Offerings,
		RecommendedDishes: r.RecommendedDishes,
		ServiceOptions:    r.ServiceOptions,
		Amenities:         r.Amenities,
		Crowd:             r.Crowd,
		Hours:             r.Hours,
		Accessibility:     r.Accessibility,
		Highlights:        r.Highlights,
		Atmosphere:        r.Atmosphere,
		DiningOptions:     r.DiningOptions,
		Planning:          r.Planning,
		Children:          r.Children,
		Pets:              r.Pets,
	}
	place.SetOpenHours(r.OpenHours)
	return place
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func evaluationFromResult(res pipeline.Result) evaluationDTO {
	dto := evaluationDTO{
		Area:             res.Area,
		Coordinate:       res.Record.Location,
		Cuisine:          res.Record.Cuisine,
		PredictedScore:   res.PredictedScore,
		Correction:       res.Correction,
		AdjustedScore:    res.AdjustedScore,
		ScoreAvailable:   res.ScoreAvailable,
		Corrected:        res.Corrected,
		Underserved:      res.Underserved,
		RawAssessment:    res.RawAssessment,
		ProcessingTimeMs: res.ProcessingTimeMs,
	}
	if !res.Underserved {
		dto.Neighborhood = &neighborhoodDTO{
			VenueCount:    res.Neighborhood.VenueCount,
			CuisineCounts: res.Neighborhood.CuisineCounts,
			MeanReviews:   sanitize(res.Neighborhood.MeanReviews),
			MeanPrice:     sanitize(res.Neighborhood.MeanPrice),
			Hours:         res.Neighborhood.Hours,
		}
	}
	return dto
}

func storedFromModel(e store.Evaluation) storedEvaluationDTO {
	return storedEvaluationDTO{
		ID:               e.ID,
		Area:             e.Area,
		Coordinate:       e.Coordinate,
		Cuisine:          e.Cuisine,
		PredictedScore:   e.PredictedScore,
		Correction:       e.Correction,
		AdjustedScore:    e.AdjustedScore,
		ScoreAvailable:   e.ScoreAvailable,
		Corrected:        e.Corrected,
		ProcessingTimeMs: e.ProcessingTimeMs,
		CreatedAt:        e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
