package swot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"restaurant-viability/internal/observability"
)

// FeatureLen is the fixed width of the assessment feature vector: four
// categories, each contributing a total score plus exactly three sub-factor
// scores.
const (
	FeatureLen           = 16
	subFactorsPerCategory = 3
)

// ErrNoJSON is returned when no brace-delimited object can be located.
var ErrNoJSON = errors.New("no JSON object found in assessment text")

type subFactorJSON struct {
	Name        *string  `json:"name"`
	Explanation *string  `json:"explanation"`
	Score       *float64 `json:"score"`
}

type categoryJSON struct {
	Category    *string          `json:"category"`
	Explanation *string          `json:"explanation"`
	SubFactors  *[]subFactorJSON `json:"sub_factors"`
	TotalScore  *float64         `json:"total_score"`
}

type analysisJSON struct {
	Strengths     *categoryJSON `json:"strengths"`
	Weaknesses    *categoryJSON `json:"weaknesses"`
	Opportunities *categoryJSON `json:"opportunities"`
	Threats       *categoryJSON `json:"threats"`
	SuccessScore  *float64      `json:"Success Score"`
	SuccessSnake  *float64      `json:"success_score"`
}

// Parse extracts a validated Analysis from noisy generated text. The input
// may be fenced in markdown and surrounded by prose; only the span from the
// first '{' to the last '}' is decoded. Any schema violation is returned as
// an error so callers can pick their own fallback.
func Parse(raw string) (Analysis, error) {
	block := extractJSONBlock(raw)
	if block == "" {
		return Analysis{}, ErrNoJSON
	}

	var decoded analysisJSON
	if err := json.Unmarshal([]byte(block), &decoded); err != nil {
		return Analysis{}, fmt.Errorf("decode assessment: %w", err)
	}
	return validate(decoded)
}

// Validate checks an already-structured analysis the same way Parse validates
// decoded text and returns it with scores clamped to range.
func Validate(a Analysis) Analysis {
	a.Strengths = clampCategory(a.Strengths)
	a.Weaknesses = clampCategory(a.Weaknesses)
	a.Opportunities = clampCategory(a.Opportunities)
	a.Threats = clampCategory(a.Threats)
	a.SuccessScore = clamp(a.SuccessScore, 0, 100)
	return a
}

// Features extracts the fixed 16-float assessment feature vector from raw
// generated text. It never fails: any parse or validation error logs a
// warning and yields the all-zero vector.
func Features(raw string) []float64 {
	parsed, err := Parse(raw)
	if err != nil {
		logrus.WithError(err).Warn("assessment feature extraction failed, using zero vector")
		observability.ParseFailures.Inc()
		return make([]float64, FeatureLen)
	}
	return FeaturesFromAnalysis(parsed)
}

// FeaturesFromAnalysis derives the 16-float feature vector from a validated
// analysis: per category in document order, the total score followed by the
// first three sub-factor scores, zero-padded when fewer exist.
func FeaturesFromAnalysis(a Analysis) []float64 {
	features := make([]float64, 0, FeatureLen)
	for _, category := range a.Categories() {
		features = append(features, category.TotalScore)
		for i := 0; i < subFactorsPerCategory; i++ {
			if i < len(category.SubFactors) {
				features = append(features, category.SubFactors[i].Score)
			} else {
				features = append(features, 0.0)
			}
		}
	}
	return features
}

// SuccessScore pulls the overall 0-100 score out of raw generated text,
// rounded to 3 decimals. The boolean is false when the text is unusable,
// which callers must treat as distinct from a valid zero score.
func SuccessScore(raw string) (float64, bool) {
	parsed, err := Parse(raw)
	if err != nil {
		logrus.WithError(err).Warn("no success score extractable from assessment text")
		return 0, false
	}
	return math.Round(parsed.SuccessScore*1000) / 1000, true
}

// extractJSONBlock strips markdown fences and returns the span from the first
// '{' to the last '}', tolerating prose on either side.
func extractJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if strings.HasSuffix(trimmed, "```") {
			trimmed = trimmed[:len(trimmed)-3]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}

func validate(decoded analysisJSON) (Analysis, error) {
	quadrants := []struct {
		name string
		raw  *categoryJSON
	}{
		{"strengths", decoded.Strengths},
		{"weaknesses", decoded.Weaknesses},
		{"opportunities", decoded.Opportunities},
		{"threats", decoded.Threats},
	}

	categories := make([]Category, 0, len(quadrants))
	for _, q := range quadrants {
		category, err := validateCategory(q.name, q.raw)
		if err != nil {
			return Analysis{}, err
		}
		categories = append(categories, category)
	}

	score := decoded.SuccessScore
	if score == nil {
		score = decoded.SuccessSnake
	}
	if score == nil {
		return Analysis{}, errors.New(`missing "Success Score"`)
	}

	return Analysis{
		Strengths:     categories[0],
		Weaknesses:    categories[1],
		Opportunities: categories[2],
		Threats:       categories[3],
		SuccessScore:  clamp(*score, 0, 100),
	}, nil
}

func validateCategory(name string, raw *categoryJSON) (Category, error) {
	if raw == nil {
		return Category{}, fmt.Errorf("missing category %q", name)
	}
	if raw.Category == nil || raw.Explanation == nil || raw.SubFactors == nil || raw.TotalScore == nil {
		return Category{}, fmt.Errorf("category %q missing required fields", name)
	}
	subs := make([]SubFactor, 0, len(*raw.SubFactors))
	for i, sf := range *raw.SubFactors {
		if sf.Name == nil || sf.Explanation == nil || sf.Score == nil {
			return Category{}, fmt.Errorf("category %q sub_factor %d missing required fields", name, i)
		}
		subs = append(subs, SubFactor{
			Name:        *sf.Name,
			Explanation: *sf.Explanation,
			Score:       clamp(*sf.Score, 0, 10),
		})
	}
	return Category{
		Category:    *raw.Category,
		Explanation: *raw.Explanation,
		SubFactors:  subs,
		TotalScore:  clamp(*raw.TotalScore, 0, 10),
	}, nil
}

func clampCategory(c Category) Category {
	c.TotalScore = clamp(c.TotalScore, 0, 10)
	for i := range c.SubFactors {
		c.SubFactors[i].Score = clamp(c.SubFactors[i].Score, 0, 10)
	}
	return c
}

func clamp(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
