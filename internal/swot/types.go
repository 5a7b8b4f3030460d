package swot

// SubFactor is one scored reason within a SWOT category.
type SubFactor struct {
	Name        string  `json:"name"`
	Explanation string  `json:"explanation"`
	Score       float64 `json:"score"`
}

// Category holds one SWOT quadrant with its weighted sub-factors.
type Category struct {
	Category    string      `json:"category"`
	Explanation string      `json:"explanation"`
	SubFactors  []SubFactor `json:"sub_factors"`
	TotalScore  float64     `json:"total_score"`
}

// Analysis is the validated structured assessment extracted from generated
// text. SuccessScore is the overall 0-100 score carried under the
// "Success Score" key.
type Analysis struct {
	Strengths     Category `json:"strengths"`
	Weaknesses    Category `json:"weaknesses"`
	Opportunities Category `json:"opportunities"`
	Threats       Category `json:"threats"`
	SuccessScore  float64  `json:"success_score"`
}

// Categories returns the four quadrants in document order. Feature extraction
// and any ordered consumer must go through this accessor.
func (a Analysis) Categories() []Category {
	return []Category{a.Strengths, a.Weaknesses, a.Opportunities, a.Threats}
}
