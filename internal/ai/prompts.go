package ai

import (
	"fmt"
	"strings"

	"restaurant-viability/internal/attrs"
)

// AssessmentPromptInput carries the assembled context for the SWOT stage.
// Context fields arrive pre-rendered; empty strings are omitted from the
// prompt.
type AssessmentPromptInput struct {
	Record       attrs.Record
	Area         string
	Demographics string
	Neighborhood string
	Competitors  string
	Similar      string
	Construction string
}

// CoordinatesPromptInput carries the assembled context for the
// site-suggestion stage. Neighborhoods maps a similar restaurant's name to
// its rendered neighborhood context.
type CoordinatesPromptInput struct {
	Record        attrs.Record
	Similar       string
	Neighborhoods map[string]string
	Demographics  string
	Construction  string
}

// AssessmentPrompt builds the SWOT evaluation prompt. The expected output is
// a strict JSON object matching the assessment schema with an overall
// "Success Score" out of 100.
func AssessmentPrompt(in AssessmentPromptInput) string {
	b := &strings.Builder{}
	b.WriteString("You are an AI model tasked with evaluating a restaurant's potential success in Singapore.\n\n")
	b.WriteString("Restaurant Attributes:\n")
	b.WriteString(in.Record.PromptString())
	b.WriteString("\n\nNeighborhood Trends (based on geolocation):\n")
	b.WriteString(in.Neighborhood)
	if in.Competitors != "" {
		b.WriteString("\n\nCompetitors in the area most similar to the restaurant:\n")
		b.WriteString(in.Competitors)
	}
	if in.Similar != "" {
		b.WriteString("\n\nMost similar restaurants across Singapore. These are a basis for how well the concept performs, NOT competitors:\n")
		b.WriteString(in.Similar)
	}
	if in.Area != "" {
		fmt.Fprintf(b, "\n\nPlanning area: %s.", in.Area)
	}
	if in.Demographics != "" {
		b.WriteString("\nDemographics and population of the area:\n")
		b.WriteString(in.Demographics)
	}
	if in.Construction != "" {
		b.WriteString("\nConstruction and development in the area:\n")
		b.WriteString(in.Construction)
	}
	b.WriteString("\n\nPerform a SWOT analysis with four categories: strengths, weaknesses, opportunities, threats.\n")
	b.WriteString("Each category needs a category name, an explanation, a list of sub_factors (each with name, explanation, and a score out of 10), and a total_score out of 10.\n")
	b.WriteString("If a sub-factor clearly meets all expectations, assign it a perfect 10 rather than lowering it unnecessarily.\n")
	b.WriteString("If no one lives in the area and there are no neighboring restaurants, give the final score a 0 by default.\n")
	b.WriteString("Assign an overall success score from 0 to 100 under the key exactly \"Success Score\", rounded to 3 decimals.\n")
	b.WriteString("Return only a JSON object in this structure. No markdown, headers, or extra text:\n")
	b.WriteString(`{
  "strengths": {"category": "Strengths", "explanation": "...", "sub_factors": [{"name": "...", "explanation": "...", "score": 7.5}], "total_score": 7.0},
  "weaknesses": {...},
  "opportunities": {...},
  "threats": {...},
  "Success Score": 72.75
}`)
	return b.String()
}

// CoordinatesPrompt builds the ideal-location search prompt. The expected
// output ends with a "Best-Fit Coordinates:" block of (lat, lon) pairs that
// the site extractor consumes.
func CoordinatesPrompt(in CoordinatesPromptInput) string {
	b := &strings.Builder{}
	b.WriteString("You are a geo-aware AI model tasked with predicting ideal locations in Singapore for a restaurant with the following characteristics:\n")
	b.WriteString(in.Record.PromptString())
	if in.Similar != "" {
		b.WriteString("\n\nThe most similar existing restaurants across Singapore:\n")
		b.WriteString(in.Similar)
	}
	if len(in.Neighborhoods) > 0 {
		b.WriteString("\n\nNeighborhood context around each similar restaurant:")
		for name, context := range in.Neighborhoods {
			fmt.Fprintf(b, "\n%s:\n%s", name, context)
		}
	}
	if in.Demographics != "" {
		b.WriteString("\n\nDemographics and population:\n")
		b.WriteString(in.Demographics)
	}
	if in.Construction != "" {
		b.WriteString("\n\nConstruction and development:\n")
		b.WriteString(in.Construction)
	}
	b.WriteString("\n\nSuggest the top 3 planning areas where restaurants with similar traits are popular, competition is moderate to low, and demographics align well.\n")
	b.WriteString("Avoid coordinates next to similar restaurants that already have high ratings and reviews; the same planning area is fine.\n")
	b.WriteString("For each suggested area, propose approximate coordinates (up to 6 decimal places) within that planning area where success likelihood is high.\n")
	b.WriteString("\nEXPECTED OUTPUT FORMAT:\n\n")
	b.WriteString("Suggested Planning Areas for Input Traits:\n")
	b.WriteString("1. Bugis (Central Area): high density, tourism traffic, strong match.\n")
	b.WriteString("2. Tiong Bahru: residential, strong coffee culture.\n")
	b.WriteString("3. Pasir Ris: underserved area for this profile.\n\n")
	b.WriteString("Best-Fit Coordinates:\n")
	b.WriteString("- **Bugis**: (1.301234, 103.854321)\n")
	b.WriteString("- **Tiong Bahru**: (1.321111, 103.888888)\n")
	b.WriteString("- **Pasir Ris**: (1.377777, 103.949494)\n")
	return b.String()
}
