package swot

import (
	"fmt"
	"testing"
)

func validJSON() string {
	category := func(name string, subs int) string {
		out := fmt.Sprintf(`"%s": {"category": %q, "explanation": "overall", "sub_factors": [`, name, name)
		for i := 0; i < subs; i++ {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf(`{"name": "factor %d", "explanation": "why", "score": %d}`, i+1, i+5)
		}
		out += `], "total_score": 7.0}`
		return out
	}
	return "{" +
		category("strengths", 3) + "," +
		category("weaknesses", 2) + "," +
		category("opportunities", 3) + "," +
		category("threats", 4) + "," +
		`"Success Score": 72.756}`
}

func TestParseFencedJSON(t *testing.T) {
	raw := "```json\n" + validJSON() + "\n```"
	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, category := range parsed.Categories() {
		if category.TotalScore < 0 || category.TotalScore > 10 {
			t.Fatalf("total score out of range: %v", category.TotalScore)
		}
	}
	if parsed.SuccessScore < 0 || parsed.SuccessScore > 100 {
		t.Fatalf("success score out of range: %v", parsed.SuccessScore)
	}
}

func TestParseToleratesSurroundingProse(t *testing.T) {
	raw := "Here is the requested analysis:\n" + validJSON() + "\nHope this helps!"
	if _, err := Parse(raw); err != nil {
		t.Fatalf("parse with prose: %v", err)
	}
}

func TestParseSnakeCaseScoreKey(t *testing.T) {
	raw := validJSON()
	raw = raw[:len(raw)-len(`"Success Score": 72.756}`)] + `"success_score": 55.5}`
	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.SuccessScore != 55.5 {
		t.Fatalf("expected 55.5 got %v", parsed.SuccessScore)
	}
}

func TestParseMissingCategory(t *testing.T) {
	raw := `{"strengths": {"category": "s", "explanation": "e", "sub_factors": [], "total_score": 5}, "Success Score": 50}`
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for missing categories")
	}
}

func TestParseMissingScoreKey(t *testing.T) {
	raw := validJSON()
	raw = raw[:len(raw)-len(`,"Success Score": 72.756}`)] + "}"
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for missing success score")
	}
}

func TestFeaturesAlwaysSixteen(t *testing.T) {
	inputs := []string{
		"",
		"no json here at all",
		"{truncated",
		`{"strengths": "wrong type"}`,
		validJSON(),
		"```json\n" + validJSON() + "\n```",
	}
	for _, input := range inputs {
		if got := Features(input); len(got) != FeatureLen {
			t.Fatalf("expected %d features for %q, got %d", FeatureLen, input, len(got))
		}
	}
}

func TestFeaturesZeroFallback(t *testing.T) {
	got := Features("{not valid json")
	for i, v := range got {
		if v != 0 {
			t.Fatalf("expected zero vector, index %d = %v", i, v)
		}
	}
}

func TestFeaturesOrderAndPadding(t *testing.T) {
	got := Features(validJSON())
	// Per category: total score then exactly three sub-factor scores.
	// Strengths has 3 sub-factors scored 5, 6, 7.
	expectHead := []float64{7, 5, 6, 7}
	for i, want := range expectHead {
		if got[i] != want {
			t.Fatalf("strengths segment mismatch at %d: expected %v got %v (%v)", i, want, got[i], got)
		}
	}
	// Weaknesses has only 2 sub-factors: third slot zero-padded.
	if got[4] != 7 || got[5] != 5 || got[6] != 6 || got[7] != 0 {
		t.Fatalf("weaknesses segment not zero-padded: %v", got[4:8])
	}
	// Threats has 4 sub-factors: truncated to three.
	if got[12] != 7 || got[13] != 5 || got[14] != 6 || got[15] != 7 {
		t.Fatalf("threats segment not truncated: %v", got[12:16])
	}
}

func TestSuccessScoreSentinel(t *testing.T) {
	if _, ok := SuccessScore("completely unusable"); ok {
		t.Fatal("expected no-score sentinel for unusable text")
	}
	if _, ok := SuccessScore("{truncated"); ok {
		t.Fatal("expected no-score sentinel for truncated JSON")
	}

	score, ok := SuccessScore(validJSON())
	if !ok {
		t.Fatal("expected score from valid JSON")
	}
	if score != 72.756 {
		t.Fatalf("expected 72.756 got %v", score)
	}

	// A valid zero is a score, not the sentinel.
	zeroed := validJSON()
	zeroed = zeroed[:len(zeroed)-len(`"Success Score": 72.756}`)] + `"Success Score": 0}`
	score, ok = SuccessScore(zeroed)
	if !ok || score != 0 {
		t.Fatalf("expected valid zero score, got %v ok=%v", score, ok)
	}
}

func TestSuccessScoreClamped(t *testing.T) {
	raw := validJSON()
	raw = raw[:len(raw)-len(`"Success Score": 72.756}`)] + `"Success Score": 140}`
	score, ok := SuccessScore(raw)
	if !ok || score != 100 {
		t.Fatalf("expected clamp to 100, got %v ok=%v", score, ok)
	}
}
