package aiclassify

import (
	"encoding/json"
	"regexp"
	"strings"

	"organizer/internal/classification"
)

// jsonBlockPattern extracts the first JSON object from model output that
// may be wrapped in prose or code fences.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

type adultResponse struct {
	IsJAV      bool    `json:"is_jav"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type mediaResponse struct {
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// parseAdultVerdict reads the adult-content check response. Unparseable
// output falls back to keyword sniffing with reduced confidence.
func parseAdultVerdict(content string) classification.Verdict {
	if block := jsonBlockPattern.FindString(content); block != "" {
		var resp adultResponse
		if err := json.Unmarshal([]byte(block), &resp); err == nil {
			verdict := classification.Verdict{
				Confidence: clampConfidence(resp.Confidence),
				Reasoning:  resp.Reasoning,
			}
			if resp.IsJAV {
				verdict.Category = classification.CategoryJAV
			}
			return verdict
		}
	}

	upper := strings.ToUpper(content)
	if strings.Contains(upper, "JAV") || strings.Contains(upper, "JAPANESE") {
		return classification.Verdict{Category: classification.CategoryJAV, Confidence: 0.8, Reasoning: content}
	}
	return classification.Verdict{Confidence: 0.3, Reasoning: content}
}

// parseMediaVerdict reads the Shows/Movie response, falling back to
// keyword sniffing and then to the rule-based label.
func parseMediaVerdict(content string, fallback classification.Category) classification.Verdict {
	if block := jsonBlockPattern.FindString(content); block != "" {
		var resp mediaResponse
		if err := json.Unmarshal([]byte(block), &resp); err == nil {
			category := classification.ParseCategory(resp.Classification)
			return classification.Verdict{
				Category:   category,
				Confidence: clampConfidence(resp.Confidence),
				Reasoning:  resp.Reasoning,
			}
		}
	}

	upper := strings.ToUpper(content)
	if strings.Contains(upper, "SHOW") || strings.Contains(upper, "SERIES") || strings.Contains(upper, "EPISODE") {
		return classification.Verdict{Category: classification.CategoryShows, Confidence: 0.7, Reasoning: content}
	}
	return classification.Verdict{Category: fallback, Confidence: 0.5, Reasoning: content}
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
