package scoring

import (
	"fmt"
	"strings"
)

// Candidate is a raw scraped product before any verified sales data exists.
// Rating 0 means unknown (no adjustment applied).
type Candidate struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Reviews  int     `json:"reviews"`
	Rating   float64 `json:"rating"`
	Keyword  string  `json:"keyword,omitempty"`
}

// CandidateScore is the preliminary 0-100 ranking used to pre-rank a large
// scraped pool before the expensive verified scoring path runs. The
// EstimatedGrade band is display-only and never feeds CalculateGrade.
type CandidateScore struct {
	Score          int      `json:"score"`
	EstimatedGrade string   `json:"estimatedGrade"`
	Reasoning      []string `json:"reasoning"`
}

// ScoreCandidate ranks a scraped candidate on a 0-100 scale starting at 50.
func ScoreCandidate(c Candidate) CandidateScore {
	score := 50
	var reasoning []string

	switch {
	case c.Price >= 50:
		score += 15
		reasoning = append(reasoning, "price $50+ (+15)")
	case c.Price >= 25:
		score += 8
		reasoning = append(reasoning, "price $25+ (+8)")
	default:
		score -= 20
		reasoning = append(reasoning, "price below $25 (-20)")
	}

	switch {
	case c.Reviews < 20:
		score += 25
		reasoning = append(reasoning, "under 20 reviews (+25)")
	case c.Reviews < 50:
		score += 15
		reasoning = append(reasoning, "under 50 reviews (+15)")
	case c.Reviews < 200:
		score += 5
		reasoning = append(reasoning, "under 200 reviews (+5)")
	case c.Reviews < 500:
		score -= 5
		reasoning = append(reasoning, "competitive review count (-5)")
	default:
		score -= 15
		reasoning = append(reasoning, "saturated review count (-15)")
	}

	if c.Rating > 0 {
		switch {
		case c.Rating >= 4.5:
			score += 10
			reasoning = append(reasoning, "rating 4.5+ (+10)")
		case c.Rating >= 4.0:
			score += 5
			reasoning = append(reasoning, "rating 4.0+ (+5)")
		case c.Rating < 3.5:
			score -= 10
			reasoning = append(reasoning, "rating below 3.5 (-10)")
		}
	}

	category := strings.ToLower(c.Category)
	if strings.Contains(category, "automotive") {
		score += 10
		reasoning = append(reasoning, "automotive niche category (+10)")
	} else if strings.Contains(category, "electronics") && !strings.Contains(category, "accessor") {
		score -= 10
		reasoning = append(reasoning, "non-accessory electronics (-10)")
	}

	if titleMatchesKeyword(c.Title, c.Keyword) {
		score += 15
		reasoning = append(reasoning, "title matches search keyword (+15)")
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	reasoning = append(reasoning, fmt.Sprintf("final score %d/100", score))

	return CandidateScore{
		Score:          score,
		EstimatedGrade: estimatedBand(score),
		Reasoning:      reasoning,
	}
}

// titleMatchesKeyword reports whether every keyword term appears in the title.
func titleMatchesKeyword(title, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	t := strings.ToLower(title)
	for _, term := range strings.Fields(strings.ToLower(keyword)) {
		if !strings.Contains(t, term) {
			return false
		}
	}
	return true
}

// estimatedBand maps a 0-100 score to a coarse display band in 5-point steps
// (A5 best, F1 at zero).
func estimatedBand(score int) string {
	bands := []string{
		"A5", "A4", "A3", "A2", "A1",
		"B5", "B4", "B3", "B2", "B1",
		"C5", "C4", "C3", "C2", "C1",
		"D5", "D4", "D3", "D2", "D1",
	}
	for i, floor := 0, 95; floor >= 0; i, floor = i+1, floor-5 {
		if i >= len(bands) {
			break
		}
		if score >= floor && score > 0 {
			return bands[i]
		}
	}
	return "F1"
}
