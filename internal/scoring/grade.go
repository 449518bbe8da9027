// Package scoring implements the A10–F1 product grading engine: a 41-tier
// monthly-profit table adjusted by penalty and boost points, with hard
// disqualifiers that override the numeric result entirely.
package scoring

import (
	"fmt"
	"math"
)

// tier pairs a grade label with the minimum monthly profit (USD) that earns
// it. The table is an ordered slice, best grade first: the order defines both
// the base-grade walk and the "step N tiers" adjustment semantics.
type tier struct {
	Grade     string
	MinProfit float64
}

var gradeTiers = []tier{
	{"A10", 100000}, {"A9", 74000}, {"A8", 62000}, {"A7", 50000}, {"A6", 40000},
	{"A5", 32000}, {"A4", 26000}, {"A3", 20000}, {"A2", 16000}, {"A1", 12000},
	{"B10", 10000}, {"B9", 8500}, {"B8", 7000}, {"B7", 6000}, {"B6", 5000},
	{"B5", 4200}, {"B4", 3500}, {"B3", 3000}, {"B2", 2500}, {"B1", 2000},
	{"C10", 1700}, {"C9", 1400}, {"C8", 1200}, {"C7", 1000}, {"C6", 850},
	{"C5", 700}, {"C4", 600}, {"C3", 500}, {"C2", 400}, {"C1", 300},
	{"D10", 250}, {"D9", 200}, {"D8", 170}, {"D7", 140}, {"D6", 120},
	{"D5", 100}, {"D4", 85}, {"D3", 70}, {"D2", 60}, {"D1", 50},
	{"F1", 0},
}

// GradeAvoid is the literal grade forced by a risky consistency pattern.
const GradeAvoid = "Avoid"

// Disqualifier labels, matched by the precedence logic below.
const (
	disqProhibited  = "Prohibited Product"
	disqConsistency = "Risky Consistency Pattern"
	disqPriceLow    = "Price below $25 minimum"
	disqMarginLow   = "Margin below 15% minimum"
)

// Inputs is the immutable set of signals CalculateGrade consumes.
// Numeric fields are expected to be finite; non-finite values are sanitized
// to 0 before grading and noted in the breakdown.
type Inputs struct {
	MonthlyProfit    float64            `json:"monthlyProfit"`
	Price            float64            `json:"price"`
	Margin           float64            `json:"margin"`
	Reviews          float64            `json:"reviews"`
	AvgCPC           float64            `json:"avgCPC"`
	Risk             RiskClassification `json:"riskClassification"`
	Consistency      ConsistencyRating  `json:"consistencyRating"`
	PPU              float64            `json:"ppu"`
	BSR              *float64           `json:"bsr,omitempty"`
	Rating           *float64           `json:"rating,omitempty"`
	OpportunityScore *float64           `json:"opportunityScore,omitempty"`
}

// Breakdown records every step of a grading run for explainability.
type Breakdown struct {
	BaseGrade     string   `json:"baseGrade"`
	Disqualifiers []string `json:"disqualifiers"`
	PenaltyPoints int      `json:"penaltyPoints"`
	BoostPoints   int      `json:"boostPoints"`
	NetAdjustment int      `json:"netAdjustment"`
	Details       []string `json:"details"`
}

// Result is the output of CalculateGrade: the display grade, a numeric score
// for sorting/tie-breaks, and the full breakdown.
type Result struct {
	Grade     string    `json:"grade"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// sanitize replaces a non-finite value with 0, appending a note.
func sanitize(v float64, field string, details *[]string) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		*details = append(*details, fmt.Sprintf("%s: non-finite input sanitized to 0", field))
		return 0
	}
	return v
}

// CalculateGrade maps scoring inputs to a deterministic A10–F1 grade.
// Pure function: identical inputs always produce identical results, and it
// never panics regardless of input.
func CalculateGrade(in Inputs) Result {
	var details []string

	in.MonthlyProfit = sanitize(in.MonthlyProfit, "monthlyProfit", &details)
	in.Price = sanitize(in.Price, "price", &details)
	in.Margin = sanitize(in.Margin, "margin", &details)
	in.Reviews = sanitize(in.Reviews, "reviews", &details)
	in.AvgCPC = sanitize(in.AvgCPC, "avgCPC", &details)
	in.PPU = sanitize(in.PPU, "ppu", &details)

	// 1. Base grade: first tier whose threshold the profit clears.
	baseIdx := len(gradeTiers) - 1
	for i, t := range gradeTiers {
		if in.MonthlyProfit >= t.MinProfit {
			baseIdx = i
			break
		}
	}
	base := gradeTiers[baseIdx]
	details = append(details, fmt.Sprintf("base grade %s at $%.2f/mo profit", base.Grade, in.MonthlyProfit))

	// 2. Instant disqualifiers. Precedence: Prohibited risk, then risky
	// consistency, then the generic D1 demotion. All checks are evaluated
	// and recorded even when a higher-precedence one wins.
	var disqualifiers []string
	if in.Price < 25 {
		disqualifiers = append(disqualifiers, disqPriceLow)
	}
	if in.Margin < 0.15 {
		disqualifiers = append(disqualifiers, disqMarginLow)
	}
	if in.Risk == RiskProhibited {
		disqualifiers = append(disqualifiers, disqProhibited)
	}
	if in.Consistency == ConsistencyTrendy || in.Consistency == ConsistencyLow {
		disqualifiers = append(disqualifiers, disqConsistency)
	}
	if len(disqualifiers) > 0 {
		final := "D1"
		if contains(disqualifiers, disqProhibited) {
			final = "F1"
		} else if contains(disqualifiers, disqConsistency) {
			final = GradeAvoid
		}
		details = append(details, fmt.Sprintf("disqualified: %v, final grade %s", disqualifiers, final))
		return Result{
			Grade: final,
			Score: 0,
			Breakdown: Breakdown{
				BaseGrade:     base.Grade,
				Disqualifiers: disqualifiers,
				Details:       details,
			},
		}
	}

	// 3. Penalty points (cumulative).
	penalty := 0
	switch {
	case in.Reviews >= 500:
		penalty += 9
		details = append(details, "penalty -9: reviews >= 500")
	case in.Reviews >= 200:
		penalty += 5
		details = append(details, "penalty -5: reviews >= 200")
	case in.Reviews >= 50:
		penalty++
		details = append(details, "penalty -1: reviews >= 50")
	}
	if in.AvgCPC >= 2.50 {
		penalty += 3
		details = append(details, "penalty -3: avg CPC >= $2.50")
	}
	switch in.Risk {
	case RiskElectric:
		penalty += 4
		details = append(details, "penalty -4: electric product risk")
	case RiskBreakable:
		penalty += 5
		details = append(details, "penalty -5: breakable product risk")
	case RiskMedical:
		penalty += 6
		details = append(details, "penalty -6: medical product risk")
	}
	// The two low-margin penalties stack: a 10% margin incurs -6 total.
	if in.Margin < 0.25 {
		penalty += 3
		details = append(details, "penalty -3: margin < 25%")
	}
	if in.Margin < 0.20 {
		penalty += 3
		details = append(details, "penalty -3: margin < 20%")
	}
	if in.BSR != nil && *in.BSR > 100000 {
		penalty += 2
		details = append(details, "penalty -2: BSR > 100,000")
	}
	if in.Rating != nil && *in.Rating < 4.0 {
		penalty += 3
		details = append(details, "penalty -3: rating < 4.0")
	}

	// 4. Boost points (cumulative).
	boost := 0
	if in.AvgCPC < 0.50 {
		boost += 2
		details = append(details, "boost +2: avg CPC < $0.50")
	} else if in.AvgCPC < 1.00 {
		boost++
		details = append(details, "boost +1: avg CPC < $1.00")
	}
	switch {
	case in.Margin >= 0.45 && in.PPU >= 0.20:
		boost += 4
		details = append(details, "boost +4: margin >= 45% with PPU >= 0.20")
	case in.Margin >= 0.35:
		boost += 2
		details = append(details, "boost +2: margin >= 35%")
	case in.Margin >= 0.30:
		boost++
		details = append(details, "boost +1: margin >= 30%")
	}
	if in.Reviews < 20 {
		boost += 2
		details = append(details, "boost +2: reviews < 20")
	}
	if in.OpportunityScore != nil && *in.OpportunityScore >= 8 {
		boost += 2
		details = append(details, "boost +2: opportunity score >= 8")
	}
	if in.BSR != nil && *in.BSR < 10000 {
		boost++
		details = append(details, "boost +1: BSR < 10,000")
	}

	// 5. Net adjustment steps the grade through the ordered tier list,
	// clamped to [A10, F1].
	net := boost - penalty
	idx := baseIdx - net
	if idx < 0 {
		idx = 0
	}
	if idx > len(gradeTiers)-1 {
		idx = len(gradeTiers) - 1
	}
	grade := gradeTiers[idx].Grade
	details = append(details, fmt.Sprintf("net adjustment %+d tiers: %s -> %s", net, base.Grade, grade))

	// 6. A10 gate: the top grade requires every elite signal at once.
	if grade == "A10" {
		if !(in.MonthlyProfit >= 100000 && in.Reviews < 50 && in.AvgCPC < 0.50 && in.Margin >= 0.50 && in.PPU >= 0.20) {
			grade = "A9"
			details = append(details, "A10 gate failed, downgraded to A9")
		}
	}

	// 7. Numeric score for sorting: base tier value plus 1000 per net point.
	score := base.MinProfit + float64(net)*1000

	return Result{
		Grade: grade,
		Score: score,
		Breakdown: Breakdown{
			BaseGrade:     base.Grade,
			Disqualifiers: disqualifiers,
			PenaltyPoints: penalty,
			BoostPoints:   boost,
			NetAdjustment: net,
			Details:       details,
		},
	}
}

// GradeIndex returns the position of grade in the tier order (0 = A10),
// or -1 for labels outside the table (e.g. "Avoid").
func GradeIndex(grade string) int {
	for i, t := range gradeTiers {
		if t.Grade == grade {
			return i
		}
	}
	return -1
}

// GradeAt returns the grade label at position idx in the tier order,
// clamped to the table bounds.
func GradeAt(idx int) string {
	if idx < 0 {
		idx = 0
	}
	if idx > len(gradeTiers)-1 {
		idx = len(gradeTiers) - 1
	}
	return gradeTiers[idx].Grade
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
