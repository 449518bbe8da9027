package engine

import (
	"fmt"

	"launchfast/internal/safemath"
	"launchfast/internal/scoring"
)

// Market is the aggregate view over every valid product in a market.
// All avg* figures carry provenance; ValidProducts <= TotalProducts always
// holds, and a market with zero valid products is fully zeroed with grade F1.
type Market struct {
	AvgMonthlyRevenue safemath.SafeNumber `json:"avgMonthlyRevenue"`
	AvgMonthlySales   safemath.SafeNumber `json:"avgMonthlySales"`
	AvgMonthlyProfit  safemath.SafeNumber `json:"avgMonthlyProfit"`
	AvgProfitPerUnit  safemath.SafeNumber `json:"avgProfitPerUnit"`
	AvgMargin         safemath.SafeNumber `json:"avgMargin"`
	AvgPrice          safemath.SafeNumber `json:"avgPrice"`
	AvgReviews        safemath.SafeNumber `json:"avgReviews"`
	AvgRating         safemath.SafeNumber `json:"avgRating"`
	AvgBSR            safemath.SafeNumber `json:"avgBsr"`
	AvgCPC            safemath.SafeNumber `json:"avgCpc"`
	AvgDailyRevenue   safemath.SafeNumber `json:"avgDailyRevenue"`
	AvgLaunchBudget   safemath.SafeNumber `json:"avgLaunchBudget"`

	MarketGrade       string                     `json:"marketGrade"`
	MarketRisk        scoring.RiskClassification `json:"marketRisk"`
	MarketConsistency scoring.ConsistencyRating  `json:"marketConsistency"`
	OpportunityScore  float64                    `json:"opportunityScore"`

	TotalProducts    int      `json:"totalProducts"`
	ValidProducts    int      `json:"validProducts"`
	IsValid          bool     `json:"isValid"`
	ValidationErrors []string `json:"validationErrors"`
}

// MarketMetrics aggregates N products into market-level metrics and derives
// the market grade through the same engine used for single products.
func (e *Engine) MarketMetrics(products []*Product) Result[Market] {
	meta := Metadata{
		InputCount:      len(products),
		CalculationPath: "market aggregation",
		Context:         e.ctx,
	}

	var valid []*Product
	for _, p := range products {
		if e.IsValidProduct(p) {
			valid = append(valid, p)
		}
	}
	meta.ValidInputCount = len(valid)

	if len(valid) == 0 {
		m := emptyMarket(len(products))
		return Result[Market]{
			Value: m,
			Validation: Validation{
				IsValid: false,
				Errors:  []string{"No valid products found for market calculation"},
			},
			Metadata: meta,
		}
	}

	metrics := e.ExtractAll(valid)

	m := Market{
		AvgMonthlyRevenue: avgOf(metrics, "avg monthly revenue", func(pm ProductMetrics) float64 { return pm.MonthlyRevenue.Value }),
		AvgMonthlySales:   avgOf(metrics, "avg monthly sales", func(pm ProductMetrics) float64 { return pm.MonthlySales.Value }),
		AvgMonthlyProfit:  avgOf(metrics, "avg monthly profit", func(pm ProductMetrics) float64 { return pm.MonthlyProfit.Value }),
		AvgMargin:         avgOf(metrics, "avg margin", func(pm ProductMetrics) float64 { return pm.Margin.Value }),
		AvgPrice:          avgOf(metrics, "avg price", func(pm ProductMetrics) float64 { return pm.Price.Value }),
		AvgReviews:        avgOf(metrics, "avg reviews", func(pm ProductMetrics) float64 { return pm.Reviews.Value }),
		AvgRating:         avgOf(metrics, "avg rating", func(pm ProductMetrics) float64 { return pm.Rating.Value }),
		AvgBSR:            avgOf(metrics, "avg bsr", func(pm ProductMetrics) float64 { return pm.BSR.Value }),
		AvgCPC:            avgOf(metrics, "avg cpc", func(pm ProductMetrics) float64 { return pm.AvgCPC.Value }),
		TotalProducts:     len(products),
		ValidProducts:     len(valid),
	}

	// Market PPU is the ratio of aggregates, never the mean of per-product
	// ratios: small-sample products would otherwise skew the figure.
	m.AvgProfitPerUnit = safemath.Divide(m.AvgMonthlyProfit.Value, m.AvgMonthlySales.Value, 0, "market profit per unit")

	m.AvgDailyRevenue = safemath.Divide(m.AvgMonthlyRevenue.Value, 30, 0, "avg daily revenue")
	m.AvgLaunchBudget = safemath.SafeNumber{
		Value:   m.AvgMonthlyRevenue.Value * 0.1,
		IsValid: m.AvgMonthlyRevenue.IsValid,
		Source:  m.AvgMonthlyRevenue.Source,
	}

	m.MarketRisk = marketRisk(metrics)
	m.MarketConsistency = marketConsistency(metrics)

	grade := scoring.CalculateGrade(scoring.Inputs{
		MonthlyProfit: m.AvgMonthlyProfit.Value,
		Price:         m.AvgPrice.Value,
		Margin:        m.AvgMargin.Value,
		Reviews:       m.AvgReviews.Value,
		AvgCPC:        m.AvgCPC.Value,
		Risk:          m.MarketRisk,
		Consistency:   m.MarketConsistency,
		PPU:           m.AvgProfitPerUnit.Value,
		BSR:           &m.AvgBSR.Value,
		Rating:        &m.AvgRating.Value,
	})
	m.MarketGrade = grade.Grade

	// Collect every fallback across the aggregation for observability.
	for i, pm := range metrics {
		for _, reason := range pm.ValidationErrors {
			meta.FallbacksUsed = append(meta.FallbacksUsed, fmt.Sprintf("product %d: %s", i, reason))
		}
	}
	for _, sn := range []safemath.SafeNumber{
		m.AvgMonthlyRevenue, m.AvgMonthlySales, m.AvgMonthlyProfit, m.AvgProfitPerUnit,
		m.AvgMargin, m.AvgPrice, m.AvgReviews, m.AvgRating, m.AvgBSR, m.AvgCPC, m.AvgDailyRevenue,
	} {
		if !sn.IsValid && sn.FallbackReason != "" {
			m.ValidationErrors = append(m.ValidationErrors, sn.FallbackReason)
			meta.FallbacksUsed = append(meta.FallbacksUsed, sn.FallbackReason)
		}
	}
	m.IsValid = len(m.ValidationErrors) == 0

	return Result[Market]{
		Value: m,
		Validation: Validation{
			IsValid: m.IsValid,
			Errors:  m.ValidationErrors,
		},
		Metadata: meta,
	}
}

// emptyMarket is the all-fallback aggregate returned when no product
// survives validation.
func emptyMarket(total int) Market {
	zero := safemath.SafeNumber{
		Value:          0,
		IsValid:        false,
		Source:         safemath.SourceFallback,
		FallbackReason: "no valid products",
	}
	return Market{
		AvgMonthlyRevenue: zero,
		AvgMonthlySales:   zero,
		AvgMonthlyProfit:  zero,
		AvgProfitPerUnit:  zero,
		AvgMargin:         zero,
		AvgPrice:          zero,
		AvgReviews:        zero,
		AvgRating:         zero,
		AvgBSR:            zero,
		AvgCPC:            zero,
		AvgDailyRevenue:   zero,
		AvgLaunchBudget:   zero,
		MarketGrade:       "F1",
		MarketRisk:        scoring.RiskSafe,
		MarketConsistency: scoring.ConsistencyConsistent,
		TotalProducts:     total,
		ValidProducts:     0,
		IsValid:           false,
		ValidationErrors:  []string{"No valid products found for market calculation"},
	}
}

// avgOf averages one extracted field across all product metric snapshots.
// Fallback values participate: they are already clamped to sane ranges.
func avgOf(metrics []ProductMetrics, context string, pick func(ProductMetrics) float64) safemath.SafeNumber {
	values := make([]float64, len(metrics))
	for i, pm := range metrics {
		values[i] = pick(pm)
	}
	return safemath.Average(values, 0, context)
}

// marketRisk is the highest-severity classification present across the
// products, defaulting to Safe when no product reports one. The frequency
// fallback covers the degenerate case of an empty metric set.
func marketRisk(metrics []ProductMetrics) scoring.RiskClassification {
	var worst scoring.RiskClassification
	counts := make(map[scoring.RiskClassification]int)
	for _, pm := range metrics {
		if pm.Risk == "" {
			continue
		}
		counts[pm.Risk]++
		if worst == "" || scoring.RiskSeverity(pm.Risk) > scoring.RiskSeverity(worst) {
			worst = pm.Risk
		}
	}
	if len(counts) == 0 {
		return scoring.RiskSafe
	}
	if worst != "" {
		return worst
	}
	// Hierarchy yielded nothing; fall back to the most frequent label.
	var frequent scoring.RiskClassification
	best := 0
	for r, n := range counts {
		if n > best {
			frequent, best = r, n
		}
	}
	if frequent == "" {
		return scoring.RiskSafe
	}
	return frequent
}

// marketConsistency is a stub: per-product consistency aggregation (with a
// downgrade when any product is Trendy or Low) is not implemented yet.
func marketConsistency(_ []ProductMetrics) scoring.ConsistencyRating {
	return scoring.ConsistencyConsistent
}
