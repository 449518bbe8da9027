// Package engine orchestrates product metric extraction and market-level
// aggregation on top of the safemath primitives and the scoring engine.
// Every calculation is pure: an Engine holds only its read-only Context, so
// instances are safe to use from any number of request handlers.
package engine

import (
	"math"

	"launchfast/internal/safemath"
	"launchfast/internal/scoring"
)

// Metric bounds and fallbacks for per-product extraction.
var (
	revenueBounds = safemath.Bounds{Min: 0, Max: 1e7}
	salesBounds   = safemath.Bounds{Min: 0, Max: 1e5}
	marginBounds  = safemath.Bounds{Min: 0, Max: 1}
	priceBounds   = safemath.Bounds{Min: 0.01, Max: 999999}
	reviewsBounds = safemath.Bounds{Min: 0, Max: 1e6}
	ratingBounds  = safemath.Bounds{Min: 0, Max: 5}
	bsrBounds     = safemath.Bounds{Min: 1, Max: 1e7}
)

const (
	priceFallback  = 25
	ratingFallback = 4.0
	bsrFallback    = 500000
	// defaultCPC is used when a product carries no keyword data at all.
	defaultCPC = 1.5
)

// ProductMetrics is a per-product snapshot of safe numbers. Created fresh on
// each extraction, never mutated, never persisted by this core.
type ProductMetrics struct {
	MonthlyRevenue safemath.SafeNumber `json:"monthlyRevenue"`
	MonthlySales   safemath.SafeNumber `json:"monthlySales"`
	MonthlyProfit  safemath.SafeNumber `json:"monthlyProfit"`
	ProfitPerUnit  safemath.SafeNumber `json:"profitPerUnit"`
	Margin         safemath.SafeNumber `json:"margin"`
	Price          safemath.SafeNumber `json:"price"`
	Reviews        safemath.SafeNumber `json:"reviews"`
	Rating         safemath.SafeNumber `json:"rating"`
	BSR            safemath.SafeNumber `json:"bsr"`
	AvgCPC         safemath.SafeNumber `json:"avgCpc"`

	Risk        scoring.RiskClassification `json:"riskClassification,omitempty"`
	Consistency scoring.ConsistencyRating  `json:"consistencyRating,omitempty"`

	IsValid          bool     `json:"isValid"`
	ValidationErrors []string `json:"validationErrors"`
}

// Engine performs all derived-metric calculations for one Context.
type Engine struct {
	ctx Context
}

// New creates an Engine bound to the given calculation context.
func New(ctx Context) *Engine {
	return &Engine{ctx: ctx}
}

// Context returns the engine's read-only calculation context.
func (e *Engine) Context() Context { return e.ctx }

// IsValidProduct reports whether a product carries enough signal to score:
// a positive price and either revenue or unit sales.
func (e *Engine) IsValidProduct(p *Product) bool {
	if p == nil {
		return false
	}
	return p.Price > 0 && (p.MonthlyRevenueValue() > 0 || p.MonthlySalesValue() > 0)
}

// MonthlyProfit computes revenue x margin when both are positive, otherwise
// degrades to the stored profit estimate (or zero) marked invalid.
func (e *Engine) MonthlyProfit(p *Product) safemath.SafeNumber {
	revenue := p.MonthlyRevenueValue()
	margin := p.MarginValue()
	if revenue > 0 && margin > 0 {
		v := revenue * margin
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return safemath.SafeNumber{Value: v, IsValid: true, Source: safemath.SourceOriginal}
		}
	}
	return safemath.SafeNumber{
		Value:          p.ProfitEstimateValue(),
		IsValid:        false,
		Source:         safemath.SourceFallback,
		FallbackReason: "monthly profit: missing revenue or margin, using stored estimate",
	}
}

// ProfitPerUnit is profit divided by units sold. The argument order of the
// division is the contract: profit over sales, never the reverse.
func (e *Engine) ProfitPerUnit(p *Product) safemath.SafeNumber {
	profit := e.MonthlyProfit(p)
	sales := p.MonthlySalesValue()
	return safemath.Divide(profit.Value, sales, 0, "profit per unit calculation")
}

// averageCPC averages the product's valid positive keyword CPCs. With no
// usable CPCs it estimates from price (5% of price clamped to [0.50, 5.00]);
// with no keywords at all it uses the default CPC constant. Both estimates
// are marked Source "estimated" and keep the metric set valid.
func (e *Engine) averageCPC(p *Product) safemath.SafeNumber {
	if len(p.Keywords) == 0 {
		return safemath.Estimated(defaultCPC, "avg CPC: no keyword data, using default")
	}
	var cpcs []float64
	for _, kw := range p.Keywords {
		if kw.CPC > 0 && !math.IsNaN(kw.CPC) && !math.IsInf(kw.CPC, 0) {
			cpcs = append(cpcs, kw.CPC)
		}
	}
	if len(cpcs) == 0 {
		est := math.Max(0.5, math.Min(5.0, p.Price*0.05))
		return safemath.Estimated(est, "avg CPC: no valid keyword CPCs, estimated from price")
	}
	return safemath.Average(cpcs, defaultCPC, "avg CPC")
}

// ExtractMetrics builds the full per-product metric snapshot, collecting
// every fallback reason into ValidationErrors.
func (e *Engine) ExtractMetrics(p *Product) ProductMetrics {
	m := ProductMetrics{
		MonthlyRevenue: safemath.Safe(p.MonthlyRevenueValue(), 0, revenueBounds, "monthly revenue"),
		MonthlySales:   safemath.Safe(p.MonthlySalesValue(), 0, salesBounds, "monthly sales"),
		MonthlyProfit:  e.MonthlyProfit(p),
		ProfitPerUnit:  e.ProfitPerUnit(p),
		Margin:         safemath.Safe(p.MarginValue(), 0, marginBounds, "margin"),
		Price:          safemath.Safe(p.Price, priceFallback, priceBounds, "price"),
		Reviews:        safemath.Safe(p.Reviews, 0, reviewsBounds, "reviews"),
		Rating:         safemath.SafeOptional(p.Rating, ratingFallback, ratingBounds, "rating"),
		BSR:            safemath.SafeOptional(p.BSR, bsrFallback, bsrBounds, "bsr"),
		AvgCPC:         e.averageCPC(p),
		Risk:           scoring.ParseRisk(p.RiskClassification),
		Consistency:    scoring.ParseConsistency(p.ConsistencyRating),
	}

	for _, sn := range []safemath.SafeNumber{
		m.MonthlyRevenue, m.MonthlySales, m.MonthlyProfit, m.ProfitPerUnit,
		m.Margin, m.Price, m.Reviews, m.Rating, m.BSR, m.AvgCPC,
	} {
		if !sn.IsValid && sn.FallbackReason != "" {
			m.ValidationErrors = append(m.ValidationErrors, sn.FallbackReason)
		}
	}
	m.IsValid = len(m.ValidationErrors) == 0
	return m
}

// Grade scores a single product through the shared grading engine.
func (e *Engine) Grade(p *Product) (scoring.Result, ProductMetrics) {
	m := e.ExtractMetrics(p)
	in := scoring.Inputs{
		MonthlyProfit: m.MonthlyProfit.Value,
		Price:         m.Price.Value,
		Margin:        m.Margin.Value,
		Reviews:       m.Reviews.Value,
		AvgCPC:        m.AvgCPC.Value,
		Risk:          m.Risk,
		Consistency:   m.Consistency,
		PPU:           m.ProfitPerUnit.Value,
		BSR:           &m.BSR.Value,
		Rating:        &m.Rating.Value,
	}
	return scoring.CalculateGrade(in), m
}
