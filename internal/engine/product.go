package engine

// Keyword is a researched search term attached to a product. Only CPC feeds
// the calculation core; the remaining fields ride along for persistence.
type Keyword struct {
	Phrase       string  `json:"phrase"`
	CPC          float64 `json:"cpc"`
	SearchVolume int     `json:"searchVolume,omitempty"`
}

// SalesData is the verified sales block attached to a researched product.
// Pointer fields distinguish "absent" from a literal zero, so the legacy
// fallback chain can resolve correctly.
type SalesData struct {
	MonthlyRevenue *float64 `json:"monthlyRevenue,omitempty"`
	MonthlySales   *float64 `json:"monthlySales,omitempty"`
	MonthlyProfit  *float64 `json:"monthlyProfit,omitempty"`
	Margin         *float64 `json:"margin,omitempty"`
	COGS           *float64 `json:"cogs,omitempty"`
	PPU            *float64 `json:"ppu,omitempty"`
}

// Product is the raw input record as delivered by the persistence layer.
// Verified fields live in SalesData; the flat MonthlyRevenue/MonthlySales/
// ProfitEstimate fields are the legacy shape older records still carry.
type Product struct {
	ASIN    string  `json:"asin,omitempty"`
	Title   string  `json:"title,omitempty"`
	Price   float64 `json:"price"`
	Reviews float64 `json:"reviews"`
	// Rating and BSR are optional: nil means the marketplace never reported
	// them, which is distinct from a literal zero.
	Rating   *float64 `json:"rating,omitempty"`
	BSR      *float64 `json:"bsr,omitempty"`
	Category string   `json:"category,omitempty"`

	SalesData *SalesData `json:"salesData,omitempty"`

	// Legacy flat fields, superseded by SalesData when present.
	MonthlyRevenue *float64 `json:"monthlyRevenue,omitempty"`
	MonthlySales   *float64 `json:"monthlySales,omitempty"`
	ProfitEstimate *float64 `json:"profitEstimate,omitempty"`

	Keywords []Keyword `json:"keywords,omitempty"`

	RiskClassification string `json:"riskClassification,omitempty"`
	ConsistencyRating  string `json:"consistencyRating,omitempty"`
}

// resolve applies the single documented fallback-resolution order:
// salesData field, then legacy flat field, then zero.
func resolve(preferred, legacy *float64) float64 {
	if preferred != nil {
		return *preferred
	}
	if legacy != nil {
		return *legacy
	}
	return 0
}

// MonthlyRevenueValue resolves the product's monthly revenue.
func (p *Product) MonthlyRevenueValue() float64 {
	var sd *float64
	if p.SalesData != nil {
		sd = p.SalesData.MonthlyRevenue
	}
	return resolve(sd, p.MonthlyRevenue)
}

// MonthlySalesValue resolves the product's monthly unit sales.
func (p *Product) MonthlySalesValue() float64 {
	var sd *float64
	if p.SalesData != nil {
		sd = p.SalesData.MonthlySales
	}
	return resolve(sd, p.MonthlySales)
}

// MarginValue resolves the product's margin fraction (0 when unknown).
func (p *Product) MarginValue() float64 {
	if p.SalesData != nil && p.SalesData.Margin != nil {
		return *p.SalesData.Margin
	}
	return 0
}

// ProfitEstimateValue resolves the stored profit estimate used when revenue
// and margin cannot produce a computed profit.
func (p *Product) ProfitEstimateValue() float64 {
	var sd *float64
	if p.SalesData != nil {
		sd = p.SalesData.MonthlyProfit
	}
	return resolve(sd, p.ProfitEstimate)
}
