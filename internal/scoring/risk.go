package scoring

// RiskClassification labels a product's fulfillment/compliance risk.
type RiskClassification string

const (
	RiskSafe       RiskClassification = "Safe"
	RiskElectric   RiskClassification = "Electric"
	RiskBreakable  RiskClassification = "Breakable"
	RiskMedical    RiskClassification = "Medical"
	RiskProhibited RiskClassification = "Prohibited"
)

// ParseRisk normalizes a raw classification string, accepting the legacy
// aliases "Banned" (→ Prohibited) and "No Risk" (→ Safe). Unknown or empty
// strings map to Safe.
func ParseRisk(s string) RiskClassification {
	switch s {
	case "Electric":
		return RiskElectric
	case "Breakable":
		return RiskBreakable
	case "Medical":
		return RiskMedical
	case "Prohibited", "Banned":
		return RiskProhibited
	case "Safe", "No Risk", "":
		return RiskSafe
	}
	return RiskSafe
}

// RiskSeverity orders classifications worst-first for market-level
// aggregation: Prohibited > Medical > Breakable > Electric > Safe.
func RiskSeverity(r RiskClassification) int {
	switch r {
	case RiskProhibited:
		return 4
	case RiskMedical:
		return 3
	case RiskBreakable:
		return 2
	case RiskElectric:
		return 1
	}
	return 0
}

// ConsistencyRating labels a product's demand pattern over time.
type ConsistencyRating string

const (
	ConsistencyConsistent ConsistencyRating = "Consistent"
	ConsistencySeasonal   ConsistencyRating = "Seasonal"
	ConsistencyTrendy     ConsistencyRating = "Trendy"
	ConsistencyLow        ConsistencyRating = "Low"
)

// ParseConsistency normalizes a raw consistency string; unknown or empty
// strings map to Consistent.
func ParseConsistency(s string) ConsistencyRating {
	switch s {
	case "Seasonal":
		return ConsistencySeasonal
	case "Trendy":
		return ConsistencyTrendy
	case "Low":
		return ConsistencyLow
	}
	return ConsistencyConsistent
}
