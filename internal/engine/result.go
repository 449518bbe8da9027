package engine

// Validation summarizes whether a calculation's output can be trusted.
// Callers must check IsValid before acting on a market grade.
type Validation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Metadata is the audit trail attached to a calculation: input counts, the
// path taken, and every fallback applied along the way.
type Metadata struct {
	InputCount      int      `json:"inputCount"`
	ValidInputCount int      `json:"validInputCount"`
	CalculationPath string   `json:"calculationPath"`
	FallbacksUsed   []string `json:"fallbacksUsed"`
	Context         Context  `json:"context"`
}

// Result wraps a computed value with its validation state and audit
// metadata. It is a plain JSON-serializable record, not a side-effecting log.
type Result[T any] struct {
	Value      T          `json:"value"`
	Validation Validation `json:"validation"`
	Metadata   Metadata   `json:"metadata"`
}
