// Package safemath provides bounded, fallback-aware numeric primitives.
// Every operation returns a SafeNumber instead of panicking or producing
// NaN/Inf, so each derived figure carries its own validity and provenance.
package safemath

import (
	"fmt"
	"math"
)

// Source identifies where a SafeNumber's value came from.
type Source string

const (
	// SourceOriginal means the input passed validation unchanged.
	SourceOriginal Source = "original"
	// SourceFallback means the input was invalid and the fallback was used.
	SourceFallback Source = "fallback"
	// SourceEstimated means the value was derived heuristically (e.g. CPC
	// estimated from price when no keyword data exists). Estimated values
	// are usable and do not invalidate the containing metric set.
	SourceEstimated Source = "estimated"
)

// SafeNumber is a numeric result tagged with validity and provenance.
// Value is always finite and within any bounds stated by its constructor,
// even when IsValid is false.
type SafeNumber struct {
	Value          float64 `json:"value"`
	IsValid        bool    `json:"isValid"`
	Source         Source  `json:"source"`
	FallbackReason string  `json:"fallbackReason,omitempty"`
}

// Estimated builds a valid SafeNumber with Source "estimated" and a note
// describing how the value was derived.
func Estimated(value float64, note string) SafeNumber {
	return SafeNumber{Value: value, IsValid: true, Source: SourceEstimated, FallbackReason: note}
}

// Bounds is an inclusive [Min, Max] range for Safe.
type Bounds struct {
	Min float64
	Max float64
}

// Safe validates value against b and returns it unchanged when it is finite
// and in range. Non-finite values fall back to fallback as-is; out-of-range
// values fall back to fallback clamped into b. Never panics.
func Safe(value, fallback float64, b Bounds, field string) SafeNumber {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return SafeNumber{
			Value:          fallback,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: non-finite value, using fallback %v", field, fallback),
		}
	}
	if value < b.Min || value > b.Max {
		clamped := math.Max(b.Min, math.Min(b.Max, fallback))
		return SafeNumber{
			Value:          clamped,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: %v outside [%v, %v], using fallback %v", field, value, b.Min, b.Max, clamped),
		}
	}
	return SafeNumber{Value: value, IsValid: true, Source: SourceOriginal}
}

// SafeOptional is Safe for inputs that may be absent entirely. A nil pointer
// is treated like a non-finite value.
func SafeOptional(value *float64, fallback float64, b Bounds, field string) SafeNumber {
	if value == nil {
		return SafeNumber{
			Value:          fallback,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: missing value, using fallback %v", field, fallback),
		}
	}
	return Safe(*value, fallback, b, field)
}

// Divide returns num/den, falling back when either operand is NaN, the
// denominator is zero, or the quotient is non-finite.
func Divide(num, den, fallback float64, context string) SafeNumber {
	if math.IsNaN(num) || math.IsNaN(den) {
		return SafeNumber{
			Value:          fallback,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: NaN operand, using fallback %v", context, fallback),
		}
	}
	if den == 0 {
		return SafeNumber{
			Value:          fallback,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: division by zero, using fallback %v", context, fallback),
		}
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return SafeNumber{
			Value:          fallback,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: non-finite quotient, using fallback %v", context, fallback),
		}
	}
	return SafeNumber{Value: q, IsValid: true, Source: SourceOriginal}
}

// Average returns the arithmetic mean of the finite entries of values.
// Invalid entries are excluded from the mean, not treated as zero. An empty
// valid subset yields the fallback.
func Average(values []float64, fallback float64, context string) SafeNumber {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return SafeNumber{
			Value:          fallback,
			IsValid:        false,
			Source:         SourceFallback,
			FallbackReason: fmt.Sprintf("%s: %d inputs, 0 valid, using fallback %v", context, len(values), fallback),
		}
	}
	return SafeNumber{Value: sum / float64(n), IsValid: true, Source: SourceOriginal}
}
