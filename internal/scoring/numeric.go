package scoring

import "math"

// Full points when the value is within tolerance of the exact value, or inside
// the configured range. There is no partial credit.
func (e *Engine) scoreNumerical(d Numerical, raw any) float64 {
	hasRange := d.Min != nil && d.Max != nil
	if d.Exact == nil && !hasRange {
		return e.misconfigured(d.Header, "no exact value or range")
	}
	value, status := parseNumber(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	if d.Exact != nil && math.Abs(value-*d.Exact) <= d.Tolerance {
		return d.Points
	}
	if hasRange && *d.Min <= value && value <= *d.Max {
		return d.Points
	}
	return 0
}
