package scoring

// partialOverlapThreshold is the share of expected words an answer must
// exceed before word overlap earns credit.
const partialOverlapThreshold = 0.5

func (e *Engine) scoreFreeText(d FreeText, raw any) float64 {
	expected := normalizeText(d.Correct, d.CaseSensitive)
	if expected == "" {
		return e.misconfigured(d.Header, "no correct answer")
	}
	text, status := parseText(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	given := normalizeText(text, d.CaseSensitive)
	if given == expected {
		return d.Points
	}
	if !d.AllowPartial {
		return 0
	}

	if keywords := splitKeywords(d.Keywords, d.CaseSensitive); len(keywords) > 0 {
		found := countKeywords(given, keywords)
		if found > 0 {
			return proportion(found, len(keywords), d.Points)
		}
		return 0
	}

	ratio := wordOverlap(given, expected)
	if ratio > partialOverlapThreshold {
		return ratio * d.Points
	}
	return 0
}
