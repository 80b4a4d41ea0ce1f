package scoring

import (
	"strconv"
	"strings"
)

func (e *Engine) scoreFillBlank(d FillBlank, raw any) float64 {
	total := len(d.Blanks)
	if total == 0 {
		return e.misconfigured(d.Header, "no blanks defined")
	}
	answers, status := parseBlankAnswers(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	correct := 0
	for _, blank := range d.Blanks {
		given, ok := answers[strconv.Itoa(blank.Number)]
		if !ok || isBlankText(strings.TrimSpace(given)) {
			continue
		}
		if normalizeText(given, false) == normalizeText(blank.Answer, false) {
			correct++
		}
	}
	return proportion(correct, total, d.Points)
}

// Each blank counts once; the first selection submitted for it wins.
func (e *Engine) scoreDropdown(d Dropdown, raw any) float64 {
	total := len(d.BlankIDs)
	if total == 0 {
		return e.misconfigured(d.Header, "no dropdown blanks defined")
	}
	selections, status := parseDropdown(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	seen := make(map[uint]struct{}, len(selections))
	correct := 0
	for _, sel := range selections {
		if _, dup := seen[sel.BlankID]; dup {
			continue
		}
		seen[sel.BlankID] = struct{}{}
		option, ok := d.Options[sel.OptionID]
		if ok && option.Correct && option.BlankID == sel.BlankID {
			correct++
		}
	}
	return proportion(correct, total, d.Points)
}

// Zones are named blank_0, blank_1, ... after the {blank} placeholders of the
// question body; each zone counts once and the first placement wins.
func (e *Engine) scoreSentenceCompletion(d SentenceCompletion, raw any) float64 {
	if d.BlankCount == 0 || len(d.Tokens) == 0 {
		return e.misconfigured(d.Header, "no blanks or tokens defined")
	}

	expected := make(map[string]uint, d.BlankCount)
	for _, t := range d.Tokens {
		if t.CorrectPosition >= 0 && t.CorrectPosition < d.BlankCount {
			expected[zoneName(t.CorrectPosition)] = t.ID
		}
	}

	placements, status := parseZonePlacements(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	processed := make(map[string]struct{}, len(placements))
	correct := 0
	for _, p := range placements {
		if _, dup := processed[p.ZoneID]; dup {
			continue
		}
		processed[p.ZoneID] = struct{}{}
		if want, ok := expected[p.ZoneID]; ok && want == p.TokenID {
			correct++
		}
	}
	return proportion(correct, d.BlankCount, d.Points)
}

func zoneName(position int) string {
	return "blank_" + strconv.Itoa(position)
}
