package scoring

import (
	"strconv"
)

// Pairs are compared by the right-hand text of the referenced items, so two
// items sharing a right text are interchangeable. Each left item counts once.
func (e *Engine) scoreMatch(d Match, raw any) float64 {
	total := len(d.Pairs)
	if total == 0 {
		return e.misconfigured(d.Header, "no match pairs defined")
	}
	answer, status := parseMatch(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	correct := 0
	if answer.Legacy {
		for _, pair := range d.Pairs {
			id := strconv.FormatUint(uint64(pair.ID), 10)
			left, lok := answer.Keyed["left_"+id]
			right, rok := answer.Keyed["right_"+id]
			if lok && rok && normalizeText(left, false) == normalizeText(right, false) {
				correct++
			}
		}
		return proportion(correct, total, d.Points)
	}

	byID := make(map[uint]MatchItem, total)
	for _, pair := range d.Pairs {
		byID[pair.ID] = pair
	}
	usedLeft := make(map[uint]struct{}, len(answer.Pairs))
	for _, p := range answer.Pairs {
		if _, dup := usedLeft[p.LeftID]; dup {
			continue
		}
		left, lok := byID[p.LeftID]
		right, rok := byID[p.RightID]
		if !lok || !rok {
			continue
		}
		usedLeft[p.LeftID] = struct{}{}
		if normalizeText(left.RightText, false) == normalizeText(right.RightText, false) {
			correct++
		}
	}
	return proportion(correct, total, d.Points)
}

// Positions are stored 0-based; the UI may submit them 1-based, so zone
// correct_position and correct_position+1 are both accepted.
func (e *Engine) scoreDragDrop(d DragDrop, raw any) float64 {
	total := len(d.Tokens)
	if total == 0 {
		return e.misconfigured(d.Header, "no tokens defined")
	}
	answer, status := parsePlacements(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	correct := 0
	for _, t := range d.Tokens {
		pos := int64(t.CorrectPosition)
		if answer.Keyed {
			if placedText(answer.ByText, pos, t.Text) || placedText(answer.ByText, pos+1, t.Text) {
				correct++
			}
			continue
		}
		if placedToken(answer.ByZone, pos, t.ID) || placedToken(answer.ByZone, pos+1, t.ID) {
			correct++
		}
	}
	return proportion(correct, total, d.Points)
}

func placedToken(byZone map[int64]uint, zone int64, id uint) bool {
	got, ok := byZone[zone]
	return ok && got == id
}

func placedText(byText map[string]string, zone int64, text string) bool {
	got, ok := byText[strconv.FormatInt(zone, 10)]
	return ok && got == text
}

// Positions are taken as submitted; no 1-based tolerance applies here.
func (e *Engine) scoreStepSequence(d StepSequence, raw any) float64 {
	total := len(d.Items)
	if total == 0 {
		return e.misconfigured(d.Header, "no sequence items defined")
	}
	positions, status := parseSequence(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	correct := 0
	for _, item := range d.Items {
		if pos, ok := positions[item.ID]; ok && pos == int64(item.CorrectPosition) {
			correct++
		}
	}
	return proportion(correct, total, d.Points)
}
