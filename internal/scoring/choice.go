package scoring

func (e *Engine) scoreSingleChoice(d SingleChoice, raw any) float64 {
	if !d.HasCorrect {
		return e.misconfigured(d.Header, "no correct choice")
	}
	id, status := parseChoiceID(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}
	if id == d.CorrectID {
		return d.Points
	}
	return 0
}

// No partial credit: the submitted set must equal the correct set.
func (e *Engine) scoreMultiChoice(d MultiChoice, raw any) float64 {
	if len(d.CorrectIDs) == 0 {
		return e.misconfigured(d.Header, "no correct choices")
	}
	selected, status := parseChoiceSet(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}
	if sameIDSet(selected, d.CorrectIDs) {
		return d.Points
	}
	return 0
}

func sameIDSet(a, b map[uint]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
