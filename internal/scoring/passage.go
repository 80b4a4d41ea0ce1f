package scoring

import (
	"strconv"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

const subQuestionKeyPrefix = "sub_q_"

// Sub-question scores are summed and scaled to the parent's points.
// Answers are keyed by the sub-question id, bare or prefixed with sub_q_.
func (e *Engine) scorePassage(d Passage, raw any) float64 {
	if len(d.SubQuestions) == 0 {
		return e.misconfigured(d.Header, "passage has no sub-questions")
	}
	var totalPoints float64
	for _, sq := range d.SubQuestions {
		totalPoints += sq.Points
	}
	if totalPoints <= 0 {
		return e.misconfigured(d.Header, "sub-questions carry no points")
	}

	answers, status := parsePassage(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	var earned float64
	for _, sq := range d.SubQuestions {
		key := strconv.FormatUint(uint64(sq.ID), 10)
		sub, ok := answers[key]
		if !ok {
			sub, ok = answers[subQuestionKeyPrefix+key]
		}
		if !ok {
			continue
		}
		earned += e.scoreSubQuestion(d.Header, sq, sub)
	}
	return (earned / totalPoints) * d.Points
}

func (e *Engine) scoreSubQuestion(parent Header, sq SubQuestion, raw any) float64 {
	if sq.Points <= 0 {
		return 0
	}
	switch sq.Type {
	case models.SubQuestionMCQSingle:
		if len(sq.CorrectIDs) == 0 {
			return 0
		}
		id, status := parseChoiceID(raw)
		if status != answered {
			return e.rejected(parent, status)
		}
		if id == sq.CorrectIDs[0] {
			return sq.Points
		}
	case models.SubQuestionMCQMultiple:
		if len(sq.CorrectIDs) == 0 {
			return 0
		}
		selected, status := parseChoiceSet(raw)
		if status != answered {
			return e.rejected(parent, status)
		}
		correct := make(map[uint]struct{}, len(sq.CorrectIDs))
		for _, id := range sq.CorrectIDs {
			correct[id] = struct{}{}
		}
		if sameIDSet(selected, correct) {
			return sq.Points
		}
	case models.SubQuestionTextShort, models.SubQuestionTextLong:
		return e.scoreSubText(parent, sq, raw)
	}
	return 0
}

// Text sub-questions: an exact match earns full points, otherwise the share of
// comma separated keywords from the correct answer found in the text.
func (e *Engine) scoreSubText(parent Header, sq SubQuestion, raw any) float64 {
	expected := normalizeText(sq.CorrectAnswer, false)
	if expected == "" {
		return 0
	}
	text, status := parseText(raw)
	if status != answered {
		return e.rejected(parent, status)
	}
	given := normalizeText(text, false)
	if given == expected {
		return sq.Points
	}
	keywords := splitKeywords(sq.CorrectAnswer, false)
	if found := countKeywords(given, keywords); found > 0 {
		return proportion(found, len(keywords), sq.Points)
	}
	return 0
}
