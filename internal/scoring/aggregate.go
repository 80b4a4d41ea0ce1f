package scoring

import (
	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// Summary is the scored outcome of a session.
type Summary struct {
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// Aggregate sums response scores against the points of the questions
// delivered to the session. Responses to questions outside delivered are
// ignored, so percentage never exceeds 100. Percentage is 0 when max score is
// 0, whatever the total.
func Aggregate(delivered []models.Question, responses []models.Response, passingScore float64) Summary {
	inSession := make(map[uint]struct{}, len(delivered))
	for _, q := range delivered {
		inSession[q.ID] = struct{}{}
	}

	var summary Summary
	for _, r := range responses {
		if _, ok := inSession[r.QuestionID]; ok {
			summary.TotalScore += r.Score
		}
	}
	summary.MaxScore = models.TotalQuestionPoints(delivered)
	if summary.MaxScore > 0 {
		summary.Percentage = summary.TotalScore / summary.MaxScore * 100
	}
	summary.Passed = summary.Percentage >= passingScore
	return summary
}

// IsCorrect reports whether score earns the full points of a question.
func IsCorrect(score, points float64) bool {
	return points > 0 && score >= points
}

// Rescore re-evaluates every stored answer against the current definitions
// and returns the updated responses with their aggregate. Responses to
// questions that are no longer delivered score 0. The input is not modified.
func (e *Engine) Rescore(delivered []models.Question, responses []models.Response, passingScore float64) ([]models.Response, Summary) {
	defs := make(map[uint]Definition, len(delivered))
	points := make(map[uint]float64, len(delivered))
	for i := range delivered {
		q := &delivered[i]
		defs[q.ID] = Compile(q)
		points[q.ID] = q.Points
	}

	scored := make([]models.Response, len(responses))
	for i, r := range responses {
		r.Score = 0
		if def, ok := defs[r.QuestionID]; ok {
			r.Score = e.EvaluateDefinition(def, r.AnswerData)
		}
		r.IsCorrect = IsCorrect(r.Score, points[r.QuestionID])
		scored[i] = r
	}
	return scored, Aggregate(delivered, scored, passingScore)
}
