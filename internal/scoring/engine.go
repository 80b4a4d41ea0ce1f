// Package scoring grades submitted answers against question definitions.
//
// Every entry point returns a score in [0, points]. Malformed, empty or
// unknown input scores 0 and is reported to the Observer, never to the caller.
package scoring

import (
	"math"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

type Engine struct {
	observer Observer
}

type Option func(*Engine)

// WithObserver routes engine diagnostics to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{observer: NopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Evaluate scores raw against q with an engine that reports nothing.
func Evaluate(q *models.Question, raw any) float64 {
	return defaultEngine.Evaluate(q, raw)
}

// Evaluate compiles q and scores raw against it.
func (e *Engine) Evaluate(q *models.Question, raw any) float64 {
	return e.EvaluateDefinition(Compile(q), raw)
}

// EvaluateDefinition scores raw against an already compiled definition.
func (e *Engine) EvaluateDefinition(def Definition, raw any) (score float64) {
	if def == nil {
		return 0
	}
	h := def.header()
	defer func() {
		if r := recover(); r != nil {
			e.observer.Recovered(h, r)
			score = 0
		}
	}()
	return clampScore(e.dispatch(def, raw), h.Points)
}

func (e *Engine) dispatch(def Definition, raw any) float64 {
	switch d := def.(type) {
	case SingleChoice:
		return e.scoreSingleChoice(d, raw)
	case MultiChoice:
		return e.scoreMultiChoice(d, raw)
	case FillBlank:
		return e.scoreFillBlank(d, raw)
	case Match:
		return e.scoreMatch(d, raw)
	case DragDrop:
		return e.scoreDragDrop(d, raw)
	case Dropdown:
		return e.scoreDropdown(d, raw)
	case StepSequence:
		return e.scoreStepSequence(d, raw)
	case SentenceCompletion:
		return e.scoreSentenceCompletion(d, raw)
	case Matrix:
		return e.scoreMatrix(d, raw)
	case Numerical:
		return e.scoreNumerical(d, raw)
	case FreeText:
		return e.scoreFreeText(d, raw)
	case Passage:
		return e.scorePassage(d, raw)
	case Unsupported:
		e.observer.MisconfiguredQuestion(d.Header, "unsupported question type")
		return 0
	}
	return 0
}

// rejected reports a payload that did not parse and scores it 0.
func (e *Engine) rejected(h Header, status parseStatus) float64 {
	if status == malformed {
		e.observer.ParseFailed(h, "malformed answer payload")
	}
	return 0
}

func (e *Engine) misconfigured(h Header, reason string) float64 {
	e.observer.MisconfiguredQuestion(h, reason)
	return 0
}

// proportion returns points scaled by correct/total, or 0 when total is 0.
func proportion(correct, total int, points float64) float64 {
	if total <= 0 {
		return 0
	}
	return (float64(correct) / float64(total)) * points
}

func clampScore(score, points float64) float64 {
	if math.IsNaN(score) || math.IsNaN(points) || points <= 0 || score <= 0 {
		return 0
	}
	if score > points {
		return points
	}
	return score
}
