package scoring

import (
	"sort"
	"strings"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// Header is the part every question definition shares.
type Header struct {
	QuestionID uint
	Type       models.QuestionType
	Points     float64
}

func (h Header) header() Header { return h }

// Definition is an immutable snapshot of one question, shaped for scoring.
// The set of implementations is closed: SingleChoice, MultiChoice, FillBlank,
// Match, DragDrop, Dropdown, StepSequence, SentenceCompletion, Matrix,
// Numerical, FreeText, Passage and Unsupported.
type Definition interface {
	header() Header
}

type SingleChoice struct {
	Header
	CorrectID  uint
	HasCorrect bool
}

type MultiChoice struct {
	Header
	CorrectIDs map[uint]struct{}
}

type BlankKey struct {
	Number int
	Answer string
}

type FillBlank struct {
	Header
	Blanks []BlankKey
}

type MatchItem struct {
	ID        uint
	LeftText  string
	RightText string
}

type Match struct {
	Header
	Pairs []MatchItem
}

type Token struct {
	ID              uint
	Text            string
	CorrectPosition int
}

// DragDrop covers drag_text and drag_zone questions.
type DragDrop struct {
	Header
	Tokens []Token
}

type DropdownOption struct {
	BlankID uint
	Correct bool
}

type Dropdown struct {
	Header
	BlankIDs []uint
	Options  map[uint]DropdownOption
}

type StepItem struct {
	ID              uint
	CorrectPosition int
}

type StepSequence struct {
	Header
	Items []StepItem
}

type SentenceCompletion struct {
	Header
	BlankCount int
	Tokens     []Token
}

type CellKey struct {
	RowID    uint
	ColumnID uint
}

type Matrix struct {
	Header
	RowIDs    []uint
	ColumnIDs []uint
	Cells     map[CellKey]bool
}

type Numerical struct {
	Header
	Exact     *float64
	Tolerance float64
	Min       *float64
	Max       *float64
}

type FreeText struct {
	Header
	Correct       string
	CaseSensitive bool
	AllowPartial  bool
	Keywords      string
}

type SubQuestion struct {
	ID            uint
	Type          models.SubQuestionType
	Points        float64
	CorrectIDs    []uint
	CorrectAnswer string
}

type Passage struct {
	Header
	SubQuestions []SubQuestion
}

// Unsupported is produced for type tags the engine does not know; it always scores 0.
type Unsupported struct {
	Header
}

// Compile builds the scoring definition of a persisted question. The result
// shares no memory with q.
func Compile(q *models.Question) Definition {
	if q == nil {
		return Unsupported{}
	}
	h := Header{QuestionID: q.ID, Type: q.Type, Points: q.Points}

	switch q.Type {
	case models.QuestionMCQSingle:
		def := SingleChoice{Header: h}
		for _, c := range sortedChoices(q.Choices) {
			if c.IsCorrect {
				def.CorrectID = c.ID
				def.HasCorrect = true
				break
			}
		}
		return def
	case models.QuestionMCQMultiple:
		def := MultiChoice{Header: h, CorrectIDs: make(map[uint]struct{})}
		for _, c := range q.Choices {
			if c.IsCorrect {
				def.CorrectIDs[c.ID] = struct{}{}
			}
		}
		return def
	case models.QuestionFillBlank:
		def := FillBlank{Header: h, Blanks: make([]BlankKey, 0, len(q.FillBlankAnswers))}
		for _, b := range q.FillBlankAnswers {
			def.Blanks = append(def.Blanks, BlankKey{Number: b.BlankNumber, Answer: b.AnswerText})
		}
		return def
	case models.QuestionMatch:
		def := Match{Header: h, Pairs: make([]MatchItem, 0, len(q.MatchPairs))}
		for _, p := range q.MatchPairs {
			def.Pairs = append(def.Pairs, MatchItem{ID: p.ID, LeftText: p.LeftText, RightText: p.RightText})
		}
		return def
	case models.QuestionDragText, models.QuestionDragZone:
		return DragDrop{Header: h, Tokens: compileTokens(q.DragTokens)}
	case models.QuestionDropdownBlank:
		def := Dropdown{Header: h, Options: make(map[uint]DropdownOption)}
		for _, b := range q.Blanks {
			def.BlankIDs = append(def.BlankIDs, b.ID)
			for _, o := range b.Options {
				def.Options[o.ID] = DropdownOption{BlankID: b.ID, Correct: o.IsCorrect}
			}
		}
		return def
	case models.QuestionStepSequence:
		def := StepSequence{Header: h, Items: make([]StepItem, 0, len(q.SequenceItems))}
		for _, it := range q.SequenceItems {
			def.Items = append(def.Items, StepItem{ID: it.ID, CorrectPosition: it.CorrectPosition})
		}
		return def
	case models.QuestionSentenceCompletion:
		return SentenceCompletion{
			Header:     h,
			BlankCount: strings.Count(q.QuestionHTML, models.BlankPlaceholder),
			Tokens:     compileTokens(q.DragTokens),
		}
	case models.QuestionMatrix:
		def := Matrix{Header: h, Cells: make(map[CellKey]bool, len(q.MatrixCells))}
		for _, r := range q.MatrixRows {
			def.RowIDs = append(def.RowIDs, r.ID)
		}
		for _, c := range q.MatrixColumns {
			def.ColumnIDs = append(def.ColumnIDs, c.ID)
		}
		for _, cell := range q.MatrixCells {
			def.Cells[CellKey{RowID: cell.RowID, ColumnID: cell.ColumnID}] = cell.IsCorrect
		}
		return def
	case models.QuestionNumerical:
		return Numerical{
			Header:    h,
			Exact:     copyFloat(q.NumericalExactValue),
			Tolerance: q.NumericalTolerance,
			Min:       copyFloat(q.NumericalMinValue),
			Max:       copyFloat(q.NumericalMaxValue),
		}
	case models.QuestionTextBox:
		return FreeText{
			Header:        h,
			Correct:       q.CorrectTextAnswer,
			CaseSensitive: q.CaseSensitive,
			AllowPartial:  q.AllowPartialMatch,
			Keywords:      q.Keywords,
		}
	case models.QuestionPassage:
		return compilePassage(h, q.Passages)
	default:
		return Unsupported{Header: h}
	}
}

// Only the first passage is scored.
func compilePassage(h Header, passages []models.Passage) Passage {
	def := Passage{Header: h}
	if len(passages) == 0 {
		return def
	}
	ordered := make([]models.Passage, len(passages))
	copy(ordered, passages)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Sequence != ordered[j].Sequence {
			return ordered[i].Sequence < ordered[j].Sequence
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, sq := range ordered[0].SubQuestions {
		sub := SubQuestion{
			ID:            sq.ID,
			Type:          sq.QuestionType,
			Points:        sq.Points,
			CorrectAnswer: sq.CorrectAnswer,
		}
		choices := make([]models.PassageChoice, len(sq.Choices))
		copy(choices, sq.Choices)
		sort.SliceStable(choices, func(i, j int) bool {
			if choices[i].Sequence != choices[j].Sequence {
				return choices[i].Sequence < choices[j].Sequence
			}
			return choices[i].ID < choices[j].ID
		})
		for _, c := range choices {
			if c.IsCorrect {
				sub.CorrectIDs = append(sub.CorrectIDs, c.ID)
			}
		}
		def.SubQuestions = append(def.SubQuestions, sub)
	}
	return def
}

func compileTokens(tokens []models.DragToken) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, Token{ID: t.ID, Text: t.Text, CorrectPosition: t.CorrectPosition})
	}
	return out
}

func sortedChoices(choices []models.Choice) []models.Choice {
	out := make([]models.Choice, len(choices))
	copy(out, choices)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
