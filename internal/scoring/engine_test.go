package scoring

import (
	"encoding/json"
	"testing"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func floatPtr(f float64) *float64 { return &f }

func mcqSingleQuestion() *models.Question {
	return &models.Question{
		ID: 1, Type: models.QuestionMCQSingle, Points: 2,
		Choices: []models.Choice{
			{ID: 4, Sequence: 1, Text: "Berlin"},
			{ID: 5, Sequence: 2, Text: "Paris", IsCorrect: true},
			{ID: 6, Sequence: 3, Text: "Rome"},
		},
	}
}

func mcqMultipleQuestion() *models.Question {
	return &models.Question{
		ID: 2, Type: models.QuestionMCQMultiple, Points: 3,
		Choices: []models.Choice{
			{ID: 1, Text: "2", IsCorrect: true},
			{ID: 2, Text: "3", IsCorrect: true},
			{ID: 3, Text: "4"},
		},
	}
}

func fillBlankQuestion() *models.Question {
	return &models.Question{
		ID: 3, Type: models.QuestionFillBlank, Points: 3,
		FillBlankAnswers: []models.FillBlankAnswer{
			{BlankNumber: 1, AnswerText: "Paris"},
			{BlankNumber: 2, AnswerText: "Seine"},
			{BlankNumber: 3, AnswerText: "Eiffel"},
		},
	}
}

func matchQuestion() *models.Question {
	return &models.Question{
		ID: 4, Type: models.QuestionMatch, Points: 4,
		MatchPairs: []models.MatchPair{
			{ID: 1, LeftText: "France", RightText: "Paris"},
			{ID: 2, LeftText: "Italy", RightText: "Rome"},
			{ID: 3, LeftText: "Spain", RightText: "Madrid"},
			{ID: 4, LeftText: "Vatican", RightText: "rome "},
		},
	}
}

func dragQuestion(t models.QuestionType) *models.Question {
	return &models.Question{
		ID: 5, Type: t, Points: 2,
		DragTokens: []models.DragToken{
			{ID: 7, Text: "mitochondria", CorrectPosition: 2},
			{ID: 8, Text: "nucleus", CorrectPosition: 0},
		},
	}
}

func dropdownQuestion() *models.Question {
	return &models.Question{
		ID: 6, Type: models.QuestionDropdownBlank, Points: 2,
		TextTemplate: "The sky is {{1}} and grass is {{2}}",
		Blanks: []models.Blank{
			{ID: 10, BlankNumber: 1, Options: []models.BlankOption{
				{ID: 100, BlankID: 10, Label: "blue", IsCorrect: true},
				{ID: 101, BlankID: 10, Label: "green"},
			}},
			{ID: 11, BlankNumber: 2, Options: []models.BlankOption{
				{ID: 110, BlankID: 11, Label: "green", IsCorrect: true},
				{ID: 111, BlankID: 11, Label: "red"},
			}},
		},
	}
}

func sequenceQuestion() *models.Question {
	return &models.Question{
		ID: 7, Type: models.QuestionStepSequence, Points: 3,
		SequenceItems: []models.SequenceItem{
			{ID: 21, Label: "Mix", CorrectPosition: 0},
			{ID: 22, Label: "Bake", CorrectPosition: 1},
			{ID: 23, Label: "Serve", CorrectPosition: 2},
		},
	}
}

func sentenceQuestion() *models.Question {
	return &models.Question{
		ID: 8, Type: models.QuestionSentenceCompletion, Points: 2,
		QuestionHTML: "<p>The {blank} sat on the {blank}.</p>",
		DragTokens: []models.DragToken{
			{ID: 31, Text: "cat", CorrectPosition: 0},
			{ID: 32, Text: "mat", CorrectPosition: 1},
			{ID: 33, Text: "dog", CorrectPosition: 5},
		},
	}
}

func matrixQuestion() *models.Question {
	return &models.Question{
		ID: 9, Type: models.QuestionMatrix, Points: 2,
		MatrixRows:    []models.MatrixRow{{ID: 1, Name: "r1"}, {ID: 2, Name: "r2"}},
		MatrixColumns: []models.MatrixColumn{{ID: 1, Name: "c1"}, {ID: 2, Name: "c2"}},
		MatrixCells: []models.MatrixCell{
			{RowID: 1, ColumnID: 1, IsCorrect: true},
			{RowID: 2, ColumnID: 2, IsCorrect: true},
			{RowID: 1, ColumnID: 2, IsCorrect: false},
		},
	}
}

func numericalQuestion() *models.Question {
	return &models.Question{
		ID: 10, Type: models.QuestionNumerical, Points: 1,
		NumericalExactValue: floatPtr(10),
		NumericalTolerance:  0.5,
	}
}

func textBoxQuestion() *models.Question {
	return &models.Question{
		ID: 11, Type: models.QuestionTextBox, Points: 4,
		CorrectTextAnswer: "The quick brown fox",
	}
}

func passageQuestion() *models.Question {
	return &models.Question{
		ID: 12, Type: models.QuestionPassage, Points: 8,
		Passages: []models.Passage{
			{ID: 1, Sequence: 1, Name: "Tides", SubQuestions: []models.PassageSubQuestion{
				{ID: 41, QuestionType: models.SubQuestionMCQSingle, Points: 1, Choices: []models.PassageChoice{
					{ID: 1, Text: "moon", IsCorrect: true},
					{ID: 2, Text: "sun"},
				}},
				{ID: 42, QuestionType: models.SubQuestionMCQMultiple, Points: 3, Choices: []models.PassageChoice{
					{ID: 3, Text: "high", IsCorrect: true},
					{ID: 4, Text: "low", IsCorrect: true},
					{ID: 5, Text: "none"},
				}},
			}},
			{ID: 2, Sequence: 2, Name: "ignored", SubQuestions: []models.PassageSubQuestion{
				{ID: 43, QuestionType: models.SubQuestionTextShort, Points: 100, CorrectAnswer: "x"},
			}},
		},
	}
}

func allQuestions() []*models.Question {
	return []*models.Question{
		mcqSingleQuestion(),
		mcqMultipleQuestion(),
		fillBlankQuestion(),
		matchQuestion(),
		dragQuestion(models.QuestionDragText),
		dragQuestion(models.QuestionDragZone),
		dropdownQuestion(),
		sequenceQuestion(),
		sentenceQuestion(),
		matrixQuestion(),
		numericalQuestion(),
		textBoxQuestion(),
		passageQuestion(),
	}
}

func TestEvaluate_EmptyInputScoresZero(t *testing.T) {
	engine := NewEngine()
	empties := []any{nil, "", "   ", "null", "None", []byte(nil), json.RawMessage(""), datatypes.JSON("null"), []any{}, map[string]any{}}

	for _, q := range allQuestions() {
		for _, raw := range empties {
			assert.Zerof(t, engine.Evaluate(q, raw), "type %s with %#v", q.Type, raw)
		}
	}
}

func TestEvaluate_ScoreWithinBounds(t *testing.T) {
	engine := NewEngine()
	inputs := []any{
		"garbage", "{", "[1,2", 42, -3, 3.5, true, "[5]", `{"1":"x"}`,
		[]any{map[string]any{"zone": 3, "token_id": 7}, "junk", 9},
		map[string]any{"cell_1_1": true, "41": "1", "sub_q_42": []any{3, 4}},
		`[{"left_id":1,"right_id":1},{"left_id":1,"right_id":1},{"left_id":1,"right_id":1}]`,
		`[{"blank_id":10,"option_id":100},{"blank_id":10,"option_id":100},{"blank_id":10,"option_id":100}]`,
	}

	for _, q := range allQuestions() {
		for _, raw := range inputs {
			score := engine.Evaluate(q, raw)
			assert.GreaterOrEqualf(t, score, 0.0, "type %s with %#v", q.Type, raw)
			assert.LessOrEqualf(t, score, q.Points, "type %s with %#v", q.Type, raw)
		}
	}
}

func TestEvaluate_MCQSingle(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "correct id string", raw: "5", want: 2},
		{name: "correct id number", raw: 5, want: 2},
		{name: "correct id json", raw: json.RawMessage(`5`), want: 2},
		{name: "correct id quoted json", raw: datatypes.JSON(`"5"`), want: 2},
		{name: "wrong id", raw: "4", want: 0},
		{name: "unknown id", raw: "999", want: 0},
		{name: "not a number", raw: "Paris", want: 0},
		{name: "list", raw: "[5]", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(mcqSingleQuestion(), tc.raw))
		})
	}
}

func TestEvaluate_MCQSingleWithoutCorrectChoice(t *testing.T) {
	q := mcqSingleQuestion()
	for i := range q.Choices {
		q.Choices[i].IsCorrect = false
	}
	assert.Zero(t, Evaluate(q, "5"))
}

func TestEvaluate_MCQMultiple(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "exact set", raw: "[1,2]", want: 3},
		{name: "exact set any order", raw: []int{2, 1}, want: 3},
		{name: "string ids", raw: []string{"1", "2"}, want: 3},
		{name: "duplicates collapse", raw: "[1,2,2]", want: 3},
		{name: "falsy entries skipped", raw: `[1, 0, "", null, 2]`, want: 3},
		{name: "missing one", raw: "[1]", want: 0},
		{name: "extra one", raw: "[1,2,3]", want: 0},
		{name: "not a list", raw: "1", want: 0},
		{name: "non numeric entry", raw: `[1,"x"]`, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(mcqMultipleQuestion(), tc.raw))
		})
	}
}

func TestEvaluate_FillBlank(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "all correct", raw: `{"1":"Paris","2":"Seine","3":"Eiffel"}`, want: 3},
		{name: "two of three ignoring case and whitespace", raw: `{"1":"paris  ","2":" SEINE","3":"Louvre"}`, want: 2},
		{name: "none placeholder is unmatched", raw: `{"1":"none","2":"null","3":"Eiffel"}`, want: 1},
		{name: "missing keys", raw: map[string]string{"2": "seine"}, want: 1},
		{name: "numeric answer", raw: map[string]any{"1": 5}, want: 0},
		{name: "list is malformed", raw: `["Paris"]`, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(fillBlankQuestion(), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_FillBlankTwoOfThree(t *testing.T) {
	q := fillBlankQuestion()
	q.Points = 1.5
	got := Evaluate(q, `{"1":"PARIS ","2":"seine","3":"wrong"}`)
	assert.InDelta(t, 1.5*2.0/3.0, got, 1e-9)
}

func TestEvaluate_Match(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "all pairs by id", raw: `[{"left_id":1,"right_id":1},{"left_id":2,"right_id":2},{"left_id":3,"right_id":3},{"left_id":4,"right_id":4}]`, want: 4},
		{name: "same right text is interchangeable", raw: `[{"left_id":2,"right_id":4},{"left_id":4,"right_id":2}]`, want: 2},
		{name: "wrong pairing", raw: `[{"left_id":1,"right_id":2},{"left_id":3,"right_id":3}]`, want: 1},
		{name: "unknown ids ignored", raw: `[{"left_id":1,"right_id":99},{"left_id":3,"right_id":3}]`, want: 1},
		{name: "left item counted once", raw: `[{"left_id":3,"right_id":3},{"left_id":3,"right_id":3}]`, want: 1},
		{name: "legacy keyed text", raw: `{"left_1":"Paris","right_1":" paris","left_2":"Rome","right_2":"Milan"}`, want: 1},
		{name: "scalar is malformed", raw: "12", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(matchQuestion(), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_DragZonePositionTolerance(t *testing.T) {
	// token 7 belongs at 0-based position 2; token 8 is not placed
	tests := []struct {
		name string
		zone int
		want float64
	}{
		{name: "0-based position", zone: 2, want: 1},
		{name: "1-based position", zone: 3, want: 1},
		{name: "one before", zone: 1, want: 0},
		{name: "two after", zone: 4, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := []map[string]any{{"zone": tc.zone, "token_id": 7}}
			assert.InDelta(t, tc.want, Evaluate(dragQuestion(models.QuestionDragZone), raw), 1e-9)
		})
	}
}

func TestEvaluate_DragText(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "all tokens 0-based", raw: `[{"zone":2,"token_id":7},{"zone":0,"token_id":8}]`, want: 2},
		{name: "all tokens 1-based", raw: `[{"zone":3,"token_id":7},{"zone":1,"token_id":8}]`, want: 2},
		{name: "string zones ignored", raw: `[{"zone":"2","token_id":7}]`, want: 0},
		{name: "keyed by text 1-based", raw: `{"3":"mitochondria","1":"nucleus"}`, want: 2},
		{name: "keyed text is exact", raw: `{"2":"Mitochondria"}`, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(dragQuestion(models.QuestionDragText), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_DropdownBlank(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "both correct", raw: `[{"blank_id":10,"option_id":100},{"blank_id":11,"option_id":110}]`, want: 2},
		{name: "one correct", raw: `[{"blank_id":10,"option_id":100},{"blank_id":11,"option_id":111}]`, want: 1},
		{name: "correct option for another blank", raw: `[{"blank_id":10,"option_id":110}]`, want: 0},
		{name: "first selection per blank wins", raw: `[{"blank_id":10,"option_id":101},{"blank_id":10,"option_id":100}]`, want: 0},
		{name: "repeated correct counted once", raw: `[{"blank_id":10,"option_id":100},{"blank_id":10,"option_id":100}]`, want: 1},
		{name: "entries without keys skipped", raw: `[{"blank":10},{"blank_id":11,"option_id":110}]`, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(dropdownQuestion(), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_StepSequenceIsStrictlyZeroBased(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "all in place", raw: `[{"step_id":21,"position":0},{"step_id":22,"position":1},{"step_id":23,"position":2}]`, want: 3},
		{name: "1-based positions do not count", raw: `[{"step_id":21,"position":1},{"step_id":22,"position":2},{"step_id":23,"position":3}]`, want: 0},
		{name: "two swapped", raw: `[{"step_id":21,"position":0},{"step_id":22,"position":2},{"step_id":23,"position":1}]`, want: 1},
		{name: "missing position skipped", raw: `[{"step_id":21},{"step_id":22,"position":1}]`, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(sequenceQuestion(), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_SentenceCompletion(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "both zones", raw: `[{"zone_id":"blank_0","token_id":31},{"zone_id":"blank_1","token_id":"32"}]`, want: 2},
		{name: "first placement per zone wins", raw: `[{"zone_id":"blank_0","token_id":32},{"zone_id":"blank_0","token_id":31}]`, want: 0},
		{name: "one zone", raw: `[{"zone_id":"blank_1","token_id":32}]`, want: 1},
		{name: "token outside blanks never matches", raw: `[{"zone_id":"blank_5","token_id":33}]`, want: 0},
		{name: "non numeric token invalidates", raw: `[{"zone_id":"blank_0","token_id":31},{"zone_id":"blank_1","token_id":"mat"}]`, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(sentenceQuestion(), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_SentenceCompletionWithoutPlaceholders(t *testing.T) {
	q := sentenceQuestion()
	q.QuestionHTML = "<p>No blanks here</p>"
	assert.Zero(t, Evaluate(q, `[{"zone_id":"blank_0","token_id":31}]`))
}

func TestEvaluate_Matrix(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "all four correct", raw: map[string]bool{"cell_1_1": true, "cell_1_2": false, "cell_2_1": false, "cell_2_2": true}, want: 2},
		{name: "three of four", raw: map[string]bool{"cell_1_1": true, "cell_1_2": false, "cell_2_1": true, "cell_2_2": true}, want: 1.5},
		{name: "all wrong", raw: map[string]bool{"cell_1_1": false, "cell_1_2": true, "cell_2_1": true, "cell_2_2": false}, want: 0},
		{name: "missing keys are mismatches", raw: map[string]bool{"cell_1_1": true}, want: 0.5},
		{name: "numeric flags", raw: `{"cell_1_1":1,"cell_1_2":0,"cell_2_1":0,"cell_2_2":1}`, want: 2},
		{name: "string flags do not count", raw: `{"cell_1_1":"true","cell_1_2":false,"cell_2_1":false,"cell_2_2":true}`, want: 1.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(matrixQuestion(), tc.raw), 1e-9)
		})
	}
}

// Internal callers hand over payloads already decoded with json.Unmarshal, so
// numbers arrive as float64. They must score like the JSON text they came from.
func TestEvaluate_DecodedPayloadsMatchJSONText(t *testing.T) {
	tests := []struct {
		name     string
		question *models.Question
		payload  string
		want     float64
	}{
		{name: "mcq multiple", question: mcqMultipleQuestion(), payload: `[1,2]`, want: 3},
		{name: "dropdown", question: dropdownQuestion(), payload: `[{"blank_id":10,"option_id":100},{"blank_id":11,"option_id":110}]`, want: 2},
		{name: "matrix", question: matrixQuestion(), payload: `{"cell_1_1":1,"cell_1_2":0,"cell_2_1":0,"cell_2_2":1}`, want: 2},
		{name: "step sequence", question: sequenceQuestion(), payload: `[{"step_id":21,"position":0},{"step_id":22,"position":1},{"step_id":23,"position":2}]`, want: 3},
		{name: "drag text", question: dragQuestion(models.QuestionDragText), payload: `[{"zone":2,"token_id":7},{"zone":0,"token_id":8}]`, want: 2},
		{name: "match", question: matchQuestion(), payload: `[{"left_id":1,"right_id":1},{"left_id":2,"right_id":2},{"left_id":3,"right_id":3},{"left_id":4,"right_id":4}]`, want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var decoded any
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &decoded))

			fromText := Evaluate(tc.question, tc.payload)
			assert.InDelta(t, tc.want, fromText, 1e-9)
			assert.InDelta(t, fromText, Evaluate(tc.question, decoded), 1e-9)
		})
	}

	t.Run("native ints", func(t *testing.T) {
		assert.Equal(t, 3.0, Evaluate(mcqMultipleQuestion(), []any{1, 2}))
		assert.Equal(t, 3.0, Evaluate(mcqMultipleQuestion(), []any{uint(2), int64(1)}))
	})
}

func TestEvaluate_Numerical(t *testing.T) {
	exactOnly := numericalQuestion()

	rangeAndExact := numericalQuestion()
	rangeAndExact.NumericalMinValue = floatPtr(5)
	rangeAndExact.NumericalMaxValue = floatPtr(15)

	tests := []struct {
		name string
		q    *models.Question
		raw  any
		want float64
	}{
		{name: "within tolerance", q: exactOnly, raw: "10.4", want: 1},
		{name: "outside tolerance", q: exactOnly, raw: "10.6", want: 0},
		{name: "number input", q: exactOnly, raw: 9.5, want: 1},
		{name: "padded string", q: exactOnly, raw: " 10.2 ", want: 1},
		{name: "not numeric", q: exactOnly, raw: "ten", want: 0},
		{name: "range rescues", q: rangeAndExact, raw: "12", want: 1},
		{name: "range bounds inclusive", q: rangeAndExact, raw: 15, want: 1},
		{name: "outside both", q: rangeAndExact, raw: "15.01", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.q, tc.raw))
		})
	}
}

func TestEvaluate_NumericalWithoutBounds(t *testing.T) {
	q := &models.Question{ID: 1, Type: models.QuestionNumerical, Points: 1, NumericalMinValue: floatPtr(1)}
	assert.Zero(t, Evaluate(q, "1"))
}

func TestEvaluate_TextBox(t *testing.T) {
	caseSensitive := textBoxQuestion()
	caseSensitive.CaseSensitive = true

	keywords := textBoxQuestion()
	keywords.AllowPartialMatch = true
	keywords.Keywords = "quick, fox, dog,"

	overlap := textBoxQuestion()
	overlap.AllowPartialMatch = true

	blankKeywords := textBoxQuestion()
	blankKeywords.AllowPartialMatch = true
	blankKeywords.Keywords = " , "

	tests := []struct {
		name string
		q    *models.Question
		raw  any
		want float64
	}{
		{name: "exact ignoring case", q: textBoxQuestion(), raw: "  the QUICK brown fox ", want: 4},
		{name: "no partial credit by default", q: textBoxQuestion(), raw: "quick brown fox", want: 0},
		{name: "case sensitive mismatch", q: caseSensitive, raw: "the quick brown fox", want: 0},
		{name: "case sensitive match", q: caseSensitive, raw: "The quick brown fox", want: 4},
		{name: "two of three keywords", q: keywords, raw: "a Quick red fox", want: 4 * 2.0 / 3.0},
		{name: "no keyword found", q: keywords, raw: "a cat", want: 0},
		{name: "word overlap above half", q: overlap, raw: "quick brown fox jumps", want: 3},
		{name: "word overlap at half", q: overlap, raw: "quick fox", want: 0},
		{name: "blank keyword list uses word overlap", q: blankKeywords, raw: "quick brown fox jumps", want: 3},
		{name: "json wrapped text", q: textBoxQuestion(), raw: datatypes.JSON(`"The quick brown fox"`), want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(tc.q, tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_Passage(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "only heavier sub-question correct", raw: `{"41":"2","42":[3,4]}`, want: 8 * 3.0 / 4.0},
		{name: "prefixed keys", raw: `{"sub_q_41":1,"sub_q_42":[4,3]}`, want: 8},
		{name: "only lighter sub-question correct", raw: map[string]any{"41": 1}, want: 2},
		{name: "second passage ignored", raw: `{"43":"x"}`, want: 0},
		{name: "malformed sub-answer scores that part 0", raw: `{"41":"moon","42":[3,4]}`, want: 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(passageQuestion(), tc.raw), 1e-9)
		})
	}
}

func TestEvaluate_PassageTextSubQuestions(t *testing.T) {
	q := &models.Question{
		ID: 13, Type: models.QuestionPassage, Points: 10,
		Passages: []models.Passage{{ID: 1, SubQuestions: []models.PassageSubQuestion{
			{ID: 1, QuestionType: models.SubQuestionTextShort, Points: 1, CorrectAnswer: "gravity"},
			{ID: 2, QuestionType: models.SubQuestionTextLong, Points: 4, CorrectAnswer: "moon, sun, earth, orbit"},
		}}},
	}

	got := Evaluate(q, map[string]any{
		"1": "Gravity",
		"2": "The Moon and the Sun pull the oceans",
	})
	// 1 + 4*2/4 = 3 of 5 sub points
	assert.InDelta(t, 10*3.0/5.0, got, 1e-9)
}

func TestEvaluate_ZeroChildrenScoresZero(t *testing.T) {
	for _, typ := range models.QuestionTypes {
		q := &models.Question{ID: 99, Type: typ, Points: 5, QuestionHTML: "{blank}"}
		assert.Zerof(t, Evaluate(q, `[1]`), "type %s", typ)
		assert.Zerof(t, Evaluate(q, `{"1":"a"}`), "type %s", typ)
	}
}

func TestEvaluate_UnsupportedAndNil(t *testing.T) {
	engine := NewEngine()
	assert.Zero(t, engine.Evaluate(&models.Question{ID: 1, Type: "essay", Points: 3}, "anything"))
	assert.Zero(t, engine.Evaluate(nil, "5"))
	assert.Zero(t, engine.EvaluateDefinition(nil, "5"))
}

func TestEvaluate_NegativePointsClampToZero(t *testing.T) {
	q := mcqSingleQuestion()
	q.Points = -2
	assert.Zero(t, Evaluate(q, "5"))
}

type recordingObserver struct {
	parseFailures  int
	misconfigured  int
	recovered      []any
	panicOnMisconf bool
}

func (o *recordingObserver) ParseFailed(Header, string) { o.parseFailures++ }

func (o *recordingObserver) MisconfiguredQuestion(Header, string) {
	o.misconfigured++
	if o.panicOnMisconf {
		panic("observer exploded")
	}
}

func (o *recordingObserver) Recovered(_ Header, v any) { o.recovered = append(o.recovered, v) }

func TestEngine_ReportsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	engine := NewEngine(WithObserver(obs))

	engine.Evaluate(mcqSingleQuestion(), "not-an-id")
	engine.Evaluate(mcqSingleQuestion(), "")
	engine.Evaluate(&models.Question{Type: models.QuestionMatch, Points: 1}, `[{"left_id":1,"right_id":1}]`)

	assert.Equal(t, 1, obs.parseFailures)
	assert.Equal(t, 1, obs.misconfigured)
	assert.Empty(t, obs.recovered)
}

func TestEngine_RecoversFromPanics(t *testing.T) {
	obs := &recordingObserver{panicOnMisconf: true}
	engine := NewEngine(WithObserver(obs))

	score := engine.Evaluate(&models.Question{ID: 1, Type: "essay", Points: 3}, "x")

	assert.Zero(t, score)
	assert.Len(t, obs.recovered, 1)
}

func TestCompile_DoesNotAliasQuestion(t *testing.T) {
	q := matrixQuestion()
	def := Compile(q).(Matrix)

	q.MatrixRows[0].ID = 77
	q.MatrixCells[0].IsCorrect = false

	assert.Equal(t, []uint{1, 2}, def.RowIDs)
	assert.True(t, def.Cells[CellKey{RowID: 1, ColumnID: 1}])
}

func TestCompile_SingleChoiceUsesFirstCorrectBySequence(t *testing.T) {
	q := mcqSingleQuestion()
	q.Choices = append(q.Choices, models.Choice{ID: 2, Sequence: 9, IsCorrect: true})

	def := Compile(q).(SingleChoice)

	assert.True(t, def.HasCorrect)
	assert.Equal(t, uint(5), def.CorrectID)
}
