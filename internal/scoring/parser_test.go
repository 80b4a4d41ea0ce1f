package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodeRaw(t *testing.T) {
	tests := []struct {
		name       string
		raw        any
		wantStatus parseStatus
		want       any
	}{
		{name: "nil", raw: nil, wantStatus: unanswered},
		{name: "empty string", raw: "", wantStatus: unanswered},
		{name: "whitespace", raw: " \t\n", wantStatus: unanswered},
		{name: "null text", raw: "NULL", wantStatus: unanswered},
		{name: "json null", raw: json.RawMessage("null"), wantStatus: unanswered},
		{name: "empty list", raw: "[]", wantStatus: unanswered},
		{name: "empty object", raw: datatypes.JSON("{}"), wantStatus: unanswered},
		{name: "plain text kept", raw: "hello world", wantStatus: answered, want: "hello world"},
		{name: "number text", raw: "42", wantStatus: answered, want: json.Number("42")},
		{name: "int", raw: 7, wantStatus: answered, want: json.Number("7")},
		{name: "float", raw: 2.5, wantStatus: answered, want: json.Number("2.5")},
		{name: "double encoded", raw: `"[1,2]"`, wantStatus: answered, want: []any{json.Number("1"), json.Number("2")}},
		{name: "trailing data is text", raw: "1 2", wantStatus: answered, want: "1 2"},
		{name: "nan", raw: math.NaN(), wantStatus: malformed},
		{name: "inf", raw: math.Inf(1), wantStatus: malformed},
		{name: "channel cannot marshal", raw: make(chan int), wantStatus: malformed},
		{name: "typed map", raw: map[string]int{"a": 1}, wantStatus: answered, want: map[string]any{"a": json.Number("1")}},
		{name: "decoded list leaves", raw: []any{1, 2.0, "x"}, wantStatus: answered, want: []any{json.Number("1"), json.Number("2"), "x"}},
		{name: "decoded object leaves", raw: map[string]any{"cell_1_1": float64(1), "n": []any{int64(3)}}, wantStatus: answered,
			want: map[string]any{"cell_1_1": json.Number("1"), "n": []any{json.Number("3")}}},
		{name: "decoded empty list", raw: []any{}, wantStatus: unanswered},
		{name: "decoded empty object", raw: map[string]any{}, wantStatus: unanswered},
		{name: "decoded nan leaf", raw: []any{math.NaN()}, wantStatus: malformed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, status := decodeRaw(tc.raw)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantStatus == answered {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestToID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want uint
		ok   bool
	}{
		{name: "number", in: json.Number("12"), want: 12, ok: true},
		{name: "integral float", in: json.Number("12.0"), want: 12, ok: true},
		{name: "fraction", in: json.Number("12.5"), ok: false},
		{name: "numeric string", in: " 9 ", want: 9, ok: true},
		{name: "zero", in: json.Number("0"), ok: false},
		{name: "negative", in: "-3", ok: false},
		{name: "word", in: "abc", ok: false},
		{name: "bool", in: true, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toID(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestParseChoiceSet(t *testing.T) {
	selected, status := parseChoiceSet(`[3, "4", false, 0, 3]`)
	require.Equal(t, answered, status)
	assert.Equal(t, map[uint]struct{}{3: {}, 4: {}}, selected)

	_, status = parseChoiceSet(`[0, "", null]`)
	assert.Equal(t, unanswered, status)

	_, status = parseChoiceSet(`{"a":1}`)
	assert.Equal(t, malformed, status)
}

func TestParsePlacements(t *testing.T) {
	answer, status := parsePlacements(`[{"zone":1,"token_id":5},{"zone":"2","token_id":6},{"zone":3},"x",{"zone":4,"token_id":"7"}]`)
	require.Equal(t, answered, status)
	assert.False(t, answer.Keyed)
	assert.Equal(t, map[int64]uint{1: 5}, answer.ByZone)

	answer, status = parsePlacements(`{" 1 ":"alpha","2":3}`)
	require.Equal(t, answered, status)
	assert.True(t, answer.Keyed)
	assert.Equal(t, map[string]string{"1": "alpha"}, answer.ByText)
}

func TestParseText(t *testing.T) {
	tests := []struct {
		name       string
		raw        any
		want       string
		wantStatus parseStatus
	}{
		{name: "plain string kept verbatim", raw: `  "quoted" text `, want: `  "quoted" text `, wantStatus: answered},
		{name: "json string in bytes", raw: []byte(`"hello"`), want: "hello", wantStatus: answered},
		{name: "json number in jsonb", raw: datatypes.JSON(`12.5`), want: "12.5", wantStatus: answered},
		{name: "raw text in bytes", raw: []byte("not json"), want: "not json", wantStatus: answered},
		{name: "jsonb null", raw: datatypes.JSON(`null`), wantStatus: unanswered},
		{name: "blank string", raw: "   ", wantStatus: unanswered},
		{name: "object is malformed", raw: json.RawMessage(`{"a":1}`), wantStatus: malformed},
		{name: "number value", raw: 3, want: "3", wantStatus: answered},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, status := parseText(tc.raw)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	got, status := parseNumber("1e3")
	require.Equal(t, answered, status)
	assert.Equal(t, 1000.0, got)

	_, status = parseNumber("NaN")
	assert.Equal(t, malformed, status)

	_, status = parseNumber(`[1]`)
	assert.Equal(t, malformed, status)
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"paris", "france"}, splitKeywords(" Paris, ,FRANCE,", false))
	assert.Equal(t, []string{"Paris"}, splitKeywords("Paris", true))
	assert.Empty(t, splitKeywords(" , ", false))
}
