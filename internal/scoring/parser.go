package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// parseStatus classifies a submitted payload before scoring.
type parseStatus int

const (
	unanswered parseStatus = iota
	malformed
	answered
)

func (s parseStatus) String() string {
	switch s {
	case unanswered:
		return "unanswered"
	case malformed:
		return "malformed"
	default:
		return "answered"
	}
}

// decodeRaw normalizes a raw answer into plain values: string, json.Number,
// bool, []any or map[string]any. Strings holding JSON are decoded; strings that
// are not JSON are kept as text.
func decodeRaw(raw any) (any, parseStatus) {
	switch v := raw.(type) {
	case nil:
		return nil, unanswered
	case string:
		return decodeString(v)
	case []byte:
		return decodeString(string(v))
	case json.RawMessage:
		return decodeString(string(v))
	case datatypes.JSON:
		return decodeString(string(v))
	case json.Number:
		return v, answered
	case bool:
		return v, answered
	case float64:
		return numberFromFloat(v)
	case float32:
		return numberFromFloat(float64(v))
	case int:
		return json.Number(strconv.FormatInt(int64(v), 10)), answered
	case int64:
		return json.Number(strconv.FormatInt(v, 10)), answered
	case int32:
		return json.Number(strconv.FormatInt(int64(v), 10)), answered
	case uint:
		return json.Number(strconv.FormatUint(uint64(v), 10)), answered
	case uint64:
		return json.Number(strconv.FormatUint(v, 10)), answered
	case uint32:
		return json.Number(strconv.FormatUint(uint64(v), 10)), answered
	case []any, map[string]any:
		// leaves of already decoded input may be float64 or int; re-decode so
		// they arrive as json.Number like every other path
		b, err := json.Marshal(v)
		if err != nil {
			return nil, malformed
		}
		value, err := decodeJSON(string(b))
		if err != nil {
			return nil, malformed
		}
		return decodedContainer(value)
	default:
		// typed slices, maps and structs from internal callers
		b, err := json.Marshal(v)
		if err != nil {
			return nil, malformed
		}
		return decodeString(string(b))
	}
}

func decodeString(s string) (any, parseStatus) {
	trimmed := strings.TrimSpace(s)
	if isBlankText(trimmed) {
		return nil, unanswered
	}
	value, err := decodeJSON(trimmed)
	if err != nil {
		return s, answered
	}
	switch x := value.(type) {
	case string:
		// double encoded payloads arrive as a JSON string holding JSON
		return decodeString(x)
	case []any, map[string]any:
		return decodedContainer(x)
	}
	return decodeRaw(value)
}

// decodedContainer reports an empty list or object as unanswered.
func decodedContainer(value any) (any, parseStatus) {
	switch x := value.(type) {
	case []any:
		if len(x) == 0 {
			return nil, unanswered
		}
	case map[string]any:
		if len(x) == 0 {
			return nil, unanswered
		}
	}
	return value, answered
}

func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errTrailingData
	}
	return value, nil
}

var errTrailingData = errors.New("trailing data after JSON value")

func numberFromFloat(f float64) (any, parseStatus) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, malformed
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), answered
}

// isBlankText matches the placeholders forms send for "no answer".
func isBlankText(s string) bool {
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "null", "none":
		return true
	}
	return false
}

// toID converts a JSON number or numeric string to a record id.
func toID(v any) (uint, bool) {
	n, ok := toInt(v, true)
	if !ok || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

// toInt accepts integral JSON numbers, and numeric strings when allowStrings is set.
func toInt(v any, allowStrings bool) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int64(f), true
	case string:
		if !allowStrings {
			return 0, false
		}
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// toText renders a scalar as the text a participant would have typed.
func toText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// isFalsy mirrors the values form widgets use for an empty selection.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

// ===== PER-KIND PARSERS =====

func parseChoiceID(raw any) (uint, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return 0, status
	}
	id, ok := toID(value)
	if !ok {
		return 0, malformed
	}
	return id, answered
}

func parseChoiceSet(raw any) (map[uint]struct{}, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	list, ok := value.([]any)
	if !ok {
		return nil, malformed
	}
	selected := make(map[uint]struct{}, len(list))
	for _, item := range list {
		if isFalsy(item) {
			continue
		}
		id, ok := toID(item)
		if !ok {
			return nil, malformed
		}
		selected[id] = struct{}{}
	}
	if len(selected) == 0 {
		return nil, unanswered
	}
	return selected, answered
}

// parseBlankAnswers returns blank number (as text) to submitted text.
func parseBlankAnswers(raw any) (map[string]string, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, malformed
	}
	answers := make(map[string]string, len(obj))
	for key, v := range obj {
		text, ok := toText(v)
		if !ok {
			continue
		}
		answers[strings.TrimSpace(key)] = text
	}
	return answers, answered
}

type idPair struct {
	LeftID  uint
	RightID uint
}

// matchAnswer holds either id pairs or the legacy left_{id}/right_{id} text form.
type matchAnswer struct {
	Pairs  []idPair
	Keyed  map[string]string
	Legacy bool
}

func parseMatch(raw any) (matchAnswer, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return matchAnswer{}, status
	}
	switch v := value.(type) {
	case []any:
		var out matchAnswer
		for _, entry := range v {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			left, lok := toID(obj["left_id"])
			right, rok := toID(obj["right_id"])
			if !lok || !rok {
				continue
			}
			out.Pairs = append(out.Pairs, idPair{LeftID: left, RightID: right})
		}
		return out, answered
	case map[string]any:
		out := matchAnswer{Legacy: true, Keyed: make(map[string]string, len(v))}
		for key, item := range v {
			if text, ok := item.(string); ok {
				out.Keyed[key] = text
			}
		}
		return out, answered
	}
	return matchAnswer{}, malformed
}

// placementAnswer holds zone to token id placements, or the keyed form mapping
// a zone number (as text) to the token text.
type placementAnswer struct {
	ByZone map[int64]uint
	ByText map[string]string
	Keyed  bool
}

func parsePlacements(raw any) (placementAnswer, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return placementAnswer{}, status
	}
	switch v := value.(type) {
	case []any:
		out := placementAnswer{ByZone: make(map[int64]uint, len(v))}
		for _, entry := range v {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			zone, zok := toInt(obj["zone"], false)
			tokenID, tok := toInt(obj["token_id"], false)
			if !zok || !tok || tokenID <= 0 {
				continue
			}
			out.ByZone[zone] = uint(tokenID)
		}
		return out, answered
	case map[string]any:
		out := placementAnswer{Keyed: true, ByText: make(map[string]string, len(v))}
		for key, item := range v {
			if text, ok := item.(string); ok {
				out.ByText[strings.TrimSpace(key)] = text
			}
		}
		return out, answered
	}
	return placementAnswer{}, malformed
}

type dropdownSelection struct {
	BlankID  uint
	OptionID uint
}

func parseDropdown(raw any) ([]dropdownSelection, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	list, ok := value.([]any)
	if !ok {
		return nil, malformed
	}
	out := make([]dropdownSelection, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		blankID, bok := toID(obj["blank_id"])
		optionID, ook := toID(obj["option_id"])
		if !bok || !ook {
			continue
		}
		out = append(out, dropdownSelection{BlankID: blankID, OptionID: optionID})
	}
	return out, answered
}

// parseSequence returns step id to submitted 0-based position.
func parseSequence(raw any) (map[uint]int64, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	list, ok := value.([]any)
	if !ok {
		return nil, malformed
	}
	out := make(map[uint]int64, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		stepID, sok := toID(obj["step_id"])
		position, pok := toInt(obj["position"], false)
		if !sok || !pok {
			continue
		}
		out[stepID] = position
	}
	return out, answered
}

type zonePlacement struct {
	ZoneID  string
	TokenID uint
}

func parseZonePlacements(raw any) ([]zonePlacement, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	list, ok := value.([]any)
	if !ok {
		return nil, malformed
	}
	out := make([]zonePlacement, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		zoneRaw, hasZone := obj["zone_id"]
		tokenRaw, hasToken := obj["token_id"]
		if !hasZone || !hasToken {
			continue
		}
		zone, ok := toText(zoneRaw)
		if !ok {
			continue
		}
		// a token id that is not a number invalidates the whole submission
		tokenID, ok := toID(tokenRaw)
		if !ok {
			return nil, malformed
		}
		out = append(out, zonePlacement{ZoneID: zone, TokenID: tokenID})
	}
	return out, answered
}

// parseMatrix returns cell key to submitted flag. Only booleans and 0/1 count
// as flags; anything else is dropped and scored as a mismatch.
func parseMatrix(raw any) (map[string]bool, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, malformed
	}
	out := make(map[string]bool, len(obj))
	for key, item := range obj {
		switch v := item.(type) {
		case bool:
			out[key] = v
		case json.Number:
			switch v.String() {
			case "1", "1.0":
				out[key] = true
			case "0", "0.0":
				out[key] = false
			}
		}
	}
	return out, answered
}

func parseNumber(raw any) (float64, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return 0, status
	}
	var f float64
	var err error
	switch v := value.(type) {
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, malformed
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed
	}
	return f, answered
}

// parseText keeps free text as typed; only a JSON string wrapper is removed.
func parseText(raw any) (string, parseStatus) {
	var text string
	switch v := raw.(type) {
	case nil:
		return "", unanswered
	case string:
		text = v
	case []byte, json.RawMessage, datatypes.JSON:
		b := toBytes(v)
		if len(bytes.TrimSpace(b)) == 0 {
			return "", unanswered
		}
		decoded, err := decodeJSON(string(b))
		if err != nil {
			text = string(b)
			break
		}
		if decoded == nil {
			return "", unanswered
		}
		s, ok := toText(decoded)
		if !ok {
			return "", malformed
		}
		text = s
	default:
		value, status := decodeRaw(raw)
		if status != answered {
			return "", status
		}
		s, ok := toText(value)
		if !ok {
			return "", malformed
		}
		text = s
	}
	if strings.TrimSpace(text) == "" {
		return "", unanswered
	}
	return text, answered
}

func toBytes(v any) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case json.RawMessage:
		return b
	case datatypes.JSON:
		return b
	}
	return nil
}

// parsePassage returns sub-question key to the still-raw sub-answer.
func parsePassage(raw any) (map[string]any, parseStatus) {
	value, status := decodeRaw(raw)
	if status != answered {
		return nil, status
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, malformed
	}
	return obj, answered
}
