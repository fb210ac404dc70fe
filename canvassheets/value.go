package canvassheets

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind discriminates the CellValue variants.
type Kind uint8

const (
	// KindEmpty is a blank cell.
	KindEmpty Kind = iota
	// KindNumber is an IEEE-754 double.
	KindNumber
	// KindString is text.
	KindString
	// KindBool is a boolean.
	KindBool
	// KindDate is a calendar date without a time component.
	KindDate
	// KindTime is a time of day without a date component.
	KindTime
	// KindError is the per-cell evaluation failure sentinel.
	KindError
)

// ErrorSentinel is the text every error cell renders and serializes as.
const ErrorSentinel = "#ERROR"

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// CellValue is the one scalar type flowing through the document model, the
// evaluator, and serialization. The zero value is an empty cell.
type CellValue struct {
	kind Kind
	num  float64
	str  string
	b    bool
	t    time.Time
}

// Number builds a number value.
func Number(v float64) CellValue {
	return CellValue{kind: KindNumber, num: v}
}

// String builds a text value.
func String(s string) CellValue {
	return CellValue{kind: KindString, str: s}
}

// Bool builds a boolean value.
func Bool(b bool) CellValue {
	return CellValue{kind: KindBool, b: b}
}

// Date builds a calendar date value.
func Date(year int, month time.Month, day int) CellValue {
	return CellValue{kind: KindDate, t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf builds a date value from the calendar day of t.
func DateOf(t time.Time) CellValue {
	return Date(t.Year(), t.Month(), t.Day())
}

// Clock builds a time-of-day value.
func Clock(hour, min, sec int) CellValue {
	return CellValue{kind: KindTime, t: time.Date(0, time.January, 1, hour, min, sec, 0, time.UTC)}
}

// Empty builds a blank value.
func Empty() CellValue {
	return CellValue{}
}

// ErrorCell builds the evaluation failure sentinel.
func ErrorCell() CellValue {
	return CellValue{kind: KindError}
}

// ParseDate parses an ISO-8601 calendar date ("2024-01-15").
func ParseDate(s string) (CellValue, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CellValue{}, newError(CodeDomainError, "invalid date %q", s)
	}
	return DateOf(t), nil
}

// ParseClock parses an ISO-8601 time of day ("13:45:30").
func ParseClock(s string) (CellValue, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return CellValue{}, newError(CodeDomainError, "invalid time %q", s)
	}
	return Clock(t.Hour(), t.Minute(), t.Second()), nil
}

// Normalize converts a raw mutation-time input into a CellValue. Go numerics
// become numbers, time.Time becomes a date, nil stays empty, and unknown
// types stringify.
func Normalize(raw any) CellValue {
	switch x := raw.(type) {
	case nil:
		return Empty()
	case CellValue:
		return x
	case bool:
		return Bool(x)
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case string:
		return String(x)
	case time.Time:
		return DateOf(x)
	default:
		return String(fmt.Sprint(raw))
	}
}

// Kind returns the variant tag.
func (v CellValue) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the value is blank.
func (v CellValue) IsEmpty() bool {
	return v.kind == KindEmpty
}

// IsError reports whether the value is the failure sentinel.
func (v CellValue) IsError() bool {
	return v.kind == KindError
}

// Float returns the numeric payload. The bool is false for every other kind.
func (v CellValue) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Unwrap returns the raw Go value: float64 for numbers, string for text,
// bool for booleans, the ISO text form for dates and times, nil for empty,
// and the #ERROR sentinel string for errors.
func (v CellValue) Unwrap() any {
	switch v.kind {
	case KindEmpty:
		return nil
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTime:
		return v.t.Format(clockLayout)
	case KindError:
		return ErrorSentinel
	}
	return nil
}

// String renders the value for display: blank for empty, ISO forms for
// dates and times, the sentinel for errors.
func (v CellValue) String() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTime:
		return v.t.Format(clockLayout)
	case KindError:
		return ErrorSentinel
	}
	return ""
}

// cellValueJSON is the serialized {type, value} union. Empty cells omit the
// value; the error variant is not part of the union and serializes as the
// sentinel string.
type cellValueJSON struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// MarshalJSON encodes the tagged {type, value} form. Non-finite numbers
// serialize their value as the strings "NaN", "+Inf", or "-Inf" since JSON
// has no tokens for them.
func (v CellValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindEmpty:
		return json.Marshal(cellValueJSON{Type: "empty"})
	case KindNumber:
		var val any = v.num
		switch {
		case math.IsNaN(v.num):
			val = "NaN"
		case math.IsInf(v.num, 1):
			val = "+Inf"
		case math.IsInf(v.num, -1):
			val = "-Inf"
		}
		return json.Marshal(cellValueJSON{Type: "number", Value: val})
	case KindString:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{Type: "string", Value: v.str})
	case KindBool:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value bool   `json:"value"`
		}{Type: "bool", Value: v.b})
	case KindDate:
		return json.Marshal(cellValueJSON{Type: "date", Value: v.t.Format(dateLayout)})
	case KindTime:
		return json.Marshal(cellValueJSON{Type: "time", Value: v.t.Format(clockLayout)})
	case KindError:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{Type: "string", Value: ErrorSentinel})
	}
	return nil, newError(CodeUnknown, "unknown cell value kind %d", v.kind)
}

// UnmarshalJSON decodes the tagged {type, value} form.
func (v *CellValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "empty", "":
		*v = Empty()
		return nil
	case "number":
		var f float64
		if err := json.Unmarshal(raw.Value, &f); err == nil {
			*v = Number(f)
			return nil
		}
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*v = Number(math.NaN())
		case "+Inf":
			*v = Number(math.Inf(1))
		case "-Inf":
			*v = Number(math.Inf(-1))
		default:
			return newError(CodeDomainError, "invalid number value %q", s)
		}
		return nil
	case "string":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case "bool":
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case "date":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		parsed, err := ParseDate(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	case "time":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		parsed, err := ParseClock(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	default:
		return newError(CodeDomainError, "unknown cell value type %q", raw.Type)
	}
}
