package jsontree

import (
	"errors"
	"strconv"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid JSON")

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// Value is a parsed JSON value. Object fields keep document order.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Items  []Value
	Fields []Field
}

type Field struct {
	Key   string
	Value Value
}

func Null() Value { return Value{Kind: KindNull} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }
func Object(fields ...Field) Value {
	return Value{Kind: KindObject, Fields: fields}
}

// Parse decodes raw into a Value. A repeated object key keeps its first
// position and its last value.
func Parse(raw string) (Value, error) {
	if !gjson.Valid(raw) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.Parse(raw)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		items := []Value{}
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, fromResult(v))
			return true
		})
		return List(items...)
	}

	fields := []Field{}
	seen := map[string]int{}
	r.ForEach(func(k, v gjson.Result) bool {
		if i, ok := seen[k.Str]; ok {
			fields[i].Value = fromResult(v)
			return true
		}
		seen[k.Str] = len(fields)
		fields = append(fields, Field{Key: k.Str, Value: fromResult(v)})
		return true
	})
	return Object(fields...)
}

// Text is the display form of a scalar; empty for null and containers.
func (v Value) Text() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// IsBlank reports whether v renders as the not-applicable placeholder.
func (v Value) IsBlank() bool {
	return v.Kind == KindNull || (v.Kind == KindString && v.Str == "")
}
