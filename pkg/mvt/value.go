package mvt

import "strconv"

// Type identifies the canonical variant held by a [Value].
type Type uint8

// Canonical value variants. Every wire encoding maps onto exactly one of
// these: all numeric forms (float, double, int, uint, sint) become
// TypeNumber, text becomes TypeString, and booleans become TypeBoolean.
// TypeUnknown covers wire encodings this decoder does not recognize, and
// TypeNull covers value messages with no payload at all.
const (
	TypeNull Type = iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeUnknown
)

var typeNames = map[Type]string{
	TypeNull:    "null",
	TypeBoolean: "boolean",
	TypeNumber:  "number",
	TypeString:  "string",
	TypeUnknown: "unknown",
}

// String returns the lowercase tag name for the type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// MarshalJSON encodes the type as its tag name.
func (t Type) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, t.String()), nil
}

// Value is a tagged union over the property value variants a layer's value
// table can carry. Exactly one of Bool, Num, or Str is meaningful, selected
// by Type; for TypeNull and TypeUnknown none of them are.
type Value struct {
	Type Type
	Bool bool
	Num  float64
	Str  string
}

// Null returns the null value.
func Null() Value { return Value{Type: TypeNull} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Type: TypeBoolean, Bool: b} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Type: TypeNumber, Num: f} }

// String returns a text value.
func String(s string) Value { return Value{Type: TypeString, Str: s} }

// Unknown returns the fallback value for unrecognized wire encodings.
func Unknown() Value { return Value{Type: TypeUnknown} }

// Text renders the value as its canonical string form: "null" for null
// values, "true"/"false" for booleans, shortest decimal text for numbers,
// and the raw text for strings. Unknown values render as "unknown".
//
// Note that values of different types can render identically (boolean true
// and the string "true" both yield "true"); consumers that bucket values by
// their text form will merge such values into one bucket.
func (v Value) Text() string {
	switch v.Type {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	case TypeNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case TypeString:
		return v.Str
	default:
		return "unknown"
	}
}
