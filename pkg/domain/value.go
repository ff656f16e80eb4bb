package domain

import "time"

// ValueKind discriminates the concrete type held by a Value.
type ValueKind string

const (
	KindNone   ValueKind = ""
	KindInt    ValueKind = "int"
	KindString ValueKind = "str"
	KindBool   ValueKind = "bool"
	KindDate   ValueKind = "date"
)

// DateLayout is the fixed day/month/year display form for dates.
const DateLayout = "02/01/2006"

// Value is a typed slot value. The zero Value means "unset", which is a
// meaningful state: unset slots are re-prompted on the next turn.
//
// The envelope encoding (kind tag + per-kind field) keeps types stable
// across a JSON round trip through a state store.
type Value struct {
	Kind ValueKind `json:"t,omitempty"`
	Int  int       `json:"int,omitempty"`
	Str  string    `json:"str,omitempty"`
	Bool bool      `json:"bool,omitempty"`
	Date time.Time `json:"date,omitzero"`
}

// IsSet reports whether the slot holds a value.
func (v Value) IsSet() bool { return v.Kind != KindNone }

func IntValue(n int) Value        { return Value{Kind: KindInt, Int: n} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// EntityValues maps slot name to its (possibly unset) value. Invariant:
// the keys are always exactly the keys of the owning branch's schema.
type EntityValues map[string]Value

// Clone returns an independent copy.
func (ev EntityValues) Clone() EntityValues {
	out := make(EntityValues, len(ev))
	for k, v := range ev {
		out[k] = v
	}
	return out
}

// Complete reports whether every slot is set.
func (ev EntityValues) Complete() bool {
	for _, v := range ev {
		if !v.IsSet() {
			return false
		}
	}
	return true
}
