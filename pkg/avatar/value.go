package avatar

import (
	"fmt"
	"strconv"
)

// Kind identifies the payload type of a tracked value.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindBool
)

// String returns the OSC-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	}
	return "invalid"
}

// Value is a tracked quantity that is either unknown or known with a typed
// payload. The remote side only transmits deltas, so every parameter starts
// unknown; nothing may read an unknown value as if it were a default.
type Value struct {
	kind  Kind
	known bool
	i     int
	f     float64
	b     bool
}

// Unknown returns the not-yet-observed value.
func Unknown() Value { return Value{} }

// Int returns a known integer value.
func Int(v int) Value { return Value{kind: KindInt, known: true, i: v} }

// Float returns a known float value.
func Float(v float64) Value { return Value{kind: KindFloat, known: true, f: v} }

// Bool returns a known boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, known: true, b: v} }

// Known reports whether the value has been observed.
func (v Value) Known() bool { return v.known }

// Kind returns the payload kind. Only meaningful for known values.
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the integer payload. ok is false if the value is unknown or
// not an integer.
func (v Value) AsInt() (int, bool) {
	if !v.known || v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float payload. ok is false if the value is unknown or
// not a float.
func (v Value) AsFloat() (float64, bool) {
	if !v.known || v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the boolean payload. ok is false if the value is unknown or
// not a boolean.
func (v Value) AsBool() (bool, bool) {
	if !v.known || v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Equal reports whether two values are the same observation. Two unknown
// values are equal; an unknown value never equals a known one.
func (v Value) Equal(o Value) bool {
	if v.known != o.known {
		return false
	}
	if !v.known {
		return true
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	default:
		return v.b == o.b
	}
}

// Payload returns the raw payload for JSON export, or nil when unknown.
func (v Value) Payload() any {
	if !v.known {
		return nil
	}
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.b
	}
}

func (v Value) String() string {
	if !v.known {
		return "unknown"
	}
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return strconv.FormatBool(v.b)
	}
}

// params is the parameter table: a closed map of recognized names, pre-seeded
// unknown, plus an open map of custom names populated on first observation.
// A name lives in exactly one of the two maps.
type params struct {
	recognized map[string]Value
	custom     map[string]Value
}

func newParams(customDefaults map[string]Value) *params {
	p := &params{
		recognized: make(map[string]Value, len(recognizedKinds)),
		custom:     make(map[string]Value, len(customDefaults)),
	}
	for name := range recognizedKinds {
		p.recognized[name] = Unknown()
	}
	for name, v := range customDefaults {
		if IsRecognized(name) {
			p.recognized[name] = v
			continue
		}
		p.custom[name] = v
	}
	return p
}

// Get returns the tracked value for name. Names never observed read as
// unknown.
func (p *params) Get(name string) Value {
	if IsRecognized(name) {
		return p.recognized[name]
	}
	return p.custom[name]
}

// set stores v under name and reports whether name is a custom parameter.
func (p *params) set(name string, v Value) (custom bool) {
	if IsRecognized(name) {
		p.recognized[name] = v
		return false
	}
	p.custom[name] = v
	return true
}

// resetToBaseline overwrites the assumed-baseline subset of recognized
// parameters, leaving everything else untouched. Used when an avatar change
// or reset means the remote side will not re-send resting state.
func (p *params) resetToBaseline() {
	for name, v := range baselineDefaults() {
		p.recognized[name] = v
	}
}

func kindError(name string, got Kind, want Kind) error {
	return fmt.Errorf("parameter %s: got %s payload, want %s", name, got, want)
}
