package params

import (
	"math"
	"sort"
)

type value struct {
	kind Kind
	str  string
	u    uint64
	i    int64
}

func (v value) native() any {
	switch v.kind.Type {
	case TypeUnsigned:
		return v.u
	case TypeSigned:
		return v.i
	default:
		return v.str
	}
}

// Values holds the parameters that passed validation for one request.
//
// Every name in it was declared in the schema. Lookups for a name that is
// absent, or that was declared with a different kind, report false. A nil
// *Values behaves as empty.
type Values struct {
	entries  map[string]value
	rejected []Rejection
}

// String returns the value of a string parameter.
func (v *Values) String(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	e, ok := v.entries[name]
	if !ok || e.kind.Type != TypeString {
		return "", false
	}
	return e.str, true
}

// Uint returns the value of an unsigned integer parameter.
func (v *Values) Uint(name string) (uint64, bool) {
	if v == nil {
		return 0, false
	}
	e, ok := v.entries[name]
	if !ok || e.kind.Type != TypeUnsigned {
		return 0, false
	}
	return e.u, true
}

// Int returns the value of a signed integer parameter.
func (v *Values) Int(name string) (int64, bool) {
	if v == nil {
		return 0, false
	}
	e, ok := v.entries[name]
	if !ok || e.kind.Type != TypeSigned {
		return 0, false
	}
	return e.i, true
}

// Uint8 returns an unsigned parameter that fits in a uint8.
func (v *Values) Uint8(name string) (uint8, bool) {
	n, ok := v.Uint(name)
	if !ok || n > math.MaxUint8 {
		return 0, false
	}
	return uint8(n), true
}

// Uint16 returns an unsigned parameter that fits in a uint16.
func (v *Values) Uint16(name string) (uint16, bool) {
	n, ok := v.Uint(name)
	if !ok || n > math.MaxUint16 {
		return 0, false
	}
	return uint16(n), true
}

// Uint32 returns an unsigned parameter that fits in a uint32.
func (v *Values) Uint32(name string) (uint32, bool) {
	n, ok := v.Uint(name)
	if !ok || n > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

// Int16 returns a signed parameter that fits in an int16.
func (v *Values) Int16(name string) (int16, bool) {
	n, ok := v.Int(name)
	if !ok || n < math.MinInt16 || n > math.MaxInt16 {
		return 0, false
	}
	return int16(n), true
}

// Int32 returns a signed parameter that fits in an int32.
func (v *Values) Int32(name string) (int32, bool) {
	n, ok := v.Int(name)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

// Has reports whether name passed validation.
func (v *Values) Has(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.entries[name]
	return ok
}

// Len reports the number of validated parameters.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Names returns the validated parameter names, sorted.
func (v *Values) Names() []string {
	if v == nil {
		return nil
	}
	names := make([]string, 0, len(v.entries))
	for name := range v.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rejections lists declared parameters that were present but failed
// coercion, in query order.
func (v *Values) Rejections() []Rejection {
	if v == nil {
		return nil
	}
	out := make([]Rejection, len(v.rejected))
	copy(out, v.rejected)
	return out
}

// Map returns a copy of the validated values keyed by name. Values are
// string, uint64 or int64 depending on the declared kind.
func (v *Values) Map() map[string]any {
	if v == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(v.entries))
	for name, e := range v.entries {
		out[name] = e.native()
	}
	return out
}
