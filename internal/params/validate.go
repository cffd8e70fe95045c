package params

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNilSchema is returned by Validate when called without a schema.
	// It signals a programming error in the caller, not bad input.
	ErrNilSchema = errors.New("params: nil schema")

	ErrEmptyValue    = errors.New("value is empty")
	ErrNotNumeric    = errors.New("value is not a base-10 integer")
	ErrOutOfRange    = errors.New("value is out of range")
	ErrRuleViolation = errors.New("value does not satisfy rule")
)

// Rejection records a declared parameter that was present but unreadable.
type Rejection struct {
	Name string
	Err  error
}

// Validate extracts the declared parameters from raw.
//
// Only the first occurrence of a name is considered. Undeclared names are
// ignored. Declared names whose value cannot be coerced are left out of the
// result and listed in Values.Rejections. The returned error is non-nil only
// for a nil schema.
func Validate(schema *Schema, raw RawQuery) (*Values, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	values := &Values{entries: make(map[string]value, schema.Len())}
	seen := make(map[string]struct{}, schema.Len())

	for _, pair := range raw {
		field, ok := schema.fields[pair.Name]
		if !ok {
			continue
		}
		if _, dup := seen[pair.Name]; dup {
			continue
		}
		seen[pair.Name] = struct{}{}

		v, err := schema.coerce(field, pair.Value)
		if err != nil {
			values.rejected = append(values.rejected, Rejection{Name: pair.Name, Err: err})
			continue
		}
		values.entries[pair.Name] = v
	}

	return values, nil
}

func (s *Schema) coerce(f Field, raw string) (value, error) {
	v := value{kind: f.Kind}

	switch f.Kind.Type {
	case TypeString:
		v.str = raw
	case TypeUnsigned:
		n, err := parseUnsigned(raw, f.Kind.Bits)
		if err != nil {
			return value{}, err
		}
		v.u = n
	case TypeSigned:
		n, err := parseSigned(raw, f.Kind.Bits)
		if err != nil {
			return value{}, err
		}
		v.i = n
	}

	if f.Rule != "" {
		if err := s.validate.Var(v.native(), f.Rule); err != nil {
			return value{}, fmt.Errorf("%w: %w", ErrRuleViolation, err)
		}
	}

	return v, nil
}

// parseUnsigned accepts only ASCII digits. strconv alone would let through
// a leading '+' and underscores are never valid here.
func parseUnsigned(raw string, bits int) (uint64, error) {
	if raw == "" {
		return 0, ErrEmptyValue
	}
	if !allDigits(raw) {
		return 0, ErrNotNumeric
	}

	n, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return 0, ErrOutOfRange
	}
	return n, nil
}

func parseSigned(raw string, bits int) (int64, error) {
	if raw == "" {
		return 0, ErrEmptyValue
	}

	digits := raw
	if digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" || !allDigits(digits) {
		return 0, ErrNotNumeric
	}

	n, err := strconv.ParseInt(raw, 10, bits)
	if err != nil {
		return 0, ErrOutOfRange
	}
	return n, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
